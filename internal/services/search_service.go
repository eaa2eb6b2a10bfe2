package services

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/repository"
	"task-tracker/internal/validation"
)

// searchServiceImpl implements the SearchService interface
type searchServiceImpl struct {
	repo          repository.TaskRepository
	taskValidator *validation.TaskValidator
}

// NewSearchService creates a new SearchService instance
func NewSearchService(repo repository.TaskRepository) SearchService {
	return &searchServiceImpl{
		repo:          repo,
		taskValidator: validation.NewTaskValidator(),
	}
}

// Search validates req and runs it against the whole collection
func (s *searchServiceImpl) Search(ctx context.Context, req SearchRequest) ([]domain.Task, error) {
	criteria := domain.SearchCriteria{
		Keyword: strings.TrimSpace(req.Keyword),
		Limit:   req.Limit,
	}
	if req.Status != "" {
		status, err := s.taskValidator.ParseStatus(req.Status)
		if err != nil {
			return nil, errors.NewValidationError("invalid status", err)
		}
		criteria.Status = &status
	}

	tasks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.SearchTasks(tasks, criteria), nil
}

// SearchTasks keeps the tasks whose description contains the keyword
// (case-insensitively) and whose status matches, most recently updated
// first. Equal timestamps fall back to ascending id.
func (s *searchServiceImpl) SearchTasks(tasks []domain.Task, criteria domain.SearchCriteria) []domain.Task {
	keyword := foldCase(strings.TrimSpace(criteria.Keyword))

	results := repository.Select(tasks, func(t domain.Task) bool {
		if criteria.Status != nil && t.Status != *criteria.Status {
			return false
		}
		return keyword == "" || strings.Contains(foldCase(t.Description), keyword)
	})

	sort.SliceStable(results, func(i, j int) bool {
		if !results[i].UpdatedAt.Equal(results[j].UpdatedAt) {
			return results[i].UpdatedAt.After(results[j].UpdatedAt)
		}
		return results[i].ID < results[j].ID
	})

	if criteria.Limit > 0 && len(results) > criteria.Limit {
		results = results[:criteria.Limit]
	}
	return results
}

// foldCase applies full Unicode case folding.
func foldCase(s string) string {
	return cases.Fold().String(s)
}
