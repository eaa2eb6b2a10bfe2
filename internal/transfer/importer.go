package transfer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/afero"

	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/services"
)

// columnAliases maps accepted CSV headers to the field they fill
var columnAliases = map[string]string{
	"description": "description",
	"describe":    "description",
	"deadline":    "deadline",
	"due":         "deadline",
	"priority":    "priority",
	"importance":  "priority",
	"tags":        "tags",
}

// importRecord is the lenient JSON shape read by Import. Fields other than
// these are ignored, so a JSON export can be imported back.
type importRecord struct {
	Description string          `json:"description"`
	Deadline    *string         `json:"deadline"`
	Priority    string          `json:"priority"`
	Tags        json.RawMessage `json:"tags"`
}

// Importer reads task files into create requests
type Importer struct {
	fs afero.Fs
}

// NewImporter creates an importer reading files through fs
func NewImporter(fs afero.Fs) *Importer {
	return &Importer{fs: fs}
}

// ImportFile reads path in format
func (i *Importer) ImportFile(path string, format Format) ([]services.CreateTaskRequest, error) {
	data, err := afero.ReadFile(i.fs, path)
	if err != nil {
		return nil, errors.NewStorageError("read import file", err)
	}
	return i.Import(bytes.NewReader(data), format)
}

// Import reads tasks from r. Unknown priorities are normalised to medium;
// descriptions and deadlines are validated later, per item, by the task service.
func (i *Importer) Import(r io.Reader, format Format) ([]services.CreateTaskRequest, error) {
	switch format {
	case FormatJSON:
		return i.importJSON(r)
	case FormatCSV:
		return i.importCSV(r)
	}
	return nil, errors.NewInvalidInputError("format", format, "must be one of: json, csv")
}

func (i *Importer) importJSON(r io.Reader) ([]services.CreateTaskRequest, error) {
	var records []importRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, errors.NewInvalidInputError("file", "json", "JSON file must contain an array of tasks: "+err.Error())
	}

	requests := make([]services.CreateTaskRequest, 0, len(records))
	for _, rec := range records {
		var tags []string
		if err := json.Unmarshal(rec.Tags, &tags); err != nil {
			tags = nil
		}
		deadline := ""
		if rec.Deadline != nil {
			deadline = *rec.Deadline
		}
		requests = append(requests, services.CreateTaskRequest{
			Description: rec.Description,
			Deadline:    deadline,
			Priority:    normalizePriority(rec.Priority),
			Tags:        tags,
		})
	}
	return requests, nil
}

func (i *Importer) importCSV(r io.Reader) ([]services.CreateTaskRequest, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.NewInvalidInputError("file", "csv", err.Error())
	}
	rows = dropBlankRows(rows)
	if len(rows) < 2 {
		return nil, errors.NewInvalidInputError("file", "csv", "CSV file must have at least a header and one data row")
	}

	columns := make(map[string]int)
	for idx, header := range rows[0] {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
		if field, ok := columnAliases[name]; ok {
			if _, seen := columns[field]; !seen {
				columns[field] = idx
			}
		}
	}

	cell := func(row []string, field string) string {
		idx, ok := columns[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	requests := make([]services.CreateTaskRequest, 0, len(rows)-1)
	for _, row := range rows[1:] {
		requests = append(requests, services.CreateTaskRequest{
			Description: cell(row, "description"),
			Deadline:    cell(row, "deadline"),
			Priority:    normalizePriority(cell(row, "priority")),
			Tags:        domain.NormalizeTags(strings.Split(cell(row, "tags"), ";")),
		})
	}
	return requests, nil
}

// normalizePriority maps anything outside the enumeration to medium
func normalizePriority(value string) string {
	if p, ok := domain.ParsePriority(value); ok {
		return p.String()
	}
	return domain.PriorityMedium.String()
}

func dropBlankRows(rows [][]string) [][]string {
	kept := rows[:0]
	for _, row := range rows {
		if strings.TrimSpace(strings.Join(row, "")) != "" {
			kept = append(kept, row)
		}
	}
	return kept
}
