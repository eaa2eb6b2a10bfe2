package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/api"
	"task-tracker/internal/config"
	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
)

type rootHarness struct {
	root   *RootCommand
	mock   *mockAPI
	out    *bytes.Buffer
	errOut *bytes.Buffer
	opened int
	cfg    *config.Config
}

func newRootHarness(t *testing.T) *rootHarness {
	t.Helper()
	pinTime(t, testNow)

	h := &rootHarness{
		mock:   newMockAPI(),
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
	factory := func(ctx context.Context, cfg *config.Config) (api.API, error) {
		h.opened++
		h.cfg = cfg
		return h.mock, nil
	}
	h.root = NewRootCommand(factory, afero.NewMemMapFs(), h.out, h.errOut)
	h.root.loader = config.NewLoader().WithEnvFile("")
	return h
}

func (h *rootHarness) run(args ...string) error {
	h.root.SetArgs(args)
	return h.root.Execute()
}

func TestRootCommand_AddCreatesTask(t *testing.T) {
	h := newRootHarness(t)

	require.NoError(t, h.run("add", "Write", "release", "notes", "-p", "high", "-t", "work,docs"))

	require.Len(t, h.mock.tasks, 1)
	task := h.mock.tasks[0]
	assert.Equal(t, "Write release notes", task.Description)
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	assert.Equal(t, []string{"work", "docs"}, task.Tags)
	assert.Contains(t, h.out.String(), "Task added successfully (ID: 1)")
	assert.Equal(t, 1, h.opened)
	assert.True(t, h.mock.closed)
}

func TestRootCommand_UpdateOnlySetsGivenFlags(t *testing.T) {
	h := newRootHarness(t)
	h.mock.seed(domain.Task{Description: "Existing", Priority: domain.PriorityLow})

	require.NoError(t, h.run("update", "1", "-p", "high"))

	req := h.mock.lastUpdate
	require.NotNil(t, req.Priority)
	assert.Equal(t, "high", *req.Priority)
	assert.Nil(t, req.Description)
	assert.Nil(t, req.Status)
	assert.Nil(t, req.Deadline)
	assert.Nil(t, req.Tags)
	assert.Contains(t, h.out.String(), "Task updated successfully (ID: 1)")
}

func TestRootCommand_ReportsErrors(t *testing.T) {
	h := newRootHarness(t)

	err := h.run("show", "9")

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	assert.Contains(t, h.errOut.String(), "❌ Error: task not found")
	assert.True(t, h.mock.closed)
}

func TestRootCommand_InvalidConfigDoesNotOpenStore(t *testing.T) {
	h := newRootHarness(t)

	err := h.run("--backend", "bogus", "list")

	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
	assert.Zero(t, h.opened)
	assert.Contains(t, h.errOut.String(), "❌ Error")
}

func TestRootCommand_GlobalFlagsReachConfig(t *testing.T) {
	h := newRootHarness(t)
	dir := t.TempDir()

	require.NoError(t, h.run("--storage-dir", dir, "--timeout", "5s", "list"))

	require.NotNil(t, h.cfg)
	assert.Equal(t, dir, h.cfg.Storage.Dir)
	assert.Equal(t, 5*time.Second, h.cfg.GetTimeout())
	assert.Contains(t, h.out.String(), "No tasks found")
}

func TestRootCommand_NoSubcommandShowsHelp(t *testing.T) {
	h := newRootHarness(t)

	require.NoError(t, h.run())

	assert.Contains(t, h.out.String(), "task-cli keeps a personal task list")
	assert.Zero(t, h.opened)
}
