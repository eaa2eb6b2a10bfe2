package cli

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"task-tracker/internal/api"
	"task-tracker/internal/config"
	"task-tracker/internal/errors"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// Command represents a CLI command handler
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// App holds what every command handler needs: the API, the active
// configuration, the filesystem reports are written to and the output streams.
type App struct {
	api    api.API
	config *config.Config
	fs     afero.Fs
	out    io.Writer
	errOut io.Writer
	view   *view
}

// NewApp creates a CLI application instance with default configuration
func NewApp(api api.API, out, errOut io.Writer) *App {
	return NewAppWithConfig(api, config.NewConfig(), afero.NewOsFs(), out, errOut)
}

// NewAppWithConfig creates a CLI application instance with dependency injection
func NewAppWithConfig(api api.API, cfg *config.Config, fs afero.Fs, out, errOut io.Writer) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &App{
		api:    api,
		config: cfg,
		fs:     fs,
		out:    out,
		errOut: errOut,
		view:   newView(out, cfg.Display.TableWidth),
	}
}

func (a *App) formatDate(t time.Time) string {
	return t.Local().Format(a.config.Display.DateFormat)
}

func (a *App) formatDateTime(t time.Time) string {
	return t.Local().Format(a.config.Display.DateTimeFormat)
}

// parseTaskID converts a command argument to a task id.
func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidInputError("id", arg, "must be a positive integer")
	}
	return id, nil
}

func plural(n int, singular string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + singular + "s"
}
