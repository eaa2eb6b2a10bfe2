package cli

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"task-tracker/internal/api"
	"task-tracker/internal/config"
	"task-tracker/internal/domain"
	"task-tracker/internal/errors"
	"task-tracker/internal/logging"
)

// APIFactory opens the API once the configuration is resolved
type APIFactory func(ctx context.Context, cfg *config.Config) (api.API, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd        *cobra.Command
	app        *App
	newAPI     APIFactory
	loader     *config.Loader
	errors     *ErrorHandler
	configFile string
}

// NewRootCommand creates the root cobra command with global flags. The API
// is opened through newAPI only when a task command actually runs.
func NewRootCommand(newAPI APIFactory, fs afero.Fs, out, errOut io.Writer) *RootCommand {
	root := &RootCommand{
		app:    NewAppWithConfig(nil, config.NewConfig(), fs, out, errOut),
		newAPI: newAPI,
		loader: config.NewLoader(),
		errors: NewErrorHandler(),
	}

	root.cmd = &cobra.Command{
		Use:   "task-cli",
		Short: "A command-line task tracker",
		Long: `task-cli keeps a personal task list in a local JSON file (or SQLite database).

FEATURES:
  • Add, update, mark and delete tasks
  • Priorities, tags and deadlines
  • Filter, search and statistics
  • Weekly and productivity reports in Markdown, burn-down chart
  • Export to JSON, CSV, Markdown, YAML or a text table; import from JSON or CSV

EXAMPLES:
  task-cli add "Write the release notes" -p high -d 2024-07-01 -t work
  task-cli list todo
  task-cli print
  task-cli mark-done 3
  task-cli tag add 3 urgent
  task-cli deadline 3 clear
  task-cli filter --priority high --overdue
  task-cli search "release" --limit 5
  task-cli report weekly
  task-cli export -f csv -o tasks.csv

CONFIGURATION:
  Priority order: command-line flags > environment > config file > .env > defaults

    TASK_STORAGE_DIR                      Store directory (default: .)
    TASK_STORAGE_FILENAME                 Store file name (default: tasks.json)
    TASK_STORAGE_BACKEND                  json or sqlite (default: json)
    TASK_VALIDATION_DESCRIPTION_MAX_LENGTH
                                          Longest accepted description (default: 500)
    TASK_DISPLAY_DATE_FORMAT              Go layout for dates (default: 2006-01-02)
    TASK_APPLICATION_TIMEOUT              Per-command timeout (default: 30s)
    TASK_LOGGING_LEVEL                    Log level (default: warn)
    TASK_COMMANDS_EXPORT_DEFAULT_FORMAT   Export format (default: json)
    TASK_DEBUG                            Enable debug logging`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig(cmd)
		},
	}
	root.cmd.SetOut(out)
	root.cmd.SetErr(errOut)

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// SetArgs overrides the arguments, mainly for tests
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// Execute runs the root command and reports any error on the error stream
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command under ctx
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	err := r.cmd.ExecuteContext(ctx)
	if r.app.api != nil {
		if closeErr := r.app.api.Close(); closeErr != nil && err == nil {
			err = errors.NewStorageError("close task store", closeErr)
		}
		r.app.api = nil
	}
	if err != nil {
		r.errors.Report(r.app.errOut, r.app.view, err)
	}
	return err
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.StringVar(&r.configFile, "config", "", "YAML config file")
	flags.String("storage-dir", "", "Store directory (overrides TASK_STORAGE_DIR)")
	flags.String("storage-file", "", "Store file name (overrides TASK_STORAGE_FILENAME)")
	flags.String("backend", "", "Storage backend: json or sqlite (overrides TASK_STORAGE_BACKEND)")
	flags.Duration("timeout", 0, "Per-command timeout (overrides TASK_APPLICATION_TIMEOUT)")
	flags.BoolP("verbose", "v", false, "Enable debug logging (overrides TASK_APPLICATION_VERBOSE)")
	flags.String("log-level", "", "Log level (overrides TASK_LOGGING_LEVEL)")
}

// getConfigOverrides collects the global flags that were set explicitly
func (r *RootCommand) getConfigOverrides(cmd *cobra.Command) *config.ConfigOverrides {
	flags := cmd.Flags()
	overrides := &config.ConfigOverrides{}

	if flags.Changed("storage-dir") {
		v, _ := flags.GetString("storage-dir")
		overrides.StorageDir = &v
	}
	if flags.Changed("storage-file") {
		v, _ := flags.GetString("storage-file")
		overrides.StorageFilename = &v
	}
	if flags.Changed("backend") {
		v, _ := flags.GetString("backend")
		overrides.StorageBackend = &v
	}
	if flags.Changed("timeout") {
		v, _ := flags.GetDuration("timeout")
		overrides.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		overrides.Verbose = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		overrides.LogLevel = &v
	}
	return overrides
}

// loadConfig resolves the configuration and configures logging before any command runs
func (r *RootCommand) loadConfig(cmd *cobra.Command) error {
	loader := r.loader
	if r.configFile != "" {
		loader = loader.WithConfigFile(r.configFile)
	}
	cfg, err := loader.LoadWithOverrides(r.getConfigOverrides(cmd))
	if err != nil {
		return errors.NewInvalidInputError("config", r.configFile, err.Error())
	}
	if err := logging.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Application.Verbose); err != nil {
		return errors.NewInvalidInputError("logging.level", cfg.Logging.Level, err.Error())
	}

	r.app.config = cfg
	r.app.view = newView(r.app.out, cfg.Display.TableWidth)
	logging.Debugf("config loaded: backend=%s path=%s", cfg.Storage.Backend, cfg.StoragePath())
	return nil
}

// run wraps a handler: it opens the API on first use and bounds the
// handler by the configured timeout.
func (r *RootCommand) run(handler Command) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if r.app.api == nil {
			a, err := r.newAPI(cmd.Context(), r.app.config)
			if err != nil {
				return err
			}
			r.app.api = a
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), r.app.config.GetTimeout())
		defer cancel()

		if logging.DebugEnabled() {
			logging.Debugf("running %s %s", cmd.CommandPath(), strings.Join(args, " "))
		}
		return handler.Execute(ctx, args)
	}
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	add := NewAddCommand(r.app)
	addCmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Add a new task",
		Long: `Add a new task. The arguments are joined to form the description.

Examples:
  task-cli add "Buy groceries"
  task-cli add Plan the sprint -p high -d 2024-07-01 -t work,planning`,
		Args: cobra.MinimumNArgs(1),
		RunE: r.run(add),
	}
	addCmd.Flags().StringVarP(&add.priority, "priority", "p", "", "Priority: low, medium or high (default medium)")
	addCmd.Flags().StringVarP(&add.deadline, "deadline", "d", "", "Deadline as YYYY-MM-DD or RFC 3339")
	addCmd.Flags().StringSliceVarP(&add.tags, "tags", "t", nil, "Comma-separated tags")

	listCmd := &cobra.Command{
		Use:       "list [todo|in-progress|done]",
		Short:     "List tasks, optionally by status",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: statusNames(),
		RunE:      r.run(NewListCommand(r.app)),
	}

	printCmd := &cobra.Command{
		Use:   "print [todo|in-progress|done]",
		Short: "Print tasks as a table",
		Long: `Displays tasks in a table.

Examples:
  task-cli print           # Print all tasks
  task-cli print todo      # Print only todo tasks`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: statusNames(),
		RunE:      r.run(NewPrintCommand(r.app)),
	}

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single task",
		Args:  cobra.ExactArgs(1),
		RunE:  r.run(NewShowCommand(r.app)),
	}

	update := NewUpdateCommand(r.app)
	updateCmd := &cobra.Command{
		Use:   "update <id> [description]",
		Short: "Update a task",
		Long: `Update a task. Only the given fields change.

Examples:
  task-cli update 1 "New description"
  task-cli update 1 -p low -d clear
  task-cli update 1 -t home,errands`,
		Args: cobra.MinimumNArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			update.status = optionalString(cmd, "status")
			update.priority = optionalString(cmd, "priority")
			update.deadline = optionalString(cmd, "deadline")
			update.tags = nil
			if cmd.Flags().Changed("tags") {
				tags, _ := cmd.Flags().GetStringSlice("tags")
				update.tags = &tags
			}
		},
		RunE: r.run(update),
	}
	updateCmd.Flags().StringP("status", "s", "", "New status")
	updateCmd.Flags().StringP("priority", "p", "", "New priority")
	updateCmd.Flags().StringP("deadline", "d", "", "New deadline, or clear")
	updateCmd.Flags().StringSliceP("tags", "t", nil, "Replace the tags")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Long:  "Delete a task. This operation cannot be undone and the id is never reused.",
		Args:  cobra.ExactArgs(1),
		RunE:  r.run(NewDeleteCommand(r.app)),
	}

	markInProgressCmd := &cobra.Command{
		Use:   "mark-in-progress <id>",
		Short: "Mark a task as in progress",
		Args:  cobra.ExactArgs(1),
		RunE:  r.run(NewMarkCommand(r.app, domain.StatusInProgress)),
	}

	markDoneCmd := &cobra.Command{
		Use:   "mark-done <id>",
		Short: "Mark a task as done",
		Args:  cobra.ExactArgs(1),
		RunE:  r.run(NewMarkCommand(r.app, domain.StatusDone)),
	}

	priorityCmd := &cobra.Command{
		Use:   "set-priority <id> <low|medium|high>",
		Short: "Set the priority of a task",
		Args:  cobra.ExactArgs(2),
		RunE:  r.run(NewPriorityCommand(r.app)),
	}

	tagCmd := &cobra.Command{
		Use:   "tag",
		Short: "Add or remove task tags",
		Long: `Add or remove a tag on a task.

Examples:
  task-cli tag add 1 work
  task-cli tag remove 1 work`,
	}
	tagCmd.AddCommand(
		&cobra.Command{
			Use:   "add <id> <tag>",
			Short: "Add a tag to a task",
			Args:  cobra.ExactArgs(2),
			RunE:  r.run(NewTagCommand(r.app, false)),
		},
		&cobra.Command{
			Use:   "remove <id> <tag>",
			Short: "Remove a tag from a task",
			Args:  cobra.ExactArgs(2),
			RunE:  r.run(NewTagCommand(r.app, true)),
		},
	)

	deadlineCmd := &cobra.Command{
		Use:   "deadline <id> <date|clear>",
		Short: "Set or clear a task deadline",
		Long: `Set a deadline as YYYY-MM-DD (local midnight) or an RFC 3339 timestamp.
The words clear, none and null remove the deadline.

Examples:
  task-cli deadline 1 2024-12-31
  task-cli deadline 1 clear`,
		Args: cobra.ExactArgs(2),
		RunE: r.run(NewDeadlineCommand(r.app)),
	}

	filter := NewFilterCommand(r.app)
	filterCmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter tasks by several criteria",
		Long: `Filter tasks. Every given criterion must match.

Examples:
  task-cli filter --priority high
  task-cli filter --tag work --status todo
  task-cli filter --overdue
  task-cli filter --due-today`,
		Args: cobra.NoArgs,
		RunE: r.run(filter),
	}
	filterCmd.Flags().StringVarP(&filter.req.Status, "status", "s", "", "Filter by status")
	filterCmd.Flags().StringVarP(&filter.req.Priority, "priority", "p", "", "Filter by priority")
	filterCmd.Flags().StringVarP(&filter.req.Tag, "tag", "t", "", "Filter by tag")
	filterCmd.Flags().BoolVar(&filter.req.Overdue, "overdue", false, "Only overdue tasks")
	filterCmd.Flags().BoolVar(&filter.req.DueToday, "due-today", false, "Only tasks due today")

	search := NewSearchCommand(r.app)
	searchCmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Search task descriptions",
		Long: `Search task descriptions, ignoring case. Results are ordered by most
recently updated first.

Examples:
  task-cli search report
  task-cli search meeting --status todo --limit 5`,
		RunE: r.run(search),
	}
	searchCmd.Flags().StringVarP(&search.status, "status", "s", "", "Only tasks in this status")
	searchCmd.Flags().IntVarP(&search.limit, "limit", "l", 0, "Maximum number of results (0 for all)")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task statistics",
		Args:  cobra.NoArgs,
		RunE:  r.run(NewStatsCommand(r.app)),
	}

	export := NewExportCommand(r.app)
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks",
		Long: `Export every task as JSON, CSV, Markdown, YAML or a text table.

Without --output the export is written to stdout. Without --format the format
comes from the output file extension, else from the configured default.

Examples:
  task-cli export -f csv -o tasks.csv
  task-cli export -f markdown > tasks.md
  task-cli export -f table`,
		Args: cobra.NoArgs,
		RunE: r.run(export),
	}
	exportCmd.Flags().StringVarP(&export.format, "format", "f", "", "json, csv, markdown, yaml or table")
	exportCmd.Flags().StringVarP(&export.output, "output", "o", "", "Output file")

	imp := NewImportCommand(r.app)
	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import tasks from a JSON or CSV file",
		Long: `Import tasks. Every item becomes a new task with a fresh id; invalid
items are reported and skipped.

Examples:
  task-cli import backup.json
  task-cli import tasks.txt --format csv`,
		Args: cobra.ExactArgs(1),
		RunE: r.run(imp),
	}
	importCmd.Flags().StringVarP(&imp.format, "format", "f", "", "json or csv (default from the file extension)")

	report := NewReportCommand(r.app)
	reportCmd := &cobra.Command{
		Use:   "report [weekly|productivity|burn-down]",
		Short: "Generate a report",
		Long: `Generate a weekly or productivity report in Markdown, or a burn-down chart.

Examples:
  task-cli report weekly
  task-cli report productivity --save
  task-cli report --type burn-down
  task-cli report weekly -o reports/week.md`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{reportWeekly, reportProductivity, reportBurnDown},
		RunE:      r.run(report),
	}
	reportCmd.Flags().StringVarP(&report.kind, "type", "t", "", "Report type: weekly, productivity or burn-down (default weekly)")
	reportCmd.Flags().StringVarP(&report.output, "output", "o", "", "Write the report to this file")
	reportCmd.Flags().BoolVar(&report.save, "save", false, "Write the report to task-report-<type>-<date>.md")

	r.cmd.AddCommand(
		addCmd,
		listCmd,
		printCmd,
		showCmd,
		updateCmd,
		deleteCmd,
		markInProgressCmd,
		markDoneCmd,
		priorityCmd,
		tagCmd,
		deadlineCmd,
		filterCmd,
		searchCmd,
		statsCmd,
		exportCmd,
		importCmd,
		reportCmd,
	)
}

func optionalString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func statusNames() []string {
	names := make([]string, len(domain.Statuses))
	for i, s := range domain.Statuses {
		names[i] = s.String()
	}
	return names
}
