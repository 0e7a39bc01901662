package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"habitdash/internal/config"
	"habitdash/internal/dash"
	"habitdash/internal/format"
	"habitdash/internal/remote"
	"habitdash/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	APIURL     string
	Timeout    time.Duration
	LogLevel   string
	LogFile    string
	PrettyJSON bool
	Format     string

	cfg     config.Config
	logOut  io.WriteCloser
	logger  *slog.Logger
	tuiMode bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "habitdash",
		Short:        "Personal goals and daily tasks dashboard (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  habitdash

  # Open straight on a category tab (shortcut for: habitdash tui --tab health)
  habitdash health

  # Scriptable commands
  habitdash goals list --category study
  habitdash tasks add --title "Call client" --time 09:30

  # Run the reference backend
  habitdash serve --addr :8080 --database habitdash.sqlite
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app, "")
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.resolve(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		app.closeLog()
		return nil
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigPath, "config", envOr("HABITDASH_CONFIG", config.DefaultPath()), "Path to the YAML config file")
	pf.StringVar(&app.APIURL, "api-url", "", "Base URL of the goals/tasks endpoint (overrides config)")
	pf.DurationVar(&app.Timeout, "timeout", 0, "Timeout for each remote call (overrides config)")
	pf.StringVar(&app.LogLevel, "log-level", "", "Log level: DEBUG|INFO|WARN|ERROR (overrides config)")
	pf.StringVar(&app.LogFile, "log-file", "", "Write logs to this file (the TUI discards logs otherwise)")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	pf.StringVar(&app.Format, "format", envOr("HABITDASH_FORMAT", "json"), "Output format (json|yaml)")

	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newGoalsCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newProgressCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newReportCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newServeCmd(app))

	return cmd
}

// resolve merges config sources: flags win over env and file, which win over defaults.
func (app *App) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIURL = app.APIURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = app.Timeout
	}
	if flags.Changed("log-level") {
		if _, err := config.ParseLevel(app.LogLevel); err != nil {
			return writeErr(cmd, err)
		}
		cfg.LogLevel = app.LogLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = app.LogFile
	}
	app.cfg = cfg
	return nil
}

// log returns the app logger. Logs go to --log-file when set; otherwise to
// stderr, except in the TUI, which owns the terminal and discards them.
func (app *App) log(cmd *cobra.Command) *slog.Logger {
	if app.logger != nil {
		return app.logger
	}
	var w io.Writer = cmd.ErrOrStderr()
	if strings.TrimSpace(app.cfg.LogFile) != "" || app.tuiMode {
		out, err := config.OpenLogFile(app.cfg.LogFile)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "log file: %v (logging to stderr)\n", err)
		} else {
			app.logOut = out
			w = out
		}
	}
	app.logger = config.NewLogger(w, app.cfg.LogLevel)
	return app.logger
}

func (app *App) closeLog() {
	if app.logOut != nil {
		_ = app.logOut.Close()
		app.logOut = nil
	}
}

func (app *App) client(cmd *cobra.Command) *remote.Client {
	c := remote.NewClient(app.cfg.APIURL, app.log(cmd))
	return c
}

func (app *App) controller(cmd *cobra.Command) *dash.Controller {
	return dash.NewController(app.client(cmd), app.log(cmd), app.cfg.Timeout)
}

// requestContext bounds one-shot CLI reads by the configured timeout.
func (app *App) requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout := app.cfg.Timeout
	if timeout <= 0 {
		timeout = dash.DefaultTimeout
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

func newTUICmd(app *App) *cobra.Command {
	var tab string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app, tab)
		},
	}
	cmd.Flags().StringVar(&tab, "tab", "", "Initial tab ("+strings.Join(dash.Tabs(), "|")+")")
	return cmd
}

func runTUI(cmd *cobra.Command, app *App, tab string) error {
	tab = strings.TrimSpace(tab)
	if tab != "" && !dash.ValidTab(tab) {
		return writeErr(cmd, fmt.Errorf("unknown tab: %q (one of %s)", tab, strings.Join(dash.Tabs(), ", ")))
	}
	app.tuiMode = true
	return tui.Run(app.controller(cmd), tab)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
