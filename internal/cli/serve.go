package cli

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"habitdash/internal/server"
	"habitdash/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr, database string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference goals/tasks HTTP endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := app.log(cmd)
			if cmd.Flags().Changed("addr") {
				app.cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("database") {
				app.cfg.Server.Database = database
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := store.Open(ctx, app.cfg.Server.Database, log)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = st.Close() }()
			log.Info("store ready", "dialect", st.Dialect())

			if !strings.EqualFold(app.cfg.LogLevel, "DEBUG") {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := server.New(st, log, app.cfg.Timeout)
			if err := srv.Run(ctx, app.cfg.Server.Addr); err != nil && ctx.Err() == nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	cmd.Flags().StringVar(&database, "database", "", "SQLite file path or postgres:// URL")

	return cmd
}

