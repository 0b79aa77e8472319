package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/vitals/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assessment HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = os.Getenv("VITALS_ADDR")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		srv := server.New(server.Config{
			Addr:     addr,
			Sessions: e.manager(),
			Events:   e.store.EventRepo(),
			Coach:    e.coach(ctx),
			Logger:   logger,
		})
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides VITALS_ADDR, default "+server.DefaultAddr+")")
}
