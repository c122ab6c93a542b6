// Package serve implements `tablero serve`
package serve

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/config"
	"github.com/thenoetrevino/tablero/internal/server"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local board over HTTP",
		Long: `Serve the configured local store (SQLite or file) over the REST API used
by remote clients:

  GET    /columns
  GET    /cards
  POST   /cards
  DELETE /cards/{id}
  GET    /cardsOrder
  PATCH  /cardsOrder
  GET    /metrics

Point other machines at it with TABLERO_SERVER_URL=http://host:port.
`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default from config, 127.0.0.1:7420)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	formatter := cli.FormatterFromCmd(cmd)

	cfg, err := config.Load()
	if err != nil {
		return formatter.Fail(cli.ExitError, "CONFIG_ERROR", err)
	}
	// the server always serves local storage
	cfg.Server.URL = ""
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Run(ctx, cfg, func(srv *server.Server) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tablero serving on http://%s\n", srv.Addr())
	})
}

// Run opens the configured store and serves it until ctx is cancelled.
// ready is called once the listener is bound.
func Run(ctx context.Context, cfg *config.Config, ready func(*server.Server)) error {
	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(context.Background()); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	srv, err := server.NewServer(cfg.Server.Addr, application.Store)
	if err != nil {
		return err
	}
	if ready != nil {
		ready(srv)
	}
	return srv.Start(ctx)
}
