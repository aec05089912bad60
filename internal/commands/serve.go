package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tempus/internal/api"
	"github.com/balkashynov/tempus/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task store over HTTP",
	Long: `Serve the task store as a JSON API with a server-sent event stream at /api/events.

The listen address comes from TEMPUS_HTTP_HOST and TEMPUS_HTTP_PORT
(default 127.0.0.1:3100) unless --addr is given.`,
	Args: cobra.NoArgs,
	RunE: withStore(func(cmd *cobra.Command, args []string, s *store.Store) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = env.Addr()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return api.NewServer(s, logger).ListenAndServe(ctx, addr)
	}),
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address, host:port")
}
