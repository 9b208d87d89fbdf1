package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/barline/barline/pkg/bar"
	"github.com/barline/barline/pkg/bridge"
	"github.com/barline/barline/pkg/config"
	"github.com/barline/barline/pkg/ipc"
)

// newServeCmd creates the serve command, which runs the daemon in the
// foreground until interrupted.
func newServeCmd(socket *string) *cobra.Command {
	var (
		configPath string
		httpAddr   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the barline daemon",
		Long:  `Serve binds the per-user unix socket, owns the in-memory node store, and handles client commands until interrupted. With --http it also exposes a read-only inspection endpoint.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if level, err := cfg.Level(); err == nil && !cmd.Flags().Changed("verbose") {
				logger.SetLevel(level)
			}
			if *socket != "" {
				cfg.SocketPath = *socket
			}
			if httpAddr != "" {
				cfg.HTTPAddr = httpAddr
			}

			svc := bar.NewService(bridge.NewLogHandler(logger), logger)

			if cfg.HTTPAddr != "" {
				go func() {
					logger.Info("inspector listening", "addr", cfg.HTTPAddr)
					if err := http.ListenAndServe(cfg.HTTPAddr, ipc.NewInspector(svc)); err != nil {
						logger.Error("inspector stopped", "err", err)
					}
				}()
			}

			srv := ipc.NewServer(svc, logger)
			if err := srv.Listen(cfg.SocketPath); err != nil {
				return err
			}
			return srv.Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	cmd.Flags().StringVar(&httpAddr, "http", "", "serve the read-only HTTP inspector on this address")

	return cmd
}
