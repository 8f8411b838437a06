package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/scamguard/internal/api"
	"github.com/Veraticus/scamguard/internal/certs"
	"github.com/Veraticus/scamguard/internal/config"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis API",
		Long: `Serve the analysis API:

  POST /api/analyze       analyze {"message": "..."}
  GET  /api/health        liveness and model status
  GET  /api/stats         detector statistics
  POST /api/model/reload  reload the model artifact
  GET  /metrics           Prometheus metrics

With --tls a self-signed certificate for localhost and --addr is issued
into server.cert_dir and reused on later runs.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "127.0.0.1", "Address to listen on")
	cmd.Flags().Int("port", 5000, "Port to listen on")
	cmd.Flags().Bool("tls", false, "Serve HTTPS with a self-signed certificate")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := bindFlags(cmd, map[string]string{
		config.KeyServerAddr: "addr",
		config.KeyServerPort: "port",
		config.KeyServerTLS:  "tls",
	}); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return userFacing(err)
	}

	ctx := cmd.Context()
	detector := initDetector(ctx, cfg)

	slog.Info("🛡️  Starting scamguard API",
		"addr", cfg.Server.Address(),
		"model", cfg.Model.Path,
		"model_loaded", detector.ModelLoaded())

	srv := api.New(cfg.Server.Address(), detector)
	if cfg.Server.TLS {
		cert, err := certs.NewStore(cfg.Server.CertDir, cfg.Server.Addr).Certificate()
		if err != nil {
			return fmt.Errorf("failed to prepare TLS certificate: %w", err)
		}
		srv.EnableTLS(cert)
	}
	return srv.ListenAndServe(ctx)
}
