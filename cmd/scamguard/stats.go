package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/scamguard/internal/cli"
	"github.com/Veraticus/scamguard/internal/common"
	"github.com/Veraticus/scamguard/internal/config"
	"github.com/Veraticus/scamguard/internal/storage"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show detector and model statistics",
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return userFacing(err)
	}

	ctx := cmd.Context()
	detector := initDetector(ctx, cfg)

	info, err := storage.NewArtifactStore().Info(ctx, cfg.Model.Path)
	if err != nil {
		if !errors.Is(err, common.ErrModelUnavailable) {
			slog.Warn("Could not read model artifact", "path", cfg.Model.Path, "error", err)
		}
		info = nil
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderStatistics(detector.Statistics(), info))
	return err
}
