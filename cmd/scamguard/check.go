package main

import (
	"github.com/Veraticus/scamguard/internal/config"
	"github.com/Veraticus/scamguard/internal/tui"
	"github.com/Veraticus/scamguard/internal/tui/themes"
	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Interactively check messages",
		Long: `Open an interactive checker: paste a message, press enter and read the
report. Previous checks stay listed below the latest one.`,
		RunE: runCheck,
	}

	cmd.Flags().String("theme", "default", "Color theme (default, catppuccin)")
	cmd.Flags().Int("history", 10, "Number of past checks to keep on screen")

	return cmd
}

func runCheck(cmd *cobra.Command, _ []string) error {
	themeName, _ := cmd.Flags().GetString("theme")
	history, _ := cmd.Flags().GetInt("history")

	cfg, err := config.Load()
	if err != nil {
		return userFacing(err)
	}

	ctx := cmd.Context()
	return tui.Run(ctx,
		tui.WithAnalyzer(initDetector(ctx, cfg)),
		tui.WithTheme(themes.ByName(themeName)),
		tui.WithHistorySize(history),
	)
}
