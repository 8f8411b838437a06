package main

import (
	"encoding/json"
	"fmt"

	"github.com/Veraticus/scamguard/internal/cli"
	"github.com/Veraticus/scamguard/internal/config"
	"github.com/spf13/cobra"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [message...]",
		Short: "Analyze a message for scam indicators",
		Long: `Analyze a single message and print its risk report.

The message is taken from the arguments, or from stdin when no arguments
are given or the only argument is "-".`,
		Example: `  scamguard analyze "You won a lottery! Click here to claim"
  pbpaste | scamguard analyze -
  scamguard analyze --json "URGENT: verify your account"`,
		RunE: runAnalyze,
	}

	cmd.Flags().Bool("json", false, "Print the raw JSON report")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		return userFacing(err)
	}

	message, err := readMessage(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	detector := initDetector(ctx, cfg)

	report, err := detector.Analyze(ctx, message)
	if err != nil {
		return userFacing(err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	_, err = fmt.Fprintln(out, cli.RenderReport(report))
	return err
}
