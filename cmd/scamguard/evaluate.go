package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/scamguard/internal/cli"
	"github.com/Veraticus/scamguard/internal/config"
	"github.com/Veraticus/scamguard/internal/dataset"
	"github.com/Veraticus/scamguard/internal/model"
	"github.com/Veraticus/scamguard/internal/trainer"
	"github.com/spf13/cobra"
)

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate the classifier on a held-out split",
		Long: `Fit the classifier on a stratified training split of the dataset and
report precision, recall and F1 on the held-out part. No artifact is written.`,
		RunE: runEvaluate,
	}

	cmd.Flags().String("data", "", "Labeled CSV dataset (default: scam_data.csv)")
	cmd.Flags().Bool("json", false, "Print the evaluation as JSON")
	addTrainingFlags(cmd)

	return cmd
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	if err := bindFlags(cmd, trainingFlags); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return userFacing(err)
	}

	examples, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return userFacing(err)
	}
	counts := dataset.Summary(examples)
	slog.Info("Loaded evaluation data",
		"path", cfg.Dataset.Path,
		"scam", counts[model.LabelScam],
		"not_scam", counts[model.LabelNotScam])

	t, err := trainer.New(nil, cfg.Training.TrainerOptions())
	if err != nil {
		return userFacing(err)
	}

	eval, err := t.Evaluate(cmd.Context(), examples)
	if err != nil {
		return userFacing(err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(eval)
	}
	_, err = fmt.Fprintln(out, cli.RenderEvaluation(eval))
	return err
}
