package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/scamguard/internal/cli"
	"github.com/Veraticus/scamguard/internal/config"
	"github.com/Veraticus/scamguard/internal/storage"
	"github.com/Veraticus/scamguard/internal/trainer"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the message classifier",
		Long: `Train the naive Bayes classifier on a labeled CSV dataset.

The dataset needs a "text" and a "label" column; labels are "scam" or
"not_scam". With --evaluate, a stratified hold-out split is scored first.
The final model is fitted on every example and written atomically, so an
existing artifact is only replaced by a complete one.`,
		Example: `  scamguard train --data scam_data.csv
  scamguard train --data scam_data.csv --out ./model.db --ngram-max 1`,
		RunE: runTrain,
	}

	cmd.Flags().String("data", "", "Labeled CSV dataset (default: scam_data.csv)")
	cmd.Flags().String("out", "", "Where to write the model artifact (default: configured model path)")
	cmd.Flags().Bool("evaluate", true, "Score a held-out split before the final fit")
	cmd.Flags().Bool("quiet", false, "Hide the progress bar")
	addTrainingFlags(cmd)

	return cmd
}

// trainingFlags maps viper keys to the flags shared by train and evaluate.
var trainingFlags = map[string]string{
	config.KeyDatasetPath: "data",
	config.KeyTestSize:    "test-size",
	config.KeySeed:        "seed",
	config.KeyMaxFeatures: "max-features",
	config.KeyNGramMax:    "ngram-max",
	config.KeyAlpha:       "alpha",
	config.KeyStopWords:   "stop-words",
}

// addTrainingFlags adds the hyperparameter flags shared by train and evaluate.
func addTrainingFlags(cmd *cobra.Command) {
	defaults := trainer.DefaultOptions()

	cmd.Flags().Float64("test-size", defaults.TestSize, "Fraction of each class held out for evaluation")
	cmd.Flags().Int64("seed", defaults.Seed, "Random seed for the evaluation split")
	cmd.Flags().Int("max-features", defaults.Classifier.MaxFeatures, "Vocabulary size limit")
	cmd.Flags().Int("ngram-max", defaults.Classifier.NGramMax, "Largest word n-gram (1-3)")
	cmd.Flags().Float64("alpha", defaults.Classifier.Alpha, "Additive smoothing")
	cmd.Flags().Bool("stop-words", defaults.Classifier.StopWords, "Drop English stop words")
}

func runTrain(cmd *cobra.Command, _ []string) error {
	evaluate, _ := cmd.Flags().GetBool("evaluate")
	quiet, _ := cmd.Flags().GetBool("quiet")
	out, _ := cmd.Flags().GetString("out")

	if err := bindFlags(cmd, trainingFlags); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return userFacing(err)
	}
	artifactPath := cfg.Model.Path
	if out != "" {
		artifactPath = config.ExpandPath(out)
	}

	opts := cfg.Training.TrainerOptions()
	opts.Evaluate = evaluate

	t, err := trainer.New(storage.NewArtifactStore(), opts)
	if err != nil {
		return userFacing(err)
	}

	w := cmd.OutOrStdout()
	var bar *progressbar.ProgressBar
	if !quiet {
		bar = newStageBar(w)
		t.OnProgress(func(stage trainer.Stage, step, total int) {
			bar.ChangeMax(total)
			bar.Describe(fmt.Sprintf("[cyan][bold]%s[reset]", stageDescription(stage)))
			if err := bar.Set(step - 1); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		})
	}

	interrupts := cli.NewInterruptHandler(w)
	ctx := interrupts.HandleInterrupts(cmd.Context(), "Training", "The existing model artifact was left untouched.")

	slog.Info("Training classifier",
		"data", cfg.Dataset.Path,
		"out", artifactPath,
		"evaluate", opts.Evaluate)

	result, err := t.Run(ctx, cfg.Dataset.Path, artifactPath)
	if err != nil {
		if interrupts.WasInterrupted() {
			return nil
		}
		return userFacing(err)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if result.Evaluation != nil {
		fmt.Fprintln(w, cli.RenderEvaluation(result.Evaluation))
	}
	_, err = fmt.Fprintln(w, cli.RenderTrainingResult(result))
	return err
}

func newStageBar(w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(5,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("[cyan][bold]Training...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

func stageDescription(stage trainer.Stage) string {
	switch stage {
	case trainer.StageLoad:
		return "Loading dataset..."
	case trainer.StageEvaluate:
		return "Evaluating on held-out split..."
	case trainer.StageFit:
		return "Fitting classifier..."
	case trainer.StageSave:
		return "Saving artifact..."
	case trainer.StageProbe:
		return "Checking sample messages..."
	default:
		return string(stage)
	}
}
