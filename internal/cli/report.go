package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/scamguard/internal/model"
	"github.com/Veraticus/scamguard/internal/storage"
	"github.com/Veraticus/scamguard/internal/trainer"
	"github.com/charmbracelet/lipgloss"
)

// maxMessagePreview is the number of runes of the analyzed message shown in a
// report header.
const maxMessagePreview = 80

// RenderReport formats an analysis report for the terminal.
func RenderReport(report *model.AnalysisReport) string {
	var b strings.Builder

	level := riskStyle(report.Level).Render(strings.ToUpper(string(report.Level)))
	fmt.Fprintf(&b, "%s %s  %s\n", boldStyle.Render("Risk:"), level,
		mutedStyle.Render(fmt.Sprintf("(%.1f%%)", report.Score)))

	if report.ClassifierLabel != nil {
		fmt.Fprintf(&b, "%s %s %s\n", iconModel, boldStyle.Render(labelText(*report.ClassifierLabel)),
			mutedStyle.Render(fmt.Sprintf("(confidence %.1f%%)", report.ClassifierConfidence)))
	} else {
		fmt.Fprintf(&b, "%s %s\n", iconModel, mutedStyle.Render("classifier unavailable"))
	}
	fmt.Fprintf(&b, "%s\n", mutedStyle.Render(fmt.Sprintf("%d characters, links: %s",
		report.MessageLength, yesNo(report.HasLinkHint))))

	b.WriteString("\n")
	if len(report.Findings) == 0 {
		b.WriteString(safeStyle.Render(iconDone+" No scam indicators found") + "\n")
	} else {
		b.WriteString(boldStyle.Render(fmt.Sprintf("%s Indicators (%d)", iconSearch, len(report.Findings))) + "\n")
		for i, f := range report.Findings {
			sev := severityStyle(f.Severity).Render(fmt.Sprintf("[%s]", f.Severity))
			fmt.Fprintf(&b, "  %d. %s %s\n     %s\n", i+1, sev, boldStyle.Render(f.Type), f.Explanation)
		}
	}

	b.WriteString("\n" + boldStyle.Render("Recommendations") + "\n")
	for _, r := range report.Recommendations {
		fmt.Fprintf(&b, "  • %s\n", r)
	}

	b.WriteString("\n" + riskStyle(report.Level).Render(report.Summary))

	return box(iconSearch+" "+preview(report.OriginalMessage), b.String())
}

// RenderStatistics formats detector statistics and, when available, artifact
// details.
func RenderStatistics(stats model.Statistics, info *storage.ArtifactInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %d\n", boldStyle.Render("Patterns:"), stats.PatternCount)
	fmt.Fprintf(&b, "%s %s\n", boldStyle.Render("Categories:"), strings.Join(stats.Categories, ", "))

	levels := make([]string, len(stats.SeverityLevels))
	for i, s := range stats.SeverityLevels {
		levels[i] = string(s)
	}
	fmt.Fprintf(&b, "%s %s\n", boldStyle.Render("Severity levels:"), strings.Join(levels, ", "))

	if stats.ModelLoaded {
		fmt.Fprintf(&b, "%s %s\n", boldStyle.Render("Model:"), safeStyle.Render("loaded"))
	} else {
		fmt.Fprintf(&b, "%s %s\n", boldStyle.Render("Model:"), cautionStyle.Render("not loaded (pattern analysis only)"))
	}

	if info != nil {
		fmt.Fprintf(&b, "  %s %s\n", mutedStyle.Render("path:"), info.Path)
		fmt.Fprintf(&b, "  %s %s\n", mutedStyle.Render("trained:"), info.TrainedAt.Local().Format(time.DateTime))
		fmt.Fprintf(&b, "  %s %d\n", mutedStyle.Render("documents:"), info.Documents)
		fmt.Fprintf(&b, "  %s %d\n", mutedStyle.Render("vocabulary:"), info.VocabularySize)
		fmt.Fprintf(&b, "  %s max_features=%d ngram=1..%d alpha=%g stop_words=%t\n",
			mutedStyle.Render("options:"), info.Options.MaxFeatures, info.Options.NGramMax,
			info.Options.Alpha, info.Options.StopWords)
	}

	return box(iconChart+" Detector Statistics", strings.TrimRight(b.String(), "\n"))
}

// RenderEvaluation formats held-out evaluation metrics as a table.
func RenderEvaluation(eval *model.Evaluation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %.1f%%  %s\n\n", boldStyle.Render("Accuracy:"), eval.Accuracy*100,
		mutedStyle.Render(fmt.Sprintf("(train %d, test %d)", eval.TrainSize, eval.TestSize)))

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		cellStyle.Width(12).Render("label"),
		cellStyle.Width(11).Render("precision"),
		cellStyle.Width(8).Render("recall"),
		cellStyle.Width(8).Render("f1"),
		cellStyle.Render("support"),
	)
	b.WriteString(headerStyle.Render(header) + "\n")

	labels := make([]string, 0, len(eval.Classes))
	for l := range eval.Classes {
		labels = append(labels, string(l))
	}
	sort.Strings(labels)

	for _, l := range labels {
		m := eval.Classes[model.Label(l)]
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			cellStyle.Width(12).Render(l),
			cellStyle.Width(11).Render(fmt.Sprintf("%.2f", m.Precision)),
			cellStyle.Width(8).Render(fmt.Sprintf("%.2f", m.Recall)),
			cellStyle.Width(8).Render(fmt.Sprintf("%.2f", m.F1)),
			cellStyle.Render(fmt.Sprintf("%d", m.Support)),
		)
		b.WriteString(row + "\n")
	}

	return box(iconChart+" Evaluation", strings.TrimRight(b.String(), "\n"))
}

// RenderTrainingResult formats the outcome of a training run.
func RenderTrainingResult(result *trainer.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %d (%d scam, %d not_scam)\n", boldStyle.Render("Examples:"),
		result.Examples, result.ScamCount, result.NotScamCount)
	fmt.Fprintf(&b, "%s %s\n", boldStyle.Render("Artifact:"), result.ArtifactPath)
	fmt.Fprintf(&b, "%s %s\n", boldStyle.Render("Duration:"), result.Duration.Round(time.Millisecond))

	if len(result.Probes) > 0 {
		b.WriteString("\n" + boldStyle.Render("Sample predictions") + "\n")
		for _, p := range result.Probes {
			fmt.Fprintf(&b, "  %s\n", RenderPrediction(p))
		}
	}

	return box(iconDone+" Model trained", strings.TrimRight(b.String(), "\n"))
}

// RenderPrediction formats one probe prediction.
func RenderPrediction(p trainer.Prediction) string {
	text := fmt.Sprintf("'%s' → %s (confidence: %.1f%%)", truncate(p.Message, 30), labelText(p.Label), p.Confidence)
	if p.Label == string(model.LabelScam) {
		return dangerStyle.Render(iconWarning + "  " + text)
	}
	return safeStyle.Render(iconSafe + " " + text)
}

func labelText(label string) string {
	if label == string(model.LabelScam) {
		return "SCAM"
	}
	return "SAFE"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func preview(message string) string {
	return truncate(strings.Join(strings.Fields(message), " "), maxMessagePreview)
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
