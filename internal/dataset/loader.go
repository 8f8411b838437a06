// Package dataset reads labeled training messages from CSV files.
package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/scamguard/internal/common"
	"github.com/Veraticus/scamguard/internal/model"
)

const (
	textColumn  = "text"
	labelColumn = "label"
	utf8BOM     = "\ufeff"
)

// Load reads the labeled dataset at path.
func Load(path string) ([]model.LabeledExample, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from flags or config
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, common.NewDataError(path, "dataset file not found", err)
		}
		return nil, common.NewDataError(path, "failed to open dataset", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Debug("Failed to close dataset file", "path", path, "error", cerr)
		}
	}()

	return Parse(f, path)
}

// Parse reads a labeled dataset from r. The header must contain text and label
// columns in any order. Rows with a blank text or label are skipped.
func Parse(r io.Reader, path string) ([]model.LabeledExample, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(len(utf8BOM)); err == nil && string(bom) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, common.NewDataError(path, "dataset is empty", nil)
	}
	if err != nil {
		return nil, common.NewDataError(path, "failed to parse header", err)
	}

	textIdx, labelIdx := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case textColumn:
			textIdx = i
		case labelColumn:
			labelIdx = i
		}
	}
	if textIdx < 0 || labelIdx < 0 {
		return nil, common.NewDataError(path,
			fmt.Sprintf("header must contain %q and %q columns, got %v", textColumn, labelColumn, header), nil)
	}

	var examples []model.LabeledExample
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, common.NewDataError(path, "failed to parse row", err)
		}

		if textIdx >= len(record) || labelIdx >= len(record) {
			skipped++
			continue
		}
		text := record[textIdx]
		rawLabel := strings.ToLower(strings.TrimSpace(record[labelIdx]))
		if strings.TrimSpace(text) == "" || rawLabel == "" {
			skipped++
			continue
		}

		label, err := model.ParseLabel(rawLabel)
		if err != nil {
			line, _ := reader.FieldPos(labelIdx)
			return nil, common.NewDataError(path, fmt.Sprintf("line %d: unknown label %q", line, rawLabel), err)
		}
		examples = append(examples, model.LabeledExample{Text: text, Label: label})
	}

	if skipped > 0 {
		slog.Info("Dropped incomplete dataset rows", "path", path, "count", skipped)
	}
	if len(examples) == 0 {
		return nil, common.NewDataError(path, "no usable rows", nil)
	}

	counts := Summary(examples)
	for _, l := range model.Labels() {
		if counts[l] == 0 {
			return nil, common.NewDataError(path, fmt.Sprintf("no examples labeled %q", l), nil)
		}
	}

	slog.Debug("Loaded dataset", "path", path, "examples", len(examples),
		"scam", counts[model.LabelScam], "not_scam", counts[model.LabelNotScam])
	return examples, nil
}

// Summary returns the number of examples per label.
func Summary(examples []model.LabeledExample) map[model.Label]int {
	counts := make(map[model.Label]int, len(model.Labels()))
	for _, l := range model.Labels() {
		counts[l] = 0
	}
	for _, ex := range examples {
		counts[ex.Label]++
	}
	return counts
}
