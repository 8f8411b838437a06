package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrNoAnalyzer is returned when Run is called without an analyzer.
var ErrNoAnalyzer = errors.New("analyzer is required")

// Run starts the interactive checker and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Analyzer == nil {
		return ErrNoAnalyzer
	}

	p := tea.NewProgram(
		newModel(ctx, cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("interactive checker: %w", err)
	}
	return nil
}
