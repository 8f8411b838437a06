package tui

import (
	"time"

	"github.com/Veraticus/scamguard/internal/service"
	"github.com/Veraticus/scamguard/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme           themes.Theme
	Analyzer        service.Analyzer
	Width           int
	Height          int
	HistorySize     int
	AnalysisTimeout time.Duration
	ShowHelp        bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:           themes.Default,
		Width:           80,
		Height:          24,
		HistorySize:     10,
		AnalysisTimeout: 10 * time.Second,
		ShowHelp:        false,
	}
}

// WithAnalyzer sets the analyzer used for every submitted message.
func WithAnalyzer(analyzer service.Analyzer) Option {
	return func(c *Config) {
		c.Analyzer = analyzer
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithHistorySize caps how many past analyses are kept on screen.
func WithHistorySize(n int) Option {
	return func(c *Config) {
		c.HistorySize = n
	}
}

// WithAnalysisTimeout bounds a single analysis.
func WithAnalysisTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.AnalysisTimeout = d
	}
}
