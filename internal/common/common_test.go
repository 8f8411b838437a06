package common

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataError(t *testing.T) {
	cause := errors.New("boom")
	err := NewDataError("scam_data.csv", "cannot parse", cause)

	assert.ErrorIs(t, err, ErrData)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "scam_data.csv")
	assert.Contains(t, err.Error(), "cannot parse")

	wrapped := fmt.Errorf("training: %w", err)
	var dataErr *DataError
	require.ErrorAs(t, wrapped, &dataErr)
	assert.Equal(t, "scam_data.csv", dataErr.Path)
}

func TestInvalidInputError(t *testing.T) {
	err := error(&InvalidInputError{Reason: "message is empty"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "invalid message: message is empty", err.Error())
}

func TestUserError(t *testing.T) {
	err := NewUserError("could not load model", ErrModelUnavailable)
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.Equal(t, "could not load model: model unavailable", err.Error())
	assert.Equal(t, "plain", (&UserError{UserMessage: "plain"}).Error())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    slog.Level
		wantErr bool
	}{
		{name: "debug", input: "debug", want: slog.LevelDebug},
		{name: "empty defaults to info", input: "", want: slog.LevelInfo},
		{name: "warn", input: "warn", want: slog.LevelWarn},
		{name: "error", input: "error", want: slog.LevelError},
		{name: "invalid", input: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	require.NoError(t, SetupLogger(&buf, slog.LevelInfo, "json"))
	LogInfo("model loaded", Fields{"path": "/tmp/model.db"})
	LogDebug("hidden", nil)

	assert.Contains(t, buf.String(), `"msg":"model loaded"`)
	assert.Contains(t, buf.String(), `"path":"/tmp/model.db"`)
	assert.NotContains(t, buf.String(), "hidden")

	assert.ErrorIs(t, SetupLogger(&buf, slog.LevelInfo, "xml"), ErrInvalidConfig)
}

func TestCompileFold(t *testing.T) {
	re, err := CompileFold(`bit\.ly`)
	require.NoError(t, err)
	assert.True(t, re.MatchString("visit BIT.LY/abc"))

	_, err = CompileFold(`[unclosed`)
	assert.Error(t, err)
}
