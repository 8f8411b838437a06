package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/scamguard/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".local/share/scamguard/model.db"), cfg.Model.Path)
	assert.Equal(t, "scam_data.csv", cfg.Dataset.Path)
	assert.Equal(t, "127.0.0.1:5000", cfg.Server.Address())
	assert.False(t, cfg.Server.TLS)
	assert.Equal(t, filepath.Join(home, ".local/share/scamguard/certs"), cfg.Server.CertDir)
	assert.Equal(t, 5000, cfg.Training.MaxFeatures)
	assert.Equal(t, 2, cfg.Training.NGramMax)
	assert.InDelta(t, 1.0, cfg.Training.Alpha, 1e-9)
	assert.InDelta(t, 0.2, cfg.Training.TestSize, 1e-9)
	assert.Equal(t, int64(42), cfg.Training.Seed)
	assert.True(t, cfg.Training.StopWords)
}

func TestLoadFrom_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SCAMGUARD_TEST_DIR", dir)

	v := viper.New()
	v.Set(KeyModelPath, "$SCAMGUARD_TEST_DIR/model.db")
	v.Set(KeyServerAddr, "0.0.0.0")
	v.Set(KeyServerPort, 8080)
	v.Set(KeyNGramMax, 1)
	v.Set(KeyStopWords, false)

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "model.db"), cfg.Model.Path)
	assert.Equal(t, dir, cfg.ModelDir())
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())

	opts := cfg.Training.TrainerOptions()
	assert.Equal(t, 1, opts.Classifier.NGramMax)
	assert.False(t, opts.Classifier.StopWords)
	assert.True(t, opts.Evaluate)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		wantErr error
	}{
		{"port zero", KeyServerPort, 0, common.ErrInvalidConfig},
		{"port too large", KeyServerPort, 70000, common.ErrInvalidConfig},
		{"no features", KeyMaxFeatures, 0, common.ErrInvalidConfig},
		{"ngram too large", KeyNGramMax, 4, common.ErrInvalidConfig},
		{"zero alpha", KeyAlpha, 0.0, common.ErrInvalidConfig},
		{"test size one", KeyTestSize, 1.0, common.ErrInvalidConfig},
		{"empty model path", KeyModelPath, "", common.ErrMissingConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)

			cfg, err := LoadFrom(v)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SCAMGUARD_PATH_TEST", "/srv/data")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"tilde only", "~", home},
		{"tilde prefix", "~/models/model.db", filepath.Join(home, "models/model.db")},
		{"env var", "$SCAMGUARD_PATH_TEST/scam.csv", "/srv/data/scam.csv"},
		{"plain", "relative/model.db", "relative/model.db"},
		{"tilde in middle", "a/~/b", "a/~/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestLoadFrom_TLSNeedsCertDir(t *testing.T) {
	v := viper.New()
	v.Set(KeyServerTLS, true)
	v.Set(KeyCertDir, "")

	_, err := LoadFrom(v)
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	v.Set(KeyCertDir, t.TempDir())
	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.True(t, cfg.Server.TLS)
}
