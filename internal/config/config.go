package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"

	"github.com/Veraticus/scamguard/internal/classification"
	"github.com/Veraticus/scamguard/internal/common"
	"github.com/Veraticus/scamguard/internal/trainer"
	"github.com/spf13/viper"
)

// Viper keys.
const (
	KeyModelPath      = "model.path"
	KeyDatasetPath    = "dataset.path"
	KeyServerAddr     = "server.addr"
	KeyServerPort     = "server.port"
	KeyServerTLS      = "server.tls"
	KeyCertDir        = "server.cert_dir"
	KeyMaxFeatures    = "training.max_features"
	KeyNGramMax       = "training.ngram_max"
	KeyAlpha          = "training.alpha"
	KeyTestSize       = "training.test_size"
	KeySeed           = "training.seed"
	KeyStopWords      = "training.stop_words"
	KeyLogLevel       = "logging.level"
	KeyLogFormat      = "logging.format"
	defaultModelPath  = "~/.local/share/scamguard/model.db"
	defaultDataset    = "scam_data.csv"
	defaultServerAddr = "127.0.0.1"
	defaultServerPort = 5000
	defaultCertDir    = "~/.local/share/scamguard/certs"
)

// Config is the resolved application configuration.
type Config struct {
	Model    ModelConfig
	Dataset  DatasetConfig
	Server   ServerConfig
	Training TrainingConfig
}

// ModelConfig locates the trained classifier artifact.
type ModelConfig struct {
	Path string
}

// DatasetConfig locates the labeled training data.
type DatasetConfig struct {
	Path string
}

// ServerConfig holds the HTTP listener settings. With TLS set the API is
// served over HTTPS using a self-signed certificate kept in CertDir.
type ServerConfig struct {
	Addr    string
	CertDir string
	Port    int
	TLS     bool
}

// Address returns host:port.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Addr, strconv.Itoa(s.Port))
}

// TrainingConfig holds the classifier hyperparameters and split settings.
type TrainingConfig struct {
	MaxFeatures int
	NGramMax    int
	Alpha       float64
	TestSize    float64
	Seed        int64
	StopWords   bool
}

// TrainerOptions converts the settings into trainer options.
func (t TrainingConfig) TrainerOptions() trainer.Options {
	opts := trainer.DefaultOptions()
	opts.Classifier = classification.Options{
		MaxFeatures: t.MaxFeatures,
		NGramMax:    t.NGramMax,
		Alpha:       t.Alpha,
		StopWords:   t.StopWords,
	}
	opts.TestSize = t.TestSize
	opts.Seed = t.Seed
	return opts
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	defaults := trainer.DefaultOptions()

	v.SetDefault(KeyModelPath, defaultModelPath)
	v.SetDefault(KeyDatasetPath, defaultDataset)
	v.SetDefault(KeyServerAddr, defaultServerAddr)
	v.SetDefault(KeyServerPort, defaultServerPort)
	v.SetDefault(KeyServerTLS, false)
	v.SetDefault(KeyCertDir, defaultCertDir)
	v.SetDefault(KeyMaxFeatures, defaults.Classifier.MaxFeatures)
	v.SetDefault(KeyNGramMax, defaults.Classifier.NGramMax)
	v.SetDefault(KeyAlpha, defaults.Classifier.Alpha)
	v.SetDefault(KeyTestSize, defaults.TestSize)
	v.SetDefault(KeySeed, defaults.Seed)
	v.SetDefault(KeyStopWords, defaults.Classifier.StopWords)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		Model:   ModelConfig{Path: ExpandPath(v.GetString(KeyModelPath))},
		Dataset: DatasetConfig{Path: ExpandPath(v.GetString(KeyDatasetPath))},
		Server: ServerConfig{
			Addr:    v.GetString(KeyServerAddr),
			Port:    v.GetInt(KeyServerPort),
			TLS:     v.GetBool(KeyServerTLS),
			CertDir: ExpandPath(v.GetString(KeyCertDir)),
		},
		Training: TrainingConfig{
			MaxFeatures: v.GetInt(KeyMaxFeatures),
			NGramMax:    v.GetInt(KeyNGramMax),
			Alpha:       v.GetFloat64(KeyAlpha),
			TestSize:    v.GetFloat64(KeyTestSize),
			Seed:        v.GetInt64(KeySeed),
			StopWords:   v.GetBool(KeyStopWords),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.Model.Path == "" {
		return fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyModelPath)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port must be between 1 and 65535, got %d", common.ErrInvalidConfig, c.Server.Port)
	}
	if c.Server.TLS && c.Server.CertDir == "" {
		return fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyCertDir)
	}
	if err := c.Training.TrainerOptions().Validate(); err != nil {
		return err
	}
	return nil
}

// ModelDir returns the directory holding the artifact.
func (c *Config) ModelDir() string {
	return filepath.Dir(c.Model.Path)
}
