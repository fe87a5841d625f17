package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/vitanet/vitanet/internal/paths"
	"github.com/vitanet/vitanet/pkg/fileutil"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. VITANET_STORE_PATH.
const EnvPrefix = "VITANET"

// ConfigDirEnv overrides the directory searched for config.yaml.
const ConfigDirEnv = EnvPrefix + "_CONFIG_DIR"

// CurrentVersion is the only config file version understood.
const CurrentVersion = 1

// Config keys.
const (
	KeyVersion         = "version"
	KeyStorePath       = "store_path"
	KeyBundleDir       = "bundle_dir"
	KeyProducerVersion = "producer_version"
	KeyLogFormat       = "log_format"
)

// Config represents the top-level configuration structure.
type Config struct {
	Version         int    `mapstructure:"version" yaml:"version" json:"version"`
	StorePath       string `mapstructure:"store_path" yaml:"store_path" json:"store_path"`
	BundleDir       string `mapstructure:"bundle_dir" yaml:"bundle_dir" json:"bundle_dir"`
	ProducerVersion string `mapstructure:"producer_version" yaml:"producer_version,omitempty" json:"producer_version,omitempty"`
	LogFormat       string `mapstructure:"log_format" yaml:"log_format" json:"log_format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version:   CurrentVersion,
		StorePath: paths.DefaultStorePath(),
		BundleDir: paths.DefaultBundleDir(),
		LogFormat: "text",
	}
}

// Init resets Viper and registers search paths, env binding and defaults.
// Call this once at application startup before accessing config values.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		viper.AddConfigPath(dir)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(paths.ConfigDir())
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	def := Default()
	viper.SetDefault(KeyVersion, def.Version)
	viper.SetDefault(KeyStorePath, def.StorePath)
	viper.SetDefault(KeyBundleDir, def.BundleDir)
	viper.SetDefault(KeyProducerVersion, def.ProducerVersion)
	viper.SetDefault(KeyLogFormat, def.LogFormat)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file and a missing file
// is an error. If path is empty, the search paths are tried and defaults are
// used when nothing is found. The result is validated.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case path != "":
			return nil, errors.Wrapf(err, "reading config file %s", path)
		case errors.As(err, &notFound):
			// implicit load falls back to defaults
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errs[0], "validating config")
	}

	return &cfg, nil
}

// FileUsed returns the config file Viper loaded, or "" when defaults are in effect.
func FileUsed() string {
	return viper.ConfigFileUsed()
}

// Save writes cfg to path as YAML, atomically.
func Save(path string, cfg *Config) error {
	if errs := Validate(cfg); len(errs) > 0 {
		return errors.Wrap(errs[0], "validating config")
	}
	if err := fileutil.AtomicWriteYAML(path, cfg); err != nil {
		return errors.Wrapf(err, "saving config to %s", path)
	}
	return nil
}
