// Package flags provides shared settings accessors for CLI commands.
// This package exists to avoid import cycles between the root command
// and noun subpackages (bundle).
package flags

// Settings are the values resolved from global flags and configuration
// before any subcommand runs.
type Settings struct {
	// StorePath is the store every bundle operation works on.
	StorePath string
	// BundleDir is where bundles are created by default and listed from.
	BundleDir string
	// ProducerVersion is recorded in the metadata of created bundles.
	ProducerVersion string
}

var settings Settings

// GetSettings returns the current settings.
func GetSettings() Settings {
	return settings
}

// SetSettings replaces the current settings.
// The root command calls it after parsing flags; tests call it directly.
func SetSettings(s Settings) {
	settings = s
}
