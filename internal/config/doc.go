// Package config loads, validates and saves the vitanet CLI configuration.
//
// # Configuration File
//
// The default location is ~/.config/vitanet/config.yaml; a config.yaml in
// the current directory takes precedence. VITANET_CONFIG_DIR replaces both
// search locations.
//
//	version: 1
//	store_path: /var/lib/vitanet/vitanet.db
//	bundle_dir: /var/backups/vitanet
//	log_format: text   # or json
//
// Every key can be overridden from the environment with the VITANET_
// prefix, e.g. VITANET_STORE_PATH.
//
// # Loading
//
//	config.Init()
//	cfg, err := config.Load("") // search paths, defaults when absent
//
// An explicit path must exist. Loaded configurations are validated with
// [Validate].
package config
