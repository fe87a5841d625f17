package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vitanet/vitanet/internal/config"
	"github.com/vitanet/vitanet/internal/editor"
	"github.com/vitanet/vitanet/internal/errors"
	"github.com/vitanet/vitanet/internal/paths"
	"github.com/vitanet/vitanet/pkg/fileutil"
)

var (
	initForce     bool
	initStorePath string
	initBundleDir string
)

func init() {
	configInitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
	configInitCmd.Flags().StringVar(&initStorePath, "store-path", "", "store_path to write (default: XDG data dir)")
	configInitCmd.Flags().StringVar(&initBundleDir, "bundle-dir", "", "bundle_dir to write (default: XDG data dir)")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vitanet configuration",
	Long: `Manage vitanet configuration stored in config.yaml.

The file is looked up in the current directory, then in the user config
directory. VITANET_CONFIG_DIR replaces both, and every key can be
overridden with a VITANET_ environment variable (e.g. VITANET_STORE_PATH).

Without a subcommand, shows the effective configuration.`,
	Example: `  # Show effective configuration
  vitanet config show

  # Write a config file with defaults
  vitanet config init

See Also: vitanet status`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Show the effective configuration in YAML format, after defaults, file and environment are merged.`,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	Long: `Write config.yaml with default values to the --config path or the
user config directory. An existing file is only replaced with --force.`,
	Example: `  # Create the default config file
  vitanet config init

  # Point the store somewhere else
  vitanet config init --store-path /srv/vitanet/vitanet.db --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $EDITOR",
	Long: `Open the config file in your editor.

Uses $EDITOR, then $VISUAL, then nano or vi. The file must exist; create
it with 'vitanet config init'.`,
	Example: `  # Open config in default editor
  vitanet config edit

  # Open with a specific editor
  EDITOR="code --wait" vitanet config edit`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	return runConfigShowWithWriter(os.Stdout)
}

func runConfigShowWithWriter(w io.Writer) error {
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	cfg := loadedConfig
	if cfg == nil {
		cfg = config.Default()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	if file := config.FileUsed(); file != "" {
		fmt.Fprintf(w, "# %s\n", file)
	} else {
		fmt.Fprintln(w, "# defaults (no config file found)")
	}
	fmt.Fprint(w, string(data))
	return nil
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	path := editablePath()
	exists, err := fileutil.Exists(path)
	if err != nil {
		return errors.Wrap(err, "checking config file")
	}
	if !exists {
		return errors.NewUserError(errors.Newf("config file not found at %s", path), "Run: vitanet config init")
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Editing %s\n", path)
	return editor.Open(cmd.Context(), path, editor.Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
}

// editablePath prefers --config, then the file that was loaded, then the
// default location.
func editablePath() string {
	if configFile != "" {
		return configFile
	}
	if used := config.FileUsed(); used != "" {
		return used
	}
	return paths.ConfigFile()
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	return runConfigInitWithWriter(os.Stdout, configFile)
}

func runConfigInitWithWriter(w io.Writer, path string) error {
	if path == "" {
		path = paths.ConfigFile()
	}

	exists, err := fileutil.Exists(path)
	if err != nil {
		return errors.Wrap(err, "checking config file")
	}
	if exists && !initForce {
		return errors.NewUserError(errors.Newf("config file already exists at %s", path),
			"Re-run with --force to overwrite it")
	}

	cfg := config.Default()
	if initStorePath != "" {
		cfg.StorePath = initStorePath
	}
	if initBundleDir != "" {
		cfg.BundleDir = initBundleDir
	}

	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return errors.NewUserError(err, "Check the --store-path and --bundle-dir values")
	}

	fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}
