package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/vitanet/vitanet/cmd/vitanet/commands/flags"
	"github.com/vitanet/vitanet/internal/bundle"
	"github.com/vitanet/vitanet/internal/config"
	"github.com/vitanet/vitanet/internal/errors"
)

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the store and bundle settings",
	Long: `Show where the store lives, whether it exists, which bundle format
this build reads and writes, and how many safety backups sit next to it.`,
	Example: `  # Show status
  vitanet status

  # JSON output for scripting
  vitanet status --json`,
	RunE: runStatus,
}

// statusOutput is the JSON shape of the status command.
type statusOutput struct {
	*bundle.StatusResult
	BundleDir  string `json:"bundle_dir"`
	ConfigFile string `json:"config_file,omitempty"`
}

func runStatus(_ *cobra.Command, _ []string) error {
	return runStatusWithWriter(os.Stdout)
}

// runStatusWithWriter allows injecting a writer for testing.
func runStatusWithWriter(w io.Writer) error {
	s := flags.GetSettings()
	out := statusOutput{
		StatusResult: bundle.NewManager(s.StorePath).Status(),
		BundleDir:    s.BundleDir,
		ConfigFile:   config.FileUsed(),
	}

	if statusJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(out), "encoding output")
	}

	table := uitable.New()
	table.MaxColWidth = 80
	table.AddRow("Store:", out.StorePath)
	if out.Exists {
		table.AddRow("Exists:", fmt.Sprintf("yes (%s)", humanize.IBytes(uint64(out.SizeBytes))))
	} else {
		table.AddRow("Exists:", "no")
	}
	table.AddRow("Bundle format:", out.SupportedFormatVersion)
	table.AddRow("Extension:", out.ExtensionTag)
	table.AddRow("Bundle dir:", out.BundleDir)
	table.AddRow("Backups:", strconv.Itoa(out.BackupCount))
	if out.LatestBackup != "" {
		latest := out.LatestBackup
		if out.LatestBackupCurrent {
			latest += " (matches store)"
		}
		table.AddRow("Latest backup:", latest)
	}
	if out.RequiresForce {
		table.AddRow("Restore:", "requires --force (store exists)")
	}
	if out.ConfigFile != "" {
		table.AddRow("Config:", out.ConfigFile)
	}
	fmt.Fprintln(w, table)
	return nil
}
