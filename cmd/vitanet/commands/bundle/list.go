package bundle

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/vitanet/vitanet/cmd/vitanet/commands/flags"
	"github.com/vitanet/vitanet/internal/bundle"
	"github.com/vitanet/vitanet/internal/errors"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List bundles in bundle_dir",
	Long: `List the bundles in bundle_dir, newest first.

Files with the .vitanet extension that cannot be read are listed as
unreadable rather than skipped.`,
	Example: `  # List bundles
  vitanet bundle list

  # Output as JSON
  vitanet bundle list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(_ *cobra.Command, _ []string) error {
	return runListWithWriter(os.Stdout)
}

func runListWithWriter(w io.Writer) error {
	dir := flags.GetSettings().BundleDir
	bundles, err := bundle.List(dir)
	if err != nil {
		return errors.NewSystemError(err, "Check bundle_dir in your config")
	}

	if listJSON {
		if bundles == nil {
			bundles = []bundle.Summary{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(bundles), "encoding output")
	}

	if len(bundles) == 0 {
		fmt.Fprintf(w, "No bundles in %s\n", dir)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Create one with: vitanet bundle create")
		return nil
	}

	table := uitable.New()
	table.MaxColWidth = 48
	table.AddRow("NAME", "CREATED", "SIZE", "STORE", "DESCRIPTION")
	for _, b := range bundles {
		if b.Error != "" {
			table.AddRow(b.Name, b.ModTime.Local().Format("2006-01-02 15:04"),
				humanize.IBytes(uint64(b.SizeBytes)), "?", gray.Sprint("unreadable"))
			continue
		}
		table.AddRow(b.Name, b.CreatedAt().Local().Format("2006-01-02 15:04"),
			humanize.IBytes(uint64(b.SizeBytes)), yesNo(b.Metadata.StoreIncluded), b.Metadata.Description())
	}
	fmt.Fprintln(w, table)
	return nil
}
