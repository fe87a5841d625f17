package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/vitanet/vitanet/internal/bundle"
	"github.com/vitanet/vitanet/internal/errors"
	"github.com/vitanet/vitanet/pkg/fileutil"
)

var (
	infoJSON   bool
	infoOutput string
)

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "output as JSON")
	infoCmd.Flags().StringVarP(&infoOutput, "output", "o", "", "write the JSON output to `file` instead of stdout")
	Cmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info <path>",
	Short: "Show bundle metadata",
	Long: `Show a bundle's metadata and the entries it carries.

Only the metadata entry is read; the store is never touched.`,
	Example: `  # Show bundle details
  vitanet bundle info ./nightly.vitanet

  # JSON output for scripting
  vitanet bundle info ./nightly.vitanet --json

  # Save the bundle description next to it
  vitanet bundle info ./nightly.vitanet -o nightly.json`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	return runInfoWithWriter(cmd.Context(), os.Stdout, args[0])
}

func runInfoWithWriter(ctx context.Context, w io.Writer, path string) error {
	res := newManager(ctx).Info(ctx, path)

	if infoOutput != "" {
		if err := outcomeError(res.Outcome); err != nil {
			return err
		}
		if err := fileutil.AtomicWriteJSON(infoOutput, res); err != nil {
			return errors.NewSystemError(errors.Wrapf(err, "writing %s", infoOutput), "Check that the directory exists and is writable")
		}
		green.Fprintf(w, "✓ Wrote %s\n", infoOutput)
		return nil
	}

	if infoJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return errors.Wrap(err, "encoding output")
		}
		return outcomeError(res.Outcome)
	}

	if err := outcomeError(res.Outcome); err != nil {
		return err
	}
	writeInfoTable(w, res)
	return nil
}

func writeInfoTable(w io.Writer, res *bundle.InfoResult) {
	m := res.Metadata

	table := uitable.New()
	table.MaxColWidth = 80
	table.Wrap = true
	table.AddRow("Path:", res.BundlePath)
	table.AddRow("Size:", humanize.IBytes(uint64(res.SizeBytes)))
	table.AddRow("Format:", m.FormatVersion)
	table.AddRow("Created:", fmt.Sprintf("%s (%s)",
		m.CreatedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(m.CreatedAt)))
	table.AddRow("Producer:", m.ProducerVersion)
	if m.BundleID != "" {
		table.AddRow("ID:", m.BundleID)
	}
	table.AddRow("Store included:", yesNo(m.StoreIncluded))
	if m.StoreSHA256 != "" {
		table.AddRow("Store SHA-256:", m.StoreSHA256)
	}
	table.AddRow("Contents:", strings.Join(res.Entries, ", "))

	keys := make([]string, 0, len(m.Custom))
	for k := range m.Custom {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		table.AddRow("custom."+k+":", fmt.Sprint(m.Custom[k]))
	}

	fmt.Fprintln(w, table)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
