package bundle

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vitanet/vitanet/cmd/vitanet/commands/flags"
	"github.com/vitanet/vitanet/internal/errors"
	"github.com/vitanet/vitanet/internal/metafile"
	"github.com/vitanet/vitanet/internal/paths"
)

var (
	createDescription string
	createMeta        []string
	createMetaFile    string
)

func init() {
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "description stored as custom.description")
	createCmd.Flags().StringArrayVar(&createMeta, "meta", nil, "custom metadata as key=value (repeatable)")
	createCmd.Flags().StringVar(&createMetaFile, "meta-file", "", "custom metadata from a .json, .yaml or .toml file")
	Cmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create [path]",
	Short: "Snapshot the store into a bundle",
	Long: `Snapshot the store into a bundle file.

The .vitanet extension is appended when missing. Without a path the bundle
is written to bundle_dir as vitanet_bundle_<timestamp>.vitanet.

A missing store is not an error: the bundle then holds metadata only.

Custom metadata is merged in order: --meta-file, then each --meta pair,
then --description.`,
	Example: `  # Snapshot into bundle_dir
  vitanet bundle create

  # Snapshot to an explicit path with a description
  vitanet bundle create ./before-upgrade -d "before upgrade"

  # Attach metadata
  vitanet bundle create --meta host=ci-01 --meta-file build.yaml

  See Also:
    vitanet bundle info - Show what a bundle contains`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	return runCreateWithWriter(cmd.Context(), os.Stdout, args)
}

func runCreateWithWriter(ctx context.Context, w io.Writer, args []string) error {
	custom, err := buildCustom()
	if err != nil {
		return err
	}

	var target string
	if len(args) > 0 {
		target = args[0]
	} else {
		dir := flags.GetSettings().BundleDir
		if err := paths.EnsureDir(dir, 0); err != nil {
			return errors.NewSystemError(err, "Check bundle_dir in your config")
		}
		target = filepath.Join(dir, paths.DefaultBundleName(time.Now()))
	}

	mgr := newManager(ctx)
	res := mgr.Create(ctx, target, custom)
	if err := outcomeError(res.Outcome); err != nil {
		return err
	}

	green.Fprintf(w, "✓ %s\n", res.Message)
	fmt.Fprintf(w, "  size:  %s\n", humanize.IBytes(uint64(res.SizeBytes)))
	fmt.Fprintf(w, "  id:    %s\n", res.Metadata.BundleID)
	if !res.Metadata.StoreIncluded {
		yellow.Fprintf(w, "  no store at %s; the bundle holds metadata only\n", mgr.StorePath())
	}
	if res.DumpWarning != "" {
		yellow.Fprintf(w, "  SQL dump unavailable, only the raw copy was bundled: %s\n", res.DumpWarning)
	}
	return nil
}

// buildCustom merges --meta-file, --meta and --description.
func buildCustom() (map[string]any, error) {
	custom := map[string]any{}

	if createMetaFile != "" {
		m, err := metafile.ReadFile(createMetaFile)
		if err != nil {
			return nil, errors.NewUserError(errors.Wrap(err, "reading --meta-file"),
				"Use a .json, .yaml or .toml file holding a mapping")
		}
		custom = metafile.Merge(custom, m)
	}

	if len(createMeta) > 0 {
		m, err := metafile.ParsePairs(createMeta)
		if err != nil {
			return nil, errors.NewUserError(errors.Wrap(err, "parsing --meta"), "Use --meta key=value")
		}
		custom = metafile.Merge(custom, m)
	}

	if createDescription != "" {
		custom["description"] = createDescription
	}
	return custom, nil
}
