package bundle

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vitanet/vitanet/cmd/vitanet/commands/flags"
	"github.com/vitanet/vitanet/internal/bundle"
	"github.com/vitanet/vitanet/internal/errors"
	"github.com/vitanet/vitanet/internal/logging"
	"github.com/vitanet/vitanet/internal/store"
)

var (
	restoreForce       bool
	restoreInteractive bool
)

func init() {
	restoreCmd.Flags().BoolVarP(&restoreForce, "force", "f", false, "replace an existing store (it is backed up first)")
	restoreCmd.Flags().BoolVarP(&restoreInteractive, "interactive", "i", false, "pick the bundle from bundle_dir")
	Cmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore [path]",
	Short: "Replace the store with a bundle's contents",
	Long: `Replace the store with the contents of a bundle.

An existing store is only replaced with --force, and is first copied to
<store>.backup.<timestamp> next to it. Backups are never removed.

Without a path, or with --interactive, a bundle is picked from bundle_dir:
with a fuzzy finder on a terminal, otherwise from a numbered list.`,
	Example: `  # Restore into a fresh location
  vitanet --db-path /tmp/scratch.db bundle restore ./nightly.vitanet

  # Replace the configured store
  vitanet bundle restore ./nightly.vitanet --force

  # Pick from bundle_dir
  vitanet bundle restore -i --force

  See Also:
    vitanet bundle list - List bundles in bundle_dir
    vitanet status      - Show the store and its backups`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	return runRestoreWithIO(cmd.Context(), os.Stdin, os.Stdout, args)
}

func runRestoreWithIO(ctx context.Context, r io.Reader, w io.Writer, args []string) error {
	var bundlePath string
	if len(args) > 0 && !restoreInteractive {
		bundlePath = args[0]
	} else {
		picked, err := pickBundle(r, w, flags.GetSettings().BundleDir)
		if err != nil {
			return err
		}
		if picked == "" {
			return nil
		}
		bundlePath = picked
	}

	res := newManager(ctx).Restore(ctx, bundlePath, restoreForce)
	if err := outcomeError(res.Outcome); err != nil {
		if res.BackupCreated {
			fmt.Fprintf(w, "Previous store saved to %s\n", res.BackupPath)
		}
		return err
	}

	if res.RestoredFrom == store.KindEmpty {
		yellow.Fprintf(w, "! %s\n", res.Message)
	} else {
		green.Fprintf(w, "✓ %s\n", res.Message)
	}
	fmt.Fprintf(w, "  from:    %s (%s)\n", res.BundlePath, describeKind(res.RestoredFrom))
	if meta := res.Metadata; meta != nil {
		fmt.Fprintf(w, "  created: %s (%s)\n",
			meta.CreatedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(meta.CreatedAt))
		if d := meta.Description(); d != "" {
			fmt.Fprintf(w, "  about:   %s\n", d)
		}
	}
	if res.BackupCreated {
		fmt.Fprintf(w, "  backup:  %s\n", res.BackupPath)
	}
	return nil
}

func describeKind(k store.Kind) string {
	switch k {
	case store.KindRawCopy:
		return "raw copy"
	case store.KindSQLDump:
		return "SQL dump"
	default:
		return "empty store"
	}
}

// pickBundle lets the user choose a bundle from dir. It returns "" when the
// user aborts the fuzzy finder.
func pickBundle(r io.Reader, w io.Writer, dir string) (string, error) {
	bundles, err := bundle.List(dir)
	if err != nil {
		return "", errors.NewSystemError(err, "Check bundle_dir in your config")
	}
	if len(bundles) == 0 {
		return "", errors.NewUserError(errors.Wrapf(errors.ErrNotFound, "no bundles in %s", dir),
			"Pass a bundle path or run: vitanet bundle create")
	}

	if logging.IsInteractive(r, w) {
		return findBundle(bundles)
	}
	return promptBundle(r, w, bundles)
}
