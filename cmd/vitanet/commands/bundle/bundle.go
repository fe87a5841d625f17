// Package bundle provides CLI commands for creating, restoring and
// inspecting store bundles.
package bundle

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vitanet/vitanet/cmd/vitanet/commands/flags"
	"github.com/vitanet/vitanet/internal/bundle"
	"github.com/vitanet/vitanet/internal/errors"
	"github.com/vitanet/vitanet/internal/logging"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	gray   = color.New(color.FgHiBlack)
)

// Cmd is the root bundle command.
var Cmd = &cobra.Command{
	Use:     "bundle",
	Aliases: []string{"bundles"},
	Short:   "Create, restore and inspect store bundles",
	Long: `Create, restore and inspect bundles of the vitanet store.

A bundle is a single .vitanet file holding metadata, a copy of the store
and a SQL dump of it. Restoring prefers the copy, falls back to the dump,
and creates an empty store when the bundle carries neither.

Bundles created without an explicit path go to bundle_dir.`,
	Example: `  # Snapshot the store
  vitanet bundle create --description "before upgrade"

  # List bundles in bundle_dir
  vitanet bundle list

  # Pick a bundle to restore interactively
  vitanet bundle restore -i --force

  See Also:
    vitanet bundle create  - Snapshot the store
    vitanet bundle restore - Replace the store from a bundle
    vitanet bundle info    - Show bundle metadata
    vitanet bundle list    - List bundles in bundle_dir`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// newManager binds a bundle manager to the configured store.
func newManager(ctx context.Context) *bundle.Manager {
	s := flags.GetSettings()
	return bundle.NewManager(s.StorePath,
		bundle.WithLogger(logging.FromContext(ctx)),
		bundle.WithProducerVersion(s.ProducerVersion),
	)
}

// outcomeError converts a failed outcome into an exit error with a
// suggestion. It returns nil for successful outcomes.
func outcomeError(o bundle.Outcome) error {
	err := o.Err()
	if err == nil {
		return nil
	}

	switch o.Error {
	case bundle.ErrorBundleNotFound:
		return errors.NewUserError(err, "Run: vitanet bundle list")
	case bundle.ErrorDestinationExists:
		return errors.NewUserError(err, "Re-run with --force; the current store is backed up first")
	case bundle.ErrorMalformedArchive:
		return errors.NewUserError(err, "The file is not a readable "+bundle.Extension+" bundle")
	case bundle.ErrorVersionMismatch:
		return errors.NewUserError(err, "This build reads bundle format "+bundle.FormatVersion+" only")
	case bundle.ErrorInvalidMetadata:
		return errors.NewUserError(err, "Custom metadata must be representable as JSON")
	case bundle.ErrorScriptExecution:
		return errors.NewSystemError(err, "Re-run with -vv to see the failing statement")
	default:
		return errors.NewSystemError(err, "Check permissions and free space, or re-run with -vv")
	}
}
