// Package paths resolves the on-disk locations vitanet uses by default.
//
// The package wraps github.com/adrg/xdg for XDG Base Directory compliance.
// On Linux the defaults are:
//
//	| What          | Path                                  |
//	|---------------|---------------------------------------|
//	| Config file   | ~/.config/vitanet/config.yaml         |
//	| Store         | ~/.local/share/vitanet/vitanet.db     |
//	| Bundle dir    | ~/.local/share/vitanet/bundles/       |
//
// macOS and Windows use the equivalent xdg locations.
//
// Safety backups are not placed here: they sit next to the store they
// protect, named by [BackupPath].
package paths
