// Package backup takes and lists the safety backups made before a store is
// overwritten.
//
// A safety backup is a byte-exact copy of the live store written beside it:
//
//	/var/lib/vitanet/vitanet.db
//	/var/lib/vitanet/vitanet.db.backup.20260123_100712
//	/var/lib/vitanet/vitanet.db.backup.20260123_100712_1   # same second
//
// The suffix is the local wall-clock time of the backup. When a name is
// already taken a counter is appended, so an existing backup is never
// overwritten.
//
// This package never deletes backups. Pruning is left to the operator.
package backup
