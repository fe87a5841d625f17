package store

import "github.com/cockroachdb/errors"

// Kind names the representation an import used.
type Kind string

const (
	KindRawCopy Kind = "raw_copy"
	KindSQLDump Kind = "sql_dump"
	KindEmpty   Kind = "empty_store"
)

// ErrScriptExecution marks a failure while replaying a SqlDump or
// initializing an empty store.
var ErrScriptExecution = errors.New("script execution failed")

// SQLDump is the textual representation of a store: structure-defining
// statements followed by data-inserting statements, each in original order.
type SQLDump struct {
	Schema []string
	Data   []string
}

// Representation is what a bundle carries of a store.
type Representation struct {
	// RawPath is a file holding the RawCopy. Empty when absent.
	RawPath   string
	RawSHA256 string
	RawSize   int64

	// Dump is nil when no SqlDump is present.
	Dump *SQLDump

	// DumpErr records why Export produced no SqlDump.
	DumpErr error
}

// HasRawCopy reports whether r carries a RawCopy.
func (r *Representation) HasRawCopy() bool {
	return r != nil && r.RawPath != ""
}

// HasSQLDump reports whether r carries a SqlDump.
func (r *Representation) HasSQLDump() bool {
	return r != nil && r.Dump != nil
}

// Kind returns the representation Import will use. A nil Representation is
// KindEmpty.
func (r *Representation) Kind() Kind {
	switch {
	case r.HasRawCopy():
		return KindRawCopy
	case r.HasSQLDump():
		return KindSQLDump
	default:
		return KindEmpty
	}
}
