package archive

import (
	"encoding/json"
	"fmt"
	"time"
)

// FormatVersion is the only bundle format version this package writes and
// the only one a restore accepts.
const FormatVersion = "1.0"

// Entry names inside a bundle.
const (
	EntryMetadata = "bundle_metadata.json"
	EntryRawCopy  = "vitanet_backup.db"
	EntrySchema   = "schema.sql"
	EntryData     = "data.sql"
)

// KnownEntries lists the entries a bundle may carry, in write order.
var KnownEntries = []string{EntryMetadata, EntryRawCopy, EntrySchema, EntryData}

// Metadata is the descriptive document stored in every bundle.
type Metadata struct {
	FormatVersion   string         `json:"format_version" yaml:"format_version"`
	CreatedAt       time.Time      `json:"created_at" yaml:"created_at"`
	ProducerVersion string         `json:"producer_version" yaml:"producer_version"`
	StoreIncluded   bool           `json:"store_included" yaml:"store_included"`
	Custom          map[string]any `json:"custom" yaml:"custom"`

	// BundleID uniquely identifies the bundle.
	BundleID string `json:"bundle_id,omitempty" yaml:"bundle_id,omitempty"`

	// StoreSHA256 is the hex digest of the RawCopy entry. Readers verify it
	// when both are present.
	StoreSHA256 string `json:"store_sha256,omitempty" yaml:"store_sha256,omitempty"`
}

// Description returns Custom["description"] when it is a string.
func (m *Metadata) Description() string {
	if m == nil {
		return ""
	}
	s, _ := m.Custom["description"].(string)
	return s
}

// VersionError reports a bundle whose format_version is not exactly the
// string FormatVersion.
type VersionError struct {
	// Found is the raw JSON value of format_version, empty when absent.
	Found string
}

func (e *VersionError) Error() string {
	found := e.Found
	if found == "" {
		found = "(missing)"
	}
	return fmt.Sprintf("bundle version %s not supported (expected %q)", found, FormatVersion)
}

// checkVersion looks at format_version alone, so that a bundle from another
// format version is reported as such even when the rest of its metadata
// does not decode.
func checkVersion(data []byte) error {
	var head struct {
		FormatVersion json.RawMessage `json:"format_version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	var v string
	if err := json.Unmarshal(head.FormatVersion, &v); err != nil || v != FormatVersion {
		return &VersionError{Found: string(head.FormatVersion)}
	}
	return nil
}
