// Package metafile turns user-supplied custom metadata into the JSON-like
// map stored in a bundle's metadata document.
//
// Metadata can come from a file (JSON, YAML or TOML, chosen by extension)
// or from repeated key=value flags. All values are normalized through JSON
// so that what is written to a bundle compares equal to what is read back.
package metafile
