// Package archive reads and writes the on-disk bundle container.
//
// A bundle is a zip file whose entries are all Deflate-compressed with
// github.com/klauspost/compress/flate:
//
//	| entry                | required | content                          |
//	|----------------------|----------|----------------------------------|
//	| bundle_metadata.json | yes      | [Metadata] as indented JSON      |
//	| vitanet_backup.db    | no       | RawCopy of the store file        |
//	| schema.sql           | no       | structure-definition statements  |
//	| data.sql             | no       | data-insertion statements        |
//
// Entries outside this set are listed by [Read] and [ReadMetadata] but
// otherwise ignored. An entry name containing a path separator or ".." makes
// the whole archive malformed, so extraction can never leave the scratch
// directory.
//
// Errors are classified with [ErrNotFound], [ErrMalformedArchive] and
// [ErrParse]; anything else is a filesystem failure.
package archive
