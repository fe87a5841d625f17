package metafile

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/vitanet/vitanet/pkg/fileutil"
)

var (
	// ErrUnsupportedFormat indicates a metadata file extension that is not
	// .json, .yaml, .yml or .toml.
	ErrUnsupportedFormat = errors.New("unsupported metadata file format")

	// ErrInvalidPair indicates a key=value argument without '=' or with an empty key.
	ErrInvalidPair = errors.New("invalid key=value pair")
)

// Format identifies a metadata file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "%s", path)
	}
}

// ReadFile parses the metadata file at path.
func ReadFile(path string) (map[string]any, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading metadata file %s", path)
	}
	m, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing metadata file %s", path)
	}
	return m, nil
}

// Parse decodes data in the given format. The document must be a mapping.
func Parse(data []byte, format Format) (map[string]any, error) {
	var raw map[string]any
	var err error
	switch format {
	case FormatJSON:
		err = decodeJSON(data, &raw)
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	case FormatTOML:
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unmarshaling %s", format)
	}
	return Normalize(raw)
}

// ParsePairs turns key=value arguments into a map. Values stay strings;
// a later key replaces an earlier one.
func ParsePairs(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.Wrapf(ErrInvalidPair, "%q", p)
		}
		out[key] = value
	}
	return out, nil
}

// Merge returns a new map holding dst's entries overlaid by each src in order.
func Merge(dst map[string]any, srcs ...map[string]any) map[string]any {
	out := make(map[string]any, len(dst))
	for k, v := range dst {
		out[k] = v
	}
	for _, src := range srcs {
		for k, v := range src {
			out[k] = v
		}
	}
	return out
}

// Normalize round-trips m through JSON so every value has the shape
// encoding/json produces when decoding into any with UseNumber: json.Number
// numbers, []any slices, map[string]any objects and RFC 3339 strings for
// times. Integers keep their full precision. A nil map stays nil.
func Normalize(m map[string]any) (map[string]any, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "metadata is not representable as JSON")
	}
	var out map[string]any
	if err := decodeJSON(data, &out); err != nil {
		return nil, errors.Wrap(err, "normalizing metadata")
	}
	return out, nil
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after JSON document")
	}
	return nil
}
