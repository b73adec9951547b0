package codec

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	json "github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/biocompute-objects/bcoskema/model"
)

// Format is a serialization format for documents and generic trees.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatCBOR
	FormatMsgpack
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatCBOR:
		return "cbor"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// ParseFormat maps a name (json, yaml/yml, cbor, msgpack/mpk) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json", "jsonc":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	case "msgpack", "mpk":
		return FormatMsgpack, nil
	}
	return 0, fmt.Errorf("codec: unknown format %q", s)
}

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	// Core Deterministic Encoding: sorted map keys, smallest integer
	// encoding, no indefinite-length items.
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	cborDec, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v in format f. A *model.Document is converted with ToWire
// first; any other value must be a generic tree. Map keys are emitted in
// sorted order in every format.
func Marshal(v any, f Format) ([]byte, error) {
	if doc, ok := v.(*model.Document); ok {
		v = ToWire(doc)
	}
	switch f {
	case FormatJSON:
		return json.MarshalIndent(v, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("codec: yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("codec: yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatCBOR:
		return cborEnc.Marshal(v)
	case FormatMsgpack:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetSortMapKeys(true)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("codec: msgpack: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("codec: unknown format %d", f)
}

// Unmarshal decodes data in format f into a normalized generic tree (see
// Normalize). JSON numbers pass through json.Number before normalization;
// YAML duplicate keys are rejected.
func Unmarshal(data []byte, f Format) (any, error) {
	var (
		v   any
		err error
	)
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&v)
	case FormatYAML:
		v, err = NewStrictYAMLReader(bytes.NewReader(data)).Next()
	case FormatCBOR:
		err = cborDec.Unmarshal(data, &v)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &v)
	default:
		return nil, fmt.Errorf("codec: unknown format %d", f)
	}
	if err != nil {
		return nil, fmt.Errorf("codec: %s: %w", f, err)
	}
	return Normalize(v)
}
