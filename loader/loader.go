// Package loader reads candidate documents from files or URLs and decodes
// them into generic trees ready for validation.
//
// The format follows the extension: .json, .jsonc (comments and trailing
// commas), .yaml/.yml, .cbor and .msgpack/.mpk. Anything else is sniffed:
// content starting with '{' is JSON, the rest YAML.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"github.com/viant/afs"

	bcoskema "github.com/biocompute-objects/bcoskema"
	"github.com/biocompute-objects/bcoskema/codec"
)

// Stdin is the location that reads standard input.
const Stdin = "-"

// Loader fetches documents through an afs.Service, so any scheme afs
// supports (file paths, file://, http(s)://, mem://) works as a location.
type Loader struct {
	fs     afs.Service
	decode bcoskema.DecodeOpt
	stdin  io.Reader
}

// Option configures a Loader.
type Option func(*Loader)

// WithDecodeOptions sets the JSON decoding limits.
func WithDecodeOptions(o bcoskema.DecodeOpt) Option { return func(l *Loader) { l.decode = o } }

// WithService replaces the storage service.
func WithService(fs afs.Service) Option { return func(l *Loader) { l.fs = fs } }

// WithStdin replaces the reader used for the "-" location.
func WithStdin(r io.Reader) Option { return func(l *Loader) { l.stdin = r } }

// New creates a Loader backed by afs.New().
func New(opts ...Option) *Loader {
	l := &Loader{fs: afs.New(), stdin: os.Stdin}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load fetches location and decodes it.
func (l *Loader) Load(ctx context.Context, location string) (any, error) {
	data, err := l.Read(ctx, location)
	if err != nil {
		return nil, err
	}
	return l.Decode(data, path.Ext(location))
}

// Read fetches the raw bytes of location.
func (l *Loader) Read(ctx context.Context, location string) ([]byte, error) {
	if location == Stdin {
		data, err := io.ReadAll(l.stdin)
		if err != nil {
			return nil, fmt.Errorf("loader: read stdin: %w", err)
		}
		return data, nil
	}
	if !strings.Contains(location, "://") {
		abs, err := filepath.Abs(location)
		if err != nil {
			return nil, fmt.Errorf("loader: %s: %w", location, err)
		}
		location = abs
	}
	data, err := l.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", location, err)
	}
	return data, nil
}

// Decode converts raw bytes into a generic tree. ext selects the format; an
// empty or unknown ext sniffs the content. Syntax errors and duplicate keys
// are returned as bcoskema.Issues.
func (l *Loader) Decode(data []byte, ext string) (any, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return bcoskema.DecodeJSON(data, l.decode)
	case ".jsonc":
		return bcoskema.DecodeJSON(jsonc.ToJSON(data), l.decode)
	case ".yaml", ".yml":
		return decodeWith(data, codec.FormatYAML)
	case ".cbor":
		return decodeWith(data, codec.FormatCBOR)
	case ".msgpack", ".mpk":
		return decodeWith(data, codec.FormatMsgpack)
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return bcoskema.DecodeJSON(jsonc.ToJSON(data), l.decode)
	}
	return decodeWith(data, codec.FormatYAML)
}

func decodeWith(data []byte, f codec.Format) (any, error) {
	v, err := codec.Unmarshal(data, f)
	if err == nil {
		return v, nil
	}
	var dup *codec.DuplicateKeyError
	if errors.As(err, &dup) {
		p := bcoskema.ParsePointer(dup.Path)
		params := map[string]any{"key": dup.Key, "line": dup.Line, "first_line": dup.FirstLine}
		it := bcoskema.IssueAt(p, bcoskema.CodeDuplicateKey, bcoskema.Message(bcoskema.CodeDuplicateKey, params, dup.Error()), params)
		it.Cause = err
		return nil, bcoskema.Issues{it}
	}
	it := bcoskema.IssueAt(bcoskema.Root(), bcoskema.CodeParseError, bcoskema.Message(bcoskema.CodeParseError, nil, err.Error()), nil)
	it.Cause = err
	return nil, bcoskema.Issues{it}
}

// Load is a convenience for New().Load.
func Load(ctx context.Context, location string) (any, error) {
	return New().Load(ctx, location)
}
