package codec

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/zeebo/blake3"

	"github.com/biocompute-objects/bcoskema/model"
)

// Algorithm selects the etag digest.
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"
)

// ParseAlgorithm maps a name to an Algorithm; empty means SHA256.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(s)) {
	case "", SHA256:
		return SHA256, nil
	case BLAKE3:
		return BLAKE3, nil
	}
	return "", fmt.Errorf("codec: unknown etag algorithm %q", s)
}

// identityFields are excluded from the digest: they name the object rather
// than describe it, and etag cannot cover itself.
var identityFields = []string{"object_id", "spec_version", "etag"}

// ETag computes the content digest of doc: the canonical JSON (sorted keys,
// no insignificant whitespace) of the wire form without the identity
// fields, hashed with algo and rendered as lowercase hex.
func ETag(doc *model.Document, algo Algorithm) (string, error) {
	w := ToWire(doc)
	if w == nil {
		return "", fmt.Errorf("codec: nil document")
	}
	for _, k := range identityFields {
		delete(w, k)
	}
	return Digest(w, algo)
}

// Digest hashes the canonical JSON of a generic tree.
func Digest(v any, algo Algorithm) (string, error) {
	b, err := CanonicalJSON(v)
	if err != nil {
		return "", err
	}
	var h hash.Hash
	switch algo {
	case "", SHA256:
		h = sha256.New()
	case BLAKE3:
		h = blake3.New()
	default:
		return "", fmt.Errorf("codec: unknown etag algorithm %q", algo)
	}
	h.Write(b)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// CanonicalJSON renders v compactly with map keys sorted.
func CanonicalJSON(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: canonical json: %w", err)
	}
	return b, nil
}
