// Package schema owns the structural contract: the embedded BCO schema, its
// version policy and the entry points that compile a contract into a
// rules.Model.
package schema

import (
	"fmt"
	"sync"

	"github.com/biocompute-objects/bcoskema/internal/compiler"
	"github.com/biocompute-objects/bcoskema/jsonschema"
	"github.com/biocompute-objects/bcoskema/rules"
)

// CompileError is returned when a contract cannot be compiled. Path is a JSON
// Pointer into the schema source.
type CompileError = compiler.Error

// Compiled is a compiled contract plus the non-fatal compile warnings.
type Compiled struct {
	Model    *rules.Model
	Warnings []string
	// Reused counts sub-schemas satisfied by an existing identical node.
	Reused int
}

// Compile decodes (JSON, JSONC or YAML) and compiles a contract. The model
// version is taken from the schema $id when it embeds one.
func Compile(raw []byte) (*Compiled, error) {
	s, err := jsonschema.Parse(raw)
	if err != nil {
		return nil, err
	}
	return CompileSchema(s)
}

// CompileSchema compiles an already decoded contract.
func CompileSchema(s *jsonschema.Schema) (*Compiled, error) {
	if s == nil {
		return nil, fmt.Errorf("schema: nil contract")
	}
	version, _ := VersionOf(s.ID)
	m, d, st, err := compiler.CompileWithStats(s, compiler.Options{Version: version})
	if err != nil {
		return nil, err
	}
	return &Compiled{Model: m, Warnings: d.Warnings(), Reused: st.Reused}, nil
}

var (
	defaultOnce     sync.Once
	defaultCompiled *Compiled
)

// Default returns the compiled embedded contract. It is compiled once on
// first use; a failure panics since the engine cannot run without it.
func Default() *rules.Model {
	return DefaultCompiled().Model
}

// DefaultCompiled is Default with compile warnings.
func DefaultCompiled() *Compiled {
	defaultOnce.Do(func() {
		c, err := Compile(Source())
		if err != nil {
			panic(fmt.Sprintf("schema: embedded contract does not compile: %v", err))
		}
		defaultCompiled = c
	})
	return defaultCompiled
}
