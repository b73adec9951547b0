package schema

import "embed"

// Files holds the embedded contract sources:
//   - biocomputeobject.json: BioCompute Object 1.4.0 (draft-07 subset)
//
//go:embed biocomputeobject.json
var Files embed.FS

// DefaultFile is the name of the contract compiled by Default.
const DefaultFile = "biocomputeobject.json"

// Source returns the raw embedded contract.
func Source() []byte {
	b, err := Files.ReadFile(DefaultFile)
	if err != nil {
		// embed guarantees presence; a failure means a broken build.
		panic(err)
	}
	return b
}
