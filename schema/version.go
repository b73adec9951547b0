package schema

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// SchemaVersion is the BCO contract version the engine is compiled against.
const SchemaVersion = "1.4.0"

// IsCompatible checks if a document's declared version is compatible with
// SchemaVersion using a caret constraint: the same major version is accepted.
//
// Returns false (with no error) if versions are incompatible and an error if
// the version string is invalid.
func IsCompatible(docVersion string) (bool, error) {
	constraint, err := semver.NewConstraint("^" + SchemaVersion)
	if err != nil {
		return false, fmt.Errorf("invalid schema version: %w", err)
	}
	v, err := semver.NewVersion(docVersion)
	if err != nil {
		return false, fmt.Errorf("invalid document version %q: %w", docVersion, err)
	}
	return constraint.Check(v), nil
}

var embeddedVersion = regexp.MustCompile(`(?:^|[/v])(\d+\.\d+(?:\.\d+)?)(?:/|\.json|$)`)

// VersionOf extracts the version embedded in a spec_version or $id URI,
// for example "https://w3id.org/biocompute/1.4.0/" or ".../spec/v1.2".
func VersionOf(uri string) (string, bool) {
	m := embeddedVersion.FindAllStringSubmatch(uri, -1)
	if len(m) == 0 {
		return "", false
	}
	return m[len(m)-1][1], true
}
