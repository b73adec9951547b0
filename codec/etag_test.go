package codec

import (
	"regexp"
	"testing"
	"time"

	"github.com/biocompute-objects/bcoskema/model"
)

func etagDoc() *model.Document {
	ts := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	return &model.Document{
		ObjectID:    "https://example.org/BCO_000001/1.0",
		SpecVersion: "https://w3id.org/ieee/ieee-2791-schema/2791object.json",
		ETag:        "abc",
		Provenance: model.ProvenanceDomain{
			Name: "HCV1a", Version: "1.0", Created: ts, Modified: ts, License: "CC-BY-4.0",
			Contributors: []model.Contributor{{Name: "A", Contribution: []model.ContributionKind{model.CreatedBy}}},
		},
		Usability:   []string{"typing"},
		Description: model.DescriptionDomain{Keywords: []string{"HCV"}, PipelineSteps: []model.PipelineStep{}},
		Execution:   model.ExecutionDomain{Script: []model.Script{}, SoftwarePrerequisites: []model.SoftwarePrerequisite{}, ExternalDataEndpoints: []model.Endpoint{}, EnvironmentVariables: map[string]string{}},
		IO:          model.IODomain{Inputs: []model.InputItem{}, Outputs: []model.OutputItem{}},
	}
}

var hexRe = regexp.MustCompile(`^[0-9a-f]+$`)

func TestETag_IgnoresIdentityFields(t *testing.T) {
	for _, algo := range []Algorithm{SHA256, BLAKE3} {
		a, err := ETag(etagDoc(), algo)
		if err != nil {
			t.Fatalf("%s: %v", algo, err)
		}
		if len(a) != 64 || !hexRe.MatchString(a) {
			t.Fatalf("%s: unexpected digest %q", algo, a)
		}
		d := etagDoc()
		d.ObjectID = "https://example.org/BCO_000002/1.0"
		d.ETag = a
		b, err := ETag(d, algo)
		if err != nil {
			t.Fatalf("%s: %v", algo, err)
		}
		if a != b {
			t.Fatalf("%s: identity fields changed the digest", algo)
		}
	}
}

func TestETag_ContentChangesDigest(t *testing.T) {
	a, _ := ETag(etagDoc(), SHA256)
	d := etagDoc()
	d.Usability = append(d.Usability, "more")
	b, _ := ETag(d, SHA256)
	if a == b {
		t.Fatalf("expected digest to change with content")
	}
	c, _ := ETag(etagDoc(), BLAKE3)
	if a == c {
		t.Fatalf("expected algorithms to differ")
	}
}

func TestETag_UnknownAlgorithm(t *testing.T) {
	if _, err := ETag(etagDoc(), Algorithm("md5")); err == nil {
		t.Fatalf("expected error for unknown algorithm")
	}
	if _, err := ParseAlgorithm("md5"); err == nil {
		t.Fatalf("expected parse error")
	}
	if a, err := ParseAlgorithm(""); err != nil || a != SHA256 {
		t.Fatalf("expected default sha256, got %q %v", a, err)
	}
}

func TestToWire_OptionalKeysOnlyWhenSet(t *testing.T) {
	w := ToWire(etagDoc())
	p := w["provenance_domain"].(map[string]any)
	for _, k := range []string{"review", "derived_from", "obsolete_after", "embargo"} {
		if _, ok := p[k]; ok {
			t.Fatalf("unexpected optional key %s", k)
		}
	}
	if _, ok := w["error_domain"]; ok {
		t.Fatalf("unexpected error_domain")
	}
	if p["created"] != "2023-06-01T12:00:00Z" {
		t.Fatalf("unexpected created: %v", p["created"])
	}
	c := p["contributors"].([]any)[0].(map[string]any)
	if c["contribution"].([]any)[0] != "createdBy" {
		t.Fatalf("unexpected contribution: %v", c["contribution"])
	}
}
