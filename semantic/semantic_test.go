package semantic

import (
	"context"
	"reflect"
	"testing"
	"time"

	bcoskema "github.com/biocompute-objects/bcoskema"
	"github.com/biocompute-objects/bcoskema/codec"
	"github.com/biocompute-objects/bcoskema/model"
)

func at(h int) time.Time { return time.Date(2023, 6, 1, h, 0, 0, 0, time.UTC) }

func tp(t time.Time) *time.Time { return &t }

func sp(s string) *string { return &s }

func baseDoc() *model.Document {
	return &model.Document{
		ObjectID:    "https://example.org/BCO_1/1.0",
		SpecVersion: "https://w3id.org/biocompute/1.4.0/",
		ETag:        "0",
		Provenance: model.ProvenanceDomain{
			Name: "n", Version: "1.0", Created: at(1), Modified: at(2), License: "MIT",
			Contributors: []model.Contributor{{Name: "A", Contribution: []model.ContributionKind{model.AuthoredBy}}},
		},
		Usability: []string{"u"},
		Description: model.DescriptionDomain{Keywords: []string{}, PipelineSteps: []model.PipelineStep{
			{StepNumber: 1, Inputs: []model.URI{}, Outputs: []model.URI{}},
			{StepNumber: 2, Inputs: []model.URI{}, Outputs: []model.URI{}},
			{StepNumber: 2, Inputs: []model.URI{}, Outputs: []model.URI{}},
		}},
		Execution: model.ExecutionDomain{Script: []model.Script{}, SoftwarePrerequisites: []model.SoftwarePrerequisite{}, ExternalDataEndpoints: []model.Endpoint{}, EnvironmentVariables: map[string]string{}},
		IO:        model.IODomain{Inputs: []model.InputItem{}, Outputs: []model.OutputItem{}},
	}
}

func allOn() Policy {
	return Policy{RequireContributors: true, StepOrdering: true, StepReferences: true, TemporalOrdering: true, SpecVersion: true, VerifyETag: false}
}

func found(iss bcoskema.Issues) []string {
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.Code + "@" + it.Path
	}
	return out
}

func TestCheck_ValidDocument(t *testing.T) {
	if iss := Check(context.Background(), baseDoc(), allOn()); len(iss) != 0 {
		t.Fatalf("unexpected issues: %v", iss)
	}
}

func TestCheck_ParallelStepsAccepted(t *testing.T) {
	doc := baseDoc()
	if iss := Check(context.Background(), doc, DefaultPolicy()); len(iss) != 0 {
		t.Fatalf("two steps numbered 2 must be accepted: %v", iss)
	}
}

func TestCheck_DefaultChecks(t *testing.T) {
	doc := baseDoc()
	doc.Provenance.Embargo = &model.Embargo{StartTime: tp(at(5)), EndTime: tp(at(4))}
	doc.Provenance.DerivedFrom = sp("BCO_000001")
	doc.Provenance.Contributors = []model.Contributor{}
	doc.Description.PipelineSteps[0].StepNumber = -1

	got := found(Check(context.Background(), doc, DefaultPolicy()))
	want := []string{
		"embargo_ordering@/provenance_domain/embargo",
		"empty_contributors@/provenance_domain/contributors",
		"malformed_object_id@/provenance_domain/derived_from",
		"negative_step_number@/description_domain/pipeline_steps/0/step_number",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected issues:\n got %v\nwant %v", got, want)
	}
}

func TestCheck_EmbargoEqualBoundsAccepted(t *testing.T) {
	doc := baseDoc()
	doc.Provenance.Embargo = &model.Embargo{StartTime: tp(at(5)), EndTime: tp(at(5))}
	if iss := Check(context.Background(), doc, DefaultPolicy()); len(iss) != 0 {
		t.Fatalf("unexpected issues: %v", iss)
	}
	doc.Provenance.Embargo = &model.Embargo{StartTime: tp(at(5))}
	if iss := Check(context.Background(), doc, DefaultPolicy()); len(iss) != 0 {
		t.Fatalf("open-ended embargo must be accepted: %v", iss)
	}
}

func TestCheck_ContributorsPolicyOff(t *testing.T) {
	doc := baseDoc()
	doc.Provenance.Contributors = nil
	if iss := Check(context.Background(), doc, Policy{}); len(iss) != 0 {
		t.Fatalf("unexpected issues: %v", iss)
	}
}

func TestCheck_OptInChecks(t *testing.T) {
	doc := baseDoc()
	doc.Provenance.Modified = at(0)
	doc.Provenance.ObsoleteAfter = tp(at(1))
	doc.Description.PipelineSteps[2].StepNumber = 1
	doc.Parametric = []model.Parameter{{Param: "p", Value: "v", Step: "1"}, {Param: "q", Value: "v", Step: "7"}, {Param: "r", Value: "v", Step: "trim"}}
	doc.SpecVersion = "https://w3id.org/biocompute/2.0.0/"

	got := found(Check(context.Background(), doc, allOn()))
	want := []string{
		"temporal_ordering@/provenance_domain/modified",
		"temporal_ordering@/provenance_domain/obsolete_after",
		"step_ordering@/description_domain/pipeline_steps/2/step_number",
		"unknown_step_reference@/parametric_domain/1/step",
		"incompatible_spec_version@/spec_version",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected issues:\n got %v\nwant %v", got, want)
	}
}

func TestCheck_SpecVersionWithoutEmbeddedVersion(t *testing.T) {
	doc := baseDoc()
	doc.SpecVersion = "https://w3id.org/ieee/ieee-2791-schema/2791object.json"
	if iss := Check(context.Background(), doc, allOn()); len(iss) != 0 {
		t.Fatalf("unexpected issues: %v", iss)
	}
}

func TestCheck_ETag(t *testing.T) {
	doc := baseDoc()
	p := DefaultPolicy()
	p.VerifyETag = true
	iss := Check(context.Background(), doc, p)
	if len(iss) != 1 || iss[0].Code != bcoskema.CodeETagMismatch || iss[0].Path != "/etag" {
		t.Fatalf("expected etag mismatch, got %v", iss)
	}
	sum, err := codec.ETag(doc, codec.SHA256)
	if err != nil {
		t.Fatalf("etag err: %v", err)
	}
	doc.ETag = sum
	if iss := Check(context.Background(), doc, p); len(iss) != 0 {
		t.Fatalf("unexpected issues: %v", iss)
	}
}

func TestValidObjectID(t *testing.T) {
	for _, ok := range []string{"https://biocomputeobject.org/BCO_000001/1.0", "http://localhost:8000/BCO_1"} {
		if err := ValidObjectID(ok); err != nil {
			t.Fatalf("%s: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "BCO_1", "ftp://example.org/x", "https:///nohost", "https://example.org/a b"} {
		if err := ValidObjectID(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestCheck_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	doc := baseDoc()
	doc.Provenance.Contributors = nil
	if iss := Check(ctx, doc, DefaultPolicy()); len(iss) != 0 {
		t.Fatalf("expected no checks after cancel, got %v", iss)
	}
}
