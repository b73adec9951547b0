// Package semantic runs the domain constraint checks that the structural
// contract cannot express: cross-field ordering, non-negative step numbers,
// identifier shape and the optional revision checks.
//
// Each enabled check runs independently and every finding is accumulated.
package semantic

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	bcoskema "github.com/biocompute-objects/bcoskema"
	"github.com/biocompute-objects/bcoskema/codec"
	"github.com/biocompute-objects/bcoskema/model"
	"github.com/biocompute-objects/bcoskema/schema"
)

// Policy selects the checks to run. The embargo, step number and
// derived_from checks always run.
type Policy struct {
	RequireContributors bool
	StepOrdering        bool
	StepReferences      bool
	TemporalOrdering    bool
	SpecVersion         bool
	VerifyETag          bool
	ETagAlgorithm       codec.Algorithm
}

// DefaultPolicy requires contributors and leaves the opt-in checks off.
func DefaultPolicy() Policy {
	return Policy{RequireContributors: true, ETagAlgorithm: codec.SHA256}
}

type namedCheck struct {
	name    string
	enabled func(Policy) bool
	run     func(doc *model.Document, p Policy) bcoskema.Issues
}

func always(Policy) bool { return true }

var checks = []namedCheck{
	{"embargo", always, checkEmbargo},
	{"contributors", func(p Policy) bool { return p.RequireContributors }, checkContributors},
	{"derived_from", always, checkDerivedFrom},
	{"temporal", func(p Policy) bool { return p.TemporalOrdering }, checkTemporal},
	{"step_numbers", always, checkStepNumbers},
	{"step_ordering", func(p Policy) bool { return p.StepOrdering }, checkStepOrdering},
	{"step_references", func(p Policy) bool { return p.StepReferences }, checkStepReferences},
	{"spec_version", func(p Policy) bool { return p.SpecVersion }, checkSpecVersion},
	{"etag", func(p Policy) bool { return p.VerifyETag }, checkETag},
}

// Check runs the enabled checks against doc in a fixed order. A cancelled
// context stops between checks; the issues found so far are returned.
func Check(ctx context.Context, doc *model.Document, p Policy) bcoskema.Issues {
	if doc == nil {
		return nil
	}
	var out bcoskema.Issues
	for _, c := range checks {
		if ctx.Err() != nil {
			break
		}
		if !c.enabled(p) {
			continue
		}
		out = append(out, c.run(doc, p)...)
	}
	return out
}

func issue(p bcoskema.Path, code string, params map[string]any, detail string) bcoskema.Issue {
	return bcoskema.IssueAt(p, code, bcoskema.Message(code, params, detail), params)
}

var (
	provenancePath = bcoskema.Root().Field("provenance_domain")
	stepsPath      = bcoskema.Root().Field("description_domain").Field("pipeline_steps")
)

func checkEmbargo(doc *model.Document, _ Policy) bcoskema.Issues {
	e := doc.Provenance.Embargo
	if e == nil || e.StartTime == nil || e.EndTime == nil || !e.StartTime.After(*e.EndTime) {
		return nil
	}
	params := map[string]any{"start": codec.FormatTimestamp(*e.StartTime), "end": codec.FormatTimestamp(*e.EndTime)}
	return bcoskema.Issues{issue(provenancePath.Field("embargo"), bcoskema.CodeEmbargoOrdering, params, "embargo ends before it starts")}
}

func checkContributors(doc *model.Document, _ Policy) bcoskema.Issues {
	if len(doc.Provenance.Contributors) > 0 {
		return nil
	}
	return bcoskema.Issues{issue(provenancePath.Field("contributors"), bcoskema.CodeEmptyContributors, nil, "at least one contributor is required")}
}

func checkDerivedFrom(doc *model.Document, _ Policy) bcoskema.Issues {
	d := doc.Provenance.DerivedFrom
	if d == nil {
		return nil
	}
	if err := ValidObjectID(*d); err != nil {
		return bcoskema.Issues{issue(provenancePath.Field("derived_from"), bcoskema.CodeMalformedObjectID, map[string]any{"got": *d}, err.Error())}
	}
	return nil
}

// ValidObjectID reports whether id is a well-formed object identifier: an
// absolute http or https URL with a host and no whitespace.
func ValidObjectID(id string) error {
	if id == "" || strings.ContainsAny(id, " \t\r\n") {
		return fmt.Errorf("object identifier %q is empty or contains whitespace", id)
	}
	u, err := url.Parse(id)
	if err != nil {
		return fmt.Errorf("object identifier %q: %w", id, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("object identifier %q is not an http(s) URL", id)
	}
	if u.Host == "" {
		return fmt.Errorf("object identifier %q has no host", id)
	}
	return nil
}

func checkTemporal(doc *model.Document, _ Policy) bcoskema.Issues {
	p := doc.Provenance
	var out bcoskema.Issues
	if p.Modified.Before(p.Created) {
		params := map[string]any{"field": "modified", "other": "created"}
		out = append(out, issue(provenancePath.Field("modified"), bcoskema.CodeTemporalOrdering, params, "modified is before created"))
	}
	if p.ObsoleteAfter != nil && !p.ObsoleteAfter.After(p.Created) {
		params := map[string]any{"field": "obsolete_after", "other": "created"}
		out = append(out, issue(provenancePath.Field("obsolete_after"), bcoskema.CodeTemporalOrdering, params, "obsolete_after is not after created"))
	}
	return out
}

func checkStepNumbers(doc *model.Document, _ Policy) bcoskema.Issues {
	var out bcoskema.Issues
	for i, s := range doc.Description.PipelineSteps {
		if s.StepNumber < 0 {
			out = append(out, issue(stepsPath.Index(i).Field("step_number"), bcoskema.CodeNegativeStepNumber,
				map[string]any{"got": s.StepNumber}, fmt.Sprintf("step_number %d is negative", s.StepNumber)))
		}
	}
	return out
}

func checkStepOrdering(doc *model.Document, _ Policy) bcoskema.Issues {
	var out bcoskema.Issues
	steps := doc.Description.PipelineSteps
	for i := 1; i < len(steps); i++ {
		if steps[i].StepNumber < steps[i-1].StepNumber {
			params := map[string]any{"got": steps[i].StepNumber, "previous": steps[i-1].StepNumber}
			out = append(out, issue(stepsPath.Index(i).Field("step_number"), bcoskema.CodeStepOrdering, params,
				fmt.Sprintf("step_number %d follows %d", steps[i].StepNumber, steps[i-1].StepNumber)))
		}
	}
	return out
}

func checkStepReferences(doc *model.Document, _ Policy) bcoskema.Issues {
	known := doc.Description.Steps()
	var out bcoskema.Issues
	for i, prm := range doc.Parametric {
		n, err := strconv.Atoi(strings.TrimSpace(prm.Step))
		if err != nil {
			continue
		}
		if _, ok := known[n]; !ok {
			out = append(out, issue(bcoskema.Root().Field("parametric_domain").Index(i).Field("step"), bcoskema.CodeUnknownStepReference,
				map[string]any{"step": n, "got": prm.Step}, fmt.Sprintf("no pipeline step numbered %d", n)))
		}
	}
	return out
}

func checkSpecVersion(doc *model.Document, _ Policy) bcoskema.Issues {
	v, ok := schema.VersionOf(doc.SpecVersion)
	if !ok {
		return nil
	}
	params := map[string]any{"version": v, "supported": "^" + schema.SchemaVersion}
	compatible, err := schema.IsCompatible(v)
	if err == nil && compatible {
		return nil
	}
	detail := fmt.Sprintf("spec version %s is not compatible with %s", v, schema.SchemaVersion)
	if err != nil {
		detail = err.Error()
	}
	return bcoskema.Issues{issue(bcoskema.Root().Field("spec_version"), bcoskema.CodeIncompatibleSpecVersion, params, detail)}
}

func checkETag(doc *model.Document, p Policy) bcoskema.Issues {
	want, err := codec.ETag(doc, p.ETagAlgorithm)
	if err != nil {
		return bcoskema.Issues{issue(bcoskema.Root().Field("etag"), bcoskema.CodeETagMismatch, map[string]any{"got": doc.ETag}, err.Error())}
	}
	if want == doc.ETag {
		return nil
	}
	params := map[string]any{"got": doc.ETag, "want": want}
	return bcoskema.Issues{issue(bcoskema.Root().Field("etag"), bcoskema.CodeETagMismatch, params, "etag does not match the content digest")}
}
