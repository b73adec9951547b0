// Package model holds the typed BioCompute Object produced by the builder.
// Optional fields are pointers or nil slices. A present but empty list is a
// non-nil empty slice, so a document converts back to the same wire tree it
// was built from. Free-form values (Extra, Fields, error subdomains) hold
// generic trees with int64/float64 numbers.
package model

import "time"

// Document is a validated BioCompute Object.
type Document struct {
	ObjectID    string
	SpecVersion string
	ETag        string
	Provenance  ProvenanceDomain
	Usability   []string
	Extensions  []Extension
	Description DescriptionDomain
	Execution   ExecutionDomain
	Parametric  []Parameter
	IO          IODomain
	Error       *ErrorDomain
}

// ProvenanceDomain tracks authorship, review and versioning.
type ProvenanceDomain struct {
	Name          string
	Version       string
	Review        []Review
	DerivedFrom   *string
	ObsoleteAfter *time.Time
	Embargo       *Embargo
	Created       time.Time
	Modified      time.Time
	Contributors  []Contributor
	License       string
}

// Embargo is the period during which the object must not be made public.
type Embargo struct {
	StartTime *time.Time
	EndTime   *time.Time
}

// Contributor identifies a person or organization and how they contributed.
// Contribution keeps document order; duplicates are kept as given.
type Contributor struct {
	Name         string
	Affiliation  *string
	Email        *string
	Contribution []ContributionKind
	ORCID        *string
}

// Review is one entry of the review history.
type Review struct {
	Date     *time.Time
	Reviewer Contributor
	Comment  *string
	Status   ReviewStatus
}

// URI is a resource reference with optional file metadata.
type URI struct {
	Filename     *string
	URI          string
	AccessTime   *time.Time
	SHA1Checksum *string
}

// DescriptionDomain describes the pipeline.
type DescriptionDomain struct {
	Keywords      []string
	XRef          []XRef
	Platform      []string
	PipelineSteps []PipelineStep
	// Extra holds keys the open description_domain object carried beyond the
	// declared ones.
	Extra map[string]any
}

// XRef is a cross-reference to an external database or ontology.
type XRef struct {
	Namespace  string
	Name       string
	IDs        []string
	AccessTime time.Time
	Extra      map[string]any
}

// PipelineStep is one tool invocation. Steps sharing a StepNumber run in
// parallel.
type PipelineStep struct {
	StepNumber    int
	Name          string
	Description   string
	Version       *string
	Prerequisites []Prerequisite
	Inputs        []URI
	Outputs       []URI
}

// Prerequisite is a named reference needed by a step.
type Prerequisite struct {
	Name  string
	URI   URI
	Extra map[string]any
}

// ExecutionDomain describes how to run the pipeline.
type ExecutionDomain struct {
	Script                []Script
	ScriptDriver          string
	SoftwarePrerequisites []SoftwarePrerequisite
	ExternalDataEndpoints []Endpoint
	EnvironmentVariables  map[string]string
}

// Script points at a script used by the pipeline.
type Script struct {
	URI *URI
}

// SoftwarePrerequisite is a tool or library needed to run the script.
type SoftwarePrerequisite struct {
	Name    string
	Version string
	URI     URI
}

// Endpoint is an external data source accessed by the pipeline.
type Endpoint struct {
	Name string
	URL  string
}

// Parameter is a non-default parameter of a step. Step is kept as text.
type Parameter struct {
	Param string
	Value string
	Step  string
}

// IODomain lists the global inputs and outputs.
type IODomain struct {
	Inputs  []InputItem
	Outputs []OutputItem
	Extra   map[string]any
}

// InputItem is a global input file.
type InputItem struct {
	URI URI
}

// OutputItem is a global output file.
type OutputItem struct {
	MediaType string
	URI       URI
	Extra     map[string]any
}

// Extension is a user-defined block validated by its own schema.
type Extension struct {
	Schema string
	Fields map[string]any
}

// ErrorDomain characterizes empirical and algorithmic error. Both parts are
// free-form.
type ErrorDomain struct {
	Empirical   any
	Algorithmic any
	Extra       map[string]any
}

// Steps returns the pipeline steps grouped by step number in first-seen order.
func (d *DescriptionDomain) Steps() map[int][]PipelineStep {
	out := make(map[int][]PipelineStep, len(d.PipelineSteps))
	for _, s := range d.PipelineSteps {
		out[s.StepNumber] = append(out[s.StepNumber], s)
	}
	return out
}

// AllContributors returns every contributor, reviewers included.
func (p *ProvenanceDomain) AllContributors() []Contributor {
	out := append([]Contributor(nil), p.Contributors...)
	for _, r := range p.Review {
		out = append(out, r.Reviewer)
	}
	return out
}
