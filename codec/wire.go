package codec

import (
	"time"

	"github.com/biocompute-objects/bcoskema/model"
)

// ToWire converts a typed document back into the generic tree the contract
// describes. Timestamps use FormatTimestamp, numbers are int64, optional
// fields appear only when set, and free-form parts are copied as held.
func ToWire(doc *model.Document) map[string]any {
	if doc == nil {
		return nil
	}
	w := map[string]any{
		"object_id":          doc.ObjectID,
		"spec_version":       doc.SpecVersion,
		"etag":               doc.ETag,
		"provenance_domain":  provenanceWire(&doc.Provenance),
		"usability_domain":   stringsWire(doc.Usability),
		"description_domain": descriptionWire(&doc.Description),
		"execution_domain":   executionWire(&doc.Execution),
		"io_domain":          ioWire(&doc.IO),
	}
	if doc.Extensions != nil {
		list := make([]any, len(doc.Extensions))
		for i, e := range doc.Extensions {
			m := copyExtra(e.Fields, 1)
			m["extension_schema"] = e.Schema
			list[i] = m
		}
		w["extension_domain"] = list
	}
	if doc.Parametric != nil {
		list := make([]any, len(doc.Parametric))
		for i, p := range doc.Parametric {
			list[i] = map[string]any{"param": p.Param, "value": p.Value, "step": p.Step}
		}
		w["parametric_domain"] = list
	}
	if doc.Error != nil {
		m := copyExtra(doc.Error.Extra, 2)
		m["empirical_error"] = doc.Error.Empirical
		m["algorithmic_error"] = doc.Error.Algorithmic
		w["error_domain"] = m
	}
	return w
}

func provenanceWire(p *model.ProvenanceDomain) map[string]any {
	m := map[string]any{
		"name":         p.Name,
		"version":      p.Version,
		"created":      FormatTimestamp(p.Created),
		"modified":     FormatTimestamp(p.Modified),
		"contributors": contributorsWire(p.Contributors),
		"license":      p.License,
	}
	if p.Review != nil {
		list := make([]any, len(p.Review))
		for i, r := range p.Review {
			rm := map[string]any{
				"reviewer": contributorWire(r.Reviewer),
				"status":   r.Status.String(),
			}
			putTime(rm, "date", r.Date)
			putString(rm, "reviewer_comment", r.Comment)
			list[i] = rm
		}
		m["review"] = list
	}
	putString(m, "derived_from", p.DerivedFrom)
	putTime(m, "obsolete_after", p.ObsoleteAfter)
	if p.Embargo != nil {
		em := map[string]any{}
		putTime(em, "start_time", p.Embargo.StartTime)
		putTime(em, "end_time", p.Embargo.EndTime)
		m["embargo"] = em
	}
	return m
}

func contributorsWire(cs []model.Contributor) []any {
	out := make([]any, len(cs))
	for i, c := range cs {
		out[i] = contributorWire(c)
	}
	return out
}

func contributorWire(c model.Contributor) map[string]any {
	kinds := make([]any, len(c.Contribution))
	for i, k := range c.Contribution {
		kinds[i] = k.String()
	}
	m := map[string]any{"name": c.Name, "contribution": kinds}
	putString(m, "affiliation", c.Affiliation)
	putString(m, "email", c.Email)
	putString(m, "orcid", c.ORCID)
	return m
}

// URIWire converts a URI record.
func URIWire(u model.URI) map[string]any {
	m := map[string]any{"uri": u.URI}
	putString(m, "filename", u.Filename)
	putTime(m, "access_time", u.AccessTime)
	putString(m, "sha1_checksum", u.SHA1Checksum)
	return m
}

func urisWire(us []model.URI) []any {
	out := make([]any, len(us))
	for i, u := range us {
		out[i] = URIWire(u)
	}
	return out
}

func descriptionWire(d *model.DescriptionDomain) map[string]any {
	m := copyExtra(d.Extra, 4)
	m["keywords"] = stringsWire(d.Keywords)
	if d.XRef != nil {
		list := make([]any, len(d.XRef))
		for i, x := range d.XRef {
			xm := copyExtra(x.Extra, 4)
			xm["namespace"] = x.Namespace
			xm["name"] = x.Name
			xm["ids"] = stringsWire(x.IDs)
			xm["access_time"] = FormatTimestamp(x.AccessTime)
			list[i] = xm
		}
		m["xref"] = list
	}
	if d.Platform != nil {
		m["platform"] = stringsWire(d.Platform)
	}
	steps := make([]any, len(d.PipelineSteps))
	for i, s := range d.PipelineSteps {
		sm := map[string]any{
			"step_number": int64(s.StepNumber),
			"name":        s.Name,
			"description": s.Description,
			"input_list":  urisWire(s.Inputs),
			"output_list": urisWire(s.Outputs),
		}
		putString(sm, "version", s.Version)
		if s.Prerequisites != nil {
			list := make([]any, len(s.Prerequisites))
			for j, p := range s.Prerequisites {
				pm := copyExtra(p.Extra, 2)
				pm["name"] = p.Name
				pm["uri"] = URIWire(p.URI)
				list[j] = pm
			}
			sm["prerequisite"] = list
		}
		steps[i] = sm
	}
	m["pipeline_steps"] = steps
	return m
}

func executionWire(e *model.ExecutionDomain) map[string]any {
	scripts := make([]any, len(e.Script))
	for i, s := range e.Script {
		sm := map[string]any{}
		if s.URI != nil {
			sm["uri"] = URIWire(*s.URI)
		}
		scripts[i] = sm
	}
	prereqs := make([]any, len(e.SoftwarePrerequisites))
	for i, p := range e.SoftwarePrerequisites {
		prereqs[i] = map[string]any{"name": p.Name, "version": p.Version, "uri": URIWire(p.URI)}
	}
	endpoints := make([]any, len(e.ExternalDataEndpoints))
	for i, p := range e.ExternalDataEndpoints {
		endpoints[i] = map[string]any{"name": p.Name, "url": p.URL}
	}
	env := make(map[string]any, len(e.EnvironmentVariables))
	for k, v := range e.EnvironmentVariables {
		env[k] = v
	}
	return map[string]any{
		"script":                  scripts,
		"script_driver":           e.ScriptDriver,
		"software_prerequisites":  prereqs,
		"external_data_endpoints": endpoints,
		"environment_variables":   env,
	}
}

func ioWire(d *model.IODomain) map[string]any {
	m := copyExtra(d.Extra, 2)
	ins := make([]any, len(d.Inputs))
	for i, in := range d.Inputs {
		ins[i] = map[string]any{"uri": URIWire(in.URI)}
	}
	outs := make([]any, len(d.Outputs))
	for i, o := range d.Outputs {
		om := copyExtra(o.Extra, 2)
		om["mediatype"] = o.MediaType
		om["uri"] = URIWire(o.URI)
		outs[i] = om
	}
	m["input_subdomain"] = ins
	m["output_subdomain"] = outs
	return m
}

func stringsWire(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func copyExtra(extra map[string]any, room int) map[string]any {
	m := make(map[string]any, len(extra)+room)
	for k, v := range extra {
		m[k] = v
	}
	return m
}

func putString(m map[string]any, key string, v *string) {
	if v != nil {
		m[key] = *v
	}
}

func putTime(m map[string]any, key string, v *time.Time) {
	if v != nil {
		m[key] = FormatTimestamp(*v)
	}
}
