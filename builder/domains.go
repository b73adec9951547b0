package builder

import (
	"fmt"

	bcoskema "github.com/biocompute-objects/bcoskema"
	"github.com/biocompute-objects/bcoskema/codec"
	"github.com/biocompute-objects/bcoskema/model"
)

func (b *state) provenance(p bcoskema.Path, root map[string]any) model.ProvenanceDomain {
	var out model.ProvenanceDomain
	v, ok := b.field(bcoskema.Root(), root, "provenance_domain")
	if !ok {
		return out
	}
	m, ok := b.object(p, v)
	if !ok {
		return out
	}
	out.Name = b.str(p, m, "name")
	out.Version = b.str(p, m, "version")
	if arr, ok := b.optList(p, m, "review"); ok {
		out.Review = make([]model.Review, 0, len(arr))
		for i, item := range arr {
			out.Review = append(out.Review, b.review(p.Field("review").Index(i), item))
		}
	}
	out.DerivedFrom = b.optStr(p, m, "derived_from")
	out.ObsoleteAfter = b.optTime(p, m, "obsolete_after")
	if ev, ok := m["embargo"]; ok {
		ep := p.Field("embargo")
		if em, ok := b.object(ep, ev); ok {
			out.Embargo = &model.Embargo{
				StartTime: b.optTime(ep, em, "start_time"),
				EndTime:   b.optTime(ep, em, "end_time"),
			}
		}
	}
	out.Created = b.timestamp(p, m, "created")
	out.Modified = b.timestamp(p, m, "modified")
	if arr := b.list(p, m, "contributors"); arr != nil {
		out.Contributors = make([]model.Contributor, 0, len(arr))
		for i, item := range arr {
			out.Contributors = append(out.Contributors, b.contributor(p.Field("contributors").Index(i), item))
		}
	}
	out.License = b.str(p, m, "license")
	return out
}

func (b *state) review(p bcoskema.Path, v any) model.Review {
	var out model.Review
	m, ok := b.object(p, v)
	if !ok {
		return out
	}
	out.Date = b.optTime(p, m, "date")
	if rv, ok := b.field(p, m, "reviewer"); ok {
		out.Reviewer = b.contributor(p.Field("reviewer"), rv)
	}
	out.Comment = b.optStr(p, m, "reviewer_comment")
	if sv, ok := b.field(p, m, "status"); ok {
		s, isStr := sv.(string)
		if !isStr {
			b.mismatch(p.Field("status"), "string", sv)
		} else if st, ok := model.ParseReviewStatus(s); ok {
			out.Status = st
		} else {
			b.enum(p.Field("status"), s, model.ReviewStatuses)
		}
	}
	return out
}

func (b *state) contributor(p bcoskema.Path, v any) model.Contributor {
	var out model.Contributor
	m, ok := b.object(p, v)
	if !ok {
		return out
	}
	out.Name = b.str(p, m, "name")
	out.Affiliation = b.optStr(p, m, "affiliation")
	out.Email = b.optStr(p, m, "email")
	if arr := b.list(p, m, "contribution"); arr != nil {
		cp := p.Field("contribution")
		out.Contribution = make([]model.ContributionKind, len(arr))
		for i, item := range arr {
			s, ok := item.(string)
			if !ok {
				b.mismatch(cp.Index(i), "string", item)
				continue
			}
			k, ok := model.ParseContributionKind(s)
			if !ok {
				b.enum(cp.Index(i), s, model.ContributionKinds)
			}
			out.Contribution[i] = k
		}
	}
	out.ORCID = b.optStr(p, m, "orcid")
	return out
}

func (b *state) enum(p bcoskema.Path, got string, allowed any) {
	b.fail(p, bcoskema.CodeInvalidEnum, map[string]any{"allowed": allowed, "got": got}, fmt.Sprintf("%q is not an allowed value", got))
}

func (b *state) uri(p bcoskema.Path, v any) model.URI {
	var out model.URI
	m, ok := b.object(p, v)
	if !ok {
		return out
	}
	out.Filename = b.optStr(p, m, "filename")
	out.URI = b.str(p, m, "uri")
	out.AccessTime = b.optTime(p, m, "access_time")
	out.SHA1Checksum = b.optStr(p, m, "sha1_checksum")
	return out
}

func (b *state) uris(p bcoskema.Path, m map[string]any, key string) []model.URI {
	arr := b.list(p, m, key)
	if arr == nil {
		return nil
	}
	out := make([]model.URI, len(arr))
	for i, item := range arr {
		out[i] = b.uri(p.Field(key).Index(i), item)
	}
	return out
}

func (b *state) extensions(p bcoskema.Path, root map[string]any) []model.Extension {
	arr, ok := b.optList(p, root, "extension_domain")
	if !ok {
		return nil
	}
	out := make([]model.Extension, 0, len(arr))
	for i, item := range arr {
		ip := p.Field("extension_domain").Index(i)
		m, ok := b.object(ip, item)
		if !ok {
			continue
		}
		out = append(out, model.Extension{
			Schema: b.str(ip, m, "extension_schema"),
			Fields: b.extra(ip, m, "extension_schema"),
		})
	}
	return out
}

func (b *state) description(p bcoskema.Path, root map[string]any) model.DescriptionDomain {
	var out model.DescriptionDomain
	v, ok := b.field(bcoskema.Root(), root, "description_domain")
	if !ok {
		return out
	}
	m, ok := b.object(p, v)
	if !ok {
		return out
	}
	out.Keywords = b.strings(p, m, "keywords")
	if arr, ok := b.optList(p, m, "xref"); ok {
		out.XRef = make([]model.XRef, 0, len(arr))
		for i, item := range arr {
			xp := p.Field("xref").Index(i)
			xm, ok := b.object(xp, item)
			if !ok {
				continue
			}
			out.XRef = append(out.XRef, model.XRef{
				Namespace:  b.str(xp, xm, "namespace"),
				Name:       b.str(xp, xm, "name"),
				IDs:        b.strings(xp, xm, "ids"),
				AccessTime: b.timestamp(xp, xm, "access_time"),
				Extra:      b.extra(xp, xm, "namespace", "name", "ids", "access_time"),
			})
		}
	}
	out.Platform = b.optStrings(p, m, "platform")
	if arr := b.list(p, m, "pipeline_steps"); arr != nil {
		out.PipelineSteps = make([]model.PipelineStep, 0, len(arr))
		for i, item := range arr {
			out.PipelineSteps = append(out.PipelineSteps, b.step(p.Field("pipeline_steps").Index(i), item))
		}
	}
	out.Extra = b.extra(p, m, "keywords", "xref", "platform", "pipeline_steps")
	return out
}

func (b *state) step(p bcoskema.Path, v any) model.PipelineStep {
	var out model.PipelineStep
	m, ok := b.object(p, v)
	if !ok {
		return out
	}
	out.StepNumber = b.integer(p, m, "step_number")
	out.Name = b.str(p, m, "name")
	out.Description = b.str(p, m, "description")
	out.Version = b.optStr(p, m, "version")
	if arr, ok := b.optList(p, m, "prerequisite"); ok {
		out.Prerequisites = make([]model.Prerequisite, 0, len(arr))
		for i, item := range arr {
			pp := p.Field("prerequisite").Index(i)
			pm, ok := b.object(pp, item)
			if !ok {
				continue
			}
			pr := model.Prerequisite{Name: b.str(pp, pm, "name")}
			if uv, ok := b.field(pp, pm, "uri"); ok {
				pr.URI = b.uri(pp.Field("uri"), uv)
			}
			pr.Extra = b.extra(pp, pm, "name", "uri")
			out.Prerequisites = append(out.Prerequisites, pr)
		}
	}
	out.Inputs = b.uris(p, m, "input_list")
	out.Outputs = b.uris(p, m, "output_list")
	return out
}

func (b *state) execution(p bcoskema.Path, root map[string]any) model.ExecutionDomain {
	var out model.ExecutionDomain
	v, ok := b.field(bcoskema.Root(), root, "execution_domain")
	if !ok {
		return out
	}
	m, ok := b.object(p, v)
	if !ok {
		return out
	}
	if arr := b.list(p, m, "script"); arr != nil {
		out.Script = make([]model.Script, 0, len(arr))
		for i, item := range arr {
			sp := p.Field("script").Index(i)
			sm, ok := b.object(sp, item)
			if !ok {
				continue
			}
			var s model.Script
			if uv, ok := sm["uri"]; ok {
				u := b.uri(sp.Field("uri"), uv)
				s.URI = &u
			}
			out.Script = append(out.Script, s)
		}
	}
	out.ScriptDriver = b.str(p, m, "script_driver")
	if arr := b.list(p, m, "software_prerequisites"); arr != nil {
		out.SoftwarePrerequisites = make([]model.SoftwarePrerequisite, 0, len(arr))
		for i, item := range arr {
			sp := p.Field("software_prerequisites").Index(i)
			sm, ok := b.object(sp, item)
			if !ok {
				continue
			}
			sw := model.SoftwarePrerequisite{Name: b.str(sp, sm, "name"), Version: b.str(sp, sm, "version")}
			if uv, ok := b.field(sp, sm, "uri"); ok {
				sw.URI = b.uri(sp.Field("uri"), uv)
			}
			out.SoftwarePrerequisites = append(out.SoftwarePrerequisites, sw)
		}
	}
	if arr := b.list(p, m, "external_data_endpoints"); arr != nil {
		out.ExternalDataEndpoints = make([]model.Endpoint, 0, len(arr))
		for i, item := range arr {
			ep := p.Field("external_data_endpoints").Index(i)
			em, ok := b.object(ep, item)
			if !ok {
				continue
			}
			out.ExternalDataEndpoints = append(out.ExternalDataEndpoints, model.Endpoint{Name: b.str(ep, em, "name"), URL: b.str(ep, em, "url")})
		}
	}
	if ev, ok := b.field(p, m, "environment_variables"); ok {
		vp := p.Field("environment_variables")
		if em, ok := b.object(vp, ev); ok {
			out.EnvironmentVariables = make(map[string]string, len(em))
			for _, k := range codec.SortedKeys(em) {
				val := em[k]
				s, ok := val.(string)
				if !ok {
					b.mismatch(vp.Field(k), "string", val)
					continue
				}
				out.EnvironmentVariables[k] = s
			}
		}
	}
	return out
}

func (b *state) parametric(p bcoskema.Path, root map[string]any) []model.Parameter {
	arr, ok := b.optList(p, root, "parametric_domain")
	if !ok {
		return nil
	}
	out := make([]model.Parameter, 0, len(arr))
	for i, item := range arr {
		ip := p.Field("parametric_domain").Index(i)
		m, ok := b.object(ip, item)
		if !ok {
			continue
		}
		out = append(out, model.Parameter{Param: b.str(ip, m, "param"), Value: b.str(ip, m, "value"), Step: b.str(ip, m, "step")})
	}
	return out
}

func (b *state) io(p bcoskema.Path, root map[string]any) model.IODomain {
	var out model.IODomain
	v, ok := b.field(bcoskema.Root(), root, "io_domain")
	if !ok {
		return out
	}
	m, ok := b.object(p, v)
	if !ok {
		return out
	}
	if arr := b.list(p, m, "input_subdomain"); arr != nil {
		out.Inputs = make([]model.InputItem, 0, len(arr))
		for i, item := range arr {
			ip := p.Field("input_subdomain").Index(i)
			im, ok := b.object(ip, item)
			if !ok {
				continue
			}
			var in model.InputItem
			if uv, ok := b.field(ip, im, "uri"); ok {
				in.URI = b.uri(ip.Field("uri"), uv)
			}
			out.Inputs = append(out.Inputs, in)
		}
	}
	if arr := b.list(p, m, "output_subdomain"); arr != nil {
		out.Outputs = make([]model.OutputItem, 0, len(arr))
		for i, item := range arr {
			op := p.Field("output_subdomain").Index(i)
			om, ok := b.object(op, item)
			if !ok {
				continue
			}
			o := model.OutputItem{MediaType: b.str(op, om, "mediatype")}
			if uv, ok := b.field(op, om, "uri"); ok {
				o.URI = b.uri(op.Field("uri"), uv)
			}
			o.Extra = b.extra(op, om, "mediatype", "uri")
			out.Outputs = append(out.Outputs, o)
		}
	}
	out.Extra = b.extra(p, m, "input_subdomain", "output_subdomain")
	return out
}

func (b *state) errorDomain(p bcoskema.Path, root map[string]any) *model.ErrorDomain {
	v, ok := root["error_domain"]
	if !ok {
		return nil
	}
	m, ok := b.object(p, v)
	if !ok {
		return nil
	}
	out := &model.ErrorDomain{Extra: b.extra(p, m, "empirical_error", "algorithmic_error")}
	if ev, ok := b.field(p, m, "empirical_error"); ok {
		out.Empirical = b.free(p.Field("empirical_error"), ev)
	}
	if av, ok := b.field(p, m, "algorithmic_error"); ok {
		out.Algorithmic = b.free(p.Field("algorithmic_error"), av)
	}
	return out
}
