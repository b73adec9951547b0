package bcoskema_test

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"strings"
	"testing"

	bcoskema "github.com/biocompute-objects/bcoskema"
	"github.com/biocompute-objects/bcoskema/i18n"
	"github.com/biocompute-objects/bcoskema/rules"
)

// contributorModel is a small hand-built model:
//
//	{ required: [object_id, contributors], closed,
//	  object_id: string pattern https?://.+,
//	  contributors: array of {required: [name, contribution],
//	                          name: string, contribution: array of enum[createdBy, authoredBy]} }
func contributorModel() *rules.Model {
	b := rules.NewBuilder("urn:test", "1.4")
	str := b.Add(rules.Node{Kind: rules.KindString, String: &rules.StringRule{}})
	id := b.Add(rules.Node{Kind: rules.KindString, String: &rules.StringRule{
		Pattern: regexp.MustCompile(`^(?:https?://.+)$`), PatternSource: "https?://.+",
	}})
	role := b.Add(rules.Node{Kind: rules.KindString, String: &rules.StringRule{Enum: []string{"createdBy", "authoredBy"}}})
	roles := b.Add(rules.Node{Kind: rules.KindArray, Array: &rules.ArrayRule{Item: role}})
	contributor := b.Add(rules.Node{Kind: rules.KindObject, Object: &rules.ObjectRule{
		Required: []string{"name", "contribution"},
		Properties: []rules.Property{
			{Name: "name", Rule: str},
			{Name: "contribution", Rule: roles},
		},
	}})
	contributors := b.Add(rules.Node{Kind: rules.KindArray, Array: &rules.ArrayRule{Item: contributor}})
	root := b.Add(rules.Node{Kind: rules.KindObject, Object: &rules.ObjectRule{
		Required: []string{"object_id", "contributors"},
		Properties: []rules.Property{
			{Name: "object_id", Rule: id},
			{Name: "contributors", Rule: contributors},
		},
		Closed: true,
	}})
	b.Name("contributor", contributor)
	return b.Build(root)
}

func codesAt(iss bcoskema.Issues) []string {
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.Code + "@" + it.Path
	}
	return out
}

func TestValidate_Conforming(t *testing.T) {
	doc := map[string]any{
		"object_id": "https://example.org/BCO_1/1.0",
		"contributors": []any{
			map[string]any{"name": "A", "contribution": []any{"createdBy"}},
		},
	}
	if err := bcoskema.Validate(context.Background(), doc, contributorModel()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bcoskema.Is(context.Background(), doc, contributorModel()) {
		t.Fatalf("Is should report true")
	}
}

func TestValidate_CollectsInDeterministicOrder(t *testing.T) {
	doc := map[string]any{
		"object_id": "ftp://example.org",
		"zeta":      1,
		"alpha":     true,
		"contributors": []any{
			map[string]any{"contribution": []any{"createdBy", "watchedBy"}},
			"bob",
		},
	}
	m := contributorModel()
	var first []string
	for i := 0; i < 5; i++ {
		err := bcoskema.Validate(context.Background(), doc, m)
		iss, ok := bcoskema.AsIssues(err)
		if !ok {
			t.Fatalf("expected Issues, got %T: %v", err, err)
		}
		got := codesAt(iss)
		if i == 0 {
			first = got
			continue
		}
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("order changed between runs: %v vs %v", got, first)
		}
	}
	want := []string{
		"pattern@/object_id",
		"required@/contributors/0/name",
		"invalid_enum@/contributors/0/contribution/1",
		"invalid_type@/contributors/1",
		"unknown_key@/alpha",
		"unknown_key@/zeta",
	}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("issues:\n got %v\nwant %v", first, want)
	}
}

func TestValidate_FailFast(t *testing.T) {
	doc := map[string]any{"zeta": 1}
	m := contributorModel()

	err := bcoskema.Validate(context.Background(), doc, m, bcoskema.ValidateOpt{FailFast: true})
	iss, _ := bcoskema.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != bcoskema.CodeRequired || iss[0].Path != "/object_id" {
		t.Fatalf("fail-fast option: %v", codesAt(iss))
	}

	ctx := bcoskema.WithFailFast(context.Background(), true)
	if !bcoskema.IsFailFast(ctx) {
		t.Fatalf("context flag not visible")
	}
	iss, _ = bcoskema.AsIssues(bcoskema.Validate(ctx, doc, m))
	if len(iss) != 1 {
		t.Fatalf("fail-fast context: %v", codesAt(iss))
	}

	iss, _ = bcoskema.AsIssues(bcoskema.Validate(context.Background(), doc, m))
	if len(iss) != 3 {
		t.Fatalf("collect mode: %v", codesAt(iss))
	}
}

func TestValidate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := bcoskema.Validate(ctx, map[string]any{"object_id": "x"}, contributorModel())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, ok := bcoskema.AsIssues(err); ok {
		t.Fatalf("cancellation must not be reported as Issues")
	}
}

func TestValidate_NilModel(t *testing.T) {
	iss, ok := bcoskema.AsIssues(bcoskema.Validate(context.Background(), map[string]any{}, nil))
	if !ok || len(iss) != 1 || iss[0].Path != "/" {
		t.Fatalf("nil model: %v", iss)
	}
}

func TestValidateAt_RebasesPaths(t *testing.T) {
	m := contributorModel()
	ref, ok := m.Lookup("contributor")
	if !ok {
		t.Fatalf("named definition missing")
	}
	base := bcoskema.Root().Field("provenance_domain").Field("contributors").Index(2)
	err := bcoskema.ValidateAt(context.Background(), map[string]any{"name": "A"}, m, ref, base)
	iss, _ := bcoskema.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/provenance_domain/contributors/2/contribution" {
		t.Fatalf("rebased: %v", codesAt(iss))
	}
	if len(iss[0].Segments) != 4 || !iss[0].Segments[2].IsIndex {
		t.Fatalf("segments: %+v", iss[0].Segments)
	}
}

func TestValidate_FormatChecker(t *testing.T) {
	b := rules.NewBuilder("urn:fmt", "1.4")
	email := b.Add(rules.Node{Kind: rules.KindString, String: &rules.StringRule{Format: "email"}})
	root := b.Add(rules.Node{Kind: rules.KindObject, Object: &rules.ObjectRule{
		Properties: []rules.Property{{Name: "email", Rule: email}},
	}})
	m := b.Build(root)
	doc := map[string]any{"email": "not-an-address"}

	if err := bcoskema.Validate(context.Background(), doc, m); err != nil {
		t.Fatalf("formats are advisory by default: %v", err)
	}
	check := bcoskema.FormatCheckerFunc(func(format, v string) error {
		if format == "email" && !strings.Contains(v, "@") {
			return errors.New("missing @")
		}
		return nil
	})
	iss, _ := bcoskema.AsIssues(bcoskema.Validate(context.Background(), doc, m, bcoskema.ValidateOpt{Formats: check}))
	if len(iss) != 1 || iss[0].Code != bcoskema.CodeInvalidFormat || iss[0].Params["format"] != "email" {
		t.Fatalf("strict formats: %+v", iss)
	}
}

func TestIssues_ErrorAndCodes(t *testing.T) {
	var iss bcoskema.Issues
	for i := 0; i < 5; i++ {
		iss = bcoskema.AppendIssues(iss, bcoskema.Root().Index(i).Issue(bcoskema.CodeRequired, "x", "field", "name"))
	}
	got := iss.Error()
	if !strings.HasPrefix(got, "required at /0; required at /1; required at /2") || !strings.HasSuffix(got, "(total 5)") {
		t.Fatalf("summary: %q", got)
	}
	if c := iss.Codes(); len(c) != 5 || c[4] != bcoskema.CodeRequired {
		t.Fatalf("codes: %v", c)
	}
	if iss[0].Params["field"] != "name" {
		t.Fatalf("params: %v", iss[0].Params)
	}
	if bcoskema.Issues(nil).ToError() != nil {
		t.Fatalf("empty issues must be a nil error")
	}

	wrapped := errors.Join(errors.New("outer"), iss.ToError())
	back, ok := bcoskema.AsIssues(wrapped)
	if !ok || len(back) != 5 {
		t.Fatalf("errors.As through a wrapper failed")
	}
}

func TestIssues_HasClass(t *testing.T) {
	iss := bcoskema.Issues{
		{Code: bcoskema.CodeDuplicateKey},
		{Code: bcoskema.CodeEmbargoOrdering},
	}
	if !iss.HasClass(bcoskema.ClassDecode) || !iss.HasClass(bcoskema.ClassSemantic) {
		t.Fatalf("classes not found")
	}
	if iss.HasClass(bcoskema.ClassStructural) || iss.HasClass(bcoskema.ClassBuild) {
		t.Fatalf("unexpected class")
	}
	if bcoskema.ClassOf("custom_check") != bcoskema.ClassSemantic {
		t.Fatalf("unknown codes are semantic")
	}
}

func TestPath_PointerRoundTrip(t *testing.T) {
	p := bcoskema.Root().Field("a/b").Field("c~d").Index(3)
	if got := p.Pointer(); got != "/a~1b/c~0d/3" {
		t.Fatalf("pointer: %q", got)
	}
	if !reflect.DeepEqual(bcoskema.ParsePointer(p.Pointer()), p) {
		t.Fatalf("parse: %+v", bcoskema.ParsePointer(p.Pointer()))
	}
	if bcoskema.Root().Pointer() != "/" || bcoskema.ParsePointer("/") != nil {
		t.Fatalf("root pointer")
	}
	// "01" is a key, not an index
	if seg := bcoskema.ParsePointer("/01")[0]; seg.IsIndex {
		t.Fatalf("leading zero parsed as index")
	}
}

func TestPath_ExtendDoesNotAlias(t *testing.T) {
	base := make(bcoskema.Path, 0, 8).Field("steps")
	a := base.Index(0)
	b := base.Index(1)
	if a.Pointer() != "/steps/0" || b.Pointer() != "/steps/1" {
		t.Fatalf("aliasing: %s %s", a, b)
	}
}

func TestMessage_Localized(t *testing.T) {
	t.Cleanup(func() { i18n.SetLanguage("en") })

	got := bcoskema.Message(bcoskema.CodeStepOrdering, map[string]any{"got": 1, "previous": 2}, "")
	if got != "step_number 1 is lower than the preceding step 2" {
		t.Fatalf("en: %q", got)
	}
	i18n.SetLanguage("ja")
	if got := bcoskema.Message(bcoskema.CodeRequired, map[string]any{"field": "name"}, ""); !strings.Contains(got, "name") || !strings.Contains(got, "必須") {
		t.Fatalf("ja: %q", got)
	}
	if got := bcoskema.Message("no_such_code", nil, "fallback"); got != "fallback" {
		t.Fatalf("fallback: %q", got)
	}
}

func TestRebase_EmptyBase(t *testing.T) {
	iss := bcoskema.Issues{bcoskema.Root().Field("x").Issue("c", "m")}
	if got := bcoskema.Rebase(nil, iss); got[0].Path != "/x" {
		t.Fatalf("rebase with empty base changed path: %s", got[0].Path)
	}
}
