package loader

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	bcoskema "github.com/biocompute-objects/bcoskema"
	"github.com/biocompute-objects/bcoskema/codec"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoad_Fixture(t *testing.T) {
	v, err := Load(context.Background(), "../testdata/valid_bco.json")
	if err != nil {
		t.Fatalf("load err: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok || m["object_id"] != "https://biocomputeobject.org/BCO_000001/1.0" {
		t.Fatalf("unexpected tree: %T", v)
	}
}

func TestLoad_FormatsAgree(t *testing.T) {
	ctx := context.Background()
	jsonTree, err := Load(ctx, write(t, "a.json", `{"a": [1, "x"], "b": {"c": true}}`))
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	jsoncTree, err := Load(ctx, write(t, "a.jsonc", "{\n  // comment\n  \"a\": [1, \"x\",],\n  \"b\": {\"c\": true},\n}\n"))
	if err != nil {
		t.Fatalf("jsonc: %v", err)
	}
	yamlTree, err := Load(ctx, write(t, "a.yaml", "a:\n  - 1\n  - x\nb:\n  c: true\n"))
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	a, _ := codec.Normalize(jsonTree)
	b, _ := codec.Normalize(jsoncTree)
	if !reflect.DeepEqual(a, b) || !reflect.DeepEqual(a, yamlTree) {
		t.Fatalf("formats disagree:\n%#v\n%#v\n%#v", a, b, yamlTree)
	}
}

func TestLoad_SniffsWithoutExtension(t *testing.T) {
	ctx := context.Background()
	v, err := Load(ctx, write(t, "doc", `  {"k": "v"}`))
	if err != nil || v.(map[string]any)["k"] != "v" {
		t.Fatalf("json sniff: %v %v", v, err)
	}
	v, err = Load(ctx, write(t, "doc2", "k: v\n"))
	if err != nil || v.(map[string]any)["k"] != "v" {
		t.Fatalf("yaml sniff: %v %v", v, err)
	}
}

func TestLoad_DuplicateKeys(t *testing.T) {
	ctx := context.Background()
	for name, content := range map[string]string{
		"dup.json": `{"a": {"b": 1, "b": 2}}`,
		"dup.yaml": "a:\n  b: 1\n  b: 2\n",
	} {
		_, err := Load(ctx, write(t, name, content))
		iss, ok := bcoskema.AsIssues(err)
		if !ok || len(iss) != 1 || iss[0].Code != bcoskema.CodeDuplicateKey {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
		if iss[0].Path != "/a/b" {
			t.Fatalf("%s: unexpected path %s", name, iss[0].Path)
		}
	}
}

func TestLoad_ParseErrors(t *testing.T) {
	_, err := Load(context.Background(), write(t, "bad.yaml", "a: [1, 2\n"))
	iss, ok := bcoskema.AsIssues(err)
	if !ok || iss[0].Code != bcoskema.CodeParseError || iss[0].Cause == nil {
		t.Fatalf("unexpected error %v", err)
	}
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoad_BinaryFormats(t *testing.T) {
	tree := map[string]any{"k": "v", "n": int64(3)}
	for ext, f := range map[string]codec.Format{".cbor": codec.FormatCBOR, ".msgpack": codec.FormatMsgpack} {
		data, err := codec.Marshal(tree, f)
		if err != nil {
			t.Fatalf("%s marshal: %v", ext, err)
		}
		v, err := New().Decode(data, ext)
		if err != nil || !reflect.DeepEqual(v, any(tree)) {
			t.Fatalf("%s: %#v %v", ext, v, err)
		}
	}
}

func TestLoad_Stdin(t *testing.T) {
	l := New(WithStdin(strings.NewReader(`{"k": 1}`)))
	v, err := l.Load(context.Background(), Stdin)
	if err != nil {
		t.Fatalf("stdin: %v", err)
	}
	if _, ok := v.(map[string]any)["k"]; !ok {
		t.Fatalf("unexpected tree: %#v", v)
	}
}
