package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	"github.com/biocompute-objects/bcoskema/codec"
)

const fixture = "../../testdata/valid_bco.json"

func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := App("test")
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"bcoskema"}, args...))
	code := 0
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		code = ec.ExitCode()
	} else if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out.String(), errOut.String(), code
}

func writeDoc(t *testing.T, mutate func(map[string]any)) string {
	t.Helper()
	data, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	mutate(m)
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	p := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(p, out, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestValidate_ValidAndInvalid(t *testing.T) {
	bad := writeDoc(t, func(m map[string]any) { delete(m, "etag") })
	out, _, code := run(t, "validate", "--format", "json", fixture, bad)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	var rep Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("report is not JSON: %v\n%s", err, out)
	}
	if rep.Valid != 1 || rep.Invalid != 1 || !rep.Files[0].Valid || rep.Files[1].Issues[0].Path != "/etag" {
		t.Fatalf("unexpected report: %+v", rep)
	}

	out, _, code = run(t, "validate", "-f", "table", fixture)
	if code != 0 || !strings.Contains(out, "ok") {
		t.Fatalf("expected valid table output, got %d:\n%s", code, out)
	}
}

func TestValidate_UnreadableFile(t *testing.T) {
	out, _, code := run(t, "validate", "--format", "yaml", filepath.Join(t.TempDir(), "missing.json"))
	if code != 1 || !strings.Contains(out, "parse_error") {
		t.Fatalf("expected parse_error report, got %d:\n%s", code, out)
	}
}

func TestValidate_Usage(t *testing.T) {
	if _, _, code := run(t, "validate"); code != 2 {
		t.Fatalf("expected exit 2 without files, got %d", code)
	}
	if _, _, code := run(t, "validate", "--format", "xml", fixture); code != 2 {
		t.Fatalf("expected exit 2 for bad format, got %d", code)
	}
}

func TestValidate_ConfigEnablesPolicy(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "bcoskema.yaml")
	if err := os.WriteFile(cfg, []byte("policy:\n  verify_etag: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out, _, code := run(t, "--config", cfg, "validate", "--format", "json", fixture)
	if code != 1 || !strings.Contains(out, "etag_mismatch") {
		t.Fatalf("expected etag_mismatch, got %d:\n%s", code, out)
	}
}

func TestBuild_Outputs(t *testing.T) {
	for _, f := range []string{"json", "yaml", "cbor", "msgpack"} {
		out, _, code := run(t, "build", "--output", f, fixture)
		if code != 0 {
			t.Fatalf("%s: exit %d", f, code)
		}
		format, _ := codec.ParseFormat(f)
		tree, err := codec.Unmarshal([]byte(out), format)
		if err != nil {
			t.Fatalf("%s: output does not decode: %v", f, err)
		}
		if tree.(map[string]any)["object_id"] != "https://biocomputeobject.org/BCO_000001/1.0" {
			t.Fatalf("%s: unexpected tree", f)
		}
	}
}

func TestBuild_InvalidDocument(t *testing.T) {
	bad := writeDoc(t, func(m map[string]any) { m["etag"] = "not valid!" })
	out, errOut, code := run(t, "build", "--format", "json", bad)
	if code != 1 || out != "" || !strings.Contains(errOut, `"pattern"`) {
		t.Fatalf("unexpected result %d\nstdout: %s\nstderr: %s", code, out, errOut)
	}
}

func TestETag(t *testing.T) {
	out, _, code := run(t, "etag", "-q", fixture)
	if code != 0 || len(strings.TrimSpace(out)) != 64 {
		t.Fatalf("unexpected etag output %d: %q", code, out)
	}
	sha := strings.TrimSpace(out)

	out, _, _ = run(t, "etag", "-q", "--algorithm", "blake3", fixture)
	if strings.TrimSpace(out) == sha {
		t.Fatalf("algorithms should differ")
	}

	fixed := writeDoc(t, func(m map[string]any) { m["etag"] = sha })
	out, _, code = run(t, "etag", "--format", "json", fixed)
	var resp ETagResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil || code != 0 {
		t.Fatalf("unexpected response %d: %v\n%s", code, err, out)
	}
	if !resp.Matches || resp.Algorithm != "sha256" {
		t.Fatalf("expected matching etag: %+v", resp)
	}
}

func TestSchema(t *testing.T) {
	out, _, code := run(t, "schema", "--format", "json")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	var resp SchemaResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("not JSON: %v\n%s", err, out)
	}
	if resp.Version != "1.4.0" || resp.Nodes == 0 || resp.Kinds["object"] == 0 {
		t.Fatalf("unexpected schema response: %+v", resp)
	}
	want := []string{"contributor", "object_id", "uri"}
	if strings.Join(resp.Definitions, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected definitions: %v", resp.Definitions)
	}
}

func TestGlobalFlags(t *testing.T) {
	names := map[string]bool{}
	for _, f := range GlobalFlags() {
		names[f.Names()[0]] = true
	}
	for _, n := range []string{"config", "log-level", "lang"} {
		if !names[n] {
			t.Fatalf("missing global flag %s", n)
		}
	}
}
