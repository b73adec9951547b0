package render

import (
	"bytes"
	"strings"
	"testing"
)

type table struct{}

func (table) Header() []string { return []string{"FILE", "CODE"} }
func (table) Rows() [][]string { return [][]string{{"a.json", "required"}, {"b.json", "pattern"}} }

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"json", "TABLE", "yaml", ""} {
		if _, err := ParseFormat(s); err != nil {
			t.Fatalf("%q: %v", s, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}

func TestRender_Formats(t *testing.T) {
	var buf bytes.Buffer
	r, err := New("", &buf)
	if err != nil || r.Format() != FormatJSON {
		t.Fatalf("non-terminal writers default to json: %v %v", r, err)
	}
	if err := r.Render(map[string]any{"valid": true}); err != nil {
		t.Fatalf("json err: %v", err)
	}
	if !strings.Contains(buf.String(), `"valid": true`) {
		t.Fatalf("unexpected json: %s", buf.String())
	}

	buf.Reset()
	r, _ = New("yaml", &buf)
	if err := r.Render(map[string]any{"valid": true}); err != nil {
		t.Fatalf("yaml err: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "valid: true" {
		t.Fatalf("unexpected yaml: %s", buf.String())
	}

	buf.Reset()
	r, _ = New("table", &buf)
	if err := r.Render(table{}); err != nil {
		t.Fatalf("table err: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "FILE") || !strings.Contains(lines[2], "pattern") {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}
	if err := r.Render(42); err == nil {
		t.Fatalf("expected error for non-tabular value")
	}
}
