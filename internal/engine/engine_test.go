package engine

import (
	"encoding/json"
	"errors"
	"io"
	"testing"
)

func TestDecode_NumbersAndNesting(t *testing.T) {
	v, warns, err := Decode([]byte(`{"a":[1,2.5,{"b":null}],"c":true,"d":"x","e":[]}`), EnforceOptions{OnDuplicate: DupError})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	m := v.(map[string]any)
	arr := m["a"].([]any)
	if arr[0] != json.Number("1") || arr[1] != json.Number("2.5") {
		t.Fatalf("numbers must stay json.Number: %#v", arr)
	}
	if inner := arr[2].(map[string]any); inner["b"] != nil {
		t.Fatalf("expected null")
	}
	if m["c"] != true || m["d"] != "x" {
		t.Fatalf("scalars: %#v", m)
	}
	if e, ok := m["e"].([]any); !ok || e == nil || len(e) != 0 {
		t.Fatalf("empty array must decode to a non-nil empty slice: %#v", m["e"])
	}
}

func TestDecode_DuplicateKeyError(t *testing.T) {
	_, _, err := Decode([]byte(`{"a":{"b":1,"b":2}}`), EnforceOptions{OnDuplicate: DupError})
	var ie IssueError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IssueError, got %v", err)
	}
	if ie.Code != "duplicate_key" || Pointer(ie.Path) != "/a/b" {
		t.Fatalf("unexpected issue: %+v", ie.SimpleIssue)
	}
}

func TestDecode_DuplicateKeyWarn(t *testing.T) {
	v, warns, err := Decode([]byte(`{"list":[{"k":1,"k":2}]}`), EnforceOptions{OnDuplicate: DupWarn})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(warns) != 1 || Pointer(warns[0].Path) != "/list/0/k" {
		t.Fatalf("unexpected warnings: %+v", warns)
	}
	k := v.(map[string]any)["list"].([]any)[0].(map[string]any)["k"]
	if k != json.Number("2") {
		t.Fatalf("last value should win, got %v", k)
	}
}

func TestDecode_MaxDepth(t *testing.T) {
	_, _, err := Decode([]byte(`{"a":{"b":{"c":1}}}`), EnforceOptions{MaxDepth: 2})
	var ie IssueError
	if !errors.As(err, &ie) || ie.Code != "parse_error" {
		t.Fatalf("expected depth error, got %v", err)
	}
	if Pointer(ie.Path) != "/a/b" {
		t.Fatalf("path=%s", Pointer(ie.Path))
	}
}

func TestDecode_MaxBytes(t *testing.T) {
	_, _, err := Decode([]byte(`{"a":"0123456789"}`), EnforceOptions{MaxBytes: 8})
	var ie IssueError
	if !errors.As(err, &ie) || ie.Code != "truncated" {
		t.Fatalf("expected truncated, got %v", err)
	}
}

func TestDecode_TruncatedInput(t *testing.T) {
	_, _, err := Decode([]byte(`{"a":[1,2`), EnforceOptions{})
	if err == nil {
		t.Fatalf("expected error for truncated input")
	}
	_, _, err = Decode(nil, EnforceOptions{})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("empty input: got %v", err)
	}
}

func TestDecode_TrailingData(t *testing.T) {
	_, _, err := Decode([]byte(`{"a":1} {"b":2}`), EnforceOptions{})
	if !errors.Is(err, ErrTrailingData) {
		t.Fatalf("expected ErrTrailingData, got %v", err)
	}
}

func TestPointer_Escaping(t *testing.T) {
	p := []Seg{{Name: "a/b"}, {Index: 3, IsIndex: true}, {Name: "m~n"}}
	if got := Pointer(p); got != "/a~1b/3/m~0n" {
		t.Fatalf("pointer=%s", got)
	}
	if Pointer(nil) != "/" {
		t.Fatalf("root pointer must be /")
	}
}
