package pathmatch

import (
	"reflect"
	"testing"
)

func TestMatchLiteralAndWildcards(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/users", "/users", true},
		{"/users", "/usersx", false},
		{"/users/*", "/users/123", true},
		{"/users/*", "/users", false},
		{"/users/*", "/users/123/456", false},
		{"", "/", true},
		{"", "/foo", false},
		{"/**", "/foo", true},
		{"/**", "/foo/bar", true},
		{"/**", "/foo/bar/baz", true},
		{"/**", "/", true},
		{"/foo/**", "/foo", true},
		{"/foo/**", "/foo/bar", true},
		{"/foo/**", "/foo/bar/baz", true},
		{"/foo/**/baz", "/foo/baz", true},
		{"/foo/**/baz", "/foo/x/baz", true},
		{"/foo/**/baz", "/foo/x/y/baz", true},
		{"/foo/**/baz", "/foo/x/y", false},
		{"/foo/**/**", "/foo/bar", true},
		{"/api/users/123", "/api/users/123", true},
	}

	for _, tt := range tests {
		if got := Match(tt.pattern, tt.path, nil); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
		}
	}
}

func TestMatchCaseSensitiveAndByteOriented(t *testing.T) {
	if Match("/Users", "/users", nil) {
		t.Error("expected case-sensitive mismatch")
	}
	if !Match("/café", "/café", nil) {
		t.Error("expected multibyte literal to match byte-for-byte")
	}
}

func TestMatchVariableSubstitution(t *testing.T) {
	pattern := "/customers/${customer_id}/data"

	ctx := map[string]any{"customer_id": "cust-123"}
	if !Match(pattern, "/customers/cust-123/data", ctx) {
		t.Error("expected match with substituted variable")
	}

	ctx2 := map[string]any{"customer_id": "cust-999"}
	if Match(pattern, "/customers/cust-123/data", ctx2) {
		t.Error("expected mismatch when variable substitution disagrees with path")
	}
}

func TestMatchVariableAbsentLeftVerbatim(t *testing.T) {
	pattern := "/customers/${customer_id}/data"
	if Match(pattern, "/customers/${customer_id}/data", nil) != true {
		t.Error("expected verbatim placeholder to literal-match the same literal path")
	}
	if Match(pattern, "/customers/cust-123/data", nil) {
		t.Error("expected no match when variable is absent from context")
	}
}

func TestMatchCommutesWithNormalization(t *testing.T) {
	pattern := "/foo//bar/"
	path := "/foo/bar"
	a := Match(pattern, path, nil)
	b := Match(Normalize(pattern), Normalize(path), nil)
	if a != b {
		t.Errorf("Match does not commute with Normalize: %v != %v", a, b)
	}
}

func TestExtract(t *testing.T) {
	m := Extract("/customers/${customer_id}/data", "/customers/cust-123/data")
	want := map[string]string{"customer_id": "cust-123"}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("Extract() = %v, want %v", m, want)
	}

	none := Extract("/customers/${customer_id}/data", "/other/path")
	if len(none) != 0 {
		t.Errorf("Extract() on non-matching path = %v, want empty", none)
	}
}

func TestExtractConsistentWithMatch(t *testing.T) {
	pattern := "/orgs/${org}/repos/${repo}"
	path := "/orgs/acme/repos/widgets"

	caps := Extract(pattern, path)
	if len(caps) == 0 {
		t.Fatal("expected non-empty captures")
	}
	ctx := make(map[string]any, len(caps))
	for k, v := range caps {
		ctx[k] = v
	}
	if !Match(pattern, path, ctx) {
		t.Error("Match(pattern, path, Extract(pattern, path)) should be true")
	}
}

func TestExtractDoesNotCrossSegmentBoundary(t *testing.T) {
	caps := Extract("/files/${name}", "/files/a/b")
	if len(caps) != 0 {
		t.Errorf("expected no capture when path has an extra segment, got %v", caps)
	}
}
