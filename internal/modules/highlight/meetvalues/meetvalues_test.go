package meetvalues

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	got, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.Join(got, ",") != "Collaboration,Respect,Curiosity,Coexistence,Ownership" {
		t.Fatalf("unexpected defaults %v", got)
	}
	got[0] = "mutated"
	if Defaults[0] != "Collaboration" {
		t.Fatalf("Default must return a copy")
	}
}

func TestParseShapes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"yaml list", "- Grit\n- Respect\n- respect\n- ''\n", "Grit,Respect"},
		{"json list", `["Focus", "Joy"]`, "Focus,Joy"},
		{"mapping", "values:\n  - Care\n", "Care"},
		{"empty", "", "Collaboration,Respect,Curiosity,Coexistence,Ownership"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse([]byte(tc.in))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if strings.Join(got, ",") != tc.want {
				t.Fatalf("want %s, got %v", tc.want, got)
			}
		})
	}
}

func TestParseRejectsScalar(t *testing.T) {
	if _, err := Parse([]byte("just a string")); err == nil {
		t.Fatalf("expected error for scalar document")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.yaml")
	if err := os.WriteFile(path, []byte("- Kindness\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil || len(got) != 1 || got[0] != "Kindness" {
		t.Fatalf("got %v err=%v", got, err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
