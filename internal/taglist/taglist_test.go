package taglist

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		in   *string
		want []string
	}{
		{"nil", nil, nil},
		{"empty", ptr(""), []string{}},
		{"single", ptr("Go"), []string{"Go"}},
		{"trims and drops empties", ptr(" React, , Node.js ,,  TypeScript"), []string{"React", "Node.js", "TypeScript"}},
		{"only separators", ptr(",, ,"), []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Parse(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	if got := Join([]string{"Go", "Redis"}); got != "Go, Redis" {
		t.Fatalf("Join = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  TensorFlow "); got != "tensorflow" {
		t.Fatalf("Normalize = %q", got)
	}
}

func ptr(s string) *string { return &s }
