package utils

import (
	"reflect"
	"testing"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"single", "work", []string{"work"}},
		{"trims and drops empties", " work, ,home ,, ", []string{"work", "home"}},
		{"keeps duplicates", "a,a", []string{"a", "a"}},
		{"inner spaces kept", "deep work", []string{"deep work"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitAndTrim(tt.in, ",")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitAndTrim(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"/tasks", "tasks"},
		{"#/tasks/0/status", "tasks[0].status"},
		{"/tasks/12/tags/3", "tasks[12].tags[3]"},
		{"/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := JSONPointerToPath(tt.in); got != tt.want {
				t.Errorf("JSONPointerToPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("  MySQL "); got != "mysql" {
		t.Errorf("NormalizeName = %q", got)
	}
}
