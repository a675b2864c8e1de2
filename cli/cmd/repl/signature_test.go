package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/formula/lang/builtin"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no call", "1 + 2", 5, "", 0, false},
		{"first arg", "max(", 4, "max", 0, true},
		{"first arg with value", "max(1", 5, "max", 0, true},
		{"second arg", "max(1,", 6, "max", 1, true},
		{"second arg with value", "max(1, 2", 8, "max", 1, true},
		{"after close", "max(1, 2)", 9, "", 0, false},
		{"nested inner", "max(sin(1", 9, "sin", 0, true},
		{"nested outer", "max(sin(1), ", 12, "max", 1, true},
		{"vector commas", "component({1,2,3}, ", 19, "component", 1, true},
		{"inside vector", "dot({1,2", 8, "dot", 0, true},
		{"grouping paren", "max(1, (2", 9, "max", 1, true},
		{"space before paren", "sin (", 5, "sin", 0, true},
		{"quoted comma", "max('a,b', ", 11, "max", 1, true},
		{"quoted paren", "max('(', ", 9, "max", 1, true},
		{"if keyword", "IF(1, 2, ", 9, "IF", 2, true},
		{"cursor mid input", "max(1, 2)", 5, "max", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)
			if got.inCall != tt.wantInCall || got.name != tt.wantName || got.argIndex != tt.wantIndex {
				t.Errorf("detectFunctionCall(%q, %d) = %+v, want {name:%s argIndex:%d inCall:%v}",
					tt.input, tt.cursor, got, tt.wantName, tt.wantIndex, tt.wantInCall)
			}
		})
	}
}

func TestSignatureOf(t *testing.T) {
	reg := builtin.Registry()

	tests := []struct {
		name   string
		want   []string
		wantOK bool
	}{
		{"sin", []string{"scalar"}, true},
		{"component", []string{"vector", "scalar"}, true},
		{"dot", []string{"vector", "vector"}, true},
		{"IF", []string{"condition", "then", "else"}, true},
		{"pi", nil, false},
		{"missing", nil, false},
	}

	for _, tt := range tests {
		got, ok := signatureOf(reg, tt.name)
		if ok != tt.wantOK || !slices.Equal(got, tt.want) {
			t.Errorf("signatureOf(%q) = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRenderSignatureHint(t *testing.T) {
	hint := renderSignatureHint("component", []string{"vector", "scalar"}, 1)

	for _, want := range []string{"component", "vector", "scalar", "(", ")"} {
		if !strings.Contains(hint, want) {
			t.Errorf("hint %q missing %q", hint, want)
		}
	}
}
