package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestEval_Text(t *testing.T) {
	tests := []struct {
		name string
		cmd  Eval
		want string
	}{
		{"literal", Eval{Formula: "1+2*3"}, "7\n"},
		{"builtin", Eval{Formula: "sum({1,2,3})/count({1,2,3})"}, "2\n"},
		{"scalar binding", Eval{Formula: "'x'^2", Set: []string{"x=3"}}, "9\n"},
		{"vector binding", Eval{Formula: "component('v', 1)", Set: []string{"v={10,20,30}"}}, "20\n"},
		{"undefined", Eval{Formula: "sqrt(-1)"}, "NaN\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.cmd.w = &buf

			if err := tt.cmd.Run(t.Context()); err != nil {
				t.Fatalf("run: %v", err)
			}

			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestEval_BindingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindings.yaml")
	if err := os.WriteFile(path, []byte("a: 2\nxs: [1, 2, 3]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer

	e := Eval{
		Formula:  "'a' * sum('xs')",
		Bindings: path,
		Set:      []string{"a=10"},
		w:        &buf,
	}

	if err := e.Run(t.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if buf.String() != "60\n" {
		t.Errorf("output = %q, want 60 (flag overrides file)", buf.String())
	}
}

func TestEval_FormulaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	if err := os.WriteFile(path, []byte("  2^8\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer

	if err := (&Eval{Formula: "@" + path, w: &buf}).Run(t.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if buf.String() != "256\n" {
		t.Errorf("output = %q", buf.String())
	}

	err := (&Eval{Formula: "@" + path + ".missing", w: &buf}).Run(t.Context())
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("missing file: %v, want ErrReadInput", err)
	}
}

func TestEval_Structured(t *testing.T) {
	var buf bytes.Buffer

	if err := (&Eval{Formula: "1/0", Output: OutputJSON, w: &buf}).Run(t.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}

	if got["formula"] != "1/0" || got["result"] != "+Inf" {
		t.Errorf("json = %v", got)
	}

	buf.Reset()

	if err := (&Eval{Formula: "0.5+0.25", Output: OutputYAML, w: &buf}).Run(t.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}

	var doc struct {
		Formula string  `yaml:"formula"`
		Result  float64 `yaml:"result"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}

	if doc.Formula != "0.5+0.25" || doc.Result != 0.75 {
		t.Errorf("yaml = %+v", doc)
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		name string
		cmd  Eval
		want *Error
	}{
		{"syntax", Eval{Formula: "(1+2"}, ErrCompile},
		{"unbound", Eval{Formula: "'x'+1"}, ErrEvaluate},
		{"wrong kind", Eval{Formula: "'x'+1", Set: []string{"x={1}"}}, ErrEvaluate},
		{"bad assignment", Eval{Formula: "1", Set: []string{"x"}}, ErrBinding},
		{"illegal name", Eval{Formula: "1", Set: []string{"a*b=1"}}, ErrBinding},
		{"bad format", Eval{Formula: "1", Output: "xml"}, ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.cmd.w = &buf

			err := tt.cmd.Run(t.Context())
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFormatResult(t *testing.T) {
	for f, want := range map[float64]string{
		7:      "7",
		0.1:    "0.1",
		1e21:   "1e+21",
		-0.125: "-0.125",
	} {
		if got := FormatResult(f); got != want {
			t.Errorf("FormatResult(%v) = %q, want %q", f, got, want)
		}
	}

	if !strings.EqualFold(FormatResult(-1/zero()), "-Inf") {
		t.Error("expected -Inf")
	}
}

func zero() float64 { return 0 }
