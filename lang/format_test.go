package lang

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestProgramString(t *testing.T) {
	p := MustCompile("component({1,2}, 'i') + (-pi)", testRegistry(t))
	out := p.String()

	for _, want := range []string{
		"; component({1,2}, 'i') + (-pi)",
		"; slot 0 scalar 'i'",
		"vector 2",
		"item   #0 'i'",
		"vcall  component/2 mask=1",
		"const  pi = 3.14159",
		"unary  neg",
		"binary +",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("disassembly missing %q:\n%s", want, out)
		}
	}
}

func TestProgramFormatJSON(t *testing.T) {
	p := MustCompile("'x' / 0 + 1e999", testRegistry(t))

	var buf bytes.Buffer
	if err := p.FormatJSON(t.Context(), &buf, 2); err != nil {
		t.Fatalf("format json: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}

	if got["source"] != "'x' / 0 + 1e999" {
		t.Errorf("unexpected source %v", got["source"])
	}

	code, ok := got["instructions"].([]any)
	if !ok || len(code) != 5 {
		t.Fatalf("unexpected instructions %v", got["instructions"])
	}

	last, _ := code[3].(map[string]any)
	if last["number"] != "+Inf" {
		t.Errorf("expected non-finite number as string, got %v", last["number"])
	}
}

func TestProgramFormatYAML(t *testing.T) {
	p := MustCompile("sum('v') * 2", testRegistry(t))

	for _, indent := range []int{0, 2} {
		var buf bytes.Buffer
		if err := p.FormatYAML(t.Context(), &buf, indent); err != nil {
			t.Fatalf("format yaml: %v", err)
		}

		var got struct {
			Source      string `yaml:"source"`
			CustomItems []struct {
				Name string `yaml:"name"`
				Kind string `yaml:"kind"`
			} `yaml:"custom_items"`
			MaxStack int `yaml:"max_stack"`
		}

		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("unmarshal: %v\n%s", err, buf.String())
		}

		if got.Source != "sum('v') * 2" || got.MaxStack != 2 {
			t.Errorf("indent %d: unexpected document %+v", indent, got)
		}

		if len(got.CustomItems) != 1 || got.CustomItems[0].Kind != "vector" {
			t.Errorf("indent %d: unexpected items %+v", indent, got.CustomItems)
		}
	}
}
