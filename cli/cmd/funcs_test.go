package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestCapabilities(t *testing.T) {
	reg := Cache().Registry()

	all, err := Capabilities(reg, "")
	if err != nil {
		t.Fatalf("capabilities: %v", err)
	}

	if len(all) != reg.Len() {
		t.Errorf("got %d capabilities, want %d", len(all), reg.Len())
	}

	filtered, err := Capabilities(reg, "compnt")
	if err != nil || len(filtered) == 0 {
		t.Fatalf("filtered: %v, %v", filtered, err)
	}

	if c := filtered[0]; c.Name != "component" || c.Class != "vector" || c.Signature != "component(vector, scalar)" {
		t.Errorf("best match = %+v", c)
	}

	if _, err := Capabilities(reg, "zzzzqqq"); !errors.Is(err, ErrUnknownName) {
		t.Errorf("error = %v, want ErrUnknownName", err)
	}
}

func TestFuncs_Text(t *testing.T) {
	var buf bytes.Buffer

	if err := (&Funcs{Filter: "sqrt", w: &buf}).Run(t.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, want := range []string{"NAME", "SIGNATURE", "sqrt(scalar)", "scalar"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("table missing %q:\n%s", want, buf.String())
		}
	}
}

func TestFuncs_YAML(t *testing.T) {
	var buf bytes.Buffer

	if err := (&Funcs{Output: OutputYAML, w: &buf}).Run(t.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}

	var caps []Capability
	if err := yaml.Unmarshal(buf.Bytes(), &caps); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}

	if len(caps) != Cache().Registry().Len() {
		t.Errorf("got %d entries", len(caps))
	}

	for _, c := range caps {
		if c.Name == "pi" && (c.Class != "constant" || c.Signature != "pi") {
			t.Errorf("pi = %+v", c)
		}
	}
}
