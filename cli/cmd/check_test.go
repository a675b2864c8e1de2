package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/formula/lang"
)

func TestCheck(t *testing.T) {
	var buf bytes.Buffer

	if err := (&Check{Formula: "'a' + sum('v') * 'a'", w: &buf}).Run(t.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := lang.Message(lang.SuccessfullyCompiled) + "\n  scalar 'a'\n  vector 'v'\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestCheck_Failure(t *testing.T) {
	var buf bytes.Buffer

	err := (&Check{Formula: "sin(0,1)", w: &buf}).Run(t.Context())
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("error = %v, want ErrCompile", err)
	}

	var d *lang.Diagnostic
	if !errors.As(err, &d) || d.Code != lang.InvalidFunctionArgumentCount {
		t.Errorf("diagnostic = %v", d)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "sin(0,1)\n") || !strings.Contains(out, d.Error()) {
		t.Errorf("output = %q", out)
	}
}

func TestCheck_Quiet(t *testing.T) {
	var buf bytes.Buffer

	if err := (&Check{Formula: "1", Quiet: true, w: &buf}).Run(t.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if err := (&Check{Formula: "", Quiet: true, w: &buf}).Run(t.Context()); !errors.Is(err, ErrCompile) {
		t.Errorf("error = %v, want ErrCompile", err)
	}

	if buf.Len() != 0 {
		t.Errorf("quiet check wrote %q", buf.String())
	}
}
