package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"
)

func TestError_IsAfterDerivation(t *testing.T) {
	cause := errors.New("boom")

	err := ErrCompile.With(slog.String("formula", "1+")).Wrap(cause).With(slog.Int("n", 1))

	if !errors.Is(err, ErrCompile) {
		t.Error("derived error does not match its sentinel")
	}

	if errors.Is(err, ErrEvaluate) {
		t.Error("derived error matches an unrelated sentinel")
	}

	if !errors.Is(fmt.Errorf("ctx: %w", err), cause) {
		t.Error("cause lost through wrapping")
	}

	if got := err.Error(); got != "compile formula: boom" {
		t.Errorf("message = %q", got)
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrBinding.With(slog.String("name", "x")).Wrap(errors.New("bad"))

	v := err.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("kind = %v", v.Kind())
	}

	got := map[string]string{}
	for _, a := range v.Group() {
		got[a.Key] = a.Value.String()
	}

	if got["error"] != "invalid binding" || got["cause"] != "bad" || got["name"] != "x" {
		t.Errorf("attrs = %v", got)
	}
}
