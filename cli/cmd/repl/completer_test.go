package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/formula/lang"
	"github.com/ardnew/formula/lang/builtin"
)

func TestWordBounds_FormulaOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "sin", 3, "sin", 0, 3},
		{"after_plus", "a + co", 6, "co", 4, 6},
		{"after_minus", "1-co", 4, "co", 2, 4},
		{"after_power", "2^sq", 4, "sq", 2, 4},
		{"after_paren", "max(fl", 6, "fl", 4, 6},
		{"after_comma", "max(1, fl", 9, "fl", 7, 9},
		{"in_vector", "sum({1,pi", 9, "pi", 7, 9},
		{"in_quote", "2*'ra", 5, "ra", 3, 5},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "median", 3, "median", 0, 6},
		{"at_start", "sin", 0, "sin", 0, 3},
		{"underscore", "'x_1", 4, "x_1", 1, 4},
		{"cursor_past_end", "ln", 9, "ln", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestOpenQuote(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		want   rune
	}{
		{"'x", 1, '\''},
		{"'x' + ", 6, 0},
		{`"a" * "b`, 8, '"'},
		{`'it"s`, 5, '\''},
		{"sum(", 4, 0},
	}

	for _, tt := range tests {
		if got := openQuote(tt.input, tt.offset); got != tt.want {
			t.Errorf("openQuote(%q, %d) = %q, want %q", tt.input, tt.offset, got, tt.want)
		}
	}
}

func TestCandidates(t *testing.T) {
	reg := builtin.Registry()

	b := lang.NewBindings()
	_ = b.BindScalar("rate", 0.5)
	_ = b.BindVector("xs", 1, 2)

	if got := evalCandidates(reg, b, "2*'", 3); !slices.Equal(got, []string{"rate", "xs"}) {
		t.Errorf("quoted candidates = %v", got)
	}

	if got := evalCandidates(reg, b, "2*", 2); len(got) != reg.Len() {
		t.Errorf("expected every registered name, got %d of %d", len(got), reg.Len())
	}

	if got := ctrlCandidates(reg, b, "", 0); !slices.Equal(got, ctrlCommands) {
		t.Errorf("command candidates = %v", got)
	}

	if got := ctrlCandidates(reg, b, "unbind ", 7); !slices.Equal(got, []string{"rate", "xs"}) {
		t.Errorf("unbind candidates = %v", got)
	}

	if got := ctrlCandidates(reg, b, "bind rate ", 10); got != nil {
		t.Errorf("bind value candidates = %v, want none", got)
	}

	if got := ctrlCandidates(reg, b, "funcs ", 6); !slices.Contains(got, "median") {
		t.Errorf("funcs candidates missing median: %v", got)
	}
}

func TestIsFunction(t *testing.T) {
	reg := builtin.Registry()

	for name, want := range map[string]bool{
		"sin":    true,
		"median": true,
		"pi":     false,
		"nope":   false,
	} {
		if got := isFunction(reg, name); got != want {
			t.Errorf("isFunction(%q) = %v, want %v", name, got, want)
		}
	}
}
