package lang

import (
	"math"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		types []TokenType
		texts []string
	}{
		{
			name:  "arithmetic",
			input: "1+2*3",
			types: []TokenType{TokenNumber, TokenPlus, TokenNumber, TokenTimes, TokenNumber},
			texts: []string{"1", "+", "2", "*", "3"},
		},
		{
			name:  "whitespace_skipped",
			input: " 1 \t-\n2 ",
			types: []TokenType{TokenNumber, TokenMinus, TokenNumber},
			texts: []string{"1", "-", "2"},
		},
		{
			name:  "call",
			input: "sin(x)",
			types: []TokenType{TokenIdentifier, TokenLeftParen, TokenIdentifier, TokenRightParen},
			texts: []string{"sin", "(", "x", ")"},
		},
		{
			name:  "vector",
			input: "{1,2}",
			types: []TokenType{TokenLeftCurly, TokenNumber, TokenComma, TokenNumber, TokenRightCurly},
			texts: []string{"{", "1", ",", "2", "}"},
		},
		{
			name:  "custom_items",
			input: `'a b'^"c"`,
			types: []TokenType{TokenCustomItem, TokenPower, TokenCustomItem},
			texts: []string{"'a b'", "^", `"c"`},
		},
		{
			name:  "dangling_exponent_is_identifier",
			input: "2e",
			types: []TokenType{TokenNumber, TokenIdentifier},
			texts: []string{"2", "e"},
		},
		{
			name:  "division",
			input: "6/ .5",
			types: []TokenType{TokenNumber, TokenDivide, TokenNumber},
			texts: []string{"6", "/", ".5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, d := Tokenize(tt.input)
			if d != nil {
				t.Fatalf("unexpected diagnostic: %v", d)
			}

			if len(toks) != len(tt.types) {
				t.Fatalf("expected %d tokens, got %d: %v", len(tt.types), len(toks), toks)
			}

			for i, tok := range toks {
				if tok.Type != tt.types[i] {
					t.Errorf("token %d: expected type %v, got %v", i, tt.types[i], tok.Type)
				}

				if tok.Text != tt.texts[i] {
					t.Errorf("token %d: expected text %q, got %q", i, tt.texts[i], tok.Text)
				}

				if tt.input[tok.Pos:tok.Pos+len(tok.Text)] != tok.Text {
					t.Errorf("token %d: position %d does not locate %q", i, tok.Pos, tok.Text)
				}
			}
		})
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"0", 0},
		{"42", 42},
		{"3.25", 3.25},
		{".5", 0.5},
		{"1e3", 1000},
		{"2E-2", 0.02},
		{"1.5e+2", 150},
		{"1e999", math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, d := Tokenize(tt.input)
			if d != nil {
				t.Fatalf("unexpected diagnostic: %v", d)
			}

			if len(toks) != 1 || toks[0].Type != TokenNumber {
				t.Fatalf("expected a single number, got %v", toks)
			}

			if toks[0].Value != tt.want {
				t.Errorf("expected %v, got %v", tt.want, toks[0].Value)
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  Code
		pos   int
		token string
	}{
		{"empty", "", FormulaNullEmpty, -1, ""},
		{"blank", "  \t ", NoFormula, -1, ""},
		{"forbidden", "1 # 2", ForbiddenCharacter, 2, "#"},
		{"forbidden_dollar", "a$", ForbiddenCharacter, 1, "$"},
		{"multiple_dots", "1.5.3", InvalidNumber, 0, "1.5.3"},
		{"lone_dot", "1+.", InvalidNumber, 2, "."},
		{"trailing_dot", "1.", InvalidNumber, 0, "1."},
		{"empty_quotes", "''", InvalidRepeatingQuotationMarks, 0, ""},
		{"unclosed_quote", "1+'abc", InvalidRepeatingQuotationMarks, 2, ""},
		{"doubled_quote", "'a''b'", InvalidRepeatingQuotationMarks, 3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, d := Tokenize(tt.input)
			if d == nil {
				t.Fatalf("expected %v, got tokens %v", tt.code, toks)
			}

			if d.Code != tt.code {
				t.Errorf("expected code %v, got %v", tt.code, d.Code)
			}

			if d.Pos != tt.pos {
				t.Errorf("expected pos %d, got %d", tt.pos, d.Pos)
			}

			if d.Token != tt.token {
				t.Errorf("expected token %q, got %q", tt.token, d.Token)
			}
		})
	}
}

func TestValidCustomItemName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"x", true},
		{"unit price", true},
		{"rate[1]", true},
		{"a_b.c-d:e#f@g$h%i", true},
		{"größe", true},
		{"", false},
		{" x", false},
		{"x ", false},
		{"a/b", false},
		{"a+b", false},
		{"a'b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidCustomItemName(tt.name); got != tt.want {
				t.Errorf("ValidCustomItemName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestTokenName(t *testing.T) {
	toks, d := Tokenize(`"unit price"`)
	if d != nil {
		t.Fatalf("unexpected diagnostic: %v", d)
	}

	if got := toks[0].Name(); got != "unit price" {
		t.Errorf("expected name %q, got %q", "unit price", got)
	}
}
