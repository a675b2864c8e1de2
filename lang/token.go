package lang

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType is the category of a [Token].
type TokenType uint8

// Token categories.
//
// The tokenizer only produces TokenIdentifier for bare words; validation
// resolves each one to TokenFunction, TokenConstant or TokenIf.
const (
	TokenNumber TokenType = iota
	TokenPlus
	TokenMinus
	TokenTimes
	TokenDivide
	TokenPower
	TokenLeftParen
	TokenRightParen
	TokenComma
	TokenLeftCurly
	TokenRightCurly
	TokenIdentifier
	TokenFunction
	TokenConstant
	TokenCustomItem
	TokenIf

	numTokenTypes
)

var tokenTypeNames = [numTokenTypes]string{
	TokenNumber:     "Number",
	TokenPlus:       "Plus",
	TokenMinus:      "Minus",
	TokenTimes:      "Times",
	TokenDivide:     "Divide",
	TokenPower:      "Power",
	TokenLeftParen:  "LeftParen",
	TokenRightParen: "RightParen",
	TokenComma:      "Comma",
	TokenLeftCurly:  "LeftCurly",
	TokenRightCurly: "RightCurly",
	TokenIdentifier: "Identifier",
	TokenFunction:   "Function",
	TokenConstant:   "Constant",
	TokenCustomItem: "CustomItem",
	TokenIf:         "If",
}

// String returns the name of the token category.
func (t TokenType) String() string {
	if t >= numTokenTypes {
		return "TokenType(" + strconv.Itoa(int(t)) + ")"
	}

	return tokenTypeNames[t]
}

// Token is one lexical unit of a formula.
type Token struct {
	Type  TokenType
	Text  string  // Raw source text, quotes included for custom items
	Pos   int     // Byte offset of the first character
	ID    ID      // Registry id once resolved to a function or constant
	Value float64 // Parsed value of a number or resolved constant
}

// Name returns the custom item name of a quoted token, or its raw text
// otherwise.
func (t Token) Name() string {
	if t.Type == TokenCustomItem && len(t.Text) >= 2 {
		return t.Text[1 : len(t.Text)-1]
	}

	return t.Text
}

// String returns the raw text of the token.
func (t Token) String() string { return t.Text }

// keywordIf is the conditional keyword, matched without regard to case.
const keywordIf = "IF"

var operatorTokens = [128]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenTimes,
	'/': TokenDivide,
	'^': TokenPower,
	'(': TokenLeftParen,
	')': TokenRightParen,
	',': TokenComma,
	'{': TokenLeftCurly,
	'}': TokenRightCurly,
}

func isOperatorByte(c byte) bool {
	return c < utf8.RuneSelf && operatorTokens[c] != TokenNumber
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isQuote(c byte) bool { return c == '\'' || c == '"' }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ValidIdentifier reports whether name is usable as a bare function or
// constant name.
func ValidIdentifier(name string) bool {
	if name == "" {
		return false
	}

	for i, r := range name {
		if i == 0 && !isIdentStart(r) || !isIdentPart(r) {
			return false
		}
	}

	return true
}

// customItemPunct lists the punctuation permitted in custom item names.
const customItemPunct = " _.-:#[]@$%"

// ValidCustomItemName reports whether name can be used as a custom item.
// Names are non-empty, carry no leading or trailing space, and contain only
// letters, digits, spaces and the characters _ . - : # [ ] @ $ %.
func ValidCustomItemName(name string) bool {
	if name == "" || strings.TrimSpace(name) != name {
		return false
	}

	for _, r := range name {
		if r == utf8.RuneError {
			return false
		}

		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}

		if r >= utf8.RuneSelf || !strings.ContainsRune(customItemPunct, r) {
			return false
		}
	}

	return true
}

// Tokenize scans text into its token sequence.
//
// Identifiers are not resolved: every bare word is returned as
// TokenIdentifier and every quoted name as TokenCustomItem. Errors are
// returned as a [Diagnostic] with the offending position.
func Tokenize(text string) ([]Token, *Diagnostic) {
	if text == "" {
		return nil, &Diagnostic{Code: FormulaNullEmpty, Pos: -1}
	}

	if strings.TrimSpace(text) == "" {
		return nil, &Diagnostic{Code: NoFormula, Pos: -1}
	}

	s := scanner{src: text, toks: make([]Token, 0, len(text)/2+1)}
	if d := s.run(); d != nil {
		return nil, d
	}

	return s.toks, nil
}

type scanner struct {
	src  string
	pos  int
	toks []Token
}

func (s *scanner) emit(t TokenType, start int) {
	s.toks = append(s.toks, Token{Type: t, Text: s.src[start:s.pos], Pos: start})
}

func (s *scanner) run() *Diagnostic {
	for s.pos < len(s.src) {
		c := s.src[s.pos]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			s.pos++

		case isDigit(c) || c == '.':
			if d := s.number(); d != nil {
				return d
			}

		case isOperatorByte(c):
			s.pos++
			s.emit(operatorTokens[c], s.pos-1)

		case isQuote(c):
			if d := s.quoted(c); d != nil {
				return d
			}

		default:
			r, size := utf8.DecodeRuneInString(s.src[s.pos:])
			if !isIdentStart(r) {
				return &Diagnostic{
					Code:  ForbiddenCharacter,
					Pos:   s.pos,
					Token: s.src[s.pos : s.pos+size],
				}
			}

			s.identifier()
		}
	}

	return nil
}

// number scans digits [ '.' digits ] or '.' digits, followed by an optional
// exponent that is only consumed when at least one digit follows it.
func (s *scanner) number() *Diagnostic {
	start := s.pos
	dots, digits := 0, 0
	lastDot := false

	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if isDigit(c) {
			digits++
			lastDot = false
		} else if c == '.' {
			dots++
			lastDot = true
		} else {
			break
		}

		s.pos++
	}

	if s.pos < len(s.src) && (s.src[s.pos] == 'e' || s.src[s.pos] == 'E') {
		j := s.pos + 1
		if j < len(s.src) && (s.src[j] == '+' || s.src[j] == '-') {
			j++
		}

		if j < len(s.src) && isDigit(s.src[j]) {
			for j < len(s.src) && isDigit(s.src[j]) {
				j++
			}

			s.pos = j
		}
	}

	text := s.src[start:s.pos]
	if dots > 1 || digits == 0 || lastDot {
		return &Diagnostic{Code: InvalidNumber, Pos: start, Token: text}
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return &Diagnostic{Code: InvalidNumber, Pos: start, Token: text}
	}

	s.toks = append(s.toks, Token{Type: TokenNumber, Text: text, Pos: start, Value: v})

	return nil
}

// quoted scans a custom item name enclosed in the quote mark q.
func (s *scanner) quoted(q byte) *Diagnostic {
	start := s.pos
	bad := &Diagnostic{Code: InvalidRepeatingQuotationMarks, Pos: start}

	if start+1 < len(s.src) && s.src[start+1] == q {
		return bad
	}

	end := strings.IndexByte(s.src[start+1:], q)
	if end < 0 {
		return bad
	}

	s.pos = start + 1 + end + 1
	if s.pos < len(s.src) && s.src[s.pos] == q {
		bad.Pos = s.pos

		return bad
	}

	s.emit(TokenCustomItem, start)

	return nil
}

func (s *scanner) identifier() {
	start := s.pos

	for s.pos < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !isIdentPart(r) {
			break
		}

		s.pos += size
	}

	s.emit(TokenIdentifier, start)
}
