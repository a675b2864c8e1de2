package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/formula/lang"
)

// ifSignature is the parameter list of the built-in conditional, which is a
// keyword of the formula grammar rather than a registered function.
var ifSignature = []string{"condition", "then", "else"}

const ifKeyword = "IF"

// Parameter hint styles.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is the call enclosing the cursor.
type functionCall struct {
	name     string // function name
	argIndex int    // 0-based argument index at the cursor
	inCall   bool   // cursor is inside the argument list
}

// detectFunctionCall finds the innermost call whose argument list contains
// the cursor. Parentheses without a preceding name only group, and commas
// inside nested calls or vector literals do not separate arguments.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	for open := cursor; ; {
		open = enclosingParen(input, open)
		if open < 0 {
			return functionCall{}
		}

		name := identBefore(input, open)
		if name == "" {
			continue
		}

		return functionCall{
			name:     name,
			argIndex: argumentIndex(input[open+1 : cursor]),
			inCall:   true,
		}
	}
}

// enclosingParen returns the offset of the unmatched '(' before offset, or
// -1 if there is none. Quoted custom item names are skipped.
func enclosingParen(input string, offset int) int {
	depth := 0
	quote := openQuote(input, offset)

	for i := offset - 1; i >= 0; i-- {
		c := input[i]

		if quote != 0 {
			if rune(c) == quote {
				quote = 0
			}

			continue
		}

		switch c {
		case '\'', '"':
			quote = rune(c)
		case ')':
			depth++
		case '(':
			if depth == 0 {
				return i
			}

			depth--
		}
	}

	return -1
}

// identBefore returns the identifier ending at offset, ignoring blanks
// between it and the offset.
func identBefore(input string, offset int) string {
	end := len(strings.TrimRightFunc(input[:offset], unicode.IsSpace))
	start := end

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}

		start -= size
	}

	name := input[start:end]
	if name == "" || unicode.IsDigit(rune(name[0])) {
		return ""
	}

	return name
}

// argumentIndex counts the top-level commas in a partial argument list.
func argumentIndex(args string) int {
	var (
		index, depth int
		quote        rune
	)

	for _, r := range args {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(' || r == '{':
			depth++
		case r == ')' || r == '}':
			depth--
		case r == ',' && depth == 0:
			index++
		}
	}

	return index
}

// signatureOf returns the parameter kinds of the named function, or false
// if name is not callable.
func signatureOf(reg *lang.Registry, name string) ([]string, bool) {
	if name == ifKeyword {
		return ifSignature, true
	}

	e, ok := reg.Lookup(name)
	if !ok || e.Class() == lang.ClassConstant {
		return nil, false
	}

	params := make([]string, e.Arity())

	for i := range params {
		if e.IsVectorArgument(i) {
			params[i] = lang.KindVector.String()
		} else {
			params[i] = lang.KindScalar.String()
		}
	}

	return params, true
}

// renderSignatureHint renders name(params...) with the parameter at index
// current highlighted.
func renderSignatureHint(name string, params []string, current int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == current {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
