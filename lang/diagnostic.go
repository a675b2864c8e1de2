package lang

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Diagnostic is the outcome of compiling a formula or binding custom items.
//
// Failures carry the fields relevant to their [Code]; the others are left
// at their zero value. Message rendering is done on demand by
// [Diagnostic.Error], so a Diagnostic can be inspected without formatting.
type Diagnostic struct {
	Code   Code
	Pos    int    // Byte offset into the formula, -1 when not applicable
	Token  string // Offending token or character
	Follow string // Token that may not follow Token
	Name   string // Function or custom item name
	Index  int    // Zero-based argument index
	Count  int    // Actual argument count
	Open   int    // Opening bracket count
	Close  int    // Closing bracket count
	Hint   string // Closest known name for an unknown identifier
}

// Args returns the positional arguments substituted into the message
// template of d.Code.
func (d *Diagnostic) Args() []string {
	if d == nil {
		return nil
	}

	switch d.Code {
	case ForbiddenCharacter, InvalidToken, InvalidFirstToken, InvalidLastToken,
		InvalidTokenOutsideFormula, InvalidNumber:
		return []string{d.Token}
	case InvalidRepeatingQuotationMarks:
		return []string{strconv.Itoa(d.Pos)}
	case InvalidFollowToken:
		return []string{d.Token, d.Follow}
	case UnequalNumberOfBrackets, UnequalNumberOfCurlyBrackets:
		return []string{strconv.Itoa(d.Open), strconv.Itoa(d.Close)}
	case MissingFunctionClosingBracket, IllegalCustomItem,
		InconsistentCustomItemKind:
		return []string{d.Name}
	case InvalidFunctionArgumentCount:
		return []string{d.Name, strconv.Itoa(d.Count)}
	case InvalidIfArgumentCount:
		return []string{strconv.Itoa(d.Count)}
	case MissingVectorArgument, MissingScalarArgument:
		return []string{strconv.Itoa(d.Index), d.Name}
	default:
		return nil
	}
}

// Error renders the message of d. A Diagnostic with a success code is
// still a valid error value; callers test [Code.IsSuccess] when both
// outcomes travel the same path.
func (d *Diagnostic) Error() string {
	if d == nil {
		return ""
	}

	msg := Render(d.Code, d.Args()...)
	if d.Hint != "" {
		msg += " Did you mean '" + d.Hint + "'?"
	}

	return msg
}

// Is reports whether target is a *Diagnostic with the same code.
func (d *Diagnostic) Is(target error) bool {
	t, ok := target.(*Diagnostic)

	return ok && d != nil && t != nil && d.Code == t.Code
}

// OK reports whether d is nil or carries a success code.
func (d *Diagnostic) OK() bool {
	return d == nil || d.Code.IsSuccess()
}

// LogValue implements slog.LogValuer.
func (d *Diagnostic) LogValue() slog.Value {
	if d == nil {
		return slog.GroupValue()
	}

	attrs := []slog.Attr{
		slog.String("code", d.Code.String()),
		slog.Int("code_num", int(d.Code)),
		slog.String("message", d.Error()),
	}

	if d.Pos >= 0 && !d.Code.IsSuccess() {
		attrs = append(attrs, slog.Int("pos", d.Pos))
	}

	if args := d.Args(); len(args) > 0 {
		attrs = append(attrs, slog.Any("args", args))
	}

	return slog.GroupValue(attrs...)
}

// Caret returns source followed by a line marking the position of d.
// When d has no position the source is returned unchanged.
func (d *Diagnostic) Caret(source string) string {
	if d == nil || d.Pos < 0 || d.Pos > len(source) {
		return source
	}

	col := utf8.RuneCountInString(source[:d.Pos])

	var sb strings.Builder

	sb.Grow(len(source) + col + 2)
	sb.WriteString(source)
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(" ", col))
	sb.WriteByte('^')

	return sb.String()
}

func diagnose(code Code, tok Token) *Diagnostic {
	return &Diagnostic{Code: code, Pos: tok.Pos, Token: tok.Text}
}
