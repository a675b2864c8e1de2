package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/formula/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "bind", "unbind", "list", "funcs", "disasm", "edit", "clear", "quit",
}

// isWordBoundary reports whether r delimits a completion word: whitespace,
// an operator, a bracket, an argument separator or a custom item quote.
func isWordBoundary(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '^',
		'(', ')', '{', '}', ',',
		'\'', '"':
		return true
	}

	return unicode.IsSpace(r)
}

// wordBounds returns the word at the cursor and its byte boundaries within
// input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// openQuote returns the quote mark left open before offset, or 0 if the
// offset is outside any custom item name.
func openQuote(input string, offset int) rune {
	var open rune

	for _, r := range input[:min(offset, len(input))] {
		switch {
		case open == 0 && (r == '\'' || r == '"'):
			open = r
		case r == open:
			open = 0
		}
	}

	return open
}

// evalCandidates returns the names that can complete a word starting at
// wordStart in a formula: bound custom items inside quotes, registered
// constants and functions elsewhere.
func evalCandidates(reg *lang.Registry, b *lang.Bindings, input string, wordStart int) []string {
	if openQuote(input, wordStart) != 0 {
		return b.Names()
	}

	return reg.Names()
}

// ctrlCandidates returns the names that can complete a word starting at
// wordStart in a command line. The first word is a command; the arguments
// of bind and unbind are custom items, those of funcs and disasm are
// registered names.
func ctrlCandidates(reg *lang.Registry, b *lang.Bindings, input string, wordStart int) []string {
	fields := strings.Fields(input[:wordStart])
	if len(fields) == 0 {
		return ctrlCommands
	}

	switch fields[0] {
	case "bind", "unbind":
		if len(fields) == 1 {
			return b.Names()
		}

	case "funcs", "disasm":
		return evalCandidates(reg, b, input, wordStart)
	}

	return nil
}

// computeMatches ranks the candidates for the word at the cursor, best
// first. An empty word yields no matches so the hint line stays visible,
// except directly after an opening quote where every bound name is shown.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	if m.mode == modeCtrl {
		candidates = ctrlCandidates(m.registry(), m.bindings, input, wordStart)
	} else {
		candidates = evalCandidates(m.registry(), m.bindings, input, wordStart)
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		if m.mode == modeCtrl || openQuote(input, wordStart) == 0 {
			return nil, nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. Matched characters are highlighted, and the selected
// candidate (when tabbing) uses the selected style.
func renderCandidateBar(
	reg *lang.Registry,
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(reg, match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted. Functions are displayed with a "()" suffix that is not part
// of the completion.
func renderCandidate(reg *lang.Registry, match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := suggestionStyle.Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedStyle.Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if isFunction(reg, match.Str) {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// isFunction reports whether name is a registered scalar or vector function.
func isFunction(reg *lang.Registry, name string) bool {
	e, ok := reg.Lookup(name)

	return ok && e.Class() != lang.ClassConstant
}
