package formatter

import "strings"

// lineState is the lexical state at the start of a line.
type lineState struct {
	// inString is set when the line begins inside a triple-quoted literal.
	inString bool
	// depth is the bracket nesting at the start of the line.
	depth int
	// continued is set when the previous line ended with a backslash.
	continued bool
}

// scanner tracks just enough Python lexing to know which lines are inside
// multi-line strings or bracketed continuations.
type scanner struct {
	triple  string // open triple-quote delimiter, if any
	depth   int
	lineNum int
	// openLine is where the current triple-quoted literal started.
	openLine int
	// backslash is set when the last line ended in an explicit continuation.
	backslash bool
}

// line consumes one line and returns the state it started in. It returns a
// non-empty reason when the line closes a bracket that was never opened.
func (s *scanner) line(text string) (lineState, string) {
	s.lineNum++
	st := lineState{inString: s.triple != "", depth: s.depth, continued: s.backslash}
	s.backslash = false

	i := 0
	for i < len(text) {
		if s.triple != "" {
			if text[i] == '\\' {
				i += 2
				continue
			}
			if hasAt(text, i, s.triple) {
				s.triple = ""
				i += 3
				continue
			}
			i++
			continue
		}

		ch := text[i]
		switch {
		case ch == '#':
			return st, ""
		case ch == '\\':
			if strings.TrimRight(text[i+1:], " \t") == "" {
				s.backslash = true
				return st, ""
			}
		case ch == '"' || ch == '\'':
			delim := text[i : i+1]
			if hasAt(text, i, delim+delim+delim) {
				s.triple = delim + delim + delim
				s.openLine = s.lineNum
				i += 3
				continue
			}
			i = skipString(text, i+1, ch)
			continue
		case ch == '(' || ch == '[' || ch == '{':
			s.depth++
		case ch == ')' || ch == ']' || ch == '}':
			s.depth--
			if s.depth < 0 {
				return st, "unmatched closing bracket " + string(ch)
			}
		}
		i++
	}
	return st, ""
}

// skipString returns the index just past a single-line string literal that
// opened with quote. An unterminated literal runs to the end of the line.
func skipString(text string, i int, quote byte) int {
	for i < len(text) {
		switch text[i] {
		case '\\':
			i += 2
		case quote:
			return i + 1
		default:
			i++
		}
	}
	return len(text)
}

func hasAt(text string, i int, sub string) bool {
	return len(text)-i >= len(sub) && text[i:i+len(sub)] == sub
}
