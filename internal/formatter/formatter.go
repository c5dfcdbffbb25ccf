package formatter

import (
	"fmt"
	"strings"
)

// Options configures the canonical style.
type Options struct {
	IndentWidth   int
	MaxLineLength int
}

// DefaultOptions returns PEP 8 flavoured defaults.
func DefaultOptions() Options {
	return Options{IndentWidth: 4, MaxLineLength: 79}
}

// FormattingError reports text that cannot be normalized. Text holds the
// unformatted input so callers can still inspect it.
type FormattingError struct {
	Line   int
	Reason string
	Text   string
}

func (e *FormattingError) Error() string {
	if e.Line == 0 {
		return "formatting failed: " + e.Reason
	}
	return fmt.Sprintf("formatting failed at line %d: %s", e.Line, e.Reason)
}

// Issue is a style problem the formatter reports but does not fix.
type Issue struct {
	Line    int
	Code    string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s %s", i.Line, i.Code, i.Message)
}

// Formatter applies the canonical layout.
type Formatter struct {
	opts Options
}

// New creates a Formatter. Non-positive options fall back to the defaults.
func New(opts Options) *Formatter {
	d := DefaultOptions()
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = d.IndentWidth
	}
	if opts.MaxLineLength <= 0 {
		opts.MaxLineLength = d.MaxLineLength
	}
	return &Formatter{opts: opts}
}

type line struct {
	text  string
	state lineState
	// opensString is set when the line ends inside a triple-quoted literal.
	opensString bool
}

// Format normalizes text. Applying Format to its own output returns the
// output unchanged.
func (f *Formatter) Format(text string) (string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	raw := strings.Split(text, "\n")
	lines := make([]line, 0, len(raw))
	var sc scanner

	for _, r := range raw {
		st, reason := sc.line(r)
		opens := sc.triple != ""
		if reason != "" {
			return "", &FormattingError{Line: sc.lineNum, Reason: reason, Text: text}
		}
		if st.inString {
			lines = append(lines, line{text: r, state: st, opensString: opens})
			continue
		}

		r = f.expandTabs(r)
		if !opens {
			r = strings.TrimRight(r, " \t")
		}
		if st.depth == 0 && !st.continued && r != "" {
			if n := indentOf(r); n%f.opts.IndentWidth != 0 {
				return "", &FormattingError{
					Line:   sc.lineNum,
					Reason: fmt.Sprintf("indentation of %d is not a multiple of %d", n, f.opts.IndentWidth),
					Text:   text,
				}
			}
		}
		lines = append(lines, line{text: r, state: st, opensString: opens})
	}

	if sc.triple != "" {
		return "", &FormattingError{Line: sc.openLine, Reason: "unterminated triple-quoted string", Text: text}
	}
	if sc.depth != 0 {
		return "", &FormattingError{Reason: "unbalanced brackets", Text: text}
	}

	return f.layout(lines), nil
}

// layout rewrites blank-line runs between logical lines. Blank lines inside
// strings and bracketed continuations are kept as they are.
func (f *Formatter) layout(lines []line) string {
	var out []string
	var prev logical
	blank := 0
	leads := leadingComments(lines)

	for i, l := range lines {
		if l.state.inString || l.state.depth > 0 || l.state.continued && l.text != "" {
			for ; blank > 0; blank-- {
				out = append(out, "")
			}
			out = append(out, l.text)
			if !l.state.inString {
				prev.end(l)
			}
			continue
		}
		if l.text == "" {
			blank++
			continue
		}

		for j := f.blankLinesBefore(&prev, l.text, blank, leads[i]); j > 0; j-- {
			out = append(out, "")
		}
		out = append(out, l.text)
		blank = 0
		prev.start(l)
		if leads[i] {
			prev.decorator = true
		}
	}

	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

// logical remembers the previous logical line.
type logical struct {
	seen      bool
	indent    int
	decorator bool
	// header is set when the previous logical line ended with a colon.
	header bool
}

func (c *logical) start(l line) {
	t := strings.TrimSpace(l.text)
	c.seen = true
	c.indent = indentOf(l.text)
	c.decorator = strings.HasPrefix(t, "@")
	c.end(l)
}

func (c *logical) end(l line) {
	t := strings.TrimSpace(l.text)
	c.header = !l.opensString && !strings.HasPrefix(t, "#") && strings.HasSuffix(t, ":")
}

// leadingComments marks comment lines that sit directly on top of a
// definition at the same indentation. They are spaced like decorators.
func leadingComments(lines []line) []bool {
	leads := make([]bool, len(lines))
	for i, l := range lines {
		if !isPlainComment(l) {
			continue
		}
		indent := indentOf(l.text)
		for j := i + 1; j < len(lines); j++ {
			next := lines[j]
			if isPlainComment(next) && indentOf(next.text) == indent {
				continue
			}
			leads[i] = next.state == (lineState{}) && indentOf(next.text) == indent && isDefinition(next.text)
			break
		}
	}
	return leads
}

func isPlainComment(l line) bool {
	return l.state == (lineState{}) && strings.HasPrefix(strings.TrimSpace(l.text), "#")
}

// blankLinesBefore decides how many blank lines precede cur given the
// previous logical line and the number of blank lines found in the input.
// lead marks a comment that belongs to the definition below it.
func (f *Formatter) blankLinesBefore(prev *logical, cur string, found int, lead bool) int {
	if !prev.seen || prev.decorator {
		return 0
	}
	indent := indentOf(cur)

	if lead || isDefinition(cur) {
		if indent == 0 {
			return 2
		}
		if prev.header && prev.indent < indent {
			return 0
		}
		return 1
	}
	if indent == 0 && prev.indent > 0 && !isClauseKeyword(cur) {
		return 2
	}
	if indent == 0 {
		return min(found, 2)
	}
	return min(found, 1)
}

// Check reports lines longer than the configured maximum.
func (f *Formatter) Check(text string) []Issue {
	var issues []Issue
	for i, l := range strings.Split(text, "\n") {
		if n := len([]rune(l)); n > f.opts.MaxLineLength {
			issues = append(issues, Issue{
				Line:    i + 1,
				Code:    "E501",
				Message: fmt.Sprintf("line too long (%d > %d characters)", n, f.opts.MaxLineLength),
			})
		}
	}
	return issues
}

func (f *Formatter) expandTabs(s string) string {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	if !strings.Contains(s[:n], "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, ch := range s[:n] {
		if ch == '\t' {
			pad := f.opts.IndentWidth - col%f.opts.IndentWidth
			b.WriteString(strings.Repeat(" ", pad))
			col += pad
			continue
		}
		b.WriteByte(' ')
		col++
	}
	b.WriteString(s[n:])
	return b.String()
}

// isClauseKeyword reports whether s continues a compound statement.
func isClauseKeyword(s string) bool {
	t := strings.TrimSpace(s)
	for _, kw := range []string{"else", "elif", "except", "finally", "case"} {
		if t == kw+":" || strings.HasPrefix(t, kw+" ") || strings.HasPrefix(t, kw+":") {
			return true
		}
	}
	return false
}

func indentOf(s string) int {
	return len(s) - len(strings.TrimLeft(s, " "))
}

// isDefinition reports whether s starts a def, async def, class or decorator.
func isDefinition(s string) bool {
	t := strings.TrimSpace(s)
	for _, prefix := range []string{"def ", "async def ", "class ", "@"} {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	return false
}
