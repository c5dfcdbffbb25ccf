package compose

import (
	"strings"

	"github.com/codegenie-labs/codegenie/internal/artifact"
)

const (
	docDelimiter   = `"""`
	decoratorMark  = "@"
	defKeyword     = "def"
	placeholderDoc = "Description"
)

// Composer renders primitives with a fixed indentation unit.
type Composer struct {
	indent string
}

// New returns a Composer indenting by width spaces.
func New(width int) *Composer {
	if width <= 0 {
		width = 4
	}
	return &Composer{indent: strings.Repeat(" ", width)}
}

// Unit returns one level of indentation.
func (c *Composer) Unit() string { return c.indent }

// Signature renders the decorators, one per line in input order, followed by
// the def header. Parameters are emitted in the order given.
func (c *Composer) Signature(name string, params []artifact.ParameterSpec, returnType string, decorators []string) string {
	var b strings.Builder
	for _, d := range decorators {
		b.WriteString(decoratorMark)
		b.WriteString(strings.TrimPrefix(d, decoratorMark))
		b.WriteString("\n")
	}

	clauses := make([]string, len(params))
	for i, p := range params {
		clauses[i] = Clause(p)
	}

	b.WriteString(defKeyword)
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString("(")
	b.WriteString(strings.Join(clauses, ", "))
	b.WriteString(")")
	if returnType != "" {
		b.WriteString(" -> ")
		b.WriteString(returnType)
	}
	b.WriteString(":")
	return b.String()
}

// Clause renders one parameter: "name", "name: type" or "name: type = default".
func Clause(p artifact.ParameterSpec) string {
	s := p.Name
	if p.Type != "" {
		s += ": " + p.Type
	}
	if p.HasDefault {
		s += " = " + p.Default
	}
	return s
}

// Body indents every line of logic by one level, blank lines included.
// Empty logic yields a single indented empty line.
func (c *Composer) Body(logic string) string {
	lines := strings.Split(logic, "\n")
	for i, line := range lines {
		lines[i] = c.indent + line
	}
	return strings.Join(lines, "\n")
}

// Indent shifts an already composed block one level. Unlike Body it leaves
// empty lines empty.
func (c *Composer) Indent(block string) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = c.indent + line
		}
	}
	return strings.Join(lines, "\n")
}

// Docstring documents params and the return type inside a docstring
// indented one level. With nothing to document it is a one-line docstring.
func (c *Composer) Docstring(params []artifact.ParameterSpec, returnType string) string {
	var lines []string
	for _, p := range params {
		lines = append(lines, ":param "+p.Type+" "+p.Name+": "+placeholderDoc)
	}
	if returnType != "" {
		lines = append(lines, ":return: "+returnType+" -- "+placeholderDoc)
	}
	if len(lines) == 0 {
		return c.indent + docDelimiter + placeholderDoc + docDelimiter
	}
	return c.wrapDoc(lines)
}

// CustomDocstring wraps caller supplied text in docstring delimiters.
// Delimiters already present in text are stripped first.
func (c *Composer) CustomDocstring(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, docDelimiter)
	text = strings.TrimSuffix(text, docDelimiter)
	text = strings.TrimSpace(text)
	if !strings.Contains(text, "\n") {
		return c.indent + docDelimiter + text + docDelimiter
	}
	return c.wrapDoc(strings.Split(text, "\n"))
}

func (c *Composer) wrapDoc(lines []string) string {
	var b strings.Builder
	b.WriteString(c.indent + docDelimiter + "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			b.WriteString(c.indent + strings.TrimRight(line, " \t"))
		}
		b.WriteString("\n")
	}
	b.WriteString(c.indent + docDelimiter)
	return b.String()
}
