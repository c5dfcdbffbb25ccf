package generator

import (
	"strings"

	"github.com/codegenie-labs/codegenie/internal/artifact"
)

const constructorName = "__init__"

var selfParam = artifact.ParameterSpec{Name: "self"}

// Class renders a class whose first method is a constructor synthesized from
// the attributes, followed by the explicit methods in order.
func (g *Generator) Class(req *artifact.Request) artifact.Artifact {
	header := "class " + req.Name + ":"
	if req.Base != "" {
		header = "class " + req.Name + "(" + req.Base + "):"
	}
	if len(req.Decorators) > 0 {
		header = "@" + strings.Join(trimMarks(req.Decorators), "\n@") + "\n" + header
	}

	var methods []string
	if len(req.Attributes) > 0 {
		methods = append(methods, g.constructor(req.Attributes))
	}
	for _, m := range req.Methods {
		methods = append(methods, g.function(m.Name, m.Params, m.ReturnType, m.Decorators, m.Docstring, m.Logic, &selfParam))
	}

	if len(methods) == 0 {
		return artifact.New(artifact.KindClass, req.Name, header+"\n"+g.c.Body(g.opts.Placeholder))
	}

	indented := make([]string, len(methods))
	for i, m := range methods {
		indented[i] = g.c.Indent(m)
	}
	return artifact.New(artifact.KindClass, req.Name, header+"\n"+strings.Join(indented, "\n\n"))
}

func (g *Generator) constructor(attrs []artifact.AttributeSpec) string {
	params := make([]artifact.ParameterSpec, len(attrs))
	assignments := make([]string, len(attrs))
	for i, a := range attrs {
		p := a.Param()
		if p.Type == "" {
			p.Type = g.opts.GenericType
		}
		params[i] = p
		assignments[i] = "self." + p.Name + " = " + p.Name
	}
	return g.function(constructorName, params, "", nil, "", strings.Join(assignments, "\n"), &selfParam)
}

// CustomException renders an exception class deriving from base, or from the
// configured default base when base is empty.
func (g *Generator) CustomException(name, base string) artifact.Artifact {
	if base == "" {
		base = g.opts.BaseException
	}
	text := "class " + name + "(" + base + "):\n" + g.c.Body(g.opts.Placeholder)
	return artifact.New(artifact.KindException, name, text)
}

func trimMarks(decorators []string) []string {
	out := make([]string, len(decorators))
	for i, d := range decorators {
		out[i] = strings.TrimPrefix(d, "@")
	}
	return out
}
