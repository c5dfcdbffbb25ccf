package generator

import (
	"strings"

	"github.com/codegenie-labs/codegenie/internal/artifact"
	"github.com/codegenie-labs/codegenie/internal/compose"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FactoryMethod renders create_<classname>(params) -> ClassName, whose body
// returns ClassName(p1, p2, ...) with the parameters in order.
func (g *Generator) FactoryMethod(className string, params []artifact.ParameterSpec) artifact.Artifact {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	logic := "return " + className + "(" + strings.Join(names, ", ") + ")"
	name := FactoryName(className)

	text := g.function(name, params, className, nil, "", logic, nil)
	return artifact.New(artifact.KindFactory, name, text)
}

// FactoryName returns the factory function name for className. A Caser is
// stateful, so one is made per call.
func FactoryName(className string) string {
	return "create_" + cases.Lower(language.Und).String(className)
}

// OverloadedMethod renders one def whose body dispatches on the runtime
// types of its arguments. groups and logicBlocks are paired by index. The
// visible signature only lists the first group's parameters.
func (g *Generator) OverloadedMethod(name string, groups [][]artifact.ParameterSpec, logicBlocks []string) (artifact.Artifact, error) {
	if len(groups) == 0 {
		return artifact.Artifact{}, &artifact.ValidationError{Field: "overloads", Value: name, Reason: "at least one signature group is required"}
	}
	if len(groups) != len(logicBlocks) {
		return artifact.Artifact{}, &artifact.ValidationError{
			Field:  "overloads",
			Value:  name,
			Reason: "every signature group needs exactly one logic block",
		}
	}

	branches := make([]compose.Branch, len(groups))
	for i, params := range groups {
		logic := logicBlocks[i]
		if strings.TrimSpace(logic) == "" {
			logic = g.opts.Placeholder
		}
		branches[i] = compose.Branch{Condition: g.typeCheck(params), Body: logic}
	}

	fallback := "raise TypeError(\"unsupported argument types for " + name + "\")"
	text := g.c.Signature(name, groups[0], "", nil) + "\n" + g.c.Body(g.c.Ladder(branches, fallback))
	return artifact.New(artifact.KindOverload, name, text), nil
}

// typeCheck joins isinstance checks for every concretely typed parameter.
func (g *Generator) typeCheck(params []artifact.ParameterSpec) string {
	var checks []string
	for _, p := range params {
		if p.Type == "" || p.Type == g.opts.GenericType {
			continue
		}
		checks = append(checks, "isinstance("+p.Name+", "+p.Type+")")
	}
	if len(checks) == 0 {
		return "True"
	}
	return strings.Join(checks, " and ")
}
