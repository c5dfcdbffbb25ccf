package generator

import (
	"fmt"
	"strings"

	"github.com/codegenie-labs/codegenie/internal/artifact"
	"github.com/codegenie-labs/codegenie/internal/compose"
)

// Options carries the defaults the generators would otherwise hard-code.
type Options struct {
	IndentWidth         int
	GenericType         string
	BaseException       string
	Placeholder         string
	ExpectedPlaceholder string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		IndentWidth:         4,
		GenericType:         "Any",
		BaseException:       "Exception",
		Placeholder:         "pass",
		ExpectedPlaceholder: "EXPECTED_OUTPUT",
	}
}

// TemplateSource resolves domain templates by category and subtype.
type TemplateSource interface {
	Lookup(category, subtype string) string
}

// Generator builds artifacts from requests.
type Generator struct {
	opts      Options
	c         *compose.Composer
	templates TemplateSource
}

// New creates a Generator. templates may be nil if domain templates are not needed.
func New(opts Options, templates TemplateSource) *Generator {
	d := DefaultOptions()
	if opts.GenericType == "" {
		opts.GenericType = d.GenericType
	}
	if opts.BaseException == "" {
		opts.BaseException = d.BaseException
	}
	if opts.Placeholder == "" {
		opts.Placeholder = d.Placeholder
	}
	if opts.ExpectedPlaceholder == "" {
		opts.ExpectedPlaceholder = d.ExpectedPlaceholder
	}
	return &Generator{
		opts:      opts,
		c:         compose.New(opts.IndentWidth),
		templates: templates,
	}
}

// Generate dispatches req to the generator for its kind.
func (g *Generator) Generate(req *artifact.Request) (artifact.Artifact, error) {
	if err := req.Validate(); err != nil {
		return artifact.Artifact{}, err
	}

	switch req.Kind {
	case artifact.KindFunction:
		return g.Function(req), nil
	case artifact.KindClass:
		return g.Class(req), nil
	case artifact.KindException:
		return g.CustomException(req.Name, req.Base), nil
	case artifact.KindFactory:
		return g.FactoryMethod(req.Name, req.Params), nil
	case artifact.KindOverload:
		groups := make([][]artifact.ParameterSpec, len(req.Overloads))
		logic := make([]string, len(req.Overloads))
		for i, o := range req.Overloads {
			groups[i] = o.Params
			logic[i] = o.Logic
		}
		return g.OverloadedMethod(req.Name, groups, logic)
	case artifact.KindTest:
		return g.TestFunction(req.Name, req.Params), nil
	case artifact.KindTemplate:
		if g.templates == nil {
			return artifact.Artifact{}, fmt.Errorf("no template library configured for %s/%s", req.Category, req.Subtype)
		}
		return artifact.New(artifact.KindTemplate, req.Name, g.templates.Lookup(req.Category, req.Subtype)), nil
	default:
		return artifact.Artifact{}, fmt.Errorf("%w %q", artifact.ErrUnknownKind, req.Kind)
	}
}

// Function renders signature, docstring and body in that order. A docstring
// is synthesized from the parameters when the request has none.
func (g *Generator) Function(req *artifact.Request) artifact.Artifact {
	text := g.function(req.Name, req.Params, req.ReturnType, req.Decorators, req.Docstring, req.Logic, nil)
	return artifact.New(artifact.KindFunction, req.Name, text)
}

// function composes a def. receiver, when set, is prepended to the visible
// parameters but left out of the docstring.
func (g *Generator) function(name string, params []artifact.ParameterSpec, returnType string, decorators []string, doc, logic string, receiver *artifact.ParameterSpec) string {
	sigParams := params
	if receiver != nil {
		sigParams = append([]artifact.ParameterSpec{*receiver}, params...)
	}

	docstring := g.c.Docstring(params, returnType)
	if strings.TrimSpace(doc) != "" {
		docstring = g.c.CustomDocstring(doc)
	}

	if strings.TrimSpace(logic) == "" {
		logic = g.opts.Placeholder
	}

	return strings.Join([]string{
		g.c.Signature(name, sigParams, returnType, decorators),
		docstring,
		g.c.Body(logic),
	}, "\n")
}
