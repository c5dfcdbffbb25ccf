package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/codegenie-labs/codegenie/internal/artifact"
	"github.com/codegenie-labs/codegenie/internal/catalog"
	"github.com/codegenie-labs/codegenie/internal/config"
	"github.com/codegenie-labs/codegenie/internal/formatter"
	"github.com/codegenie-labs/codegenie/internal/prompt"
	"github.com/codegenie-labs/codegenie/internal/scaffold"
)

type generateOptions struct {
	kind       string
	name       string
	params     []string
	returns    string
	logic      []string
	docstring  string
	decorators []string
	base       string
	groups     []string
	category   string
	subtype    string
	output     string
	noInput    bool
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a Python artifact",
		Long: `Generate a function, class, exception, factory method, overloaded method,
test stub or domain template and save it to a file.

Parameters are written name[:type[:default]]; a missing type becomes the
configured generic type. For classes the parameters become attributes set
by the constructor. Each --group holds one comma-separated signature of an
overloaded method and pairs with the --logic block at the same position.

Examples:
  codegenie generate -t function -n add -p a:int -p b:int -r int -l "return a + b"
  codegenie generate -t class -n Point -p x:float -p y:float:0.0
  codegenie generate -t exception -n ShapeError --base ValueError
  codegenie generate -t overload -n area --group r:float --group w:int,h:int \
      -l "return 3.14159 * r * r" -l "return w * h"
  codegenie generate -t ml --subtype model-training -n trainer`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.kind, "type", "t", "", "Artifact kind (function, class, exception, factory, overload, test, template) or template category")
	f.StringVarP(&opts.name, "name", "n", "", "Name of the generated function or class")
	f.StringArrayVarP(&opts.params, "param", "p", nil, "Parameter as name[:type[:default]] (repeatable)")
	f.StringVarP(&opts.returns, "returns", "r", "", "Return type")
	f.StringArrayVarP(&opts.logic, "logic", "l", nil, "Body line, or one logic block per --group for overloads (repeatable)")
	f.StringVarP(&opts.docstring, "docstring", "d", "", "Docstring text (default: generated from the parameters)")
	f.StringArrayVar(&opts.decorators, "decorator", nil, "Decorator without the leading @ (repeatable)")
	f.StringVar(&opts.base, "base", "", "Base class for classes and exceptions")
	f.StringArrayVar(&opts.groups, "group", nil, `Overload signature such as "a:int,b:str" (repeatable)`)
	f.StringVar(&opts.category, "category", "", "Template category when --type is template")
	f.StringVar(&opts.subtype, "subtype", "", "Template subtype")
	f.StringVarP(&opts.output, "output", "o", "", "Output file (default: <name>.<extension>)")
	f.BoolVar(&opts.noInput, "no-input", false, "Never prompt; missing values are errors")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	settings := config.Current()
	lib, err := loadLibrary(settings)
	if err != nil {
		return err
	}

	var p *prompt.Prompter
	if !opts.noInput {
		p = prompt.New(cmd.InOrStdin(), cmd.ErrOrStderr())
	}

	req, err := buildRequest(opts, settings.GenericType, lib, p)
	if err != nil {
		return err
	}
	logger.Debug("request built",
		zap.String("kind", string(req.Kind)),
		zap.String("name", req.Name),
		zap.Int("params", len(req.Params)))

	pipeline := scaffold.New(settings, lib, logger)
	result, err := pipeline.Run(req, opts.output)
	return report(cmd, result, err)
}

// loadLibrary returns the template library for settings.
func loadLibrary(settings config.Settings) (*catalog.Library, error) {
	lib, err := catalog.Load(settings.TemplatesDir)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	return lib.WithTarget(settings.TargetVersion)
}

// resolveKind maps the --type selector onto a kind. A template category
// selects the template kind; the category is returned alongside.
func resolveKind(selector string, lib *catalog.Library) (artifact.Kind, string, error) {
	kind, err := artifact.ParseKind(selector)
	if err == nil {
		return kind, "", nil
	}
	if category := strings.ToLower(strings.TrimSpace(selector)); lib.HasCategory(category) {
		return artifact.KindTemplate, category, nil
	}
	return "", "", err
}

// buildRequest turns flags into a request, asking p for anything missing.
// A nil p means prompting is disabled.
func buildRequest(opts *generateOptions, genericType string, lib *catalog.Library, p *prompt.Prompter) (*artifact.Request, error) {
	kind, category, err := resolveKind(opts.kind, lib)
	if err != nil {
		return nil, err
	}

	params, err := artifact.ParseParameters(opts.params, genericType)
	if err != nil {
		return nil, err
	}

	req := &artifact.Request{
		Kind:       kind,
		Name:       opts.name,
		ReturnType: opts.returns,
		Docstring:  opts.docstring,
		Decorators: opts.decorators,
		Base:       opts.base,
		Output:     opts.output,
	}

	switch kind {
	case artifact.KindClass:
		req.Attributes = artifact.Attributes(params)
	case artifact.KindFunction:
		req.Params = params
		req.Logic = strings.Join(opts.logic, "\n")
		if req.Logic == "" && p != nil {
			if req.Logic, err = p.AskLines("Enter the function logic"); err != nil {
				return nil, err
			}
		}
	case artifact.KindOverload:
		if req.Overloads, err = buildOverloads(opts, genericType, p); err != nil {
			return nil, err
		}
	case artifact.KindTemplate:
		if category == "" {
			category = strings.ToLower(opts.category)
		}
		req.Category = category
		req.Subtype = opts.subtype
		if req.Subtype == "" {
			if p == nil {
				return nil, &artifact.ValidationError{Field: "subtype", Value: category, Reason: "a template subtype is required"}
			}
			label := fmt.Sprintf("Select a %s template:", category)
			if req.Subtype, err = p.Choose(label, lib.Subtypes(category)); err != nil {
				return nil, err
			}
		}
		if req.Name == "" {
			req.Name = strings.ReplaceAll(req.Subtype, "-", "_")
		}
	default:
		req.Params = params
	}
	return req, nil
}

func buildOverloads(opts *generateOptions, genericType string, p *prompt.Prompter) ([]artifact.Overload, error) {
	if len(opts.logic) > len(opts.groups) {
		return nil, &artifact.ValidationError{
			Field:  "logic",
			Value:  opts.name,
			Reason: fmt.Sprintf("%d logic blocks for %d signature groups", len(opts.logic), len(opts.groups)),
		}
	}

	overloads := make([]artifact.Overload, len(opts.groups))
	for i, group := range opts.groups {
		params, err := artifact.ParseGroup(group, genericType)
		if err != nil {
			return nil, err
		}
		overloads[i].Params = params

		switch {
		case i < len(opts.logic):
			overloads[i].Logic = opts.logic[i]
		case p != nil:
			label := fmt.Sprintf("Enter the logic for signature %d (%s)", i+1, group)
			if overloads[i].Logic, err = p.AskLines(label); err != nil {
				return nil, err
			}
		default:
			return nil, &artifact.ValidationError{
				Field:  "logic",
				Value:  group,
				Reason: fmt.Sprintf("signature group %d has no logic block", i+1),
			}
		}
	}
	return overloads, nil
}

// report prints the outcome of one pipeline run. Unformatted text goes to
// stderr when formatting fails; formatted text goes to stdout when it could
// not be saved.
func report(cmd *cobra.Command, result *scaffold.Result, err error) error {
	if err != nil {
		var fmtErr *formatter.FormattingError
		var ioErr *scaffold.IOError
		switch {
		case errors.As(err, &fmtErr):
			fmt.Fprintln(cmd.ErrOrStderr(), fmtErr.Text)
		case errors.As(err, &ioErr) && result != nil:
			fmt.Fprint(cmd.OutOrStdout(), result.Artifact.Text())
		}
		return err
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", result.Path, w)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Code saved to '%s'\n", result.Path)
	return nil
}
