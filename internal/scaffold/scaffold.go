package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/codegenie-labs/codegenie/internal/artifact"
	"github.com/codegenie-labs/codegenie/internal/catalog"
	"github.com/codegenie-labs/codegenie/internal/config"
	"github.com/codegenie-labs/codegenie/internal/formatter"
	"github.com/codegenie-labs/codegenie/internal/generator"
	"github.com/codegenie-labs/codegenie/internal/manifest"
)

// IOError reports a failed write. The generated text is not lost: callers
// still hold it in the Result.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Result holds the outcome of one generation.
type Result struct {
	Artifact artifact.Artifact
	// Raw is the generator output before formatting.
	Raw      string
	Path     string
	Warnings []string
}

// Pipeline turns requests into formatted files.
type Pipeline struct {
	settings  config.Settings
	gen       *generator.Generator
	formatter *formatter.Formatter
	log       *zap.Logger
}

// New creates a Pipeline from settings. templates resolves domain templates;
// a nil logger disables logging.
func New(settings config.Settings, templates generator.TemplateSource, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		settings: settings,
		gen: generator.New(generator.Options{
			IndentWidth:         settings.IndentWidth,
			GenericType:         settings.GenericType,
			BaseException:       settings.BaseException,
			ExpectedPlaceholder: settings.ExpectedPlaceholder,
		}, templates),
		formatter: formatter.New(formatter.Options{
			IndentWidth:   settings.IndentWidth,
			MaxLineLength: settings.MaxLineLength,
		}),
		log: log,
	}
}

// FromSettings creates a Pipeline backed by the template library found in
// settings.TemplatesDir and gated on settings.TargetVersion.
func FromSettings(settings config.Settings, log *zap.Logger) (*Pipeline, error) {
	lib, err := catalog.Load(settings.TemplatesDir)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	lib, err = lib.WithTarget(settings.TargetVersion)
	if err != nil {
		return nil, err
	}
	return New(settings, lib, log), nil
}

// OutputPath returns where req is written: its explicit output, or
// <name>.<extension> in the working directory.
func (p *Pipeline) OutputPath(req *artifact.Request) string {
	if req.Output != "" {
		return req.Output
	}
	return req.Name + "." + strings.TrimPrefix(p.settings.Extension, ".")
}

// Generate produces the formatted artifact for req without touching the
// filesystem. Untyped parameters of req are given the generic type. On a
// formatting failure the returned Result still carries the raw text.
func (p *Pipeline) Generate(req *artifact.Request) (*Result, error) {
	req.FillTypes(p.settings.GenericType)

	a, err := p.gen.Generate(req)
	if err != nil {
		return nil, err
	}
	p.log.Debug("generated artifact",
		zap.String("kind", string(a.Kind())),
		zap.String("name", a.Name()),
		zap.Int("bytes", len(a.Text())))

	return p.format(a)
}

func (p *Pipeline) format(a artifact.Artifact) (*Result, error) {
	result := &Result{Artifact: a, Raw: a.Text()}

	text, err := p.formatter.Format(a.Text())
	if err != nil {
		return result, err
	}
	result.Artifact = a.WithText(text)
	for _, issue := range p.formatter.Check(text) {
		result.Warnings = append(result.Warnings, issue.String())
	}
	return result, nil
}

// Run generates req and writes it to path, or to OutputPath(req) when path
// is empty. Nothing is written when generation or formatting fails.
func (p *Pipeline) Run(req *artifact.Request, path string) (*Result, error) {
	result, err := p.Generate(req)
	if err != nil {
		return result, err
	}
	if path == "" {
		path = p.OutputPath(req)
	}
	result.Path = path

	if err := Write(path, result.Artifact.Text()); err != nil {
		return result, err
	}
	p.log.Debug("saved artifact", zap.String("path", path))
	return result, nil
}

// Bundle generates every request and formats them together as one module
// named name. Nothing is written.
func (p *Pipeline) Bundle(name string, reqs []artifact.Request) (*Result, error) {
	parts := make([]string, 0, len(reqs))
	for i := range reqs {
		req := &reqs[i]
		req.FillTypes(p.settings.GenericType)
		a, err := p.gen.Generate(req)
		if err != nil {
			return nil, fmt.Errorf("artifact %d (%s): %w", i, req.Name, err)
		}
		parts = append(parts, strings.TrimRight(a.Text(), "\n"))
	}

	// The formatter settles the spacing between top-level definitions.
	return p.format(artifact.New(artifact.KindModule, name, strings.Join(parts, "\n\n\n")))
}

// Apply generates every artifact in m and writes the results. A bundled
// manifest produces a single file. Generation stops at the first failure:
// written holds what was saved before it, and failed holds the result that
// could not be saved or formatted, if any.
func (p *Pipeline) Apply(m *manifest.Manifest) (written []*Result, failed *Result, err error) {
	if m.Bundled() {
		path := joinDir(m.OutputDir, m.Output)
		result, err := p.Bundle(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), m.Artifacts)
		if err != nil {
			return nil, result, err
		}
		result.Path = path
		if err := Write(path, result.Artifact.Text()); err != nil {
			return nil, result, err
		}
		return []*Result{result}, nil, nil
	}

	written = make([]*Result, 0, len(m.Artifacts))
	for i := range m.Artifacts {
		req := &m.Artifacts[i]
		result, err := p.Run(req, joinDir(m.OutputDir, p.OutputPath(req)))
		if err != nil {
			var ioErr *IOError
			if !errors.As(err, &ioErr) {
				err = fmt.Errorf("artifact %d (%s): %w", i, req.Name, err)
			}
			return written, result, err
		}
		written = append(written, result)
	}
	return written, nil, nil
}

// Write saves text to path, creating parent directories as needed.
func Write(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &IOError{Path: path, Err: err}
		}
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return nil
}

func joinDir(dir, path string) string {
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
