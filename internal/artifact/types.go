package artifact

import (
	"errors"
	"fmt"
	"strings"
)

// Kind selects which generator handles a Request.
type Kind string

// Supported artifact kinds.
const (
	KindFunction  Kind = "function"
	KindClass     Kind = "class"
	KindException Kind = "exception"
	KindFactory   Kind = "factory"
	KindOverload  Kind = "overload"
	KindTest      Kind = "test"
	KindTemplate  Kind = "template"

	// KindModule marks several artifacts bundled into one file. It cannot
	// be requested directly.
	KindModule Kind = "module"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindFunction, KindClass, KindException, KindFactory, KindOverload, KindTest, KindTemplate}

// ErrUnknownKind is returned by ParseKind for an unrecognized selector.
var ErrUnknownKind = errors.New("unknown artifact kind")

// ParseKind maps a selector string onto a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, s)
}

// ParameterSpec describes one function parameter.
type ParameterSpec struct {
	Name string
	Type string
	// Default is rendered as "= Default" when HasDefault is set.
	Default    string
	HasDefault bool
	// TestValue is the literal passed for this parameter by generated tests.
	TestValue string
}

// AttributeSpec describes one class field. It has the same shape as a
// parameter and becomes a constructor parameter when a class is generated.
type AttributeSpec ParameterSpec

// Param converts the attribute into the constructor parameter it produces.
func (a AttributeSpec) Param() ParameterSpec { return ParameterSpec(a) }

// Overload pairs one dispatch signature with the logic run when it matches.
type Overload struct {
	Params []ParameterSpec `yaml:"params"`
	Logic  string          `yaml:"logic"`
}

// Request is everything a generator needs to build one artifact.
type Request struct {
	Kind       Kind            `yaml:"kind"`
	Name       string          `yaml:"name"`
	Params     []ParameterSpec `yaml:"params,omitempty"`
	Attributes []AttributeSpec `yaml:"attributes,omitempty"`
	ReturnType string          `yaml:"returns,omitempty"`
	Logic      string          `yaml:"logic,omitempty"`
	Docstring  string          `yaml:"docstring,omitempty"`
	Decorators []string        `yaml:"decorators,omitempty"`
	Base       string          `yaml:"base,omitempty"`
	Methods    []Request       `yaml:"methods,omitempty"`
	Overloads  []Overload      `yaml:"overloads,omitempty"`
	Category   string          `yaml:"category,omitempty"`
	Subtype    string          `yaml:"subtype,omitempty"`
	Output     string          `yaml:"output,omitempty"`
}

// Artifact is one generated block of source text. It is a value type: every
// transformation returns a new Artifact.
type Artifact struct {
	kind Kind
	name string
	text string
}

// New creates an Artifact.
func New(kind Kind, name, text string) Artifact {
	return Artifact{kind: kind, name: name, text: text}
}

// Kind returns the kind of request that produced the artifact.
func (a Artifact) Kind() Kind { return a.kind }

// Name returns the artifact name.
func (a Artifact) Name() string { return a.name }

// Text returns the generated source text.
func (a Artifact) Text() string { return a.text }

// String implements fmt.Stringer.
func (a Artifact) String() string { return a.text }

// WithText returns a copy of a carrying text.
func (a Artifact) WithText(text string) Artifact {
	a.text = text
	return a
}
