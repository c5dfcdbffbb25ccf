package artifact

import (
	"fmt"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidationError reports a request that cannot be generated.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// ParseParameter parses a descriptor of the form name, name:type or
// name:type:default. A missing type becomes genericType. Everything after
// the second colon is the default, so defaults may themselves contain colons.
func ParseParameter(descriptor, genericType string) (ParameterSpec, error) {
	parts := strings.SplitN(strings.TrimSpace(descriptor), ":", 3)
	p := ParameterSpec{Name: strings.TrimSpace(parts[0]), Type: genericType}
	if p.Name == "" {
		return ParameterSpec{}, &ValidationError{Field: "parameter descriptor", Value: descriptor, Reason: "missing name"}
	}
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		p.Type = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		p.Default = strings.TrimSpace(parts[2])
		p.HasDefault = true
	}
	return p, nil
}

// ParseParameters parses each descriptor in order.
func ParseParameters(descriptors []string, genericType string) ([]ParameterSpec, error) {
	params := make([]ParameterSpec, 0, len(descriptors))
	for _, d := range descriptors {
		p, err := ParseParameter(d, genericType)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

// ParseGroup parses a comma-separated list of descriptors, e.g. "a:int,b:str".
func ParseGroup(group, genericType string) ([]ParameterSpec, error) {
	if strings.TrimSpace(group) == "" {
		return nil, nil
	}
	return ParseParameters(strings.Split(group, ","), genericType)
}

// Attributes converts parameters into class attributes.
func Attributes(params []ParameterSpec) []AttributeSpec {
	attrs := make([]AttributeSpec, len(params))
	for i, p := range params {
		attrs[i] = AttributeSpec(p)
	}
	return attrs
}

type paramFields struct {
	Name      string  `yaml:"name"`
	Type      string  `yaml:"type"`
	Default   *string `yaml:"default"`
	TestValue string  `yaml:"test_value"`
}

// UnmarshalYAML accepts either a descriptor string or a mapping with name,
// type, default and test_value keys. The generic type is filled in later by
// FillTypes because the decoder has no access to configuration.
func (p *ParameterSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		parsed, err := ParseParameter(node.Value, "")
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	var f paramFields
	if err := node.Decode(&f); err != nil {
		return err
	}
	*p = ParameterSpec{Name: f.Name, Type: f.Type, TestValue: f.TestValue}
	if f.Default != nil {
		p.Default = *f.Default
		p.HasDefault = true
	}
	return nil
}

// UnmarshalYAML decodes an attribute the same way as a parameter.
func (a *AttributeSpec) UnmarshalYAML(node *yaml.Node) error {
	var p ParameterSpec
	if err := p.UnmarshalYAML(node); err != nil {
		return err
	}
	*a = AttributeSpec(p)
	return nil
}

// FillTypes sets genericType on every parameter and attribute of r (and of
// its methods and overloads) that has no type.
func (r *Request) FillTypes(genericType string) {
	fill := func(params []ParameterSpec) {
		for i := range params {
			if params[i].Type == "" {
				params[i].Type = genericType
			}
		}
	}
	fill(r.Params)
	for i := range r.Attributes {
		if r.Attributes[i].Type == "" {
			r.Attributes[i].Type = genericType
		}
	}
	for i := range r.Overloads {
		fill(r.Overloads[i].Params)
	}
	for i := range r.Methods {
		r.Methods[i].FillTypes(genericType)
	}
}
