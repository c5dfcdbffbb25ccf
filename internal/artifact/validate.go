package artifact

import "fmt"

// Validate checks the request before any text is generated.
func (r *Request) Validate() error {
	if _, err := ParseKind(string(r.Kind)); err != nil {
		return err
	}
	if err := validateIdent("name", r.Name); err != nil {
		return err
	}

	switch r.Kind {
	case KindClass:
		attrs := make([]ParameterSpec, len(r.Attributes))
		for i, a := range r.Attributes {
			attrs[i] = a.Param()
		}
		if err := validateParams("attribute", attrs); err != nil {
			return err
		}
		for _, m := range r.Methods {
			if m.Kind == "" {
				m.Kind = KindFunction
			}
			if m.Kind != KindFunction {
				return &ValidationError{Field: "method", Value: m.Name, Reason: fmt.Sprintf("methods must be functions, got %s", m.Kind)}
			}
			if err := m.Validate(); err != nil {
				return fmt.Errorf("method %s: %w", m.Name, err)
			}
		}
	case KindOverload:
		if len(r.Overloads) == 0 {
			return &ValidationError{Field: "overloads", Reason: "at least one signature group is required"}
		}
		for i, o := range r.Overloads {
			if err := validateParams(fmt.Sprintf("overload %d parameter", i+1), o.Params); err != nil {
				return err
			}
		}
	case KindTemplate:
		if r.Category == "" {
			return &ValidationError{Field: "category", Reason: "domain templates need a category"}
		}
	default:
		if err := validateParams("parameter", r.Params); err != nil {
			return err
		}
	}

	if r.Base != "" {
		if err := validateDotted("base", r.Base); err != nil {
			return err
		}
	}
	return nil
}

func validateParams(field string, params []ParameterSpec) error {
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if err := validateIdent(field, p.Name); err != nil {
			return err
		}
		if seen[p.Name] {
			return &ValidationError{Field: field, Value: p.Name, Reason: "duplicate name"}
		}
		seen[p.Name] = true
	}
	return nil
}

func validateIdent(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Reason: "must not be empty"}
	}
	if !identPattern.MatchString(value) {
		return &ValidationError{Field: field, Value: value, Reason: "must match [A-Za-z_][A-Za-z0-9_]*"}
	}
	return nil
}

// validateDotted accepts qualified names such as "errors.BaseError".
func validateDotted(field, value string) error {
	start := 0
	for i := 0; i <= len(value); i++ {
		if i == len(value) || value[i] == '.' {
			if !identPattern.MatchString(value[start:i]) {
				return &ValidationError{Field: field, Value: value, Reason: "must be a dotted identifier"}
			}
			start = i + 1
		}
	}
	return nil
}
