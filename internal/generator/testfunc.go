package generator

import (
	"strings"

	"github.com/codegenie-labs/codegenie/internal/artifact"
)

// sampleValues maps common annotations to a literal of that type.
var sampleValues = map[string]string{
	"int":   "0",
	"float": "0.0",
	"str":   "''",
	"bool":  "False",
	"bytes": "b''",
	"list":  "[]",
	"dict":  "{}",
	"set":   "set()",
	"tuple": "()",
}

// TestFunction renders test_<name>() asserting that a call to name with the
// parameters' test values equals the expected-value placeholder.
func (g *Generator) TestFunction(name string, params []artifact.ParameterSpec) artifact.Artifact {
	args := make([]string, len(params))
	for i, p := range params {
		args[i] = SampleArgument(p)
	}
	logic := "assert " + name + "(" + strings.Join(args, ", ") + ") == " + g.opts.ExpectedPlaceholder
	testName := "test_" + name

	text := g.function(testName, nil, "", nil, "", logic, nil)
	return artifact.New(artifact.KindTest, testName, text)
}

// SampleArgument picks the literal passed for p in a generated test: the explicit
// test value, then the default, then a sample for the declared type.
func SampleArgument(p artifact.ParameterSpec) string {
	if p.TestValue != "" {
		return p.TestValue
	}
	if p.HasDefault && p.Default != "" {
		return p.Default
	}
	base := p.Type
	if i := strings.IndexAny(base, "[|"); i >= 0 {
		base = base[:i]
	}
	if v, ok := sampleValues[strings.ToLower(strings.TrimSpace(base))]; ok {
		return v
	}
	return "None"
}
