// Package generator assembles complete artifacts (functions, classes,
// exceptions, factory methods, overload dispatchers and test stubs) out of
// the compose primitives. Generators are stateless; all defaults come in
// through Options.
package generator
