// Package manifest parses and validates generation manifests: YAML files
// listing several artifact requests to generate in one run. Manifests are
// checked against an embedded JSON Schema before they are decoded.
package manifest
