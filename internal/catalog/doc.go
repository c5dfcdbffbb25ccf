// Package catalog is the domain template library: prefabricated machine
// learning and NLP scaffolds keyed by category and subtype. The built-in
// table is embedded YAML; users can add or override entries with YAML files
// in their templates directory. Lookups never fail: a missing entry yields
// a one-line comment saying the template is unavailable.
package catalog
