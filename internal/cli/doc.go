// Package cli defines the Cobra command tree for the codegenie CLI. Each file
// in this package builds one top-level command (generate, apply, templates,
// config, version). Command implementations delegate to internal packages
// for the generation pipeline and only handle flags, prompts and output.
package cli
