package manifest

import "github.com/codegenie-labs/codegenie/internal/artifact"

// Manifest is a batch of artifact requests.
type Manifest struct {
	Version int `yaml:"version,omitempty"`
	// Output, when set, bundles every artifact into this one file.
	Output string `yaml:"output,omitempty"`
	// OutputDir is prepended to every relative output path.
	OutputDir string             `yaml:"output_dir,omitempty"`
	Artifacts []artifact.Request `yaml:"artifacts"`
}

// Bundled reports whether all artifacts go into a single file.
func (m *Manifest) Bundled() bool { return m.Output != "" }
