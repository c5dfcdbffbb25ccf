// Package artifact defines the request and result types shared by the
// generators: parameter and attribute descriptions, the ArtifactRequest that
// drives one generation, and the immutable Artifact text it produces.
package artifact
