// Package scaffold runs the generation pipeline behind "codegenie generate"
// and "codegenie apply": validate the request, generate the artifact, format
// it, and persist it to disk.
package scaffold
