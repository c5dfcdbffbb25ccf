// Package compose holds the text primitives the generators are built from:
// signatures, indented bodies, docstrings and conditional ladders. Every
// function is pure and returns text without a trailing newline.
package compose
