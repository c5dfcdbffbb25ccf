// Package formatter normalizes generated Python source to a canonical
// layout. It only touches whitespace: line endings, indentation tabs,
// trailing blanks and the number of blank lines between definitions. The
// pass is idempotent, and text inside multi-line string literals is never
// altered.
package formatter
