package compose

import "strings"

// Branch is one tagged arm of a conditional ladder.
type Branch struct {
	Condition string
	Body      string
}

// Ladder renders branches as an if/elif chain, one clause per branch, with
// an optional trailing else. Bodies are indented one level.
func (c *Composer) Ladder(branches []Branch, elseBody string) string {
	var parts []string
	for i, br := range branches {
		keyword := "elif"
		if i == 0 {
			keyword = "if"
		}
		parts = append(parts, keyword+" "+br.Condition+":", c.Body(br.Body))
	}
	if elseBody != "" && len(branches) > 0 {
		parts = append(parts, "else:", c.Body(elseBody))
	}
	return strings.Join(parts, "\n")
}
