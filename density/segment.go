package density

import (
	"regexp"
	"strings"
)

var blankRunRe = regexp.MustCompile(`\n{3,}`)

// Segment splits raw markdown into candidate blocks. Runs of three or more
// newlines are collapsed to a blank line, the text is split on blank lines,
// and every trimmed, non-empty piece becomes a block in document order.
func Segment(text string) []string {
	text = blankRunRe.ReplaceAllString(text, "\n\n")

	var blocks []string
	for _, part := range strings.Split(text, "\n\n") {
		if b := strings.TrimSpace(part); b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}
