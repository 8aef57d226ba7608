package density

import (
	"regexp"
	"strings"
)

var (
	bareURLRe    = regexp.MustCompile(`https?://\S+`)
	angleURLRe   = regexp.MustCompile(`<https?://[^>]+>`)
	mdLinkRe     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	emptyMarkers = strings.NewReplacer("()", "", "[]", "", "[ ]", "")
)

// cleanText reduces a block to the words a reader sees: markdown links
// become their labels, bare URLs are dropped, and the empty brackets left
// behind by images and icon links are removed.
//
// Links are rewritten before bare URLs are removed; the other way round the
// URL pattern swallows the closing parenthesis and leaves "[label](" behind.
func cleanText(block string) string {
	s := mdLinkRe.ReplaceAllString(block, "$1")
	s = bareURLRe.ReplaceAllString(s, "")
	return emptyMarkers.Replace(s)
}

// stripURLs removes angle-wrapped and bare URLs plus empty parentheses.
// Markdown links keep their label, as in cleanText.
func stripURLs(s string) string {
	s = angleURLRe.ReplaceAllString(s, "")
	s = mdLinkRe.ReplaceAllString(s, "$1")
	s = bareURLRe.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, "()", "")
}
