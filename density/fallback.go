package density

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// ConsentTerms mark cookie and privacy banners.
var ConsentTerms = []string{"cookie", "privacy", "consent"}

// ChallengeTerms mark anti-bot interstitial copy. They apply to pages that
// came through the browser crawl path.
var ChallengeTerms = []string{"cloudflare", "checking", "browser", "javascript"}

// FallbackConfig tunes the long-paragraph fallback.
type FallbackConfig struct {
	// MinLineChars is the minimum length of a single-line paragraph.
	MinLineChars int

	// MaxParagraphs bounds how many paragraphs are returned.
	MaxParagraphs int

	// Blocklist terms reject a paragraph when found case-insensitively.
	Blocklist []string
}

// DefaultFallbackConfig returns the fallback settings for crawled pages.
func DefaultFallbackConfig() FallbackConfig {
	return FallbackConfig{
		MinLineChars:  100,
		MaxParagraphs: 10,
		Blocklist:     append(slices.Clone(ConsentTerms), ChallengeTerms...),
	}
}

// Fallback extracts up to MaxParagraphs long single-line paragraphs from
// the raw page text, in document order, skipping blocklisted lines. It
// returns "" when no paragraph survives.
func (c FallbackConfig) Fallback(text, title string) string {
	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		if len(paragraphs) == c.MaxParagraphs {
			break
		}
		if utf8.RuneCountInString(line) < c.MinLineChars {
			continue
		}
		if containsAny(strings.ToLower(line), c.Blocklist) {
			continue
		}
		paragraphs = append(paragraphs, line)
	}
	if len(paragraphs) == 0 {
		return ""
	}

	return withTitle(stripURLs(strings.Join(paragraphs, "\n\n")), title)
}
