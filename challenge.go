package distill

import "strings"

// challengeMarkers are phrases rendered by anti-bot interstitials instead of
// the requested page.
var challengeMarkers = []string{
	"cloudflare",
	"checking your browser",
	"enable javascript",
	"um momento",
}

// DetectChallenge reports whether page markdown looks like a bot-challenge
// page rather than content.
func DetectChallenge(markdown string) bool {
	lower := strings.ToLower(markdown)
	for _, m := range challengeMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
