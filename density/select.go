package density

import (
	"slices"
	"strings"
)

// Select joins the blocks that make up the article, in document order.
//
// Blocks scoring zero or less are dropped outright. The remaining blocks are
// kept when they reach max(median*ThresholdRatio, MinThreshold), where the
// median is the element at index n/2 of the ascending scores. An empty
// selection yields "" even when a title is given.
func (w ScoringWeights) Select(corpus Corpus, title string) string {
	positive := make(Corpus, 0, len(corpus))
	for _, b := range corpus {
		if b.Score > 0 {
			positive = append(positive, b)
		}
	}
	if len(positive) == 0 {
		return ""
	}

	threshold := max(float64(median(positive))*w.ThresholdRatio, w.MinThreshold)

	var kept []string
	for _, b := range positive {
		if float64(b.Score) >= threshold {
			kept = append(kept, b.CleanedText)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return withTitle(strings.Join(kept, "\n\n"), title)
}

// median returns sorted[n/2] without interpolation.
func median(corpus Corpus) int {
	scores := make([]int, len(corpus))
	for i, b := range corpus {
		scores[i] = b.Score
	}
	slices.Sort(scores)
	return scores[len(scores)/2]
}

// withTitle prepends "# title" unless text already opens with a heading.
func withTitle(text, title string) string {
	if title == "" || strings.HasPrefix(text, "#") {
		return text
	}
	return "# " + title + "\n\n" + text
}
