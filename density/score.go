package density

import (
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/distill"
)

// Block is one scored segment of a page.
type Block struct {
	// RawText is the segment as it appeared in the page markdown.
	RawText string

	// CleanedText is RawText with links reduced to labels and URLs removed.
	CleanedText string

	// WordCount is measured on CleanedText.
	WordCount int

	// Score is the block's article-ness. It may be negative.
	Score int
}

// Corpus is a page's scored blocks in document order.
type Corpus []Block

// ScoreBlock scores a single raw block. It returns false when the cleaned
// block has fewer than MinWords words and must be discarded.
func (w ScoringWeights) ScoreBlock(raw string) (Block, bool) {
	cleaned := cleanText(raw)
	words := distill.CountWords(cleaned)
	if words < w.MinWords {
		return Block{}, false
	}

	score := min(words, w.MaxBaseScore)
	score -= w.linkPenalty(raw, words)
	score -= w.menuPenalty(raw)

	lower := strings.ToLower(raw)
	if containsAny(lower, w.NavTerms) {
		score -= w.NavPenalty
	}
	if containsAny(lower, w.FooterTerms) {
		score -= w.FooterPenalty
	}

	punct := strings.Count(cleaned, ".") + strings.Count(cleaned, "!") + strings.Count(cleaned, "?")
	score += min(punct, w.MaxPunctuationBonus)
	if words > w.LongBlockWords {
		score += w.LongBlockBonus
	}

	return Block{
		RawText:     raw,
		CleanedText: strings.TrimSpace(cleaned),
		WordCount:   words,
		Score:       score,
	}, true
}

// linkPenalty measures links on the original block against cleaned words.
func (w ScoringWeights) linkPenalty(raw string, words int) int {
	links := strings.Count(raw, "[") + strings.Count(raw, "http")
	if links == 0 {
		return 0
	}
	density := float64(links) / float64(max(words, 1))
	switch {
	case density > w.HighLinkDensity:
		return w.HighLinkPenalty
	case density > w.MediumLinkDensity:
		return w.MediumLinkPenalty
	}
	return 0
}

// menuPenalty flags blocks made mostly of short lines.
func (w ScoringWeights) menuPenalty(raw string) int {
	lines := strings.Split(raw, "\n")
	if len(lines) <= w.MenuMinLines {
		return 0
	}
	short := 0
	for _, l := range lines {
		if utf8.RuneCountInString(strings.TrimSpace(l)) < w.ShortLineChars {
			short++
		}
	}
	if float64(short) > float64(len(lines))*w.ShortLineRatio {
		return w.MenuPenalty
	}
	return 0
}

// Score scores every block, dropping those under the word floor. Blocks are
// kept regardless of score sign; selection decides what survives.
func (w ScoringWeights) Score(blocks []string) Corpus {
	corpus := make(Corpus, 0, len(blocks))
	for _, raw := range blocks {
		if b, ok := w.ScoreBlock(raw); ok {
			corpus = append(corpus, b)
		}
	}
	return corpus
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
