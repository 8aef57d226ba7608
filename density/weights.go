package density

// ScoringWeights holds every tunable constant of the block scorer and the
// density selector. The values are empirical; tune them here, not in the
// scoring code.
type ScoringWeights struct {
	// MinWords is the cleaned word count below which a block is discarded
	// before scoring.
	MinWords int

	// MaxBaseScore caps the word-count base score so a single giant block
	// cannot dominate the page.
	MaxBaseScore int

	// Link density is (count of "[" + count of "http") / words.
	HighLinkDensity   float64
	HighLinkPenalty   int
	MediumLinkDensity float64
	MediumLinkPenalty int

	// A block with more than MenuMinLines lines, of which more than
	// ShortLineRatio are shorter than ShortLineChars, reads as a vertical menu.
	MenuMinLines   int
	ShortLineChars int
	ShortLineRatio float64
	MenuPenalty    int

	// NavTerms and FooterTerms are matched case-insensitively as substrings
	// of the original block. Each list applies its penalty at most once.
	NavTerms      []string
	NavPenalty    int
	FooterTerms   []string
	FooterPenalty int

	// MaxPunctuationBonus caps the sentence-punctuation bonus.
	MaxPunctuationBonus int

	// Blocks with more than LongBlockWords words earn LongBlockBonus.
	LongBlockWords int
	LongBlockBonus int

	// Selection keeps blocks scoring at least
	// max(median * ThresholdRatio, MinThreshold).
	ThresholdRatio float64
	MinThreshold   float64
}

// DefaultWeights returns the canonical weight table.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		MinWords:     5,
		MaxBaseScore: 500,

		HighLinkDensity:   0.5,
		HighLinkPenalty:   500,
		MediumLinkDensity: 0.3,
		MediumLinkPenalty: 100,

		MenuMinLines:   3,
		ShortLineChars: 50,
		ShortLineRatio: 0.6,
		MenuPenalty:    200,

		NavTerms: []string{
			"menu", "toggle", "submit", "search", "topics", "more from",
			"newsletter", "podcast", "contact us", "sign up", "subscribe",
			"related stories", "read more", "latest news", "site map",
		},
		NavPenalty: 100,
		FooterTerms: []string{
			"all rights reserved", "copyright", "privacy policy", "terms of use",
			"cookie", "consent", "advertising",
		},
		FooterPenalty: 200,

		MaxPunctuationBonus: 50,
		LongBlockWords:      40,
		LongBlockBonus:      100,

		ThresholdRatio: 0.2,
		MinThreshold:   10,
	}
}
