// Package sentiment classifies comment text with the VADER lexicon analyzer.
//
// The compound score is mapped to a label with inclusive thresholds:
// compound >= positive threshold is positive, compound <= negative threshold
// is negative, anything between is neutral.
package sentiment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/k3a/html2text"
)

// Label is the polarity classification stored with an annotated comment.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// ParseLabel validates s as a Label.
func ParseLabel(s string) (Label, error) {
	switch l := Label(s); l {
	case Positive, Negative, Neutral:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLabel, s)
}

// Result is a label together with the analyzer's four scores.
type Result struct {
	Label    Label   `json:"sentiment"`
	Compound float64 `json:"sentiment_score"`
	Positive float64 `json:"positive_score"`
	Negative float64 `json:"negative_score"`
	Neutral  float64 `json:"neutral_score"`
}

// Classifier scores text and applies the label thresholds.
// It holds no per-call state and may be shared across goroutines.
type Classifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
	positive float64
	negative float64
}

// New creates a Classifier with the thresholds from cfg.
func New(cfg *Config) *Classifier {
	return &Classifier{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
		positive: cfg.Positive(),
		negative: cfg.Negative(),
	}
}

// Classify normalizes text and returns its label and scores.
func (c *Classifier) Classify(text string) Result {
	s := c.analyzer.PolarityScores(Normalize(text))
	return Result{
		Label:    c.Label(s.Compound),
		Compound: s.Compound,
		Positive: s.Positive,
		Negative: s.Negative,
		Neutral:  s.Neutral,
	}
}

// Label maps a compound score to a Label.
func (c *Classifier) Label(compound float64) Label {
	switch {
	case compound >= c.positive:
		return Positive
	case compound <= c.negative:
		return Negative
	default:
		return Neutral
	}
}

// urlPattern matches bare URLs and the bracketed href html2text appends
// after an anchor's inner text.
var urlPattern = regexp.MustCompile(`<?(?:https?://|www\.)[^\s>]+>?`)

// Normalize converts HTML display text to plain text, drops URLs,
// and collapses whitespace.
func Normalize(text string) string {
	plain := html2text.HTML2TextWithOptions(text, html2text.WithLinksInnerText())
	plain = urlPattern.ReplaceAllString(plain, "")
	return strings.Join(strings.Fields(plain), " ")
}
