// Package comments implements the video comment domain: persisted comment
// records, their one-time sentiment annotation, and read APIs over them.
package comments

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/chorus/pkg/sentiment"
)

// Comment is a stored video comment. A comment is either unannotated, with
// every analysis field nil, or fully annotated with all of them set.
type Comment struct {
	ID             uuid.UUID        `json:"id"`
	VideoID        string           `json:"video_id"`
	Comment        string           `json:"comment"`
	Sentiment      *sentiment.Label `json:"sentiment"`
	SentimentScore *float64         `json:"sentiment_score"`
	PositiveScore  *float64         `json:"positive_score"`
	NegativeScore  *float64         `json:"negative_score"`
	NeutralScore   *float64         `json:"neutral_score"`
	ProcessedAt    *time.Time       `json:"processed_at"`
	CreatedAt      time.Time        `json:"created_at"`
}

// Annotated reports whether the comment carries a sentiment classification.
func (c Comment) Annotated() bool {
	return c.Sentiment != nil && c.SentimentScore != nil
}

// AnnotateFunc computes the annotation for a comment's text.
type AnnotateFunc func(text string) (sentiment.Result, error)

// LabelSummary is the share of annotated comments carrying one label.
type LabelSummary struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Summary aggregates the annotations stored for a single video.
// Percentages are relative to annotated comments; pending comments are counted separately.
type Summary struct {
	VideoID   string                           `json:"video_id"`
	Total     int                              `json:"total"`
	Annotated int                              `json:"annotated"`
	Pending   int                              `json:"pending"`
	Labels    map[sentiment.Label]LabelSummary `json:"labels"`
	MeanScore *float64                         `json:"mean_sentiment_score"`
}
