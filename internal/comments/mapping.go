package comments

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"

	"github.com/JaimeStill/chorus/pkg/query"
	"github.com/JaimeStill/chorus/pkg/repository"
	"github.com/JaimeStill/chorus/pkg/sentiment"
)

var projection = query.
	NewProjectionMap("public", "video_comments", "c").
	Project("id", "id").
	Project("video_id", "video_id").
	Project("comment", "comment").
	Project("sentiment", "sentiment").
	Project("sentiment_score", "sentiment_score").
	Project("positive_score", "positive_score").
	Project("negative_score", "negative_score").
	Project("neutral_score", "neutral_score").
	Project("processed_at", "processed_at").
	Project("created_at", "created_at")

// returning lists the same columns as projection, unqualified, for RETURNING clauses.
const returning = "id, video_id, comment, sentiment, sentiment_score, positive_score, negative_score, neutral_score, processed_at, created_at"

var defaultSort = query.SortField{
	Field:      "created_at",
	Descending: true,
}

// Filters contains optional filtering criteria for comment queries.
// Nil fields are ignored. Annotated selects fully annotated (true) or
// unannotated (false) comments.
type Filters struct {
	VideoID   *string `json:"video_id,omitempty"`
	Sentiment *string `json:"sentiment,omitempty"`
	Annotated *bool   `json:"annotated,omitempty"`
}

// Validate rejects unknown sentiment labels.
func (f Filters) Validate() error {
	if f.Sentiment != nil {
		if _, err := sentiment.ParseLabel(*f.Sentiment); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
		}
	}
	return nil
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("video_id", f.VideoID).
		WhereEquals("sentiment", f.Sentiment).
		WhereNullState(f.Annotated, "sentiment", "sentiment_score")
}

// FiltersFromQuery extracts filter values from URL query parameters.
// An unparseable annotated value is reported as ErrInvalidFilter.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if v := values.Get("video_id"); v != "" {
		f.VideoID = &v
	}

	if s := values.Get("sentiment"); s != "" {
		f.Sentiment = &s
	}

	if a := values.Get("annotated"); a != "" {
		b, err := strconv.ParseBool(a)
		if err != nil {
			return f, fmt.Errorf("%w: annotated=%q", ErrInvalidFilter, a)
		}
		f.Annotated = &b
	}

	return f, f.Validate()
}

func validateSort(fields []query.SortField) error {
	for _, f := range fields {
		if !projection.Has(f.Field) {
			return fmt.Errorf("%w: unknown sort field %q", ErrInvalidFilter, f.Field)
		}
	}
	return nil
}

func scanComment(s repository.Scanner) (Comment, error) {
	var (
		c     Comment
		label sql.NullString
	)

	err := s.Scan(
		&c.ID,
		&c.VideoID,
		&c.Comment,
		&label,
		&c.SentimentScore,
		&c.PositiveScore,
		&c.NegativeScore,
		&c.NeutralScore,
		&c.ProcessedAt,
		&c.CreatedAt,
	)
	if err != nil {
		return c, err
	}

	if label.Valid {
		l := sentiment.Label(label.String)
		c.Sentiment = &l
	}
	return c, nil
}
