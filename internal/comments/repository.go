package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/chorus/pkg/pagination"
	"github.com/JaimeStill/chorus/pkg/query"
	"github.com/JaimeStill/chorus/pkg/repository"
	"github.com/JaimeStill/chorus/pkg/sentiment"
)

const (
	insertSQL = `
		INSERT INTO video_comments(video_id, comment)
		VALUES ($1, $2)
		RETURNING ` + returning

	claimSQL = `
		SELECT ` + returning + `
		FROM video_comments
		WHERE sentiment IS NULL OR sentiment_score IS NULL
		ORDER BY created_at, id
		LIMIT 1
		FOR UPDATE SKIP LOCKED`

	annotateSQL = `
		UPDATE video_comments
		SET sentiment = $1,
			sentiment_score = $2,
			positive_score = $3,
			negative_score = $4,
			neutral_score = $5,
			processed_at = NOW()
		WHERE id = $6
		RETURNING ` + returning

	summarySQL = `
		SELECT sentiment, COUNT(*), AVG(sentiment_score)
		FROM video_comments
		WHERE video_id = $1
		GROUP BY sentiment`
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a comment repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "comments"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Insert(ctx context.Context, videoID string, texts []string) ([]Comment, error) {
	if videoID == "" {
		return nil, ErrMissingVideoID
	}
	if len(texts) == 0 {
		return []Comment{}, nil
	}

	inserted, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]Comment, error) {
		out := make([]Comment, 0, len(texts))
		for _, text := range texts {
			c, err := repository.QueryOne(ctx, tx, insertSQL, []any{videoID, text}, scanComment)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("insert comments for %s: %w", videoID, repository.MapError(err, ErrNotFound, ErrDuplicate))
	}

	r.logger.Info("comments inserted", "video_id", videoID, "count", len(inserted))
	return inserted, nil
}

func (r *repo) AnnotateNext(ctx context.Context, fn AnnotateFunc) (*Comment, error) {
	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Comment, error) {
		claimed, err := repository.QueryOne(ctx, tx, claimSQL, nil, scanComment)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return Comment{}, ErrNoneUnannotated
			}
			return Comment{}, fmt.Errorf("claim comment: %w", err)
		}

		result, err := fn(claimed.Comment)
		if err != nil {
			return Comment{}, fmt.Errorf("annotate comment %s: %w", claimed.ID, err)
		}
		if _, err := sentiment.ParseLabel(string(result.Label)); err != nil {
			return Comment{}, fmt.Errorf("%w: comment %s: %w", ErrInvalidAnnotation, claimed.ID, err)
		}

		args := []any{
			string(result.Label),
			result.Compound,
			result.Positive,
			result.Negative,
			result.Neutral,
			claimed.ID,
		}

		updated, err := repository.QueryOne(ctx, tx, annotateSQL, args, scanComment)
		if err != nil {
			if repository.IsCheckViolation(err) {
				return Comment{}, fmt.Errorf("%w: comment %s: %w", ErrInvalidAnnotation, claimed.ID, err)
			}
			return Comment{}, fmt.Errorf("update comment %s: %w", claimed.ID, err)
		}
		return updated, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("comment annotated", "id", c.ID, "sentiment", *c.Sentiment, "score", *c.SentimentScore)
	return &c, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Comment], error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}
	if err := validateSort(page.Sort); err != nil {
		return nil, err
	}

	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "comment")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanComment)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Comment, error) {
	q, args := query.NewBuilder(projection).BuildSingle("id", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanComment)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

type labelGroup struct {
	label sql.NullString
	count int
	mean  sql.NullFloat64
}

func scanLabelGroup(s repository.Scanner) (labelGroup, error) {
	var g labelGroup
	err := s.Scan(&g.label, &g.count, &g.mean)
	return g, err
}

func (r *repo) Summarize(ctx context.Context, videoID string) (*Summary, error) {
	if videoID == "" {
		return nil, ErrMissingVideoID
	}

	groups, err := repository.QueryMany(ctx, r.db, summarySQL, []any{videoID}, scanLabelGroup)
	if err != nil {
		return nil, fmt.Errorf("summarize comments for %s: %w", videoID, err)
	}

	summary := summarize(videoID, groups)
	if summary.Total == 0 {
		return nil, ErrNotFound
	}
	return summary, nil
}

func summarize(videoID string, groups []labelGroup) *Summary {
	s := &Summary{
		VideoID: videoID,
		Labels: map[sentiment.Label]LabelSummary{
			sentiment.Positive: {},
			sentiment.Negative: {},
			sentiment.Neutral:  {},
		},
	}

	var weighted float64
	for _, g := range groups {
		s.Total += g.count
		if !g.label.Valid {
			s.Pending += g.count
			continue
		}

		s.Annotated += g.count
		s.Labels[sentiment.Label(g.label.String)] = LabelSummary{Count: g.count}
		if g.mean.Valid {
			weighted += g.mean.Float64 * float64(g.count)
		}
	}

	if s.Annotated == 0 {
		return s
	}

	for label, ls := range s.Labels {
		ls.Percentage = float64(ls.Count) / float64(s.Annotated) * 100
		s.Labels[label] = ls
	}
	mean := weighted / float64(s.Annotated)
	s.MeanScore = &mean

	return s
}
