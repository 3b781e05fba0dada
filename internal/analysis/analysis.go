// Package analysis runs the annotation sweep that classifies every stored
// comment still lacking a sentiment, one committed row at a time.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/chorus/internal/comments"
	"github.com/JaimeStill/chorus/pkg/metrics"
	"github.com/JaimeStill/chorus/pkg/sentiment"
)

// Store claims and annotates unannotated comments.
type Store interface {
	AnnotateNext(ctx context.Context, fn comments.AnnotateFunc) (*comments.Comment, error)
}

// Classifier scores comment text.
type Classifier interface {
	Classify(text string) sentiment.Result
}

// Result reports what a sweep accomplished. Processed counts rows committed
// before the sweep finished or failed.
type Result struct {
	Processed int                     `json:"processed"`
	Labels    map[sentiment.Label]int `json:"labels"`
	Elapsed   time.Duration           `json:"-"`
}

// System defines the public contract for the annotation sweep.
type System interface {
	Handler() *Handler

	// Sweep annotates unannotated comments until none remain, the row limit
	// is reached, ctx is cancelled, or a row fails. The returned Result is
	// never nil, even alongside an error.
	Sweep(ctx context.Context) (*Result, error)
}

type sweeper struct {
	store      Store
	classifier Classifier
	metrics    *metrics.Metrics
	logger     *slog.Logger
	maxRows    int
}

// New creates the sweep System. maxRows of zero sweeps the whole backlog.
func New(store Store, classifier Classifier, m *metrics.Metrics, logger *slog.Logger, maxRows int) System {
	return &sweeper{
		store:      store,
		classifier: classifier,
		metrics:    m,
		logger:     logger.With("system", "analysis"),
		maxRows:    maxRows,
	}
}

func (s *sweeper) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *sweeper) Sweep(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{Labels: make(map[sentiment.Label]int)}

	err := s.sweep(ctx, result)

	result.Elapsed = time.Since(start)
	s.metrics.ObserveSweep(result.Elapsed, err)

	if err != nil {
		s.logger.Error("sweep stopped", "processed", result.Processed, "error", err)
		return result, err
	}

	s.logger.Info("sweep complete", "processed", result.Processed, "elapsed", result.Elapsed)
	return result, nil
}

func (s *sweeper) sweep(ctx context.Context, result *Result) error {
	annotate := func(text string) (sentiment.Result, error) {
		return s.classifier.Classify(text), nil
	}

	for s.maxRows == 0 || result.Processed < s.maxRows {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("sweep cancelled: %w", err)
		}

		c, err := s.store.AnnotateNext(ctx, annotate)
		if errors.Is(err, comments.ErrNoneUnannotated) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("annotate row %d: %w", result.Processed+1, err)
		}

		result.Processed++
		if c.Sentiment != nil {
			result.Labels[*c.Sentiment]++
			s.metrics.ObserveAnnotation(string(*c.Sentiment))
		}
	}

	s.logger.Info("sweep row limit reached", "max_rows", s.maxRows)
	return nil
}
