package analysis_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/chorus/internal/analysis"
	"github.com/JaimeStill/chorus/internal/comments"
	"github.com/JaimeStill/chorus/pkg/metrics"
	"github.com/JaimeStill/chorus/pkg/sentiment"
)

// memoryStore mirrors the repository's claim-annotate-commit cycle over a slice.
type memoryStore struct {
	mu      sync.Mutex
	rows    []comments.Comment
	updates int
	failAt  int
	now     func() time.Time
}

func newStore(texts ...string) *memoryStore {
	s := &memoryStore{now: time.Now}
	for i, text := range texts {
		s.rows = append(s.rows, comments.Comment{
			ID:        uuid.New(),
			VideoID:   "CnEOLuCojY0",
			Comment:   text,
			CreatedAt: time.Date(2025, 2, 1, 0, i, 0, 0, time.UTC),
		})
	}
	return s
}

func (s *memoryStore) AnnotateNext(_ context.Context, fn comments.AnnotateFunc) (*comments.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rows {
		row := &s.rows[i]
		if row.Annotated() {
			continue
		}
		if s.failAt > 0 && s.updates+1 == s.failAt {
			return nil, errors.New("connection reset")
		}

		res, err := fn(row.Comment)
		if err != nil {
			return nil, err
		}

		label := res.Label
		processed := s.now()
		row.Sentiment = &label
		row.SentimentScore = &res.Compound
		row.PositiveScore = &res.Positive
		row.NegativeScore = &res.Negative
		row.NeutralScore = &res.Neutral
		row.ProcessedAt = &processed
		s.updates++

		c := *row
		return &c, nil
	}
	return nil, comments.ErrNoneUnannotated
}

func (s *memoryStore) snapshot() []comments.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]comments.Comment(nil), s.rows...)
}

func classifier() *sentiment.Classifier {
	return sentiment.New(&sentiment.Config{})
}

func newSweeper(t *testing.T, store analysis.Store, maxRows int) (analysis.System, *metrics.Metrics) {
	t.Helper()
	m, err := metrics.New()
	require.NoError(t, err)
	return analysis.New(store, classifier(), m, slog.New(slog.NewTextHandler(io.Discard, nil)), maxRows), m
}

func TestSweepAnnotatesBacklog(t *testing.T) {
	store := newStore("I love this!", "This is terrible.")
	sys, m := newSweeper(t, store, 0)

	result, err := sys.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Labels[sentiment.Positive])
	assert.Equal(t, 1, result.Labels[sentiment.Negative])

	rows := store.snapshot()

	love := rows[0]
	require.True(t, love.Annotated())
	assert.Equal(t, sentiment.Positive, *love.Sentiment)
	assert.Greater(t, *love.SentimentScore, 0.0)
	assert.NotNil(t, love.PositiveScore)
	assert.NotNil(t, love.NegativeScore)
	assert.NotNil(t, love.NeutralScore)
	assert.NotNil(t, love.ProcessedAt)

	terrible := rows[1]
	require.True(t, terrible.Annotated())
	assert.Equal(t, sentiment.Negative, *terrible.Sentiment)
	assert.Less(t, *terrible.SentimentScore, 0.0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommentsAnnotated.WithLabelValues("positive")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommentsAnnotated.WithLabelValues("negative")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SweepFailures))
}

func TestSweepIsIdempotent(t *testing.T) {
	store := newStore("I love this!", "meh", "This is terrible.")
	sys, _ := newSweeper(t, store, 0)

	first, err := sys.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, first.Processed)

	before := store.snapshot()

	second, err := sys.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed)
	assert.Equal(t, 3, store.updates)
	assert.Equal(t, before, store.snapshot())
}

func TestSweepSkipsAnnotatedRows(t *testing.T) {
	store := newStore("already done", "I love this!")

	label := sentiment.Neutral
	score := 0.0
	earlier := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.rows[0].Sentiment = &label
	store.rows[0].SentimentScore = &score
	store.rows[0].PositiveScore = &score
	store.rows[0].NegativeScore = &score
	store.rows[0].NeutralScore = &score
	store.rows[0].ProcessedAt = &earlier

	sys, _ := newSweeper(t, store, 0)

	result, err := sys.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	rows := store.snapshot()
	assert.Equal(t, earlier, *rows[0].ProcessedAt)
	assert.Equal(t, sentiment.Neutral, *rows[0].Sentiment)
	assert.Equal(t, sentiment.Positive, *rows[1].Sentiment)
}

func TestSweepStopsOnFailure(t *testing.T) {
	store := newStore("I love this!", "This is terrible.", "fine")
	store.failAt = 2
	sys, m := newSweeper(t, store, 0)

	result, err := sys.Sweep(context.Background())
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Processed)

	rows := store.snapshot()
	assert.True(t, rows[0].Annotated())
	assert.False(t, rows[1].Annotated())
	assert.False(t, rows[2].Annotated())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SweepFailures))

	store.failAt = 0
	result, err = sys.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
}

func TestSweepRowLimit(t *testing.T) {
	store := newStore("a", "b", "c", "d", "e")
	sys, _ := newSweeper(t, store, 2)

	result, err := sys.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2, store.updates)
}

func TestSweepHonoursCancellation(t *testing.T) {
	store := newStore("a", "b")
	sys, _ := newSweeper(t, store, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sys.Sweep(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 0, store.updates)
}

func TestAnalyzeHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		sys, _ := newSweeper(t, newStore("I love this!", "This is terrible."), 0)

		rec := httptest.NewRecorder()
		sys.Handler().Analyze(rec, httptest.NewRequest(http.MethodGet, "/analyze", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, analysis.SuccessMessage, body["message"])
		assert.Equal(t, 2.0, body["processed"])
		assert.NotContains(t, body, "error")
	})

	t.Run("empty backlog", func(t *testing.T) {
		sys, _ := newSweeper(t, newStore(), 0)

		rec := httptest.NewRecorder()
		sys.Handler().Analyze(rec, httptest.NewRequest(http.MethodGet, "/analyze", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Sentiment analysis updated for comments","processed":0}`, rec.Body.String())
	})

	t.Run("failure", func(t *testing.T) {
		store := newStore("I love this!", "This is terrible.")
		store.failAt = 2
		sys, _ := newSweeper(t, store, 0)

		rec := httptest.NewRecorder()
		sys.Handler().Analyze(rec, httptest.NewRequest(http.MethodGet, "/analyze", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var body map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Contains(t, body["error"], "connection reset")
		assert.Equal(t, 1.0, body["processed"])
		assert.NotContains(t, body, "message")
	})

	t.Run("head does not sweep", func(t *testing.T) {
		store := newStore("I love this!")
		sys, _ := newSweeper(t, store, 0)

		rec := httptest.NewRecorder()
		sys.Handler().Analyze(rec, httptest.NewRequest(http.MethodHead, "/analyze", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
		assert.Equal(t, 0, store.updates)
		assert.False(t, store.snapshot()[0].Annotated())
	})
}
