package comments_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/chorus/internal/comments"
	"github.com/JaimeStill/chorus/pkg/pagination"
	"github.com/JaimeStill/chorus/pkg/routes"
	"github.com/JaimeStill/chorus/pkg/sentiment"
)

type mockSystem struct {
	listFn      func(ctx context.Context, page pagination.PageRequest, filters comments.Filters) (*pagination.PageResult[comments.Comment], error)
	findFn      func(ctx context.Context, id uuid.UUID) (*comments.Comment, error)
	summarizeFn func(ctx context.Context, videoID string) (*comments.Summary, error)
}

func (m *mockSystem) Handler() *comments.Handler { return newTestHandler(m) }

func (m *mockSystem) Insert(context.Context, string, []string) ([]comments.Comment, error) {
	return nil, nil
}

func (m *mockSystem) AnnotateNext(context.Context, comments.AnnotateFunc) (*comments.Comment, error) {
	return nil, comments.ErrNoneUnannotated
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters comments.Filters) (*pagination.PageResult[comments.Comment], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*comments.Comment, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Summarize(ctx context.Context, videoID string) (*comments.Summary, error) {
	return m.summarizeFn(ctx, videoID)
}

func newTestHandler(sys comments.System) *comments.Handler {
	return comments.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func setupMux(h *comments.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

func mustUUID(s string) uuid.UUID {
	return uuid.MustParse(s)
}

func sampleComment() comments.Comment {
	label := sentiment.Positive
	score := 0.6696
	return comments.Comment{
		ID:             mustUUID(id1),
		VideoID:        videoID,
		Comment:        "I love this!",
		Sentiment:      &label,
		SentimentScore: &score,
		CreatedAt:      created,
	}
}

func emptyPage() (*pagination.PageResult[comments.Comment], error) {
	r := pagination.NewPageResult([]comments.Comment{}, 0, 1, 20)
	return &r, nil
}

func TestHandlerList(t *testing.T) {
	var captured comments.Filters
	var capturedPage pagination.PageRequest

	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, f comments.Filters) (*pagination.PageResult[comments.Comment], error) {
			captured, capturedPage = f, page
			r := pagination.NewPageResult([]comments.Comment{sampleComment()}, 1, 1, 20)
			return &r, nil
		},
	}
	mux := setupMux(sys.Handler())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/comments?video_id=abc&sentiment=negative&annotated=true&page_size=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var result pagination.PageResult[comments.Comment]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	require.Len(t, result.Data, 1)
	assert.Equal(t, "I love this!", result.Data[0].Comment)

	require.NotNil(t, captured.VideoID)
	assert.Equal(t, "abc", *captured.VideoID)
	assert.Equal(t, "negative", *captured.Sentiment)
	assert.True(t, *captured.Annotated)
	assert.Equal(t, 5, capturedPage.PageSize)
}

func TestHandlerListBadFilter(t *testing.T) {
	sys := &mockSystem{}
	mux := setupMux(sys.Handler())

	for _, q := range []string{"annotated=maybe", "sentiment=ecstatic"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/comments?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestHandlerSearch(t *testing.T) {
	var captured comments.Filters
	var capturedPage pagination.PageRequest

	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, f comments.Filters) (*pagination.PageResult[comments.Comment], error) {
			captured, capturedPage = f, page
			return emptyPage()
		},
	}
	mux := setupMux(sys.Handler())

	t.Run("body filters", func(t *testing.T) {
		body := `{"page": 2, "search": "love", "sort": "-created_at", "video_id": "abc", "annotated": false}`
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/comments/search", strings.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "abc", *captured.VideoID)
		assert.False(t, *captured.Annotated)
		assert.Equal(t, 2, capturedPage.Page)
		assert.Equal(t, 20, capturedPage.PageSize)
		assert.Equal(t, "love", *capturedPage.Search)
		require.Len(t, capturedPage.Sort, 1)
		assert.True(t, capturedPage.Sort[0].Descending)
	})

	t.Run("empty body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/comments/search", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/comments/search", strings.NewReader(`{"page":`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandlerListMapsDomainErrors(t *testing.T) {
	sys := &mockSystem{
		listFn: func(context.Context, pagination.PageRequest, comments.Filters) (*pagination.PageResult[comments.Comment], error) {
			return nil, comments.ErrInvalidFilter
		},
	}
	mux := setupMux(sys.Handler())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/comments?sort=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerFind(t *testing.T) {
	sys := &mockSystem{
		findFn: func(_ context.Context, id uuid.UUID) (*comments.Comment, error) {
			if id == mustUUID(id1) {
				c := sampleComment()
				return &c, nil
			}
			return nil, comments.ErrNotFound
		},
	}
	mux := setupMux(sys.Handler())

	tests := []struct {
		name string
		path string
		want int
	}{
		{"found", "/comments/" + id1, http.StatusOK},
		{"not found", "/comments/" + id2, http.StatusNotFound},
		{"invalid id", "/comments/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandlerSummary(t *testing.T) {
	mean := 0.25
	sys := &mockSystem{
		summarizeFn: func(_ context.Context, id string) (*comments.Summary, error) {
			if id != videoID {
				return nil, comments.ErrNotFound
			}
			return &comments.Summary{
				VideoID:   id,
				Total:     4,
				Annotated: 4,
				Labels: map[sentiment.Label]comments.LabelSummary{
					sentiment.Positive: {Count: 3, Percentage: 75},
					sentiment.Negative: {Count: 1, Percentage: 25},
					sentiment.Neutral:  {},
				},
				MeanScore: &mean,
			}, nil
		},
	}
	mux := setupMux(sys.Handler())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/comments/summary/"+videoID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, videoID, body["video_id"])
	assert.Equal(t, 0.25, body["mean_sentiment_score"])
	labels := body["labels"].(map[string]any)
	assert.Equal(t, 75.0, labels["positive"].(map[string]any)["percentage"])

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/comments/summary/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
