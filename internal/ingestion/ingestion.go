// Package ingestion fetches top-level comments for a video from the comment
// API and stores one new comment record per item.
package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/chorus/internal/comments"
	"github.com/JaimeStill/chorus/pkg/metrics"
	"github.com/JaimeStill/chorus/pkg/storage"
	"github.com/JaimeStill/chorus/pkg/youtube"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Fetcher lists comment pages for a video.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) ([]*youtube.Page, error)
}

// Inserter persists comment texts for a video.
type Inserter interface {
	Insert(ctx context.Context, videoID string, texts []string) ([]comments.Comment, error)
}

// Result reports the outcome of ingesting one video.
type Result struct {
	VideoID  string `json:"video_id"`
	Pages    int    `json:"pages"`
	Inserted int    `json:"inserted"`
	Archived int    `json:"archived"`
	Error    string `json:"error,omitempty"`
}

// System defines the public contract for comment ingestion.
type System interface {
	Handler(maxBodyBytes int64) *Handler

	// DefaultVideoID is the configured video used when a request names none.
	DefaultVideoID() string

	// Ingest fetches and stores comments for one video. A fetch failure
	// aborts before anything is inserted.
	Ingest(ctx context.Context, videoID string) (*Result, error)

	// IngestMany ingests each video with bounded concurrency. Every video gets
	// a Result; the returned error joins the individual failures.
	IngestMany(ctx context.Context, videoIDs []string) ([]Result, error)
}

// Config carries the ingestion settings resolved from the service config.
type Config struct {
	DefaultVideoID string
	MaxConcurrency int
	Archive        bool
}

type ingester struct {
	fetcher Fetcher
	store   Inserter
	archive storage.System
	metrics *metrics.Metrics
	logger  *slog.Logger
	cfg     Config
	now     func() time.Time
}

// New creates the ingestion System. Raw pages are archived only when
// cfg.Archive is set and the storage system is enabled.
func New(
	fetcher Fetcher,
	store Inserter,
	archive storage.System,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg Config,
) System {
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}
	return &ingester{
		fetcher: fetcher,
		store:   store,
		archive: archive,
		metrics: m,
		logger:  logger.With("system", "ingestion"),
		cfg:     cfg,
		now:     time.Now,
	}
}

func (i *ingester) Handler(maxBodyBytes int64) *Handler {
	return NewHandler(i, i.logger, maxBodyBytes)
}

func (i *ingester) DefaultVideoID() string {
	return i.cfg.DefaultVideoID
}

func (i *ingester) Ingest(ctx context.Context, videoID string) (*Result, error) {
	if videoID == "" {
		return nil, ErrMissingVideoID
	}
	if !videoIDPattern.MatchString(videoID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVideoID, videoID)
	}

	result := &Result{VideoID: videoID}

	pages, err := i.fetcher.Fetch(ctx, videoID)
	if err != nil {
		if errors.Is(err, youtube.ErrMissingAPIKey) {
			return result, err
		}
		return result, fmt.Errorf("%w: %s: %w", ErrFetch, videoID, err)
	}
	result.Pages = len(pages)

	var texts []string
	for _, page := range pages {
		for _, c := range page.Comments {
			texts = append(texts, c.Text)
		}
	}

	result.Archived = i.archivePages(ctx, videoID, pages)

	inserted, err := i.store.Insert(ctx, videoID, texts)
	if err != nil {
		return result, err
	}
	result.Inserted = len(inserted)
	i.metrics.ObserveIngest(videoID, result.Inserted)

	i.logger.Info("video ingested",
		"video_id", videoID,
		"pages", result.Pages,
		"inserted", result.Inserted,
		"archived", result.Archived,
	)
	return result, nil
}

func (i *ingester) IngestMany(ctx context.Context, videoIDs []string) ([]Result, error) {
	results := make([]Result, len(videoIDs))
	errs := make([]error, len(videoIDs))

	var g errgroup.Group
	g.SetLimit(i.cfg.MaxConcurrency)

	for n, id := range videoIDs {
		g.Go(func() error {
			res, err := i.Ingest(ctx, id)
			if res != nil {
				results[n] = *res
			} else {
				results[n] = Result{VideoID: id}
			}
			if err != nil {
				results[n].Error = err.Error()
				errs[n] = err
			}
			return nil
		})
	}
	g.Wait()

	return results, errors.Join(errs...)
}

// archivePages uploads each raw page as JSON and returns how many succeeded.
// Upload failures are logged and otherwise ignored.
func (i *ingester) archivePages(ctx context.Context, videoID string, pages []*youtube.Page) int {
	if !i.cfg.Archive || i.archive == nil || !i.archive.Enabled() {
		return 0
	}

	stamp := i.now().UnixNano()

	var (
		mu       sync.Mutex
		archived int
		wg       sync.WaitGroup
	)

	for _, page := range pages {
		if page.Raw == nil {
			continue
		}
		wg.Go(func() {
			key := fmt.Sprintf("comments/%s/%d-%d.json", videoID, stamp, page.Number)

			data, err := json.Marshal(page.Raw)
			if err == nil {
				err = i.archive.Upload(ctx, key, bytes.NewReader(data), "application/json")
			}
			if err != nil {
				i.logger.Warn("archive page failed", "video_id", videoID, "key", key, "error", err)
				return
			}

			mu.Lock()
			archived++
			mu.Unlock()
		})
	}
	wg.Wait()

	return archived
}
