// Package youtube fetches top-level video comments from the YouTube Data API v3.
package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// Comment is one top-level comment extracted from a comment thread.
type Comment struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Author      string `json:"author"`
	PublishedAt string `json:"published_at"`
}

// Page is one commentThreads.list response.
// Raw is kept so callers can archive the payload as received.
type Page struct {
	Number        int
	Comments      []Comment
	NextPageToken string
	Raw           *yt.CommentThreadListResponse
}

// Client lists comment threads for a video.
type Client struct {
	svc        *yt.Service
	apiKey     string
	maxResults int64
	maxPages   int
	logger     *slog.Logger
}

// New creates a Client that sends requests through httpClient.
// A nil httpClient uses a client with the configured timeout.
func New(ctx context.Context, cfg *Config, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.TimeoutDuration()}
	}

	svc, err := yt.NewService(ctx,
		option.WithHTTPClient(httpClient),
		option.WithEndpoint(cfg.BaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &Client{
		svc:        svc,
		apiKey:     cfg.APIKey,
		maxResults: int64(cfg.MaxResults),
		maxPages:   cfg.MaxPages,
		logger:     logger.With("client", "youtube"),
	}, nil
}

// Fetch lists comment threads for videoID, following nextPageToken
// until the configured page limit is reached or no token is returned.
// Any request or parse failure aborts the fetch.
func (c *Client) Fetch(ctx context.Context, videoID string) ([]*Page, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if videoID == "" {
		return nil, ErrMissingVideoID
	}

	var pages []*Page
	token := ""

	for n := 1; n <= c.maxPages; n++ {
		page, err := c.fetchPage(ctx, videoID, token)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d for %s: %w", n, videoID, err)
		}
		page.Number = n
		pages = append(pages, page)

		c.logger.Info("fetched comment page",
			"video_id", videoID,
			"page", n,
			"comments", len(page.Comments),
		)

		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}

	return pages, nil
}

func (c *Client) fetchPage(ctx context.Context, videoID, token string) (*Page, error) {
	call := c.svc.CommentThreads.
		List([]string{"snippet"}).
		VideoId(videoID).
		MaxResults(c.maxResults).
		Context(ctx)

	if token != "" {
		call = call.PageToken(token)
	}

	resp, err := call.Do(googleapi.QueryParameter("key", c.apiKey))
	if err != nil {
		return nil, err
	}

	comments, err := extract(resp)
	if err != nil {
		return nil, err
	}

	return &Page{
		Comments:      comments,
		NextPageToken: resp.NextPageToken,
		Raw:           resp,
	}, nil
}

func extract(resp *yt.CommentThreadListResponse) ([]Comment, error) {
	comments := make([]Comment, 0, len(resp.Items))

	for i, item := range resp.Items {
		if item == nil ||
			item.Snippet == nil ||
			item.Snippet.TopLevelComment == nil ||
			item.Snippet.TopLevelComment.Snippet == nil {
			return nil, fmt.Errorf("%w: item %d", ErrMalformedResponse, i)
		}

		top := item.Snippet.TopLevelComment
		comments = append(comments, Comment{
			ID:          top.Id,
			Text:        top.Snippet.TextDisplay,
			Author:      top.Snippet.AuthorDisplayName,
			PublishedAt: top.Snippet.PublishedAt,
		})
	}

	return comments, nil
}
