// Package infrastructure assembles the shared systems every chorus binary
// needs: lifecycle coordination, logging, the database pool, blob storage,
// metrics, the sentiment classifier, and the comment API client.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/chorus/internal/config"
	"github.com/JaimeStill/chorus/pkg/database"
	"github.com/JaimeStill/chorus/pkg/lifecycle"
	"github.com/JaimeStill/chorus/pkg/logging"
	"github.com/JaimeStill/chorus/pkg/metrics"
	"github.com/JaimeStill/chorus/pkg/sentiment"
	"github.com/JaimeStill/chorus/pkg/storage"
	"github.com/JaimeStill/chorus/pkg/youtube"
)

// Infrastructure holds the core systems shared by domain packages.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Database   database.System
	Storage    storage.System
	Metrics    *metrics.Metrics
	Classifier *sentiment.Classifier
	YouTube    *youtube.Client
}

// New creates an Infrastructure from cfg. Nothing connects until Start
// registers the lifecycle hooks.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := logging.New(&cfg.Logging, os.Stderr).With("service", "chorus", "env", cfg.Env())

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	m, err := metrics.New()
	if err != nil {
		return nil, fmt.Errorf("metrics init failed: %w", err)
	}

	yt, err := youtube.New(context.Background(), &cfg.YouTube, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("youtube init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle:  lc,
		Logger:     logger,
		Database:   db,
		Storage:    store,
		Metrics:    m,
		Classifier: sentiment.New(&cfg.Sentiment),
		YouTube:    yt,
	}, nil
}

// Start registers the database and storage hooks with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
