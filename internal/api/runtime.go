package api

import (
	"github.com/JaimeStill/chorus/internal/config"
	"github.com/JaimeStill/chorus/internal/infrastructure"
	"github.com/JaimeStill/chorus/internal/ingestion"
	"github.com/JaimeStill/chorus/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Ingestion  ingestion.Config
	MaxRows    int
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		Ingestion: ingestion.Config{
			DefaultVideoID: cfg.YouTube.VideoID,
			MaxConcurrency: cfg.Ingestion.MaxConcurrency,
			Archive:        cfg.Ingestion.ArchiveEnabled(),
		},
		MaxRows: cfg.Analysis.MaxRows,
	}
}
