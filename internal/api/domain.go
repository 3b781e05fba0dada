package api

import (
	"github.com/JaimeStill/chorus/internal/analysis"
	"github.com/JaimeStill/chorus/internal/comments"
	"github.com/JaimeStill/chorus/internal/ingestion"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Comments  comments.System
	Ingestion ingestion.System
	Analysis  analysis.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	commentsSystem := comments.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	ingestionSystem := ingestion.New(
		runtime.YouTube,
		commentsSystem,
		runtime.Storage,
		runtime.Metrics,
		runtime.Logger,
		runtime.Ingestion,
	)

	analysisSystem := analysis.New(
		commentsSystem,
		runtime.Classifier,
		runtime.Metrics,
		runtime.Logger,
		runtime.MaxRows,
	)

	return &Domain{
		Comments:  commentsSystem,
		Ingestion: ingestionSystem,
		Analysis:  analysisSystem,
	}
}
