package api

import (
	"net/http"

	"github.com/JaimeStill/chorus/internal/config"
	"github.com/JaimeStill/chorus/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Comments.Handler().Routes(),
		domain.Ingestion.Handler(cfg.API.MaxBodyBytes).Routes(),
	)
}
