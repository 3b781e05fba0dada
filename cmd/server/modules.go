package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/chorus/internal/api"
	"github.com/JaimeStill/chorus/internal/config"
	"github.com/JaimeStill/chorus/internal/infrastructure"
	"github.com/JaimeStill/chorus/pkg/middleware"
	"github.com/JaimeStill/chorus/pkg/module"
)

// Modules groups the mounted modules with the domain they serve.
type Modules struct {
	API    *module.Module
	Domain *api.Domain
}

// NewModules creates the API module and its domain systems.
func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, domain, err := api.New(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API:    apiModule,
		Domain: domain,
	}, nil
}

// Mount registers each module on the router.
func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure, modules *Modules) *module.Router {
	router := module.NewRouter()
	logged := middleware.Logger(infra.Logger)

	analyze := modules.Domain.Analysis.Handler()
	router.Handle("GET /analyze", logged(
		middleware.Recover(infra.Logger)(http.HandlerFunc(analyze.Analyze)),
	))

	router.Handle("GET /metrics", infra.Metrics.Handler())

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
