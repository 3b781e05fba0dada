// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/chorus/internal/config"
	"github.com/JaimeStill/chorus/internal/infrastructure"
	"github.com/JaimeStill/chorus/pkg/middleware"
	"github.com/JaimeStill/chorus/pkg/module"
)

// NewModule creates the API module from an already assembled Domain.
func NewModule(cfg *config.Config, runtime *Runtime, domain *Domain) (*module.Module, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Recover(runtime.Logger))
	m.Use(middleware.CORS(&cfg.API.CORS))

	return m, nil
}

// New builds the runtime, domain, and module in one step.
func New(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, *Domain, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	m, err := NewModule(cfg, runtime, domain)
	if err != nil {
		return nil, nil, err
	}
	return m, domain, nil
}
