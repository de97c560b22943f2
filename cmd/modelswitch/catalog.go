package main

import (
	"time"

	"github.com/nhle/modelswitch/internal/catalog"
	"github.com/nhle/modelswitch/internal/model"
)

// buildCatalog picks the catalog for the configuration. A remote catalog
// needs both a base URL and an API key; it is wrapped with cache when one
// is given. Otherwise the static models from config are used, falling back
// to the recommended list.
func buildCatalog(cfg model.CatalogConfig, apiKey string, cache catalog.Cache) catalog.Catalog {
	if cfg.BaseURL != "" && apiKey != "" {
		remote := catalog.NewHTTP(
			cfg.BaseURL,
			apiKey,
			cfg.Recommended,
			time.Duration(cfg.TimeoutSec)*time.Second,
		)
		if cache == nil {
			return remote
		}
		return catalog.NewCached(remote, cache, time.Duration(cfg.CacheTTLSec)*time.Second)
	}

	models := cfg.Models
	if len(models) == 0 {
		models = cfg.Recommended
	}
	return catalog.NewStatic(models, cfg.Recommended)
}
