package controllers

import (
	"context"
	"time"

	"github.com/ryanlai666/Meat-Cut/config"
)

const (
	FacetsCacheKey = "facets"
	FacetsCacheTTL = 5 * time.Minute
)

// invalidateFacetsCache drops the cached facets response after a
// catalog write. No-op when Redis is not configured.
func invalidateFacetsCache() {
	if config.RedisClient != nil {
		go config.RedisClient.Del(context.Background(), FacetsCacheKey)
	}
}
