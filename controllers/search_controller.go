package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ryanlai666/Meat-Cut/config"
	"github.com/ryanlai666/Meat-Cut/models"
	"github.com/ryanlai666/Meat-Cut/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type SearchController struct {
	search *services.SearchService
}

func NewSearchController(search *services.SearchService) *SearchController {
	return &SearchController{search: search}
}

// Search serves the public browsing query. All filters are optional:
// q, price_min, price_max, part, lean, method, plus offset/limit.
func (sc *SearchController) Search(c *gin.Context) {
	offset := 0
	limit := 0
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	filters := models.CutFilters{
		Query:  c.Query("q"),
		Part:   c.Query("part"),
		Method: c.Query("method"),
	}
	if v := c.Query("price_min"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			filters.PriceMin = &d
		}
	}
	if v := c.Query("price_max"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			filters.PriceMax = &d
		}
	}
	if v := c.Query("lean"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filters.Lean = &b
		}
	}

	res, err := sc.search.Search(offset, limit, filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not run search"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// Facets serves the filter-control metadata, cached in Redis when one
// is configured.
func (sc *SearchController) Facets(c *gin.Context) {
	ctx := c.Request.Context()

	if config.RedisClient != nil {
		cached, err := config.RedisClient.Get(ctx, FacetsCacheKey).Result()
		if err == nil {
			var res services.FacetsResponse
			if json.Unmarshal([]byte(cached), &res) == nil {
				c.JSON(http.StatusOK, res)
				return
			}
		}
	}

	res, err := sc.search.ListFacets()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch facets"})
		return
	}

	if config.RedisClient != nil {
		if payload, err := json.Marshal(res); err == nil {
			go config.RedisClient.Set(context.Background(), FacetsCacheKey, payload, FacetsCacheTTL)
		}
	}
	c.JSON(http.StatusOK, res)
}
