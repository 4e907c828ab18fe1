// Package search calls the external aggregator API for one simplified search
// term and returns a flat list of raw product records.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saveit/shopping-service/internal/httpclient"
)

// Location is the fixed geographic point searches are issued for.
type Location struct {
	Lat string
	Lon string
}

// Client queries the aggregator's groupsearch endpoint. A single term's
// failure is never fatal: any transport, status, or decode problem is logged
// and yields an empty result so one ingredient cannot abort a whole search.
type Client struct {
	http     *httpclient.Client
	baseURL  string
	location Location
	cache    *Cache
	logger   zerolog.Logger
}

// NewClient creates a search client. cache may be nil.
func NewClient(http *httpclient.Client, baseURL string, loc Location, cache *Cache) *Client {
	return &Client{
		http:     http,
		baseURL:  baseURL,
		location: loc,
		cache:    cache,
		logger:   log.With().Str("component", "search_client").Logger(),
	}
}

// Search fetches products matching the simplified term across all platforms
// the aggregator covers. The groups in the response are flattened into one
// slice. Never returns an error; failures yield an empty slice.
func (c *Client) Search(ctx context.Context, term string) []RawProduct {
	if c.cache != nil {
		if products, ok := c.cache.Get(ctx, term); ok {
			return products
		}
	}

	reqURL := fmt.Sprintf("%s?lat=%s&lon=%s&type=groupsearch&query=%s",
		c.baseURL, c.location.Lat, c.location.Lon, url.QueryEscape(term))

	body, err := c.http.GetBytes(ctx, reqURL)
	if err != nil {
		c.logger.Warn().Err(err).Str("term", term).Msg("search request failed, continuing with empty results")
		return nil
	}

	var groups []productGroup
	if err := json.Unmarshal(body, &groups); err != nil {
		c.logger.Warn().Err(err).Str("term", term).Msg("search response malformed, continuing with empty results")
		return nil
	}

	var products []RawProduct
	for _, group := range groups {
		products = append(products, group.Data...)
	}

	c.logger.Debug().Str("term", term).Int("products", len(products)).Msg("search completed")

	if c.cache != nil && len(products) > 0 {
		c.cache.Set(ctx, term, products)
	}
	return products
}
