// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"googlemaps.github.io/maps"
)

// Place is one places lookup record.
type Place struct {
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Rating      float32 `json:"rating"`
	ReviewCount int     `json:"review_count"`

	// PriceTier is 0 (free/unknown) through 4 (most expensive).
	PriceTier int `json:"price_tier"`

	OpenNow   bool    `json:"open_now"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PlacesTool looks up places matching a free-text query via the Google
// Maps Places API.
type PlacesTool struct {
	base

	client *maps.Client
}

var _ Tool = (*PlacesTool)(nil)

// NewPlacesTool creates a places lookup tool with the given API key.
func NewPlacesTool(apiKey string) (*PlacesTool, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}

	return &PlacesTool{
		base:   newBase("places_lookup", "Looks up places matching a free-text query with ratings, price tier and location."),
		client: client,
	}, nil
}

// TextSearch runs the free-text query and returns matching places.
func (t *PlacesTool) TextSearch(ctx context.Context, query string) ([]*Place, error) {
	var resp maps.PlacesSearchResponse
	operation := func() error {
		var err error
		resp, err = t.client.TextSearch(ctx, &maps.TextSearchRequest{
			Query: query,
		})
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("places lookup %q: %w", query, err)
	}

	places := make([]*Place, 0, len(resp.Results))
	for _, result := range resp.Results {
		place := &Place{
			Name:        result.Name,
			Address:     result.FormattedAddress,
			Rating:      result.Rating,
			ReviewCount: result.UserRatingsTotal,
			PriceTier:   result.PriceLevel,
			Latitude:    result.Geometry.Location.Lat,
			Longitude:   result.Geometry.Location.Lng,
		}
		if result.OpeningHours != nil && result.OpeningHours.OpenNow != nil {
			place.OpenNow = *result.OpeningHours.OpenNow
		}
		places = append(places, place)
	}
	return places, nil
}

// Run implements [Tool].
func (t *PlacesTool) Run(ctx context.Context, args map[string]any, toolCtx *Context) (any, error) {
	query, err := StringArg(args, "query")
	if err != nil {
		return nil, err
	}
	return t.TextSearch(ctx, query)
}

// FormatPlaces renders places as prompt-injectable text.
func FormatPlaces(places []*Place) string {
	var sb strings.Builder
	for i, p := range places {
		fmt.Fprintf(&sb, "%d. %s | %s | rating %.1f (%d reviews) | price tier %d | open now: %t | %.5f,%.5f\n",
			i+1, p.Name, p.Address, p.Rating, p.ReviewCount, p.PriceTier, p.OpenNow, p.Latitude, p.Longitude)
	}
	return sb.String()
}
