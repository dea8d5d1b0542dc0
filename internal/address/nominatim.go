package address

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dukerupert/techstore/internal/domain"
	"github.com/dukerupert/techstore/internal/telemetry"
)

// NominatimGeocoder looks addresses up against a Nominatim search endpoint.
type NominatimGeocoder struct {
	endpoint  string
	userAgent string
	client    *http.Client
	metrics   *telemetry.BusinessMetrics
}

// NominatimConfig configures NominatimGeocoder.
type NominatimConfig struct {
	Endpoint  string
	UserAgent string
	Timeout   time.Duration
}

// NewNominatimGeocoder creates a geocoder. Requests go through the Sentry
// tracing transport and are bounded by cfg.Timeout.
func NewNominatimGeocoder(cfg NominatimConfig, metrics *telemetry.BusinessMetrics) *NominatimGeocoder {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NominatimGeocoder{
		endpoint:  cfg.Endpoint,
		userAgent: cfg.UserAgent,
		client: &http.Client{
			Timeout:   timeout,
			Transport: &telemetry.HTTPTransport{},
		},
		metrics: metrics,
	}
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode implements Geocoder.
func (g *NominatimGeocoder) Geocode(ctx context.Context, addr string) (*domain.Coordinates, error) {
	start := time.Now()
	coords, err := g.lookup(ctx, addr)

	outcome := "hit"
	switch {
	case err != nil:
		outcome = "error"
	case coords == nil:
		outcome = "miss"
	}
	g.metrics.RecordGeocode(outcome, time.Since(start).Seconds())

	return coords, err
}

func (g *NominatimGeocoder) lookup(ctx context.Context, addr string) (*domain.Coordinates, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("q", addr)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(places) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude %q: %w", places[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude %q: %w", places[0].Lon, err)
	}
	return &domain.Coordinates{Lat: lat, Lng: lng}, nil
}
