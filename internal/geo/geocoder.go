// Package geo resolves GPS coordinates to administrative locations and
// partitions photos by resolved location level.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org"
	defaultUserAgent    = "photo-organizer"
	defaultTimeout      = 5 * time.Second
)

// Location is a resolved administrative location. Any field may be empty
// when the geocoder has no data for that level.
type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Geocoder resolves decimal coordinates to a Location. Unrecognized
// coordinates yield an empty Location, not an error.
type Geocoder interface {
	Name() string
	Resolve(ctx context.Context, lat, lon float64) (Location, error)
}

// NominatimGeocoder resolves coordinates through a Nominatim reverse
// geocoding service.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewNominatimGeocoder creates a geocoder for the given Nominatim
// endpoint. Empty arguments fall back to the public OSM instance with a
// 5 second request timeout.
func NewNominatimGeocoder(baseURL, userAgent string) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = defaultNominatimURL
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &NominatimGeocoder{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: defaultTimeout},
	}
}

func (g *NominatimGeocoder) Name() string {
	return "nominatim"
}

// nominatimResponse is the subset of the reverse geocoding response we
// care about.
type nominatimResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}

// Resolve performs a reverse lookup. The city falls back to town and
// then village, matching how Nominatim reports smaller settlements.
func (g *NominatimGeocoder) Resolve(ctx context.Context, lat, lon float64) (Location, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("format", "jsonv2")
	q.Set("accept-language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return Location{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("reverse geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Location{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var nr nominatimResponse
	if err := json.Unmarshal(body, &nr); err != nil {
		return Location{}, fmt.Errorf("failed to parse response: %w", err)
	}

	city := nr.Address.City
	if city == "" {
		city = nr.Address.Town
	}
	if city == "" {
		city = nr.Address.Village
	}

	return Location{
		City:    city,
		State:   nr.Address.State,
		Country: nr.Address.Country,
	}, nil
}
