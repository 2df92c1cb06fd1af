package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/kozaktomas/photo-organizer/internal/organizer"
)

func TestOfflineGeocoder_KnownCoordinates(t *testing.T) {
	g := NewOfflineGeocoder()

	loc, err := g.Resolve(context.Background(), 40.7128, -74.0060)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	want := Location{City: "New York", State: "New York", Country: "United States"}
	if loc != want {
		t.Errorf("expected %+v, got %+v", want, loc)
	}
}

func TestOfflineGeocoder_RoundsToFourDecimals(t *testing.T) {
	g := NewOfflineGeocoder()

	loc, err := g.Resolve(context.Background(), 37.77491, -122.41943)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if loc.City != "San Francisco" {
		t.Errorf("expected San Francisco after rounding, got %q", loc.City)
	}
}

func TestOfflineGeocoder_UnknownCoordinates(t *testing.T) {
	g := NewOfflineGeocoder()

	loc, err := g.Resolve(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("Resolve must not fail for unknown coordinates: %v", err)
	}
	if loc != (Location{}) {
		t.Errorf("expected empty location, got %+v", loc)
	}
}

func TestNominatimGeocoder_Resolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("User-Agent") != "photo-organizer-test" {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"address": {"town": "Telc", "state": "Vysocina", "country": "Czechia"}}`))
	}))
	defer server.Close()

	g := NewNominatimGeocoder(server.URL, "photo-organizer-test")
	loc, err := g.Resolve(context.Background(), 49.1842, 15.4528)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	// Town fills in for city when Nominatim reports a smaller settlement.
	want := Location{City: "Telc", State: "Vysocina", Country: "Czechia"}
	if loc != want {
		t.Errorf("expected %+v, got %+v", want, loc)
	}
}

func TestNominatimGeocoder_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	g := NewNominatimGeocoder(server.URL, "")
	if _, err := g.Resolve(context.Background(), 1, 1); err == nil {
		t.Error("expected error on non-200 response")
	}
}

func TestGroupByLocation(t *testing.T) {
	records := []*organizer.PhotoRecord{
		{Path: "a.jpg", City: "New York", State: "New York", Country: "United States"},
		{Path: "b.jpg", City: "New York", State: "New York", Country: "United States"},
		{Path: "c.jpg", City: "San Francisco", State: "California", Country: "United States"},
		{Path: "d.jpg"}, // unresolved: excluded at every level
	}

	byCity, err := GroupByLocation(records, organizer.LevelCity)
	if err != nil {
		t.Fatalf("GroupByLocation failed: %v", err)
	}
	if len(byCity) != 2 {
		t.Fatalf("expected 2 city groups, got %d", len(byCity))
	}
	if got := paths(byCity["New York"]); !reflect.DeepEqual(got, []string{"a.jpg", "b.jpg"}) {
		t.Errorf("New York: expected [a.jpg b.jpg], got %v", got)
	}
	if len(byCity["San Francisco"]) != 1 {
		t.Errorf("expected 1 record for San Francisco, got %d", len(byCity["San Francisco"]))
	}

	byState, err := GroupByLocation(records, organizer.LevelState)
	if err != nil {
		t.Fatalf("GroupByLocation failed: %v", err)
	}
	if len(byState["California"]) != 1 {
		t.Errorf("expected 1 record for California, got %d", len(byState["California"]))
	}

	byCountry, err := GroupByLocation(records, organizer.LevelCountry)
	if err != nil {
		t.Fatalf("GroupByLocation failed: %v", err)
	}
	if len(byCountry["United States"]) != 3 {
		t.Errorf("expected 3 records for United States, got %d", len(byCountry["United States"]))
	}
}

func TestGroupByLocation_UnknownLevel(t *testing.T) {
	if _, err := GroupByLocation(nil, "continent"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestGroupByLocation_EmptyInput(t *testing.T) {
	groups, err := GroupByLocation(nil, organizer.LevelCity)
	if err != nil {
		t.Fatalf("GroupByLocation failed: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("expected empty mapping, got %v", groups)
	}
}

func paths(records []*organizer.PhotoRecord) []string {
	var result []string
	for _, rec := range records {
		result = append(result, rec.Path)
	}
	return result
}
