package location

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNominatimGeocode(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		fmt.Fprint(w, `[{"lat": "36.8508", "lon": "-76.2859"}]`)
	}))
	defer server.Close()

	geocoder := NewNominatim(server.URL, "test-agent")
	point, err := geocoder.Geocode(context.Background(), "232 E Main St")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if point == nil || point.Lat != 36.8508 || point.Lng != -76.2859 {
		t.Fatalf("unexpected point: %v", point)
	}
	if query != "232 E Main St, Hampton Roads, Virginia" {
		t.Fatalf("query should be biased to the region, got %q", query)
	}
}

func TestNominatimGeocodeNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	geocoder := NewNominatim(server.URL, "test-agent")
	point, err := geocoder.Geocode(context.Background(), "nowhere at all")

	if err != nil || point != nil {
		t.Fatalf("expected a nil point without an error, got %v / %v", point, err)
	}
}

func TestNominatimGeocodeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	geocoder := NewNominatim(server.URL, "test-agent")

	if _, err := geocoder.Geocode(context.Background(), "anywhere"); err == nil {
		t.Fatalf("expected an error for a non-200 response")
	}
}
