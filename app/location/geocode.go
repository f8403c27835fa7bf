package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hamptonroads/devtracker/app/gazetteer"
)

// Geocoder converts a free-form address into coordinates. Implementations are
// provider-specific; the resolver only needs this one capability.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*gazetteer.Point, error)
}

// Nominatim geocodes through an OpenStreetMap Nominatim endpoint. Queries are
// biased towards the region by appending its name to the search term.
type Nominatim struct {
	Endpoint  string
	UserAgent string
	Client    *http.Client
}

func NewNominatim(endpoint string, userAgent string) *Nominatim {
	return &Nominatim{
		Endpoint:  endpoint,
		UserAgent: userAgent,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (n *Nominatim) Geocode(ctx context.Context, address string) (*gazetteer.Point, error) {
	params := url.Values{}
	params.Set("q", address+", Hampton Roads, Virginia")
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.Endpoint+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", n.UserAgent)

	resp, err := n.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding request returned status %v", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in geocoding response: %v", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in geocoding response: %v", err)
	}

	return &gazetteer.Point{Lat: lat, Lng: lng}, nil
}
