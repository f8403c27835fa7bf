package location

import (
	"context"
	"fmt"
	"testing"

	"github.com/hamptonroads/devtracker/app/gazetteer"
)

// scriptedModel returns a fixed response for every prompt.
type scriptedModel struct {
	response string
	err      error
	calls    int
}

func (m *scriptedModel) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	m.calls++
	return m.response, m.err
}

type scriptedGeocoder struct {
	point *gazetteer.Point
}

func (g *scriptedGeocoder) Geocode(ctx context.Context, address string) (*gazetteer.Point, error) {
	if g.point == nil {
		return nil, fmt.Errorf("address not found")
	}
	return g.point, nil
}

func TestResolveLocalityName(t *testing.T) {
	g := loadGazetteer(t)
	resolver := NewResolver(g, nil, nil)

	got := resolver.Resolve(context.Background(), "A 300-unit apartment complex was approved in Chesapeake last week.", "")

	if got.City != "Chesapeake" {
		t.Fatalf("expected Chesapeake, got %+v", got)
	}
	if got.Confidence != ConfidenceLocalityName {
		t.Fatalf("expected confidence %v, got %v", ConfidenceLocalityName, got.Confidence)
	}
	if got.Coordinates == nil {
		t.Fatalf("expected centroid coordinates to be set")
	}
	if !g.BoundingBox().Contains(*got.Coordinates) {
		t.Fatalf("centroid %v should be inside the region bounds", got.Coordinates)
	}
}

func TestResolveTitleCountsAsEvidence(t *testing.T) {
	g := loadGazetteer(t)
	resolver := NewResolver(g, nil, nil)

	got := resolver.Resolve(context.Background(), "The council approved the rezoning request.", "Hampton waterfront district expands")

	if got.City != "Hampton" {
		t.Fatalf("expected Hampton from the title, got %+v", got)
	}
}

func TestResolvePostalCodeOnly(t *testing.T) {
	g := loadGazetteer(t)
	resolver := NewResolver(g, nil, nil)

	got := resolver.Resolve(context.Background(), "Construction begins at the site near 23510 this spring.", "")

	if got.PostalCode != "23510" {
		t.Fatalf("expected postal code 23510, got %+v", got)
	}
	if got.Confidence != ConfidencePostalCode {
		t.Fatalf("expected confidence %v, got %v", ConfidencePostalCode, got.Confidence)
	}
	if got.City != "" {
		t.Fatalf("a postal code alone should not name a city, got %q", got.City)
	}
	if !InRegion(g, got) {
		t.Fatalf("a known postal code should pass the region gate")
	}
}

func TestResolvePostalCodeNeedsWordBoundary(t *testing.T) {
	g := loadGazetteer(t)
	resolver := NewResolver(g, nil, nil)

	got := resolver.Resolve(context.Background(), "Parcel number 123510998 was transferred.", "")

	if got.PostalCode != "" {
		t.Fatalf("a digit run containing a postal code should not match, got %+v", got)
	}
}

func TestResolveNothingFound(t *testing.T) {
	g := loadGazetteer(t)
	resolver := NewResolver(g, nil, nil)

	got := resolver.Resolve(context.Background(), "A new office park is planned somewhere on the east coast.", "")

	if !got.Empty() || got.Confidence != 0 {
		t.Fatalf("expected an empty zero-confidence candidate, got %+v", got)
	}
	if InRegion(g, got) {
		t.Fatalf("an empty candidate must never pass the region gate")
	}
}

func TestResolveModelKnownCity(t *testing.T) {
	g := loadGazetteer(t)
	model := &scriptedModel{response: `The location is: {"address": "100 Main St", "city": "Portsmouth", "zip_code": "23704"}`}
	resolver := NewResolver(g, model, nil)

	got := resolver.Resolve(context.Background(), "The mixed-use project broke ground downtown.", "")

	if got.City != "Portsmouth" {
		t.Fatalf("expected Portsmouth from the model, got %+v", got)
	}
	if got.Confidence != ConfidenceModelCity {
		t.Fatalf("expected confidence %v, got %v", ConfidenceModelCity, got.Confidence)
	}
	if got.Coordinates == nil {
		t.Fatalf("expected the locality centroid to be attached")
	}
}

func TestResolveModelGeocodedAddress(t *testing.T) {
	g := loadGazetteer(t)
	model := &scriptedModel{response: `{"address": "500 Harborfront Ave", "city": "Harborview", "zip_code": ""}`}
	point := &gazetteer.Point{Lat: 36.9, Lng: -76.3}
	resolver := NewResolver(g, model, &scriptedGeocoder{point: point})

	got := resolver.Resolve(context.Background(), "The mixed-use project broke ground downtown.", "")

	if got.Confidence != ConfidenceGeocodedAddress {
		t.Fatalf("expected confidence %v, got %+v", ConfidenceGeocodedAddress, got)
	}
	if got.Coordinates == nil || *got.Coordinates != *point {
		t.Fatalf("expected geocoded coordinates %v, got %+v", point, got.Coordinates)
	}
}

func TestResolveModelAnswersNone(t *testing.T) {
	g := loadGazetteer(t)
	model := &scriptedModel{response: `{"address": null, "city": "None", "zip_code": null}`}
	resolver := NewResolver(g, model, nil)

	got := resolver.Resolve(context.Background(), "No location is mentioned anywhere here.", "")

	if !got.Empty() {
		t.Fatalf(`a "None" answer should leave the candidate empty, got %+v`, got)
	}
}

func TestResolveModelFailureKeepsLexicalEvidence(t *testing.T) {
	g := loadGazetteer(t)
	model := &scriptedModel{err: fmt.Errorf("connection refused")}
	resolver := NewResolver(g, model, nil)

	got := resolver.Resolve(context.Background(), "Permits were filed for the 23666 corridor.", "")

	if got.PostalCode != "23666" || got.Confidence != ConfidencePostalCode {
		t.Fatalf("model failure should not discard the postal code, got %+v", got)
	}
}

func TestResolveLexicalMatchSkipsModel(t *testing.T) {
	g := loadGazetteer(t)
	model := &scriptedModel{response: `{"city": "Portsmouth"}`}
	resolver := NewResolver(g, model, nil)

	resolver.Resolve(context.Background(), "The Suffolk industrial park doubled in size.", "")

	if model.calls != 0 {
		t.Fatalf("a locality-name match should short-circuit the model, got %v calls", model.calls)
	}
}

func TestGeocodeAddressPrefersLocalityTable(t *testing.T) {
	g := loadGazetteer(t)
	resolver := NewResolver(g, nil, &scriptedGeocoder{})

	point := resolver.GeocodeAddress(context.Background(), "Newport News")

	expected := g.Locality("Newport News").Centroid()
	if point == nil || *point != expected {
		t.Fatalf("expected the locality centroid %v, got %v", expected, point)
	}
}

func TestGeocodeAddressFailureReturnsNil(t *testing.T) {
	g := loadGazetteer(t)
	resolver := NewResolver(g, nil, &scriptedGeocoder{})

	if point := resolver.GeocodeAddress(context.Background(), "742 Evergreen Terrace"); point != nil {
		t.Fatalf("expected nil for an unresolvable address, got %v", point)
	}
	if point := resolver.GeocodeAddress(context.Background(), ""); point != nil {
		t.Fatalf("expected nil for an empty address, got %v", point)
	}
}
