// Package gazetteer holds the static definition of the Hampton Roads region:
// named localities with centroid coordinates, the postal codes assigned to them,
// and a bounding rectangle around the whole metro area.
package gazetteer

import (
	"fmt"
	"strings"

	_ "embed"

	"gopkg.in/yaml.v3"
)

// Point is a geographical coordinate pair.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%v, %v)", p.Lat, p.Lng)
}

// Locality is one named place in the region with a reference centroid.
type Locality struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lng  float64 `yaml:"lng"`
}

func (l Locality) Centroid() Point {
	return Point{Lat: l.Lat, Lng: l.Lng}
}

// Bounds is the rectangle enclosing the region. Containment checks are inclusive.
type Bounds struct {
	North float64 `yaml:"north"`
	South float64 `yaml:"south"`
	East  float64 `yaml:"east"`
	West  float64 `yaml:"west"`
}

func (b Bounds) Contains(p Point) bool {
	return p.Lat >= b.South && p.Lat <= b.North && p.Lng >= b.West && p.Lng <= b.East
}

// Gazetteer is loaded once at startup and never mutated afterwards.
// Locality order matters: text scans return the first declared match.
type Gazetteer struct {
	Localities  []Locality `yaml:"localities"`
	PostalCodes []string   `yaml:"postalCodes"`
	Bounds      Bounds     `yaml:"bounds"`

	postalSet map[string]struct{}
}

//go:embed region.yml
var regionData []byte

// Load parses the embedded region definition.
func Load() (*Gazetteer, error) {
	return Parse(regionData)
}

// Parse builds a Gazetteer from a YAML region definition. Every locality
// centroid must fall inside the declared bounds; a table that violates this is
// rejected outright rather than producing silently wrong membership answers.
func Parse(data []byte) (*Gazetteer, error) {
	g := &Gazetteer{}

	if err := yaml.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("invalid region definition: %v", err)
	}

	if len(g.Localities) == 0 {
		return nil, fmt.Errorf("region definition contains no localities")
	}

	for _, loc := range g.Localities {
		if !g.Bounds.Contains(loc.Centroid()) {
			return nil, fmt.Errorf("locality %q centroid %v lies outside the region bounds", loc.Name, loc.Centroid())
		}
	}

	g.postalSet = make(map[string]struct{}, len(g.PostalCodes))
	for _, code := range g.PostalCodes {
		g.postalSet[code] = struct{}{}
	}

	return g, nil
}

// LookupInText returns the first locality (in declaration order) whose name
// occurs as a case-insensitive substring of the given text, or nil.
func (g *Gazetteer) LookupInText(text string) *Locality {
	lower := strings.ToLower(text)
	for i := range g.Localities {
		if strings.Contains(lower, strings.ToLower(g.Localities[i].Name)) {
			return &g.Localities[i]
		}
	}
	return nil
}

// Locality returns the locality whose name matches exactly (case-insensitive), or nil.
func (g *Gazetteer) Locality(name string) *Locality {
	for i := range g.Localities {
		if strings.EqualFold(g.Localities[i].Name, name) {
			return &g.Localities[i]
		}
	}
	return nil
}

func (g *Gazetteer) IsKnownPostalCode(code string) bool {
	_, ok := g.postalSet[code]
	return ok
}

func (g *Gazetteer) BoundingBox() Bounds {
	return g.Bounds
}
