// Package location resolves text into region-membership evidence. A Candidate
// is a location guess with a confidence score; InRegion is the gate that
// decides whether a candidate belongs to the tracked region.
package location

import (
	"github.com/hamptonroads/devtracker/app/gazetteer"
)

// Confidence levels assigned by the resolver, in ascending order of trust.
const (
	ConfidencePostalCode      = 0.7
	ConfidenceLocalityName    = 0.8
	ConfidenceGeocodedAddress = 0.85
	ConfidenceModelCity       = 0.9
)

// Candidate is an immutable location guess. Candidates are compared by
// confidence, never merged; building a new one is the only way to add evidence.
type Candidate struct {
	City        string           `json:"city,omitempty"`
	Coordinates *gazetteer.Point `json:"coordinates,omitempty"`
	PostalCode  string           `json:"zip_code,omitempty"`
	Address     string           `json:"address,omitempty"`
	Confidence  float64          `json:"confidence"`
}

// Empty reports whether the candidate carries no location evidence at all.
func (c Candidate) Empty() bool {
	return c.City == "" && c.Coordinates == nil && c.PostalCode == "" && c.Address == ""
}

// Max returns the highest-confidence candidate. Ties are broken by argument
// order: the first-computed candidate wins.
func Max(candidates ...Candidate) Candidate {
	best := Candidate{}
	for _, c := range candidates {
		if c.Confidence > best.Confidence {
			best = c
		}
	}
	return best
}

// InRegion reports whether a candidate belongs to the region: a known locality
// name, a known postal code, or coordinates inside the bounding box (inclusive)
// all qualify. A candidate with no evidence is never in region.
func InRegion(g *gazetteer.Gazetteer, c Candidate) bool {
	if c.City != "" && g.Locality(c.City) != nil {
		return true
	}

	if c.PostalCode != "" && g.IsKnownPostalCode(c.PostalCode) {
		return true
	}

	if c.Coordinates != nil && g.BoundingBox().Contains(*c.Coordinates) {
		return true
	}

	return false
}
