package location

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/hamptonroads/devtracker/app/gazetteer"
	"github.com/hamptonroads/devtracker/app/llm"
)

const locationPromptTokens = 1500

// Resolver turns text into a location Candidate by running an ordered pipeline
// of evidence sources: deterministic lexical scans first, then (optionally) a
// model query for text that names no known locality.
type Resolver struct {
	gaz      *gazetteer.Gazetteer
	model    llm.Model // may be nil; lexical steps still run
	geocoder Geocoder  // may be nil; locality-table lookups still work

	postalPattern *regexp.Regexp
}

func NewResolver(g *gazetteer.Gazetteer, model llm.Model, geocoder Geocoder) *Resolver {
	quoted := make([]string, 0, len(g.PostalCodes))
	for _, code := range g.PostalCodes {
		quoted = append(quoted, regexp.QuoteMeta(code))
	}

	return &Resolver{
		gaz:           g,
		model:         model,
		geocoder:      geocoder,
		postalPattern: regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Resolve extracts location evidence from text. The returned candidate has
// confidence 0 when nothing was found; callers must treat that as "location
// unknown", not as a failure.
func (r *Resolver) Resolve(ctx context.Context, text string, title string) Candidate {
	combined := title + "\n" + text
	result := Candidate{}

	// Postal codes are decent evidence but don't pin down a locality on their own.
	if match := r.postalPattern.FindString(combined); match != "" {
		result.PostalCode = match
		result.Confidence = ConfidencePostalCode
	}

	// A locality name is stronger evidence and brings centroid coordinates with it.
	if loc := r.gaz.LookupInText(combined); loc != nil {
		centroid := loc.Centroid()
		result.City = loc.Name
		result.Coordinates = &centroid
		result.Confidence = ConfidenceLocalityName
		return result
	}

	if r.model != nil {
		result = r.resolveWithModel(ctx, combined, result)
	}

	return result
}

// resolveWithModel asks the model for a structured location and folds a usable
// answer into the candidate. "No signal" responses leave the input untouched.
func (r *Resolver) resolveWithModel(ctx context.Context, text string, base Candidate) Candidate {
	prompt := fmt.Sprintf(`Extract the location information from the following text related to a project or development in Hampton Roads, Virginia.
If there's no specific location mentioned, respond with 'None'.
If there is a location, provide it in this format:
{
  "address": "full address if available",
  "city": "name of the city or locality",
  "zip_code": "zip code if available"
}

Text: %s`, llm.TruncateTokens(text, locationPromptTokens))

	response, err := r.model.Generate(ctx, prompt, 500)
	if err != nil {
		return base
	}

	data, ok := llm.ExtractJSON(response)
	if !ok {
		return base
	}

	city, _ := data["city"].(string)
	if city == "" || strings.EqualFold(city, "none") {
		return base
	}

	result := base
	result.City = city
	result.Address, _ = data["address"].(string)
	if zip, ok := data["zip_code"].(string); ok && zip != "" {
		result.PostalCode = zip
	}

	if loc := r.gaz.Locality(city); loc != nil {
		centroid := loc.Centroid()
		result.Coordinates = &centroid
		result.Confidence = ConfidenceModelCity
	} else if result.Address != "" {
		if point := r.GeocodeAddress(ctx, result.Address); point != nil {
			result.Coordinates = point
			result.Confidence = ConfidenceGeocodedAddress
		}
	}

	return result
}

// GeocodeAddress converts an address or place name to coordinates, preferring
// the locality table over a network round trip. Returns nil when the address
// can't be located; geocoder failures are treated the same way.
func (r *Resolver) GeocodeAddress(ctx context.Context, address string) *gazetteer.Point {
	if address == "" {
		return nil
	}

	if loc := r.gaz.LookupInText(address); loc != nil {
		centroid := loc.Centroid()
		return &centroid
	}

	if r.geocoder == nil {
		return nil
	}

	point, err := r.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil
	}
	return point
}
