// Package document builds the immutable records handed to the storage
// collaborator.
package document

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/hamptonroads/devtracker/app/extractor"
)

// Record is the stored form of a qualified page. It is created once by New and
// never mutated; ownership passes to the storage collaborator.
type Record struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	URL           string         `json:"url"`
	Source        string         `json:"source"`
	Category      string         `json:"category"`
	Coordinates   []float64      `json:"coordinates,omitempty"`
	City          string         `json:"city,omitempty"`
	ExtractedInfo map[string]any `json:"extracted_info"`
	SourceType    string         `json:"source_type"`
	Created       string         `json:"created"`
	HasLocation   bool           `json:"has_location"`
}

// New assembles a Record from an extraction result. The identity combines a
// content hash with the creation time: collision-resistant in practice, not
// globally unique.
func New(res *extractor.Result, pageURL string, source string, category string) *Record {
	now := time.Now()
	hash := md5.Sum([]byte(res.Content))

	record := &Record{
		ID:            fmt.Sprintf("doc_%d_%s", now.Unix(), hex.EncodeToString(hash[:])[:8]),
		Title:         res.Title,
		Content:       res.Content,
		URL:           pageURL,
		Source:        source,
		Category:      category,
		City:          res.Location.City,
		ExtractedInfo: map[string]any{},
		SourceType:    res.SourceType,
		Created:       now.Format(time.RFC3339),
	}

	if res.Location.Coordinates != nil {
		record.Coordinates = []float64{res.Location.Coordinates.Lat, res.Location.Coordinates.Lng}
		record.HasLocation = true
	}

	if !res.Location.Empty() {
		record.ExtractedInfo["location"] = res.Location
	}
	for key, value := range res.Extra {
		record.ExtractedInfo[key] = value
	}

	return record
}
