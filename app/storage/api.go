package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hamptonroads/devtracker/app/document"
)

// API stores documents through the tracker's HTTP API: content goes to the
// blob store first, then the record (with the returned content id attached) is
// written to the document database.
type API struct {
	endpoint string
	client   *http.Client
}

func NewAPI(endpoint string) *API {
	return &API{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type apiResponse struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	CID     string           `json:"cid"`
	ID      string           `json:"id"`
	Data    []map[string]any `json:"data"`
}

func (a *API) Store(ctx context.Context, record *document.Record) error {
	// Upload the content blob first to get its content id
	blob, err := a.post(ctx, "/api/ipfs/upload", map[string]any{
		"content":     record.Content,
		"fileName":    record.ID + ".txt",
		"contentType": "text/plain",
	})
	if err != nil {
		return fmt.Errorf("content upload failed: %v", err)
	}

	// Attach the content id to a copy of the record's fields; the record
	// itself stays immutable.
	data := map[string]any{}
	encoded, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(encoded, &data); err != nil {
		return err
	}
	data["cid"] = blob.CID

	if _, err := a.post(ctx, "/api/db/technology", map[string]any{"data": data}); err != nil {
		return fmt.Errorf("document store failed: %v", err)
	}

	return nil
}

// Exists probes the document listing for an exact URL match. The API exposes
// no lookup-by-URL endpoint, so this scans the collection listing.
func (a *API) Exists(ctx context.Context, url string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint+"/api/db/technology", nil)
	if err != nil {
		return false, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}
	if body.Status != "ok" {
		return false, fmt.Errorf("listing documents failed: %v", body.Message)
	}

	for _, doc := range body.Data {
		if stored, ok := doc["url"].(string); ok && stored == url {
			return true, nil
		}
	}
	return false, nil
}

func (a *API) post(ctx context.Context, path string, payload map[string]any) (*apiResponse, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %v from %v", resp.StatusCode, path)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Status != "ok" {
		return nil, fmt.Errorf("%v", body.Message)
	}

	return &body, nil
}
