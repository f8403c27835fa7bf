// Package storage persists qualified document records. The crawl engine only
// depends on the Storage interface; tests use an in-memory fake.
package storage

import (
	"context"

	"github.com/hamptonroads/devtracker/app/document"
)

type Storage interface {
	// Exists reports whether a document with this exact URL is already stored.
	// Used for cross-run deduplication before fetching.
	Exists(ctx context.Context, url string) (bool, error)

	// Store persists a record. Failures are reported to the caller, which
	// logs and moves on; a failed store never aborts a crawl.
	Store(ctx context.Context, record *document.Record) error
}
