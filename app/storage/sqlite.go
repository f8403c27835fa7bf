package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "embed"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hamptonroads/devtracker/app/document"
)

// SQLiteStorage keeps documents in a local SQLite database. Useful for running
// the tracker standalone, without the HTTP API collaborator.
type SQLiteStorage struct {
	conn *sql.DB
}

//go:embed sqlite_setup.sql
var setupCommands string

func SQLite(fileName string) (*SQLiteStorage, error) {
	conn, err := sql.Open("sqlite3", fileName)
	if err != nil {
		return nil, err
	}
	return &SQLiteStorage{conn: conn}, nil
}

func (s *SQLiteStorage) Setup() error {
	_, err := s.conn.Exec(setupCommands)
	return err
}

func (s *SQLiteStorage) Exists(ctx context.Context, url string) (bool, error) {
	row := s.conn.QueryRowContext(ctx, "SELECT 1 FROM documents WHERE url = ?;", url)

	exists := false
	err := row.Scan(&exists)

	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}

	return exists, nil
}

func (s *SQLiteStorage) Store(ctx context.Context, record *document.Record) error {
	info, err := json.Marshal(record.ExtractedInfo)
	if err != nil {
		return err
	}

	var lat, lng any
	if len(record.Coordinates) == 2 {
		lat = record.Coordinates[0]
		lng = record.Coordinates[1]
	}

	_, err = s.conn.ExecContext(ctx, `
		REPLACE INTO documents (id, url, title, content, source, category, city, lat, lng, extracted_info, source_type, created, has_location)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		record.ID, record.URL, record.Title, record.Content, record.Source, record.Category,
		record.City, lat, lng, string(info), record.SourceType, record.Created, record.HasLocation)

	return err
}
