package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// SQLite is the local offline backend. Each collection lives as one JSON
// array under a collection-named key, so a Put or Delete is a
// read-modify-write of the whole array inside a transaction.
type SQLite struct {
	db *sqlx.DB
}

func OpenSQLite(dsn string) (*SQLite, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	schema := `
CREATE TABLE IF NOT EXISTS collections(
  name    TEXT PRIMARY KEY,
  payload TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) List(c Collection, dest any) error {
	var payload string
	err := s.db.Get(&payload, `SELECT payload FROM collections WHERE name = ?`, string(c))
	if errors.Is(err, sql.ErrNoRows) {
		payload = "[]"
	} else if err != nil {
		return fmt.Errorf("list %s: %w", c, err)
	}
	return json.Unmarshal([]byte(payload), dest)
}

func (s *SQLite) Put(c Collection, rec Record) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", c, err)
	}
	return s.readModifyWrite(c, func(docs []json.RawMessage) []json.RawMessage {
		for i, d := range docs {
			if recordID(d) == rec.RecordID() {
				docs[i] = doc
				return docs
			}
		}
		return append(docs, doc)
	})
}

func (s *SQLite) Delete(c Collection, id string) error {
	return s.readModifyWrite(c, func(docs []json.RawMessage) []json.RawMessage {
		out := docs[:0]
		for _, d := range docs {
			if recordID(d) != id {
				out = append(out, d)
			}
		}
		return out
	})
}

func (s *SQLite) Clear(c Collection) error {
	if _, err := s.db.Exec(`DELETE FROM collections WHERE name = ?`, string(c)); err != nil {
		return fmt.Errorf("clear %s: %w", c, err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) readModifyWrite(c Collection, apply func([]json.RawMessage) []json.RawMessage) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("write %s: %w", c, err)
	}
	defer func() { _ = tx.Rollback() }()

	payload := "[]"
	err = tx.Get(&payload, `SELECT payload FROM collections WHERE name = ?`, string(c))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("write %s: %w", c, err)
	}
	var docs []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &docs); err != nil {
		return fmt.Errorf("write %s: corrupt payload: %w", c, err)
	}

	docs = apply(docs)
	out, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("write %s: %w", c, err)
	}
	if _, err := tx.Exec(`
		INSERT INTO collections(name, payload) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload
	`, string(c), string(out)); err != nil {
		return fmt.Errorf("write %s: %w", c, err)
	}
	return tx.Commit()
}

func recordID(doc json.RawMessage) string {
	var probe struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(doc, &probe)
	return probe.ID
}
