package store

import (
	"encoding/json"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"github.com/jmoiron/sqlx"
)

// clearSentinel supports the "delete where id != sentinel" clear idiom; no
// real record ever carries this id.
const clearSentinel = "__none__"

// Postgres is the networked backend: one table per collection, each row a
// primary-keyed JSON document. Row triggers installed at open time emit
// change notifications consumed by the Listener.
type Postgres struct {
	db *sqlx.DB
}

func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := ensureTables(db); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) List(c Collection, dest any) error {
	var docs []json.RawMessage
	rows, err := p.db.Query(`SELECT doc FROM ` + string(c))
	if err != nil {
		return fmt.Errorf("list %s: %w", c, err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return fmt.Errorf("list %s: %w", c, err)
		}
		docs = append(docs, json.RawMessage(doc))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list %s: %w", c, err)
	}
	all, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("list %s: %w", c, err)
	}
	return json.Unmarshal(all, dest)
}

func (p *Postgres) Put(c Collection, rec Record) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", c, err)
	}
	_, err = p.db.Exec(`
		INSERT INTO `+string(c)+`(id, doc) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = excluded.doc
	`, rec.RecordID(), doc)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", c, rec.RecordID(), err)
	}
	return nil
}

func (p *Postgres) Delete(c Collection, id string) error {
	if _, err := p.db.Exec(`DELETE FROM `+string(c)+` WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", c, id, err)
	}
	return nil
}

func (p *Postgres) Clear(c Collection) error {
	if _, err := p.db.Exec(`DELETE FROM `+string(c)+` WHERE id <> $1`, clearSentinel); err != nil {
		return fmt.Errorf("clear %s: %w", c, err)
	}
	return nil
}

func (p *Postgres) Close() error { return p.db.Close() }

// NotifyChannel is the single multiplexed notification channel covering all
// four collections.
const NotifyChannel = "tillbook_changes"

func ensureTables(db *sqlx.DB) error {
	for _, c := range Collections {
		ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id  TEXT PRIMARY KEY,
			doc JSONB NOT NULL
		)`, c)
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("ensure table %s: %w", c, err)
		}
	}

	fn := fmt.Sprintf(`
CREATE OR REPLACE FUNCTION tillbook_notify() RETURNS trigger AS $$
DECLARE
  payload TEXT;
BEGIN
  payload := json_build_object(
    'collection', TG_TABLE_NAME,
    'type', lower(TG_OP),
    'new', CASE WHEN TG_OP IN ('INSERT','UPDATE') THEN NEW.doc ELSE NULL END,
    'old', CASE WHEN TG_OP IN ('UPDATE','DELETE') THEN OLD.doc ELSE NULL END
  )::text;
  PERFORM pg_notify('%s', payload);
  RETURN NULL;
END;
$$ LANGUAGE plpgsql`, NotifyChannel)
	if _, err := db.Exec(fn); err != nil {
		return fmt.Errorf("ensure notify function: %w", err)
	}

	for _, c := range Collections {
		trg := fmt.Sprintf(`
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = '%[1]s_notify') THEN
    CREATE TRIGGER %[1]s_notify
      AFTER INSERT OR UPDATE OR DELETE ON %[1]s
      FOR EACH ROW EXECUTE FUNCTION tillbook_notify();
  END IF;
END $$`, c)
		if _, err := db.Exec(trg); err != nil {
			return fmt.Errorf("ensure trigger on %s: %w", c, err)
		}
	}
	return nil
}
