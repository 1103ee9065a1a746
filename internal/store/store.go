// Package store is the durable persistence boundary. Two interchangeable
// backends exist: a local sqlite store and a networked Postgres store. Which
// one backs the process is decided once at startup from configuration;
// callers never branch on it.
package store

import "encoding/json"

type Collection string

const (
	Items   Collection = "items"
	Orders  Collection = "orders"
	Parties Collection = "parties"
	Config  Collection = "config"
)

// Collections lists every collection, in clear order for Reset.
var Collections = []Collection{Items, Orders, Parties, Config}

// Record is anything persistable by id. All domain types qualify via their
// ID field; the store only ever needs the key and the JSON form.
type Record interface {
	RecordID() string
}

// Store is the uniform contract over the four record collections.
// Put upserts by id. List decodes the whole collection into dest, which must
// be a pointer to a slice of the matching domain type; a missing collection
// decodes as empty, not as an error. A failed Put or Delete is surfaced to
// the caller so it can leave the presentation cache untouched.
type Store interface {
	List(c Collection, dest any) error
	Put(c Collection, rec Record) error
	Delete(c Collection, id string) error
	Clear(c Collection) error
	Close() error
}

type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Event is one change notification pushed by the networked backend.
// New carries the record after an insert/update, Old the record before an
// update/delete; either may be absent depending on the event type.
type Event struct {
	Collection Collection      `json:"collection"`
	Type       EventType       `json:"type"`
	New        json.RawMessage `json:"new,omitempty"`
	Old        json.RawMessage `json:"old,omitempty"`
}

// ID extracts the affected record id, preferring the new record.
func (e Event) ID() string {
	var probe struct {
		ID string `json:"id"`
	}
	if len(e.New) > 0 {
		if err := json.Unmarshal(e.New, &probe); err == nil && probe.ID != "" {
			return probe.ID
		}
	}
	if len(e.Old) > 0 {
		if err := json.Unmarshal(e.Old, &probe); err == nil {
			return probe.ID
		}
	}
	return ""
}
