package ledger_test

import (
	"errors"
	"strconv"
	"testing"

	"tillbook/internal/cache"
	"tillbook/internal/domain"
	"tillbook/internal/ledger"
	"tillbook/internal/store"
)

func TestNextOrderIDScansMax(t *testing.T) {
	st := memstore(t)
	for _, id := range []string{"3", "7", "1"} {
		if err := st.Put(store.Orders, domain.Order{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	e := ledger.NewEngine(st, cache.New())
	if got := e.NextOrderID(); got != "8" {
		t.Fatalf("want 8, got %s", got)
	}
}

func TestNextOrderIDEmptyStartsAtOne(t *testing.T) {
	e := ledger.NewEngine(memstore(t), cache.New())
	if got := e.NextOrderID(); got != "1" {
		t.Fatalf("want 1, got %s", got)
	}
}

func TestNextOrderIDSkipsNonNumeric(t *testing.T) {
	st := memstore(t)
	for _, id := range []string{"5", "draft-abc", "-9", "2"} {
		if err := st.Put(store.Orders, domain.Order{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	e := ledger.NewEngine(st, cache.New())
	if got := e.NextOrderID(); got != "6" {
		t.Fatalf("want 6, got %s", got)
	}
}

// down always fails, standing in for an unreachable networked backend.
type down struct{}

func (down) List(store.Collection, any) error         { return errors.New("network down") }
func (down) Put(store.Collection, store.Record) error { return errors.New("network down") }
func (down) Delete(store.Collection, string) error    { return errors.New("network down") }
func (down) Clear(store.Collection) error             { return errors.New("network down") }
func (down) Close() error                             { return nil }

func TestNextOrderIDFallsBackOnFetchFailure(t *testing.T) {
	e := ledger.NewEngine(down{}, cache.New())
	got := e.NextOrderID()
	n, err := strconv.ParseInt(got, 10, 64)
	if err != nil {
		t.Fatalf("fallback id not a decimal string: %q", got)
	}
	// a millisecond timestamp, far above anything a scan would produce
	if n < 1_000_000_000_000 {
		t.Fatalf("fallback id not time-derived: %q", got)
	}
}
