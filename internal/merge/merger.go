// Package merge folds change events from the networked store back into the
// presentation cache. Every write this process performs optimistically comes
// back later as an event on the same channel, so every handler here is keyed
// and idempotent by id: replaying an event twice leaves the cache exactly as
// replaying it once.
package merge

import (
	"context"
	"encoding/json"

	"tillbook/internal/cache"
	"tillbook/internal/domain"
	applog "tillbook/internal/log"
	"tillbook/internal/store"
)

type Merger struct {
	cache *cache.Cache
}

func NewMerger(c *cache.Cache) *Merger {
	return &Merger{cache: c}
}

// Run consumes events until the channel closes or ctx is cancelled.
func (m *Merger) Run(ctx context.Context, events <-chan store.Event) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			m.Apply(ev)
		case <-ctx.Done():
			return
		}
	}
}

// Apply folds one event into the cache. Insert adds only if the id is absent
// (the optimistic local write may have inserted it already), Update replaces
// or inserts, Delete removes. The affected collection is re-sorted by the
// cache on every mutation, so display order survives out-of-order delivery.
func (m *Merger) Apply(ev store.Event) {
	switch ev.Collection {
	case store.Items:
		m.applyItem(ev)
	case store.Orders:
		m.applyOrder(ev)
	case store.Parties:
		m.applyParty(ev)
	case store.Config:
		m.applyConfig(ev)
	default:
		applog.Info(nil, "merge.skip.collection", map[string]any{"collection": string(ev.Collection)})
	}
}

func (m *Merger) applyItem(ev store.Event) {
	if ev.Type == store.EventDelete {
		m.cache.RemoveItem(ev.ID())
		return
	}
	var it domain.Item
	if !decode(ev, &it) {
		return
	}
	if ev.Type == store.EventInsert {
		m.cache.AddItemIfAbsent(it)
		return
	}
	m.cache.UpsertItem(it)
}

func (m *Merger) applyOrder(ev store.Event) {
	if ev.Type == store.EventDelete {
		m.cache.RemoveOrder(ev.ID())
		return
	}
	var o domain.Order
	if !decode(ev, &o) {
		return
	}
	if ev.Type == store.EventInsert {
		m.cache.AddOrderIfAbsent(o)
		return
	}
	m.cache.UpsertOrder(o)
}

func (m *Merger) applyParty(ev store.Event) {
	if ev.Type == store.EventDelete {
		m.cache.RemoveParty(ev.ID())
		return
	}
	var p domain.Party
	if !decode(ev, &p) {
		return
	}
	if ev.Type == store.EventInsert {
		m.cache.AddPartyIfAbsent(p)
		return
	}
	m.cache.UpsertParty(p)
}

// Config is a singleton; insert and update both mean "this is the live
// record now". A delete event (only reset produces one) is ignored, because
// reset re-seeds defaults right after and an echoed delete must not clobber
// them.
func (m *Merger) applyConfig(ev store.Event) {
	if ev.Type == store.EventDelete {
		return
	}
	var s domain.Settings
	if !decode(ev, &s) {
		return
	}
	m.cache.SetSettings(s)
}

func decode(ev store.Event, dest any) bool {
	if len(ev.New) == 0 {
		return false
	}
	if err := json.Unmarshal(ev.New, dest); err != nil {
		applog.Error(nil, "merge.decode", err, map[string]any{"collection": string(ev.Collection)})
		return false
	}
	return true
}
