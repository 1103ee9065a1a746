// Package ledger owns the stock-consistency invariant: committed stock equals
// seed stock minus the quantities of active orders plus the quantities
// restored by voids and recalls. All order transitions go through the Engine;
// nothing else writes stock.
package ledger

import (
	"fmt"
	"time"

	"tillbook/internal/cache"
	"tillbook/internal/domain"
	applog "tillbook/internal/log"
	"tillbook/internal/store"
)

type Engine struct {
	store store.Store
	cache *cache.Cache
}

func NewEngine(st store.Store, c *cache.Cache) *Engine {
	return &Engine{store: st, cache: c}
}

// Commit persists a draft as an order and decrements stock for every line.
// Sub-writes are best-effort sequential: each confirmed write updates the
// presentation cache immediately, and a failure part-way through is surfaced
// as ErrPartialCommit without rolling back the stock writes that already
// landed. Stock is clamped at 0 on decrement, never below.
func (e *Engine) Commit(d domain.Draft) (domain.Order, error) {
	if len(d.Lines) == 0 {
		return domain.Order{}, ErrEmptyDraft
	}

	items, err := e.freshItems()
	if err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	ord := domain.Order{
		ID:        e.NextOrderID(),
		CreatedAt: time.Now().UTC(),
		Lines:     d.Lines,
		Party:     d.Party,
	}
	ord.Total, ord.TaxTotal = e.totals(d.Lines)

	applied := 0
	for _, ln := range d.Lines {
		it, ok := items[ln.ItemID]
		if !ok {
			// Item deleted since the draft was built; the line stays on the
			// order but there is no stock row to decrement.
			continue
		}
		if it.Stock -= ln.Qty; it.Stock < 0 {
			it.Stock = 0
		}
		if err := e.store.Put(store.Items, it); err != nil {
			return domain.Order{}, e.writeFailed("commit", applied, err)
		}
		applied++
		items[ln.ItemID] = it
		e.cache.UpsertItem(it)
	}

	if err := e.store.Put(store.Orders, ord); err != nil {
		return domain.Order{}, e.writeFailed("commit", applied, err)
	}
	e.cache.UpsertOrder(ord)

	applog.Audit(nil, "ledger.commit", map[string]any{
		"order_id": ord.ID,
		"lines":    len(ord.Lines),
		"total":    ord.Total,
	})
	return ord, nil
}

// Void restores stock for every line of the order, then deletes the order
// record. Voiding an order that no longer exists is a silent no-op. The same
// partial-failure contract as Commit applies: confirmed restorations stay
// applied even if a later write fails.
func (e *Engine) Void(orderID string) error {
	ord, ok := e.findOrder(orderID)
	if !ok {
		return nil
	}

	items, err := e.freshItems()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	applied := 0
	for _, ln := range ord.Lines {
		it, ok := items[ln.ItemID]
		if !ok {
			continue
		}
		// Restorations are never clamped; double-processing can over-restore
		// and that shows up in the numbers rather than being hidden.
		it.Stock += ln.Qty
		if err := e.store.Put(store.Items, it); err != nil {
			return e.writeFailed("void", applied, err)
		}
		applied++
		items[ln.ItemID] = it
		e.cache.UpsertItem(it)
	}

	if err := e.store.Delete(store.Orders, ord.ID); err != nil {
		return e.writeFailed("void", applied, err)
	}
	e.cache.RemoveOrder(ord.ID)

	applog.Audit(nil, "ledger.void", map[string]any{"order_id": ord.ID, "lines": len(ord.Lines)})
	return nil
}

// Recall is void-then-reload: it voids the order and hands back its line
// items and party snapshot to seed a fresh editable draft. A failed void
// aborts the recall with no draft returned; recalling an order that does not
// exist returns (nil, nil).
func (e *Engine) Recall(orderID string) (*domain.Draft, error) {
	ord, ok := e.findOrder(orderID)
	if !ok {
		return nil, nil
	}
	if err := e.Void(orderID); err != nil {
		return nil, err
	}
	return &domain.Draft{Lines: ord.Lines, Party: ord.Party}, nil
}

// Reset clears all four collections and re-seeds default settings. Factory
// reset; not recoverable.
func (e *Engine) Reset() error {
	for _, c := range store.Collections {
		if err := e.store.Clear(c); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}
	defaults := domain.DefaultSettings()
	if err := e.store.Put(store.Config, defaults); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	e.cache.Reset()
	applog.Audit(nil, "ledger.reset", nil)
	return nil
}

// freshItems reads the item collection straight from the store and indexes it
// by id. Every operation works on a fresh snapshot, never on long-lived cache
// references.
func (e *Engine) freshItems() (map[string]domain.Item, error) {
	var items []domain.Item
	if err := e.store.List(store.Items, &items); err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	return byID, nil
}

// findOrder resolves an order from the store, degrading to the cached copy
// when the read fails (a read failure is logged, never fatal).
func (e *Engine) findOrder(orderID string) (domain.Order, bool) {
	var orders []domain.Order
	if err := e.store.List(store.Orders, &orders); err != nil {
		applog.Error(nil, "ledger.order.read", err, map[string]any{"order_id": orderID})
		return e.cache.Order(orderID)
	}
	for _, o := range orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return domain.Order{}, false
}

func (e *Engine) totals(lines []domain.Line) (total, taxTotal float64) {
	s := e.cache.Settings()
	for _, ln := range lines {
		total += ln.Price * float64(ln.Qty)
	}
	if s.TaxEnabled {
		taxTotal = total * s.TaxRate
	}
	return total, taxTotal
}

func (e *Engine) writeFailed(op string, applied int, err error) error {
	if applied > 0 {
		applog.Error(nil, "ledger."+op+".partial", err, map[string]any{"applied": applied})
		return fmt.Errorf("%w after %d stock writes: %v", ErrPartialCommit, applied, err)
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
