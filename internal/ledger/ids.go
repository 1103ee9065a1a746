package ledger

import (
	"strconv"
	"time"

	"tillbook/internal/domain"
	applog "tillbook/internal/log"
	"tillbook/internal/store"
)

// NextOrderID allocates the next order identifier by scanning the existing
// order ids and returning max+1 as a decimal string. There is no persisted
// counter to desynchronize after a void; the cost is an O(n) scan and a race
// window between two concurrent allocators, which is accepted. Ids that do
// not parse as non-negative integers are skipped.
func (e *Engine) NextOrderID() string {
	var orders []domain.Order
	if err := e.store.List(store.Orders, &orders); err != nil {
		// Do not fail the checkout: fall back to a coarse time-derived id.
		applog.Error(nil, "ledger.nextid.fallback", err, nil)
		return strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	max := 0
	for _, o := range orders {
		n, err := strconv.Atoi(o.ID)
		if err != nil || n < 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}
