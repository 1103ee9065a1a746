package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tillbook/internal/cache"
	"tillbook/internal/domain"
	"tillbook/internal/ledger"
	applog "tillbook/internal/log"
	"tillbook/internal/validate"
)

type OrderHandler struct {
	Ledger *ledger.Engine
	Cache  *cache.Cache
}

// placeRequest is the draft as the UI sends it: item ids and quantities plus
// an optional party snapshot. Line snapshots (name, price, kind) are resolved
// server-side so the client cannot fabricate prices.
type placeRequest struct {
	Lines []struct {
		ItemID string `json:"item_id"`
		Qty    int    `json:"qty"`
	} `json:"lines"`
	Party *domain.PartyRef `json:"party"`
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.Cache.Orders())
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}
	o, ok := h.Cache.Order(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	return c.JSON(o)
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req placeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if len(req.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "order needs at least one line"})
	}

	draft := domain.Draft{Party: req.Party}
	for _, ln := range req.Lines {
		id, ok := validate.ID(ln.ItemID)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "item_id"})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid item id"})
		}
		it, ok := h.Cache.Item(id)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown item " + id})
		}
		qty := validate.Qty(ln.Qty)
		draft.Lines = append(draft.Lines, domain.Line{
			ItemID:   it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Kind:     it.Kind,
			Duration: it.Duration,
			Qty:      qty,
		})
	}

	ord, err := h.Ledger.Commit(draft)
	if err != nil {
		applog.Error(c, "order.place.fail", err, nil)
		if errors.Is(err, ledger.ErrPartialCommit) {
			// Stock writes already landed; tell the operator instead of retrying blind.
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "order partially recorded; please reconcile stock manually"})
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "could not place order"})
	}
	return c.JSON(ord)
}

func (h *OrderHandler) Void(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}
	if err := h.Ledger.Void(id); err != nil {
		applog.Error(c, "order.void.fail", err, map[string]any{"order_id": id})
		if errors.Is(err, ledger.ErrPartialCommit) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "void partially applied; please reconcile stock manually"})
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "could not void order"})
	}
	// Voiding an already-gone order is a no-op and still reports ok.
	return c.JSON(fiber.Map{"ok": true})
}

// Recall voids the order and returns its lines and party snapshot so the UI
// can seed an editable draft and navigate back to composition.
func (h *OrderHandler) Recall(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}
	draft, err := h.Ledger.Recall(id)
	if err != nil {
		applog.Error(c, "order.recall.fail", err, map[string]any{"order_id": id})
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "could not recall order"})
	}
	if draft == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
	}
	applog.Audit(c, "order.recall", map[string]any{"order_id": id})
	return c.JSON(draft)
}
