package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tillbook/internal/domain"
	applog "tillbook/internal/log"
	"tillbook/internal/services"
	"tillbook/internal/validate"
)

type ItemHandler struct {
	Catalog *services.CatalogService
}

func (h *ItemHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.Catalog.List())
}

func (h *ItemHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid item id"})
	}
	it, ok := h.Catalog.Get(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found"})
	}
	return c.JSON(it)
}

func (h *ItemHandler) Save(c *fiber.Ctx) error {
	var it domain.Item
	if err := c.BodyParser(&it); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if _, ok := validate.Name(it.Name); !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "name"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name must be 1-60 characters"})
	}
	if !validate.Price(it.Price) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price must be >= 0"})
	}
	if !validate.TaxRate(it.TaxRate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tax rate must be between 0 and 1"})
	}
	if it.Kind != "" {
		kind, ok := validate.Kind(string(it.Kind))
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "kind must be SALE or RENTAL"})
		}
		it.Kind = domain.ItemKind(kind)
	}
	saved, err := h.Catalog.Save(it)
	if err != nil {
		applog.Error(c, "item.save.fail", err, map[string]any{"item_id": it.ID})
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "could not save item"})
	}
	applog.Audit(c, "item.save", map[string]any{"item_id": saved.ID})
	return c.JSON(saved)
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid item id"})
	}
	if err := h.Catalog.Delete(id); err != nil {
		applog.Error(c, "item.delete.fail", err, map[string]any{"item_id": id})
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "could not delete item"})
	}
	applog.Audit(c, "item.delete", map[string]any{"item_id": id})
	return c.JSON(fiber.Map{"ok": true})
}

func (h *ItemHandler) Availability(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Query("itemId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing itemId"})
	}
	avail, _ := h.Catalog.CheckAvailability(id)
	return c.JSON(avail)
}

func (h *ItemHandler) LowStock(c *fiber.Ctx) error {
	return c.JSON(h.Catalog.LowStock())
}
