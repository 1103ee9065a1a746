package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tillbook/internal/domain"
	applog "tillbook/internal/log"
	"tillbook/internal/services"
	"tillbook/internal/validate"
)

type PartyHandler struct {
	Parties *services.PartyService
}

func (h *PartyHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.Parties.List())
}

func (h *PartyHandler) Save(c *fiber.Ctx) error {
	var p domain.Party
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if _, ok := validate.Name(p.Name); !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "name"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name must be 1-60 characters"})
	}
	if _, ok := validate.Phone(p.Phone); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid phone"})
	}
	saved, err := h.Parties.Save(p)
	if err != nil {
		applog.Error(c, "party.save.fail", err, map[string]any{"party_id": p.ID})
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "could not save party"})
	}
	return c.JSON(saved)
}

func (h *PartyHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid party id"})
	}
	if err := h.Parties.Delete(id); err != nil {
		applog.Error(c, "party.delete.fail", err, map[string]any{"party_id": id})
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "could not delete party"})
	}
	return c.JSON(fiber.Map{"ok": true})
}
