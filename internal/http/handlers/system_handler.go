package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tillbook/internal/ledger"
	applog "tillbook/internal/log"
)

type SystemHandler struct {
	Ledger *ledger.Engine
}

// Reset wipes every collection and re-seeds default settings. Factory reset;
// there is no undo, which is why it sits on its own route the UI confirms
// twice before calling.
func (h *SystemHandler) Reset(c *fiber.Ctx) error {
	if err := h.Ledger.Reset(); err != nil {
		applog.Error(c, "system.reset.fail", err, nil)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "reset failed"})
	}
	applog.Audit(c, "system.reset", nil)
	return c.JSON(fiber.Map{"ok": true})
}
