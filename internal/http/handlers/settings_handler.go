package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tillbook/internal/domain"
	applog "tillbook/internal/log"
	"tillbook/internal/services"
	"tillbook/internal/validate"
)

type SettingsHandler struct {
	Settings *services.SettingsService
}

func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.Settings.Get())
}

// Save replaces the singleton settings record wholesale.
func (h *SettingsHandler) Save(c *fiber.Ctx) error {
	var cfg domain.Settings
	if err := c.BodyParser(&cfg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if _, ok := validate.Name(cfg.ShopName); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "shop name must be 1-60 characters"})
	}
	if !validate.TaxRate(cfg.TaxRate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tax rate must be between 0 and 1"})
	}
	saved, err := h.Settings.Save(cfg)
	if err != nil {
		applog.Error(c, "settings.save.fail", err, nil)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "could not save settings"})
	}
	applog.Audit(c, "settings.save", nil)
	return c.JSON(saved)
}
