package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"tillbook/internal/cache"
	"tillbook/internal/config"
	"tillbook/internal/http/handlers"
	applog "tillbook/internal/log"
	"tillbook/internal/merge"
	"tillbook/internal/services"
	"tillbook/internal/store"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	// Backend selection happens exactly once, here. Everything downstream
	// sees the same store.Store either way.
	var st store.Store
	var err error
	if cfg.RemoteEnabled() {
		st, err = store.OpenPostgres(cfg.RemoteDSN())
	} else {
		st, err = store.OpenSQLite(cfg.DBPath)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = st.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The change-event subscription exists only against the networked
	// backend; local-only processes have no merger at all. Subscribing
	// before the hydrate reads means a remote write landing mid-hydrate
	// waits in the listener's buffer and is folded in once the merger
	// starts, instead of being lost until restart.
	var listener *store.Listener
	if cfg.RemoteEnabled() {
		listener, err = store.StartListener(ctx, cfg.RemoteDSN())
		if err != nil {
			log.Fatal(err)
		}
		defer listener.Close()
	}

	c := cache.New()
	services.Hydrate(st, c)

	if listener != nil {
		merger := merge.NewMerger(c)
		go merger.Run(ctx, listener.Events())
		log.Printf("[sync] change-event listener active")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(fc *fiber.Ctx, err error) error {
			applog.Error(fc, "server.error", err, nil)
			return fc.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong. Please try again.",
			})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(st, c)

	api := app.Group("/api/v1")

	api.Get("/items", deps.ItemHandler.List)
	api.Get("/items/low-stock", deps.ItemHandler.LowStock)
	api.Get("/items/:id", deps.ItemHandler.Get)
	api.Post("/items", deps.ItemHandler.Save)
	api.Post("/items/:id/delete", deps.ItemHandler.Delete)
	api.Get("/availability", deps.ItemHandler.Availability)

	api.Get("/orders", deps.OrderHandler.List)
	api.Get("/orders/:id", deps.OrderHandler.Get)
	api.Post("/orders", deps.OrderHandler.Place)
	api.Post("/orders/:id/void", deps.OrderHandler.Void)
	api.Post("/orders/:id/recall", deps.OrderHandler.Recall)

	api.Get("/parties", deps.PartyHandler.List)
	api.Post("/parties", deps.PartyHandler.Save)
	api.Post("/parties/:id/delete", deps.PartyHandler.Delete)

	api.Get("/settings", deps.SettingsHandler.Get)
	api.Post("/settings", deps.SettingsHandler.Save)

	api.Post("/reset", deps.SystemHandler.Reset)

	app.Get("/healthz", func(fc *fiber.Ctx) error { return fc.JSON(fiber.Map{"ok": true}) })

	go func() {
		<-ctx.Done()
		_ = app.Shutdown()
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
