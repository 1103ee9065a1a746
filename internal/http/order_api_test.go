package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"tillbook/internal/cache"
	"tillbook/internal/domain"
	"tillbook/internal/http/handlers"
	applog "tillbook/internal/log"
	"tillbook/internal/services"
	"tillbook/internal/store"
)

func testApp(t *testing.T, items ...domain.Item) (*fiber.App, *store.SQLite, *cache.Cache) {
	t.Helper()
	st, err := store.OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })
	for _, it := range items {
		if err := st.Put(store.Items, it); err != nil {
			t.Fatal(err)
		}
	}
	c := cache.New()
	services.Hydrate(st, c)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(fc *fiber.Ctx, err error) error {
			applog.Error(fc, "server.error", err, nil)
			return fc.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong. Please try again.",
			})
		},
	})
	app.Use(requestid.New())

	deps := handlers.NewDeps(st, c)
	api := app.Group("/api/v1")
	api.Post("/items", deps.ItemHandler.Save)
	api.Post("/orders", deps.OrderHandler.Place)
	api.Post("/orders/:id/void", deps.OrderHandler.Void)
	api.Post("/orders/:id/recall", deps.OrderHandler.Recall)
	api.Post("/parties", deps.PartyHandler.Save)
	api.Post("/parties/:id/delete", deps.PartyHandler.Delete)
	api.Post("/settings", deps.SettingsHandler.Save)

	return app, st, c
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, string) {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("test request failed: %v", err)
	}
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(out)
}

func TestPlaceOrderDecrementsStock(t *testing.T) {
	app, st, c := testApp(t, domain.Item{ID: "1", Name: "Hammer", Price: 10, Stock: 10})

	code, body := postJSON(t, app, "/api/v1/orders", map[string]any{
		"lines": []map[string]any{{"item_id": "1", "qty": 3}},
		"party": map[string]any{"name": "Ana", "phone": "555", "place": "Main St"},
	})
	if code != fiber.StatusOK {
		t.Fatalf("want 200, got %d: %s", code, body)
	}

	var ord domain.Order
	if err := json.Unmarshal([]byte(body), &ord); err != nil {
		t.Fatal(err)
	}
	if ord.ID != "1" || ord.Total != 30 {
		t.Fatalf("bad order: %+v", ord)
	}
	if ord.Party == nil || ord.Party.Name != "Ana" {
		t.Fatalf("party snapshot missing: %+v", ord.Party)
	}
	if it, _ := c.Item("1"); it.Stock != 7 {
		t.Fatalf("cache stock: want 7, got %d", it.Stock)
	}

	var items []domain.Item
	if err := st.List(store.Items, &items); err != nil {
		t.Fatal(err)
	}
	if items[0].Stock != 7 {
		t.Fatalf("store stock: want 7, got %d", items[0].Stock)
	}
}

func TestPlaceOrderClampsQuantity(t *testing.T) {
	app, _, c := testApp(t, domain.Item{ID: "1", Name: "Hammer", Price: 1, Stock: 1500})

	code, body := postJSON(t, app, "/api/v1/orders", map[string]any{
		"lines": []map[string]any{{"item_id": "1", "qty": 5000}},
	})
	if code != fiber.StatusOK {
		t.Fatalf("want 200, got %d: %s", code, body)
	}
	var ord domain.Order
	if err := json.Unmarshal([]byte(body), &ord); err != nil {
		t.Fatal(err)
	}
	if ord.Lines[0].Qty != 999 {
		t.Fatalf("quantity not clamped: %d", ord.Lines[0].Qty)
	}
	if it, _ := c.Item("1"); it.Stock != 501 {
		t.Fatalf("want stock 501, got %d", it.Stock)
	}

	// zero and negative quantities floor at 1
	code, body = postJSON(t, app, "/api/v1/orders", map[string]any{
		"lines": []map[string]any{{"item_id": "1", "qty": 0}},
	})
	if code != fiber.StatusOK {
		t.Fatalf("want 200, got %d: %s", code, body)
	}
	if err := json.Unmarshal([]byte(body), &ord); err != nil {
		t.Fatal(err)
	}
	if ord.Lines[0].Qty != 1 {
		t.Fatalf("quantity not floored at 1: %d", ord.Lines[0].Qty)
	}
}

func TestPlaceOrderRejectsEmptyAndUnknown(t *testing.T) {
	app, _, _ := testApp(t, domain.Item{ID: "1", Name: "Hammer", Price: 10, Stock: 10})

	code, _ := postJSON(t, app, "/api/v1/orders", map[string]any{"lines": []map[string]any{}})
	if code != fiber.StatusBadRequest {
		t.Fatalf("empty draft: want 400, got %d", code)
	}

	code, body := postJSON(t, app, "/api/v1/orders", map[string]any{
		"lines": []map[string]any{{"item_id": "nope", "qty": 1}},
	})
	if code != fiber.StatusBadRequest {
		t.Fatalf("unknown item: want 400, got %d", code)
	}
	if !strings.Contains(body, "unknown item") {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestVoidAndRecallRoutes(t *testing.T) {
	app, st, c := testApp(t, domain.Item{ID: "1", Name: "Hammer", Price: 10, Stock: 10})

	code, _ := postJSON(t, app, "/api/v1/orders", map[string]any{
		"lines": []map[string]any{{"item_id": "1", "qty": 4}},
	})
	if code != fiber.StatusOK {
		t.Fatalf("place failed: %d", code)
	}

	code, body := postJSON(t, app, "/api/v1/orders/1/recall", nil)
	if code != fiber.StatusOK {
		t.Fatalf("recall: want 200, got %d: %s", code, body)
	}
	var draft domain.Draft
	if err := json.Unmarshal([]byte(body), &draft); err != nil {
		t.Fatal(err)
	}
	if len(draft.Lines) != 1 || draft.Lines[0].Qty != 4 {
		t.Fatalf("bad recalled draft: %+v", draft)
	}
	if it, _ := c.Item("1"); it.Stock != 10 {
		t.Fatalf("stock not restored: %d", it.Stock)
	}

	// recalling it again finds nothing
	code, _ = postJSON(t, app, "/api/v1/orders/1/recall", nil)
	if code != fiber.StatusNotFound {
		t.Fatalf("second recall: want 404, got %d", code)
	}

	// voiding the long-gone order is a silent no-op
	code, _ = postJSON(t, app, "/api/v1/orders/1/void", nil)
	if code != fiber.StatusOK {
		t.Fatalf("void no-op: want 200, got %d", code)
	}
	var items []domain.Item
	if err := st.List(store.Items, &items); err != nil {
		t.Fatal(err)
	}
	if items[0].Stock != 10 {
		t.Fatalf("no-op void touched stock: %d", items[0].Stock)
	}
}

func TestItemSaveValidation(t *testing.T) {
	app, _, _ := testApp(t)

	code, _ := postJSON(t, app, "/api/v1/items", map[string]any{"name": "", "price": 5})
	if code != fiber.StatusBadRequest {
		t.Fatalf("blank name: want 400, got %d", code)
	}
	code, _ = postJSON(t, app, "/api/v1/items", map[string]any{"name": "Hammer", "price": -1})
	if code != fiber.StatusBadRequest {
		t.Fatalf("negative price: want 400, got %d", code)
	}
	code, _ = postJSON(t, app, "/api/v1/items", map[string]any{"name": "Hammer", "price": 5, "kind": "LEASE"})
	if code != fiber.StatusBadRequest {
		t.Fatalf("bad kind: want 400, got %d", code)
	}
}

func TestSettingsSaveReplacesWholesale(t *testing.T) {
	app, st, c := testApp(t)

	code, body := postJSON(t, app, "/api/v1/settings", map[string]any{
		"shop_name": "Corner Store", "tax_enabled": true, "tax_rate": 0.07,
	})
	if code != fiber.StatusOK {
		t.Fatalf("want 200, got %d: %s", code, body)
	}
	if got := c.Settings(); got.ShopName != "Corner Store" || got.TaxRate != 0.07 {
		t.Fatalf("cache settings: %+v", got)
	}
	var cfgs []domain.Settings
	if err := st.List(store.Config, &cfgs); err != nil {
		t.Fatal(err)
	}
	if len(cfgs) != 1 || cfgs[0].ID != domain.SettingsID {
		t.Fatalf("singleton violated: %+v", cfgs)
	}
}
