package handlers_test

import (
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v2"

	"tillbook/internal/domain"
	"tillbook/internal/store"
)

func TestPartySaveAndDeleteRoutes(t *testing.T) {
	app, st, c := testApp(t)

	code, body := postJSON(t, app, "/api/v1/parties", map[string]any{
		"name": "Ana", "phone": "555-0100", "place": "Main St",
	})
	if code != fiber.StatusOK {
		t.Fatalf("want 200, got %d: %s", code, body)
	}
	var p domain.Party
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatal(err)
	}
	if p.ID == "" || p.Name != "Ana" {
		t.Fatalf("bad party: %+v", p)
	}

	var parties []domain.Party
	if err := st.List(store.Parties, &parties); err != nil {
		t.Fatal(err)
	}
	if len(parties) != 1 {
		t.Fatalf("not persisted: %+v", parties)
	}

	code, _ = postJSON(t, app, "/api/v1/parties/"+p.ID+"/delete", nil)
	if code != fiber.StatusOK {
		t.Fatalf("delete: want 200, got %d", code)
	}
	if got := c.Parties(); len(got) != 0 {
		t.Fatalf("still cached after delete: %+v", got)
	}
}

func TestPartySaveValidation(t *testing.T) {
	app, _, _ := testApp(t)

	code, _ := postJSON(t, app, "/api/v1/parties", map[string]any{"name": ""})
	if code != fiber.StatusBadRequest {
		t.Fatalf("blank name: want 400, got %d", code)
	}

	code, _ = postJSON(t, app, "/api/v1/parties", map[string]any{
		"name": "Ana", "phone": "not a phone number at all",
	})
	if code != fiber.StatusBadRequest {
		t.Fatalf("bad phone: want 400, got %d", code)
	}
}
