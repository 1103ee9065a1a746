package services_test

import (
	"testing"

	"tillbook/internal/domain"
	"tillbook/internal/services"
	"tillbook/internal/store"
)

func TestPartySaveMintsIDAndCaches(t *testing.T) {
	st, c := memfix(t)
	svc := services.NewPartyService(st, c)

	saved, err := svc.Save(domain.Party{Name: "Ana", Phone: "555-0100", Place: "Main St"})
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID == "" {
		t.Fatal("no id minted")
	}

	var parties []domain.Party
	if err := st.List(store.Parties, &parties); err != nil {
		t.Fatal(err)
	}
	if len(parties) != 1 || parties[0].Name != "Ana" {
		t.Fatalf("not persisted: %+v", parties)
	}
	if got := c.Parties(); len(got) != 1 || got[0].ID != saved.ID {
		t.Fatalf("not cached: %+v", got)
	}
}

func TestPartySaveKeepsExplicitID(t *testing.T) {
	st, c := memfix(t)
	svc := services.NewPartyService(st, c)

	if _, err := svc.Save(domain.Party{ID: "p1", Name: "Ana"}); err != nil {
		t.Fatal(err)
	}
	// saving again under the same id updates, never duplicates
	if _, err := svc.Save(domain.Party{ID: "p1", Name: "Ana Maria"}); err != nil {
		t.Fatal(err)
	}

	var parties []domain.Party
	if err := st.List(store.Parties, &parties); err != nil {
		t.Fatal(err)
	}
	if len(parties) != 1 || parties[0].Name != "Ana Maria" {
		t.Fatalf("upsert failed: %+v", parties)
	}
}

func TestPartyDeleteRemovesEverywhere(t *testing.T) {
	st, c := memfix(t)
	svc := services.NewPartyService(st, c)

	saved, err := svc.Save(domain.Party{Name: "Ben"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(saved.ID); err != nil {
		t.Fatal(err)
	}

	var parties []domain.Party
	if err := st.List(store.Parties, &parties); err != nil {
		t.Fatal(err)
	}
	if len(parties) != 0 {
		t.Fatalf("still in store: %+v", parties)
	}
	if got := c.Parties(); len(got) != 0 {
		t.Fatalf("still in cache: %+v", got)
	}
}

func TestPartyListSortedByName(t *testing.T) {
	st, c := memfix(t)
	svc := services.NewPartyService(st, c)

	for _, name := range []string{"zoe", "Ana", "ben"} {
		if _, err := svc.Save(domain.Party{Name: name}); err != nil {
			t.Fatal(err)
		}
	}
	got := svc.List()
	if got[0].Name != "Ana" || got[1].Name != "ben" || got[2].Name != "zoe" {
		t.Fatalf("bad order: %+v", got)
	}
}
