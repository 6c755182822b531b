package main

import (
	"testing"
	"time"

	"github.com/groblegark/srvenv/internal/model"
)

func TestDiffRecords(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	seen := make(map[string]time.Time)

	// First pass: everything is new.
	first := []*model.Record{
		{ID: "se-a", Name: "Primary", UpdatedAt: t0},
		{ID: "se-b", Name: "Standby", UpdatedAt: t0},
	}
	changed := diffRecords(first, seen)
	if len(changed) != 2 {
		t.Fatalf("first pass: %d changed, want 2", len(changed))
	}

	// Second pass: only the updated record comes back.
	second := []*model.Record{
		{ID: "se-a", Name: "Primary", UpdatedAt: t0},
		{ID: "se-b", Name: "Standby", UpdatedAt: t1},
	}
	changed = diffRecords(second, seen)
	if len(changed) != 1 || changed[0].ID != "se-b" {
		t.Fatalf("second pass: changed = %+v, want only se-b", changed)
	}

	// Third pass: nothing changed.
	if changed := diffRecords(second, seen); len(changed) != 0 {
		t.Fatalf("third pass: changed = %+v, want none", changed)
	}

	// A new record appearing later is reported.
	third := append(second, &model.Record{ID: "se-c", Name: "Fresh", UpdatedAt: t1})
	changed = diffRecords(third, seen)
	if len(changed) != 1 || changed[0].ID != "se-c" {
		t.Fatalf("fourth pass: changed = %+v, want only se-c", changed)
	}
}
