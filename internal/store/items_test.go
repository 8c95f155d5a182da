package store

import (
	"context"
	"testing"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

func TestCreateItemStartsPending(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, "Umbrella", "Black umbrella", "Main hall", "")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Status != model.ItemStatusPending {
		t.Errorf("expected status pending, got %q", item.Status)
	}
	if item.Photo != "" {
		t.Errorf("expected empty photo, got %q", item.Photo)
	}
}

func TestListItemsFiltersByStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a, _ := CreateItem(ctx, database, "Umbrella", "Black", "Main hall", "")
	b, _ := CreateItem(ctx, database, "Scarf", "Red", "Gym", "")
	CreateItem(ctx, database, "Wallet", "Brown", "Cafeteria", "")

	SetItemStatus(ctx, database, a.ID, model.ItemStatusApproved)
	SetItemStatus(ctx, database, b.ID, model.ItemStatusDeclined)

	approved, err := ListItems(ctx, database, model.ItemStatusApproved, 0)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(approved) != 1 {
		t.Fatalf("expected 1 approved item, got %d", len(approved))
	}
	for _, item := range approved {
		if item.Status != model.ItemStatusApproved {
			t.Errorf("approved list contains item with status %q", item.Status)
		}
	}

	pending, _ := ListItems(ctx, database, model.ItemStatusPending, 0)
	if len(pending) != 1 {
		t.Errorf("expected 1 pending item, got %d", len(pending))
	}
}

func TestListItemsRecentLimit(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	var last int64
	for _, title := range []string{"One", "Two", "Three", "Four", "Five"} {
		item, _ := CreateItem(ctx, database, title, "desc", "loc", "")
		SetItemStatus(ctx, database, item.ID, model.ItemStatusApproved)
		last = item.ID
	}

	recent, err := ListItems(ctx, database, model.ItemStatusApproved, 3)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 recent items, got %d", len(recent))
	}
	if recent[0].ID != last {
		t.Errorf("expected newest item first, got id %d", recent[0].ID)
	}
}

func TestSetItemStatusMissingIDIsNoop(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := SetItemStatus(ctx, database, 9999, model.ItemStatusApproved); err != nil {
		t.Errorf("expected no error for missing id, got %v", err)
	}
}

func TestGetItemMissing(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := GetItem(ctx, database, 42)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil for missing item, got %+v", item)
	}
}
