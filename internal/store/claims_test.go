package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/model"
)

func approvedItem(t *testing.T, database *sql.DB, title string) *model.Item {
	t.Helper()
	ctx := context.Background()
	item, err := CreateItem(ctx, database, title, "desc", "loc", "")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if err := SetItemStatus(ctx, database, item.ID, model.ItemStatusApproved); err != nil {
		t.Fatalf("SetItemStatus: %v", err)
	}
	return item
}

func pendingClaim(t *testing.T, database *sql.DB, itemID *int64, username string) *model.Claim {
	t.Helper()
	claim, err := CreateClaim(context.Background(), database, itemID, username, "N/A",
		"Some Name", "it is mine", "", "Ms. Witness")
	if err != nil {
		t.Fatalf("CreateClaim: %v", err)
	}
	return claim
}

func TestApproveClaimCascade(t *testing.T) {
	for _, competitors := range []int{0, 1, 4} {
		t.Run(fmt.Sprintf("%d_competing", competitors+1), func(t *testing.T) {
			database := db.NewTestDB(t)
			ctx := context.Background()

			item := approvedItem(t, database, "Umbrella")
			winner := pendingClaim(t, database, &item.ID, "alice")
			var losers []*model.Claim
			for i := 0; i < competitors; i++ {
				losers = append(losers, pendingClaim(t, database, &item.ID, fmt.Sprintf("rival%d", i)))
			}

			if err := ApproveClaim(ctx, database, winner.ID); err != nil {
				t.Fatalf("ApproveClaim: %v", err)
			}

			got, _ := GetItem(ctx, database, item.ID)
			if got.Status != model.ItemStatusClaimed {
				t.Errorf("item status = %q, want claimed", got.Status)
			}

			approved, _ := GetClaim(ctx, database, winner.ID)
			if approved.Status != model.ClaimStatusApproved {
				t.Errorf("winner status = %q, want approved", approved.Status)
			}

			for _, loser := range losers {
				c, _ := GetClaim(ctx, database, loser.ID)
				if c.Status != model.ClaimStatusDeclined {
					t.Errorf("competing claim %d status = %q, want declined", c.ID, c.Status)
				}
			}
		})
	}
}

func TestApproveClaimWithoutItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	claim := pendingClaim(t, database, nil, "alice")
	if err := ApproveClaim(ctx, database, claim.ID); err != nil {
		t.Fatalf("ApproveClaim: %v", err)
	}

	got, _ := GetClaim(ctx, database, claim.ID)
	if got.Status != model.ClaimStatusApproved {
		t.Errorf("claim status = %q, want approved", got.Status)
	}
}

func TestApproveClaimMissing(t *testing.T) {
	database := db.NewTestDB(t)

	err := ApproveClaim(context.Background(), database, 123)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeclineClaimRelistsItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := approvedItem(t, database, "Umbrella")
	claim := pendingClaim(t, database, &item.ID, "alice")

	if err := ApproveClaim(ctx, database, claim.ID); err != nil {
		t.Fatalf("ApproveClaim: %v", err)
	}
	if err := DeclineClaim(ctx, database, claim.ID); err != nil {
		t.Fatalf("DeclineClaim: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusApproved {
		t.Errorf("item status = %q, want approved", got.Status)
	}
	c, _ := GetClaim(ctx, database, claim.ID)
	if c.Status != model.ClaimStatusDeclined {
		t.Errorf("claim status = %q, want declined", c.Status)
	}

	// Idempotent when repeated.
	if err := DeclineClaim(ctx, database, claim.ID); err != nil {
		t.Fatalf("second DeclineClaim: %v", err)
	}
	got, _ = GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusApproved {
		t.Errorf("item status after repeat = %q, want approved", got.Status)
	}
}

func TestDeclineClaimMissing(t *testing.T) {
	database := db.NewTestDB(t)

	err := DeclineClaim(context.Background(), database, 123)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteApprovedClaimRetiresItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := approvedItem(t, database, "Umbrella")
	claim := pendingClaim(t, database, &item.ID, "alice")
	if err := ApproveClaim(ctx, database, claim.ID); err != nil {
		t.Fatalf("ApproveClaim: %v", err)
	}

	if err := DeleteClaim(ctx, database, claim.ID); err != nil {
		t.Fatalf("DeleteClaim: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusDeclined {
		t.Errorf("item status = %q, want declined", got.Status)
	}
	c, _ := GetClaim(ctx, database, claim.ID)
	if c != nil {
		t.Errorf("expected claim row removed, got %+v", c)
	}
}

func TestDeletePendingClaimLeavesItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := approvedItem(t, database, "Umbrella")
	claim := pendingClaim(t, database, &item.ID, "alice")

	if err := DeleteClaim(ctx, database, claim.ID); err != nil {
		t.Fatalf("DeleteClaim: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Status != model.ItemStatusApproved {
		t.Errorf("item status = %q, want approved (untouched)", got.Status)
	}
}

func TestDeleteClaimMissing(t *testing.T) {
	database := db.NewTestDB(t)

	err := DeleteClaim(context.Background(), database, 123)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListPendingClaimsToleratesOrphans(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := approvedItem(t, database, "Umbrella")
	pendingClaim(t, database, &item.ID, "alice")
	pendingClaim(t, database, nil, "bob")

	claims, err := ListPendingClaims(ctx, database)
	if err != nil {
		t.Fatalf("ListPendingClaims: %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("expected 2 pending claims, got %d", len(claims))
	}

	for _, c := range claims {
		switch c.Username {
		case "alice":
			if c.ItemTitle == nil || *c.ItemTitle != "Umbrella" {
				t.Errorf("expected joined item title for alice, got %v", c.ItemTitle)
			}
		case "bob":
			if c.ItemTitle != nil {
				t.Errorf("expected nil item title for orphaned claim, got %q", *c.ItemTitle)
			}
		}
	}
}

func TestListUserClaimsNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := approvedItem(t, database, "Umbrella")
	first := pendingClaim(t, database, &item.ID, "alice")
	second := pendingClaim(t, database, &item.ID, "alice")
	pendingClaim(t, database, &item.ID, "bob")

	claims, err := ListUserClaims(ctx, database, "alice")
	if err != nil {
		t.Fatalf("ListUserClaims: %v", err)
	}
	if len(claims) != 2 {
		t.Fatalf("expected 2 claims for alice, got %d", len(claims))
	}
	if claims[0].ID != second.ID || claims[1].ID != first.ID {
		t.Errorf("expected newest first, got ids %d, %d", claims[0].ID, claims[1].ID)
	}
	if claims[0].ItemLocation == nil || *claims[0].ItemLocation != "loc" {
		t.Errorf("expected joined item location, got %v", claims[0].ItemLocation)
	}
}
