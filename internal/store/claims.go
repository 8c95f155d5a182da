package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/najdeno/internal/model"
)

// ErrNotFound is returned by claim operations that require an existing row.
var ErrNotFound = errors.New("not found")

// CreateClaim creates a new claim in pending status. ItemID may be nil for
// claims filed without a listed item.
func CreateClaim(ctx context.Context, db *sql.DB, itemID *int64, username, email, name, reason, features, teacher string) (*model.Claim, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO claims (item_id, username, email, name, reason, features, teacher)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		itemID, username, email, name, reason, features, teacher,
	)
	if err != nil {
		return nil, fmt.Errorf("creating claim: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting claim id: %w", err)
	}

	return GetClaim(ctx, db, id)
}

// GetClaim returns a claim by ID, or nil if it does not exist.
func GetClaim(ctx context.Context, db *sql.DB, id int64) (*model.Claim, error) {
	c := &model.Claim{}
	var itemID sql.NullInt64
	err := db.QueryRowContext(ctx,
		`SELECT id, item_id, username, email, name, reason, features, teacher, status, created_at
		 FROM claims WHERE id = ?`, id,
	).Scan(&c.ID, &itemID, &c.Username, &c.Email, &c.Name, &c.Reason, &c.Features, &c.Teacher, &c.Status, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting claim: %w", err)
	}
	if itemID.Valid {
		c.ItemID = &itemID.Int64
	}
	return c, nil
}

// ListPendingClaims returns pending claims joined with their item's title and
// photo for admin review. Claims whose item was deleted keep nil item fields.
func ListPendingClaims(ctx context.Context, db *sql.DB) ([]model.ClaimWithItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT c.id, c.item_id, c.username, c.email, c.name, c.reason, c.features, c.teacher,
		        c.status, c.created_at, i.title, i.photo
		 FROM claims c
		 LEFT JOIN items i ON i.id = c.item_id
		 WHERE c.status = ?
		 ORDER BY c.id`, model.ClaimStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("listing pending claims: %w", err)
	}
	defer rows.Close()

	return scanClaimsWithItem(rows, false)
}

// ListUserClaims returns all claims by a user, newest first, joined with
// their item's title, photo, and location for the profile view.
func ListUserClaims(ctx context.Context, db *sql.DB, username string) ([]model.ClaimWithItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT c.id, c.item_id, c.username, c.email, c.name, c.reason, c.features, c.teacher,
		        c.status, c.created_at, i.title, i.photo, i.location
		 FROM claims c
		 LEFT JOIN items i ON i.id = c.item_id
		 WHERE c.username = ?
		 ORDER BY c.created_at DESC, c.id DESC`, username,
	)
	if err != nil {
		return nil, fmt.Errorf("listing user claims: %w", err)
	}
	defer rows.Close()

	return scanClaimsWithItem(rows, true)
}

func scanClaimsWithItem(rows *sql.Rows, withLocation bool) ([]model.ClaimWithItem, error) {
	var claims []model.ClaimWithItem
	for rows.Next() {
		var c model.ClaimWithItem
		var itemID sql.NullInt64
		var title, photo, location sql.NullString

		dest := []any{&c.ID, &itemID, &c.Username, &c.Email, &c.Name, &c.Reason, &c.Features,
			&c.Teacher, &c.Status, &c.CreatedAt, &title, &photo}
		if withLocation {
			dest = append(dest, &location)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}

		if itemID.Valid {
			c.ItemID = &itemID.Int64
		}
		if title.Valid {
			c.ItemTitle = &title.String
		}
		if photo.Valid {
			c.ItemPhoto = &photo.String
		}
		if location.Valid {
			c.ItemLocation = &location.String
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

// ApproveClaim approves a claim: the claim becomes approved, its item (if
// any) becomes claimed, and every competing claim on the same item is
// declined. The whole cascade runs in one transaction so that at most one
// claim per item ever ends up approved, even under concurrent approvals.
func ApproveClaim(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemID sql.NullInt64
	err = tx.QueryRowContext(ctx, `SELECT item_id FROM claims WHERE id = ?`, id).Scan(&itemID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("looking up claim: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE claims SET status = ? WHERE id = ?`, model.ClaimStatusApproved, id,
	); err != nil {
		return fmt.Errorf("approving claim: %w", err)
	}

	if itemID.Valid {
		if _, err := tx.ExecContext(ctx,
			`UPDATE items SET status = ? WHERE id = ?`, model.ItemStatusClaimed, itemID.Int64,
		); err != nil {
			return fmt.Errorf("marking item claimed: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE claims SET status = ? WHERE item_id = ? AND id != ?`,
			model.ClaimStatusDeclined, itemID.Int64, id,
		); err != nil {
			return fmt.Errorf("declining competing claims: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing claim approval: %w", err)
	}
	return nil
}

// DeclineClaim declines a claim and returns its item (if any) to the public
// approved list. Safe to repeat: both writes are idempotent.
func DeclineClaim(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemID sql.NullInt64
	err = tx.QueryRowContext(ctx, `SELECT item_id FROM claims WHERE id = ?`, id).Scan(&itemID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("looking up claim: %w", err)
	}

	if itemID.Valid {
		if _, err := tx.ExecContext(ctx,
			`UPDATE items SET status = ? WHERE id = ?`, model.ItemStatusApproved, itemID.Int64,
		); err != nil {
			return fmt.Errorf("relisting item: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE claims SET status = ? WHERE id = ?`, model.ClaimStatusDeclined, id,
	); err != nil {
		return fmt.Errorf("declining claim: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing claim decline: %w", err)
	}
	return nil
}

// DeleteClaim removes a claim. Deleting an approved claim takes its item out
// of circulation entirely (status declined) rather than relisting it, since
// the item was handed over to the claimant.
func DeleteClaim(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var itemID sql.NullInt64
	var status string
	err = tx.QueryRowContext(ctx, `SELECT item_id, status FROM claims WHERE id = ?`, id).Scan(&itemID, &status)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("looking up claim: %w", err)
	}

	if status == model.ClaimStatusApproved && itemID.Valid {
		if _, err := tx.ExecContext(ctx,
			`UPDATE items SET status = ? WHERE id = ?`, model.ItemStatusDeclined, itemID.Int64,
		); err != nil {
			return fmt.Errorf("retiring item: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM claims WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting claim: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing claim deletion: %w", err)
	}
	return nil
}
