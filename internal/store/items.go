package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/najdeno/internal/model"
)

// CreateItem creates a new item in pending status. Photo may be empty.
func CreateItem(ctx context.Context, db *sql.DB, title, description, location, photo string) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (title, description, location, photo) VALUES (?, ?, ?, NULLIF(?, ''))`,
		title, description, location, photo,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	var photo sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, title, description, location, photo, status, created_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Title, &item.Description, &item.Location, &photo, &item.Status, &item.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.Photo = photo.String
	return item, nil
}

// ListItems returns items with the given status. A positive limit switches
// to newest-first ordering and caps the result, for the "recent" view.
func ListItems(ctx context.Context, db *sql.DB, status string, limit int) ([]model.Item, error) {
	var rows *sql.Rows
	var err error

	if limit > 0 {
		rows, err = db.QueryContext(ctx,
			`SELECT id, title, description, location, photo, status, created_at
			 FROM items WHERE status = ? ORDER BY created_at DESC, id DESC LIMIT ?`, status, limit,
		)
	} else {
		rows, err = db.QueryContext(ctx,
			`SELECT id, title, description, location, photo, status, created_at
			 FROM items WHERE status = ? ORDER BY id`, status,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var photo sql.NullString
		if err := rows.Scan(&item.ID, &item.Title, &item.Description, &item.Location, &photo, &item.Status, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Photo = photo.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// SetItemStatus updates an item's status. A missing id is a no-op, matching
// the moderation endpoints' contract.
func SetItemStatus(ctx context.Context, db *sql.DB, id int64, status string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET status = ? WHERE id = ?`, status, id,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	return nil
}
