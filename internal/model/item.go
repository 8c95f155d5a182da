package model

import "time"

// Item represents a found object moving through the moderation lifecycle.
type Item struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Photo       string    `json:"photo,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Item statuses. Only approved items are publicly listable.
const (
	ItemStatusPending  = "pending"
	ItemStatusApproved = "approved"
	ItemStatusDeclined = "declined"
	ItemStatusClaimed  = "claimed"
)
