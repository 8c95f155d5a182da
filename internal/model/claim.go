package model

import "time"

// Claim represents a user's assertion of ownership over an item.
// ItemID may be nil if the claim was filed without a listed item or the
// item row was deleted afterwards.
type Claim struct {
	ID        int64     `json:"id"`
	ItemID    *int64    `json:"item_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Reason    string    `json:"reason"`
	Features  string    `json:"features,omitempty"`
	Teacher   string    `json:"teacher"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Claim statuses.
const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusDeclined = "declined"
)

// Placeholder identity for claims submitted without a session.
const (
	AnonymousUsername = "anonymous"
	AnonymousEmail    = "N/A"
)

// ClaimWithItem is a claim joined with its referenced item. The item fields
// are nil when the claim is orphaned.
type ClaimWithItem struct {
	Claim
	ItemTitle    *string `json:"item_title"`
	ItemPhoto    *string `json:"item_photo"`
	ItemLocation *string `json:"item_location,omitempty"`
}
