package models

import "time"

// AuctionRole is a user's direct role within one auction. Ownership and team
// captaincy are derived from the auction and team records, not stored here.
type AuctionRole string

const (
	AuctionRoleModerator AuctionRole = "MODERATOR"
	AuctionRoleViewer    AuctionRole = "VIEWER"
)

type AuctionMember struct {
	ID        string      `json:"id" db:"id"`
	AuctionID string      `json:"auction_id" db:"auction_id"`
	UserID    string      `json:"user_id" db:"user_id"`
	Role      AuctionRole `json:"role" db:"role"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}
