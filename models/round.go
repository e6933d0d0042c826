package models

import "time"

type RoundStatus string

const (
	RoundStatusOpen   RoundStatus = "OPEN"
	RoundStatusClosed RoundStatus = "CLOSED"
)

// Round is a bidding window for a single player. At most one OPEN round may
// exist per (auction, player); the store enforces this by closing prior open
// rounds before opening a new one.
type Round struct {
	ID        string      `json:"id" db:"id"`
	AuctionID string      `json:"auction_id" db:"auction_id"`
	PlayerID  string      `json:"player_id" db:"player_id"`
	TierID    *string     `json:"tier_id,omitempty" db:"tier_id"`
	Status    RoundStatus `json:"status" db:"status"`
	OpenedAt  time.Time   `json:"opened_at" db:"opened_at"`
}
