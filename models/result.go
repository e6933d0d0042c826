package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionResult records a player sale. Uniquely keyed by (auction, player);
// re-recording a sale overwrites the previous row, there is no audit trail.
type AuctionResult struct {
	ID        string          `json:"id" db:"id"`
	AuctionID string          `json:"auction_id" db:"auction_id"`
	PlayerID  string          `json:"player_id" db:"player_id"`
	TeamID    string          `json:"team_id" db:"team_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	SoldAt    time.Time       `json:"sold_at" db:"sold_at"`
}
