package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid is a single offer within a round. Sequence is assigned per round in
// submission order and only matters for open-outcry auctions.
type Bid struct {
	ID           string          `json:"id" db:"id"`
	RoundID      string          `json:"round_id" db:"round_id"`
	TeamID       string          `json:"team_id" db:"team_id"`
	PlayerID     string          `json:"player_id" db:"player_id"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	Sequence     int             `json:"sequence" db:"sequence"`
	IsWinningBid bool            `json:"is_winning_bid" db:"is_winning_bid"`
	SubmittedAt  time.Time       `json:"submitted_at" db:"submitted_at"`
}

// BidWithTeam is a bid joined with the bidding team's display name. TeamName
// may be empty when the team reference is orphaned; callers substitute a
// fallback before serializing.
type BidWithTeam struct {
	Bid
	TeamName string `json:"team_name" db:"team_name"`
}
