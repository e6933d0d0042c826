package models

import (
	"encoding/json"
	"time"
)

// AuctionStatus matches the auction status ENUM in the database.
type AuctionStatus string

const (
	AuctionStatusDraft    AuctionStatus = "DRAFT"
	AuctionStatusLive     AuctionStatus = "LIVE"
	AuctionStatusComplete AuctionStatus = "COMPLETE"
)

func (s AuctionStatus) Valid() bool {
	switch s {
	case AuctionStatusDraft, AuctionStatusLive, AuctionStatusComplete:
		return true
	}
	return false
}

// BiddingType selects how bids within a round are collected and ordered.
type BiddingType string

const (
	BiddingTypeSealed     BiddingType = "SEALED"
	BiddingTypeOpenOutcry BiddingType = "OPEN_OUTCRY"
)

func (t BiddingType) Valid() bool {
	return t == BiddingTypeSealed || t == BiddingTypeOpenOutcry
}

// Auction is a live player auction. QueueState is a client-defined JSON
// document persisted verbatim; the server never looks inside it.
type Auction struct {
	ID          string          `json:"id" db:"id"`
	OwnerID     string          `json:"owner_id" db:"owner_id"`
	LeagueID    string          `json:"league_id" db:"league_id"`
	Name        string          `json:"name" db:"name"`
	Status      AuctionStatus   `json:"status" db:"status"`
	BiddingType BiddingType     `json:"bidding_type" db:"bidding_type"`
	QueueState  json.RawMessage `json:"queue_state,omitempty" db:"queue_state"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
