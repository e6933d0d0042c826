package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TeamRole string

const (
	TeamRoleMember      TeamRole = "MEMBER"
	TeamRoleViceCaptain TeamRole = "VICE_CAPTAIN"
	TeamRoleCaptain     TeamRole = "CAPTAIN"
)

// Team is a bidding squad within one auction. Budget is the remaining coin
// balance; OriginalBudget is what the team started the auction with.
type Team struct {
	ID             string          `json:"id" db:"id"`
	AuctionID      string          `json:"auction_id" db:"auction_id"`
	Name           string          `json:"name" db:"name"`
	CaptainID      string          `json:"captain_id" db:"captain_id"`
	Budget         decimal.Decimal `json:"budget" db:"budget"`
	OriginalBudget decimal.Decimal `json:"original_budget" db:"original_budget"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`

	Members []TeamMember `json:"members,omitempty" db:"-"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

type TeamMember struct {
	ID        string    `json:"id" db:"id"`
	TeamID    string    `json:"team_id" db:"team_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Role      TeamRole  `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
