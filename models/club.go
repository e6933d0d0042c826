package models

import "time"

type ClubVisibility string

const (
	ClubVisibilityPublic     ClubVisibility = "PUBLIC"
	ClubVisibilityInviteOnly ClubVisibility = "INVITE_ONLY"
)

type Club struct {
	ID          string         `json:"id" db:"id"`
	LeagueID    string         `json:"league_id" db:"league_id"`
	Name        string         `json:"name" db:"name"`
	Visibility  ClubVisibility `json:"visibility" db:"visibility"`
	MemberLimit int            `json:"member_limit" db:"member_limit"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

type ClubMembership struct {
	ID        string    `json:"id" db:"id"`
	ClubID    string    `json:"club_id" db:"club_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
