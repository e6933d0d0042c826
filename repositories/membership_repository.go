package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bidround/auction-system/models"
	"github.com/lib/pq"
)

var ErrAuctionMemberNotFound = errors.New("auction membership not found")

// MembershipRepository covers the membership lookups the permission resolver
// needs: direct auction roles, league ancestry, and team captaincy.
type MembershipRepository interface {
	GetAuctionMember(ctx context.Context, auctionID, userID string) (*models.AuctionMember, error)
	// AddAuctionMember inserts the membership; a duplicate (auction, user)
	// pair is a no-op and returns the stored row untouched.
	AddAuctionMember(ctx context.Context, member *models.AuctionMember) error
	IsLeagueMember(ctx context.Context, leagueID, userID string) (bool, error)
	// IsTeamCaptain reports whether the user captains any team in the auction.
	IsTeamCaptain(ctx context.Context, auctionID, userID string) (bool, error)
}

type postgresMembershipRepository struct {
	db *sql.DB
}

func NewPostgresMembershipRepository(db *sql.DB) MembershipRepository {
	return &postgresMembershipRepository{db: db}
}

func (r *postgresMembershipRepository) GetAuctionMember(ctx context.Context, auctionID, userID string) (*models.AuctionMember, error) {
	query := `
		SELECT id, auction_id, user_id, role, created_at
		FROM auction_members
		WHERE auction_id = $1 AND user_id = $2`

	member := &models.AuctionMember{}
	err := r.db.QueryRowContext(ctx, query, auctionID, userID).Scan(
		&member.ID,
		&member.AuctionID,
		&member.UserID,
		&member.Role,
		&member.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAuctionMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

func (r *postgresMembershipRepository) AddAuctionMember(ctx context.Context, member *models.AuctionMember) error {
	query := `
		INSERT INTO auction_members (id, auction_id, user_id, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (auction_id, user_id) DO NOTHING
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		member.ID,
		member.AuctionID,
		member.UserID,
		member.Role,
	).Scan(&member.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Conflict path: membership already exists, keep it as is.
			existing, getErr := r.GetAuctionMember(ctx, member.AuctionID, member.UserID)
			if getErr != nil {
				return getErr
			}
			*member = *existing
			return nil
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrAuctionNotFound
		}
		return err
	}
	return nil
}

func (r *postgresMembershipRepository) IsLeagueMember(ctx context.Context, leagueID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM league_memberships WHERE league_id = $1 AND user_id = $2)`,
		leagueID, userID,
	).Scan(&exists)
	return exists, err
}

func (r *postgresMembershipRepository) IsTeamCaptain(ctx context.Context, auctionID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM teams WHERE auction_id = $1 AND captain_id = $2)`,
		auctionID, userID,
	).Scan(&exists)
	return exists, err
}
