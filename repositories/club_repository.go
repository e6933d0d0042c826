package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bidround/auction-system/models"
	"github.com/lib/pq"
)

var (
	ErrClubNotFound       = errors.New("club not found")
	ErrClubMemberConflict = errors.New("user is already a member of this club")
)

type ClubRepository interface {
	GetByID(ctx context.Context, id string) (*models.Club, error)
	CountMembers(ctx context.Context, clubID string) (int, error)
	IsMember(ctx context.Context, clubID, userID string) (bool, error)
	AddMember(ctx context.Context, membership *models.ClubMembership) error
}

type postgresClubRepository struct {
	db *sql.DB
}

func NewPostgresClubRepository(db *sql.DB) ClubRepository {
	return &postgresClubRepository{db: db}
}

func (r *postgresClubRepository) GetByID(ctx context.Context, id string) (*models.Club, error) {
	query := `
		SELECT id, league_id, name, visibility, member_limit, created_at
		FROM clubs
		WHERE id = $1`

	club := &models.Club{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&club.ID,
		&club.LeagueID,
		&club.Name,
		&club.Visibility,
		&club.MemberLimit,
		&club.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return club, nil
}

func (r *postgresClubRepository) CountMembers(ctx context.Context, clubID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM club_memberships WHERE club_id = $1`, clubID,
	).Scan(&count)
	return count, err
}

func (r *postgresClubRepository) IsMember(ctx context.Context, clubID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM club_memberships WHERE club_id = $1 AND user_id = $2)`,
		clubID, userID,
	).Scan(&exists)
	return exists, err
}

func (r *postgresClubRepository) AddMember(ctx context.Context, membership *models.ClubMembership) error {
	query := `
		INSERT INTO club_memberships (id, club_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		membership.ID,
		membership.ClubID,
		membership.UserID,
	).Scan(&membership.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrClubMemberConflict
			case "23503":
				return ErrClubNotFound
			}
		}
		return err
	}
	return nil
}
