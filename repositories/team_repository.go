package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bidround/auction-system/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamNameConflict   = errors.New("team name conflict")
	ErrTeamMemberNotFound = errors.New("team member not found")
	ErrTeamMemberConflict = errors.New("user is already a member of this team")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id string) (*models.Team, error)
	GetByAuctionAndUser(ctx context.Context, auctionID, userID string) (*models.Team, error)
	ListByAuctionID(ctx context.Context, auctionID string) ([]models.Team, error)
	UpdateCaptain(ctx context.Context, teamID, userID string) error
	UpdateLogoKey(ctx context.Context, teamID string, logoKey *string) error
	// AdjustBudget adds delta to the team's remaining budget. Negative deltas
	// debit the team.
	AdjustBudget(ctx context.Context, teamID string, delta decimal.Decimal) error

	GetMember(ctx context.Context, teamID, userID string) (*models.TeamMember, error)
	AddMember(ctx context.Context, member *models.TeamMember) error
	UpdateMemberRole(ctx context.Context, teamID, userID string, role models.TeamRole) error
	ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (id, auction_id, name, captain_id, budget, original_budget)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.ID,
		team.AuctionID,
		team.Name,
		team.CaptainID,
		team.Budget,
		team.OriginalBudget,
	).Scan(&team.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrTeamNameConflict
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	query := `
		SELECT id, auction_id, name, captain_id, budget, original_budget, logo_key, created_at
		FROM teams
		WHERE id = $1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.AuctionID,
		&team.Name,
		&team.CaptainID,
		&team.Budget,
		&team.OriginalBudget,
		&team.LogoKey,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

// GetByAuctionAndUser returns the team the user belongs to within the given
// auction, captaincy included.
func (r *postgresTeamRepository) GetByAuctionAndUser(ctx context.Context, auctionID, userID string) (*models.Team, error) {
	query := `
		SELECT t.id, t.auction_id, t.name, t.captain_id, t.budget, t.original_budget, t.logo_key, t.created_at
		FROM teams t
		LEFT JOIN team_members m ON m.team_id = t.id AND m.user_id = $2
		WHERE t.auction_id = $1 AND (t.captain_id = $2 OR m.user_id IS NOT NULL)
		LIMIT 1`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, auctionID, userID).Scan(
		&team.ID,
		&team.AuctionID,
		&team.Name,
		&team.CaptainID,
		&team.Budget,
		&team.OriginalBudget,
		&team.LogoKey,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) ListByAuctionID(ctx context.Context, auctionID string) ([]models.Team, error) {
	query := `
		SELECT id, auction_id, name, captain_id, budget, original_budget, logo_key, created_at
		FROM teams
		WHERE auction_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if scanErr := rows.Scan(
			&team.ID,
			&team.AuctionID,
			&team.Name,
			&team.CaptainID,
			&team.Budget,
			&team.OriginalBudget,
			&team.LogoKey,
			&team.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, team)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *postgresTeamRepository) UpdateCaptain(ctx context.Context, teamID, userID string) error {
	query := `UPDATE teams SET captain_id = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, userID, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, teamID string, logoKey *string) error {
	query := `UPDATE teams SET logo_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, logoKey, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) AdjustBudget(ctx context.Context, teamID string, delta decimal.Decimal) error {
	query := `UPDATE teams SET budget = budget + $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, delta, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) GetMember(ctx context.Context, teamID, userID string) (*models.TeamMember, error) {
	query := `
		SELECT id, team_id, user_id, role, created_at
		FROM team_members
		WHERE team_id = $1 AND user_id = $2`

	member := &models.TeamMember{}
	err := r.db.QueryRowContext(ctx, query, teamID, userID).Scan(
		&member.ID,
		&member.TeamID,
		&member.UserID,
		&member.Role,
		&member.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

func (r *postgresTeamRepository) AddMember(ctx context.Context, member *models.TeamMember) error {
	query := `
		INSERT INTO team_members (id, team_id, user_id, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		member.ID,
		member.TeamID,
		member.UserID,
		member.Role,
	).Scan(&member.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrTeamMemberConflict
			case "23503":
				return ErrTeamNotFound
			}
		}
		return err
	}
	return nil
}

func (r *postgresTeamRepository) UpdateMemberRole(ctx context.Context, teamID, userID string, role models.TeamRole) error {
	query := `UPDATE team_members SET role = $1 WHERE team_id = $2 AND user_id = $3`
	result, err := r.db.ExecContext(ctx, query, role, teamID, userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamMemberNotFound)
}

func (r *postgresTeamRepository) ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	query := `
		SELECT id, team_id, user_id, role, created_at
		FROM team_members
		WHERE team_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]models.TeamMember, 0)
	for rows.Next() {
		var member models.TeamMember
		if scanErr := rows.Scan(
			&member.ID,
			&member.TeamID,
			&member.UserID,
			&member.Role,
			&member.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		members = append(members, member)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}
