package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bidround/auction-system/models"
	"github.com/lib/pq"
)

var (
	ErrResultNotFound       = errors.New("auction result not found")
	ErrResultAuctionInvalid = errors.New("auction result auction reference invalid")
)

type ResultRepository interface {
	// Upsert records a sale. The (auction, player) pair is unique; a second
	// sale for the same player overwrites the first.
	Upsert(ctx context.Context, result *models.AuctionResult) error
	GetByAuctionAndPlayer(ctx context.Context, auctionID, playerID string) (*models.AuctionResult, error)
	ListByAuctionID(ctx context.Context, auctionID string) ([]models.AuctionResult, error)
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) Upsert(ctx context.Context, result *models.AuctionResult) error {
	query := `
		INSERT INTO auction_results (id, auction_id, player_id, team_id, amount, sold_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (auction_id, player_id)
		DO UPDATE SET team_id = EXCLUDED.team_id, amount = EXCLUDED.amount, sold_at = EXCLUDED.sold_at
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		result.ID,
		result.AuctionID,
		result.PlayerID,
		result.TeamID,
		result.Amount,
		result.SoldAt,
	).Scan(&result.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrResultAuctionInvalid
		}
		return err
	}
	return nil
}

func (r *postgresResultRepository) GetByAuctionAndPlayer(ctx context.Context, auctionID, playerID string) (*models.AuctionResult, error) {
	query := `
		SELECT id, auction_id, player_id, team_id, amount, sold_at
		FROM auction_results
		WHERE auction_id = $1 AND player_id = $2`

	result := &models.AuctionResult{}
	err := r.db.QueryRowContext(ctx, query, auctionID, playerID).Scan(
		&result.ID,
		&result.AuctionID,
		&result.PlayerID,
		&result.TeamID,
		&result.Amount,
		&result.SoldAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return result, nil
}

func (r *postgresResultRepository) ListByAuctionID(ctx context.Context, auctionID string) ([]models.AuctionResult, error) {
	query := `
		SELECT id, auction_id, player_id, team_id, amount, sold_at
		FROM auction_results
		WHERE auction_id = $1
		ORDER BY sold_at ASC`

	rows, err := r.db.QueryContext(ctx, query, auctionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]models.AuctionResult, 0)
	for rows.Next() {
		var result models.AuctionResult
		if scanErr := rows.Scan(
			&result.ID,
			&result.AuctionID,
			&result.PlayerID,
			&result.TeamID,
			&result.Amount,
			&result.SoldAt,
		); scanErr != nil {
			return nil, scanErr
		}
		results = append(results, result)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
