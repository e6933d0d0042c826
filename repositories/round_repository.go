package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bidround/auction-system/models"
)

var ErrRoundNotFound = errors.New("round not found")

type RoundRepository interface {
	Create(ctx context.Context, round *models.Round) error
	GetByID(ctx context.Context, id string) (*models.Round, error)
	// GetLatestOpenByAuction returns the OPEN round with the most recent
	// opened_at for the auction, or ErrRoundNotFound if none is open.
	GetLatestOpenByAuction(ctx context.Context, auctionID string) (*models.Round, error)
	// GetOpenByAuctionAndPlayer returns the most recently opened OPEN round
	// for the (auction, player) pair.
	GetOpenByAuctionAndPlayer(ctx context.Context, auctionID, playerID string) (*models.Round, error)
	Close(ctx context.Context, roundID string) error
	// CloseOpenForPlayer closes every OPEN round for the (auction, player)
	// pair and returns how many rows were closed. Keeps the single-open-round
	// convention when a new round is opened.
	CloseOpenForPlayer(ctx context.Context, auctionID, playerID string) (int64, error)
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

func (r *postgresRoundRepository) Create(ctx context.Context, round *models.Round) error {
	query := `
		INSERT INTO rounds (id, auction_id, player_id, tier_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING opened_at`

	return r.db.QueryRowContext(ctx, query,
		round.ID,
		round.AuctionID,
		round.PlayerID,
		round.TierID,
		round.Status,
	).Scan(&round.OpenedAt)
}

func (r *postgresRoundRepository) GetByID(ctx context.Context, id string) (*models.Round, error) {
	query := `
		SELECT id, auction_id, player_id, tier_id, status, opened_at
		FROM rounds
		WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresRoundRepository) GetLatestOpenByAuction(ctx context.Context, auctionID string) (*models.Round, error) {
	query := `
		SELECT id, auction_id, player_id, tier_id, status, opened_at
		FROM rounds
		WHERE auction_id = $1 AND status = 'OPEN'
		ORDER BY opened_at DESC
		LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, auctionID))
}

func (r *postgresRoundRepository) GetOpenByAuctionAndPlayer(ctx context.Context, auctionID, playerID string) (*models.Round, error) {
	query := `
		SELECT id, auction_id, player_id, tier_id, status, opened_at
		FROM rounds
		WHERE auction_id = $1 AND player_id = $2 AND status = 'OPEN'
		ORDER BY opened_at DESC
		LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, auctionID, playerID))
}

func (r *postgresRoundRepository) Close(ctx context.Context, roundID string) error {
	query := `UPDATE rounds SET status = 'CLOSED' WHERE id = $1 AND status = 'OPEN'`
	result, err := r.db.ExecContext(ctx, query, roundID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}

func (r *postgresRoundRepository) CloseOpenForPlayer(ctx context.Context, auctionID, playerID string) (int64, error) {
	query := `UPDATE rounds SET status = 'CLOSED' WHERE auction_id = $1 AND player_id = $2 AND status = 'OPEN'`
	result, err := r.db.ExecContext(ctx, query, auctionID, playerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *postgresRoundRepository) scanOne(row *sql.Row) (*models.Round, error) {
	round := &models.Round{}
	err := row.Scan(
		&round.ID,
		&round.AuctionID,
		&round.PlayerID,
		&round.TierID,
		&round.Status,
		&round.OpenedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	return round, nil
}
