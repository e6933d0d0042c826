package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/bidround/auction-system/models"
	"github.com/lib/pq"
)

var (
	ErrAuctionNotFound      = errors.New("auction not found")
	ErrAuctionNameConflict  = errors.New("auction name conflict")
	ErrAuctionLeagueInvalid = errors.New("auction league reference invalid")
)

// StateUpdate carries the fields a state PUT may replace. Nil fields are
// left untouched; a non-nil QueueState replaces the stored blob wholesale.
type StateUpdate struct {
	Status     *models.AuctionStatus
	QueueState json.RawMessage
}

type AuctionRepository interface {
	Create(ctx context.Context, auction *models.Auction) error
	GetByID(ctx context.Context, id string) (*models.Auction, error)
	List(ctx context.Context, limit, offset int) ([]models.Auction, error)
	Update(ctx context.Context, auction *models.Auction) error
	UpdateState(ctx context.Context, id string, update StateUpdate) error
}

type postgresAuctionRepository struct {
	db *sql.DB
}

func NewPostgresAuctionRepository(db *sql.DB) AuctionRepository {
	return &postgresAuctionRepository{db: db}
}

func (r *postgresAuctionRepository) Create(ctx context.Context, auction *models.Auction) error {
	query := `
		INSERT INTO auctions (id, owner_id, league_id, name, status, bidding_type, queue_state)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		auction.ID,
		auction.OwnerID,
		auction.LeagueID,
		auction.Name,
		auction.Status,
		auction.BiddingType,
		nullableJSON(auction.QueueState),
	).Scan(&auction.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrAuctionNameConflict
			case "23503":
				return ErrAuctionLeagueInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresAuctionRepository) GetByID(ctx context.Context, id string) (*models.Auction, error) {
	query := `
		SELECT id, owner_id, league_id, name, status, bidding_type, queue_state, created_at
		FROM auctions
		WHERE id = $1`

	auction := &models.Auction{}
	var queueState sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&auction.ID,
		&auction.OwnerID,
		&auction.LeagueID,
		&auction.Name,
		&auction.Status,
		&auction.BiddingType,
		&queueState,
		&auction.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	if queueState.Valid {
		auction.QueueState = json.RawMessage(queueState.String)
	}
	return auction, nil
}

func (r *postgresAuctionRepository) List(ctx context.Context, limit, offset int) ([]models.Auction, error) {
	query := `
		SELECT id, owner_id, league_id, name, status, bidding_type, queue_state, created_at
		FROM auctions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	auctions := make([]models.Auction, 0)
	for rows.Next() {
		var auction models.Auction
		var queueState sql.NullString
		if scanErr := rows.Scan(
			&auction.ID,
			&auction.OwnerID,
			&auction.LeagueID,
			&auction.Name,
			&auction.Status,
			&auction.BiddingType,
			&queueState,
			&auction.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		if queueState.Valid {
			auction.QueueState = json.RawMessage(queueState.String)
		}
		auctions = append(auctions, auction)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return auctions, nil
}

func (r *postgresAuctionRepository) Update(ctx context.Context, auction *models.Auction) error {
	query := `
		UPDATE auctions
		SET name = $1, status = $2, bidding_type = $3, queue_state = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		auction.Name,
		auction.Status,
		auction.BiddingType,
		nullableJSON(auction.QueueState),
		auction.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAuctionNotFound)
}

// UpdateState replaces status and/or queue_state wholesale. It intentionally
// performs no merge and no validation of the blob's internal shape.
func (r *postgresAuctionRepository) UpdateState(ctx context.Context, id string, update StateUpdate) error {
	if update.Status != nil && update.QueueState != nil {
		query := `UPDATE auctions SET status = $1, queue_state = $2 WHERE id = $3`
		result, err := r.db.ExecContext(ctx, query, *update.Status, string(update.QueueState), id)
		if err != nil {
			return err
		}
		return checkAffectedRows(result, ErrAuctionNotFound)
	}
	if update.Status != nil {
		query := `UPDATE auctions SET status = $1 WHERE id = $2`
		result, err := r.db.ExecContext(ctx, query, *update.Status, id)
		if err != nil {
			return err
		}
		return checkAffectedRows(result, ErrAuctionNotFound)
	}
	if update.QueueState != nil {
		query := `UPDATE auctions SET queue_state = $1 WHERE id = $2`
		result, err := r.db.ExecContext(ctx, query, string(update.QueueState), id)
		if err != nil {
			return err
		}
		return checkAffectedRows(result, ErrAuctionNotFound)
	}
	return nil
}

func nullableJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
