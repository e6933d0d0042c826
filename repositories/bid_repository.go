package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bidround/auction-system/models"
	"github.com/lib/pq"
)

var (
	ErrBidNotFound     = errors.New("bid not found")
	ErrBidRoundInvalid = errors.New("bid round reference invalid")
)

// BidOrder selects how ListByRoundID sorts its result.
type BidOrder string

const (
	// BidOrderSequenceAsc lists bids oldest first, for open-outcry display.
	BidOrderSequenceAsc BidOrder = "sequence_asc"
	// BidOrderAmountDesc lists the highest bid first, for sealed auctions.
	BidOrderAmountDesc BidOrder = "amount_desc"
)

type BidRepository interface {
	// Create inserts the bid and assigns the next sequence number within the
	// round. No locking: concurrent inserts race, which the workflow accepts.
	Create(ctx context.Context, bid *models.Bid) error
	// ListByRoundID returns bids joined with the bidding team's name. The
	// team name is empty for orphaned team references.
	ListByRoundID(ctx context.Context, roundID string, order BidOrder) ([]models.BidWithTeam, error)
	// MarkWinning flags the bid for (round, team, player) as the winning bid,
	// clearing any previously flagged bid in the round first.
	MarkWinning(ctx context.Context, roundID, teamID, playerID string) error
}

type postgresBidRepository struct {
	db *sql.DB
}

func NewPostgresBidRepository(db *sql.DB) BidRepository {
	return &postgresBidRepository{db: db}
}

func (r *postgresBidRepository) Create(ctx context.Context, bid *models.Bid) error {
	query := `
		INSERT INTO bids (id, round_id, team_id, player_id, amount, sequence)
		VALUES ($1, $2, $3, $4, $5,
			COALESCE((SELECT MAX(sequence) FROM bids WHERE round_id = $2), 0) + 1)
		RETURNING sequence, submitted_at`

	err := r.db.QueryRowContext(ctx, query,
		bid.ID,
		bid.RoundID,
		bid.TeamID,
		bid.PlayerID,
		bid.Amount,
	).Scan(&bid.Sequence, &bid.SubmittedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrBidRoundInvalid
		}
		return err
	}
	return nil
}

func (r *postgresBidRepository) ListByRoundID(ctx context.Context, roundID string, order BidOrder) ([]models.BidWithTeam, error) {
	orderBy := "b.sequence ASC"
	if order == BidOrderAmountDesc {
		orderBy = "b.amount DESC"
	}

	query := `
		SELECT b.id, b.round_id, b.team_id, b.player_id, b.amount, b.sequence,
		       b.is_winning_bid, b.submitted_at, COALESCE(t.name, '')
		FROM bids b
		LEFT JOIN teams t ON t.id = b.team_id
		WHERE b.round_id = $1
		ORDER BY ` + orderBy

	rows, err := r.db.QueryContext(ctx, query, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]models.BidWithTeam, 0)
	for rows.Next() {
		var bid models.BidWithTeam
		if scanErr := rows.Scan(
			&bid.ID,
			&bid.RoundID,
			&bid.TeamID,
			&bid.PlayerID,
			&bid.Amount,
			&bid.Sequence,
			&bid.IsWinningBid,
			&bid.SubmittedAt,
			&bid.TeamName,
		); scanErr != nil {
			return nil, scanErr
		}
		bids = append(bids, bid)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return bids, nil
}

func (r *postgresBidRepository) MarkWinning(ctx context.Context, roundID, teamID, playerID string) error {
	// Clear first so a re-recorded sale cannot leave two winning bids. The
	// two statements are not transactional; the sale workflow treats this
	// whole step as best effort anyway.
	clear := `UPDATE bids SET is_winning_bid = FALSE WHERE round_id = $1 AND is_winning_bid`
	if _, err := r.db.ExecContext(ctx, clear, roundID); err != nil {
		return err
	}

	set := `
		UPDATE bids SET is_winning_bid = TRUE
		WHERE round_id = $1 AND team_id = $2 AND player_id = $3`
	result, err := r.db.ExecContext(ctx, set, roundID, teamID, playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBidNotFound)
}
