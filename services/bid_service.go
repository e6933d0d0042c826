package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bidround/auction-system/live"
	"github.com/bidround/auction-system/models"
	"github.com/bidround/auction-system/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BidView is the client-facing bid record, enriched with the bidding team's
// display name.
type BidView struct {
	ID           string          `json:"id"`
	TeamID       string          `json:"team_id"`
	TeamName     string          `json:"team_name"`
	PlayerID     string          `json:"player_id"`
	Amount       decimal.Decimal `json:"amount"`
	Sequence     int             `json:"sequence"`
	IsWinningBid bool            `json:"is_winning_bid"`
	SubmittedAt  time.Time       `json:"submitted_at"`
}

// RoundBids is the bid listing for the current open round. RoundID is nil
// when no round is open.
type RoundBids struct {
	RoundID *string   `json:"round_id"`
	Bids    []BidView `json:"bids"`
}

type PlaceBidInput struct {
	Amount decimal.Decimal `json:"amount"`
}

type OpenRoundInput struct {
	PlayerID string  `json:"player_id"`
	TierID   *string `json:"tier_id"`
}

type BidService interface {
	// CurrentRoundBids returns the bids of the most recently opened OPEN
	// round, ordered per the auction's bidding type. A bid fetch failure
	// degrades to an empty list rather than failing the request.
	CurrentRoundBids(ctx context.Context, auctionID string) (*RoundBids, error)
	PlaceBid(ctx context.Context, auctionID, userID string, input PlaceBidInput) (*models.Bid, error)
	OpenRound(ctx context.Context, auctionID, requesterID string, input OpenRoundInput) (*models.Round, error)
	CloseRound(ctx context.Context, auctionID, roundID, requesterID string) error
}

type bidService struct {
	auctionRepo    repositories.AuctionRepository
	roundRepo      repositories.RoundRepository
	bidRepo        repositories.BidRepository
	teamRepo       repositories.TeamRepository
	membershipRepo repositories.MembershipRepository
	hub            Broadcaster
	logger         *slog.Logger
}

func NewBidService(
	auctionRepo repositories.AuctionRepository,
	roundRepo repositories.RoundRepository,
	bidRepo repositories.BidRepository,
	teamRepo repositories.TeamRepository,
	membershipRepo repositories.MembershipRepository,
	hub Broadcaster,
	logger *slog.Logger,
) BidService {
	return &bidService{
		auctionRepo:    auctionRepo,
		roundRepo:      roundRepo,
		bidRepo:        bidRepo,
		teamRepo:       teamRepo,
		membershipRepo: membershipRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *bidService) CurrentRoundBids(ctx context.Context, auctionID string) (*RoundBids, error) {
	auction, err := s.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, repositories.ErrAuctionNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}

	round, err := s.roundRepo.GetLatestOpenByAuction(ctx, auctionID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return &RoundBids{RoundID: nil, Bids: []BidView{}}, nil
		}
		return nil, err
	}

	// Open-outcry bids read oldest first; sealed bids highest amount first.
	order := repositories.BidOrderAmountDesc
	if auction.BiddingType == models.BiddingTypeOpenOutcry {
		order = repositories.BidOrderSequenceAsc
	}

	bids, err := s.bidRepo.ListByRoundID(ctx, round.ID, order)
	if err != nil {
		// The round id is already resolved; an empty list is a safe default
		// for the caller's UI, so degrade instead of failing.
		s.logger.Warn("failed to fetch bids for open round",
			slog.String("auction_id", auctionID),
			slog.String("round_id", round.ID),
			slog.Any("error", err))
		return &RoundBids{RoundID: &round.ID, Bids: []BidView{}}, nil
	}

	views := make([]BidView, 0, len(bids))
	for _, bid := range bids {
		teamName := bid.TeamName
		if teamName == "" {
			// Orphaned team reference: fall back to the raw id.
			teamName = bid.TeamID
		}
		views = append(views, BidView{
			ID:           bid.ID,
			TeamID:       bid.TeamID,
			TeamName:     teamName,
			PlayerID:     bid.PlayerID,
			Amount:       bid.Amount,
			Sequence:     bid.Sequence,
			IsWinningBid: bid.IsWinningBid,
			SubmittedAt:  bid.SubmittedAt,
		})
	}
	return &RoundBids{RoundID: &round.ID, Bids: views}, nil
}

func (s *bidService) PlaceBid(ctx context.Context, auctionID, userID string, input PlaceBidInput) (*models.Bid, error) {
	auction, err := s.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, repositories.ErrAuctionNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	if auction.Status != models.AuctionStatusLive {
		return nil, ErrAuctionNotLive
	}
	if !input.Amount.IsPositive() {
		return nil, ErrBidAmountInvalid
	}

	team, err := s.teamRepo.GetByAuctionAndUser(ctx, auctionID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	if input.Amount.GreaterThan(team.Budget) {
		return nil, ErrBidOverBudget
	}

	round, err := s.roundRepo.GetLatestOpenByAuction(ctx, auctionID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return nil, ErrNoOpenRound
		}
		return nil, err
	}

	bid := &models.Bid{
		ID:       uuid.NewString(),
		RoundID:  round.ID,
		TeamID:   team.ID,
		PlayerID: round.PlayerID,
		Amount:   input.Amount,
	}
	if err := s.bidRepo.Create(ctx, bid); err != nil {
		return nil, fmt.Errorf("failed to place bid: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(auctionID, live.Event{
			Type:      live.EventBidPlaced,
			AuctionID: auctionID,
			Payload:   bid,
		})
	}
	return bid, nil
}

func (s *bidService) OpenRound(ctx context.Context, auctionID, requesterID string, input OpenRoundInput) (*models.Round, error) {
	auction, err := s.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, repositories.ErrAuctionNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	if err := s.requireModerator(ctx, auction, requesterID); err != nil {
		return nil, err
	}
	if auction.Status != models.AuctionStatusLive {
		return nil, ErrAuctionNotLive
	}

	// Closing any prior open round for this player keeps the at-most-one
	// OPEN round per (auction, player) convention.
	if _, err := s.roundRepo.CloseOpenForPlayer(ctx, auctionID, input.PlayerID); err != nil {
		return nil, fmt.Errorf("failed to close prior open rounds: %w", err)
	}

	round := &models.Round{
		ID:        uuid.NewString(),
		AuctionID: auctionID,
		PlayerID:  input.PlayerID,
		TierID:    input.TierID,
		Status:    models.RoundStatusOpen,
	}
	if err := s.roundRepo.Create(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to open round: %w", err)
	}
	return round, nil
}

func (s *bidService) CloseRound(ctx context.Context, auctionID, roundID, requesterID string) error {
	auction, err := s.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, repositories.ErrAuctionNotFound) {
			return ErrAuctionNotFound
		}
		return err
	}
	if err := s.requireModerator(ctx, auction, requesterID); err != nil {
		return err
	}

	round, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return ErrRoundNotFound
		}
		return err
	}
	if round.AuctionID != auctionID {
		return ErrRoundNotFound
	}

	if err := s.roundRepo.Close(ctx, roundID); err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return ErrRoundNotFound
		}
		return err
	}
	return nil
}

func (s *bidService) requireModerator(ctx context.Context, auction *models.Auction, userID string) error {
	if auction.OwnerID == userID {
		return nil
	}
	member, err := s.membershipRepo.GetAuctionMember(ctx, auction.ID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAuctionMemberNotFound) {
			return ErrModeratorActionForbidden
		}
		return err
	}
	if member.Role != models.AuctionRoleModerator {
		return ErrModeratorActionForbidden
	}
	return nil
}
