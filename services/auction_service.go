package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bidround/auction-system/cache"
	"github.com/bidround/auction-system/live"
	"github.com/bidround/auction-system/models"
	"github.com/bidround/auction-system/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateAuctionInput struct {
	Name        string             `json:"name"`
	LeagueID    string             `json:"league_id"`
	BiddingType models.BiddingType `json:"bidding_type"`
}

type UpdateAuctionInput struct {
	Name        *string               `json:"name"`
	Status      *models.AuctionStatus `json:"status"`
	BiddingType *models.BiddingType   `json:"bidding_type"`
}

// ReplaceStateInput mirrors the state PUT body. Fields left out of the body
// keep their stored value; a present queue_state replaces the blob wholesale.
type ReplaceStateInput struct {
	Status     *models.AuctionStatus `json:"status"`
	QueueState json.RawMessage       `json:"queue_state"`
}

// StateDocument is the GET /state response: the auction's status and its
// queue_state exactly as last written.
type StateDocument struct {
	Status     models.AuctionStatus `json:"status"`
	QueueState json.RawMessage      `json:"queue_state"`
}

type SaleInput struct {
	PlayerID string          `json:"player_id"`
	TeamID   string          `json:"team_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// SaleOutcome reports a recorded sale. BidMarked is false when the secondary
// winning-bid update was skipped or failed; the sale itself still stands.
type SaleOutcome struct {
	Result    *models.AuctionResult `json:"result"`
	BidMarked bool                  `json:"bid_marked"`
}

type AuctionService interface {
	CreateAuction(ctx context.Context, ownerID string, input CreateAuctionInput) (*models.Auction, error)
	GetAuctionByID(ctx context.Context, id string) (*models.Auction, error)
	ListAuctions(ctx context.Context, limit, offset int) ([]models.Auction, error)
	UpdateAuction(ctx context.Context, id string, input UpdateAuctionInput, currentUserID string) (*models.Auction, error)

	GetState(ctx context.Context, auctionID string) (*StateDocument, error)
	ReplaceState(ctx context.Context, auctionID string, input ReplaceStateInput) (*StateDocument, error)

	RecordSale(ctx context.Context, auctionID string, input SaleInput) (*SaleOutcome, error)
	ListResults(ctx context.Context, auctionID string) ([]models.AuctionResult, error)
}

// OpRecorder receives store operation timings; *metrics.Tracker satisfies it.
type OpRecorder interface {
	RecordStoreOp(op string, duration time.Duration, err error)
}

type auctionService struct {
	auctionRepo repositories.AuctionRepository
	resultRepo  repositories.ResultRepository
	roundRepo   repositories.RoundRepository
	bidRepo     repositories.BidRepository
	teamRepo    repositories.TeamRepository
	stateCache  *cache.StateCache
	hub         Broadcaster
	recorder    OpRecorder
	logger      *slog.Logger
}

func NewAuctionService(
	auctionRepo repositories.AuctionRepository,
	resultRepo repositories.ResultRepository,
	roundRepo repositories.RoundRepository,
	bidRepo repositories.BidRepository,
	teamRepo repositories.TeamRepository,
	stateCache *cache.StateCache,
	hub Broadcaster,
	recorder OpRecorder,
	logger *slog.Logger,
) AuctionService {
	return &auctionService{
		auctionRepo: auctionRepo,
		resultRepo:  resultRepo,
		roundRepo:   roundRepo,
		bidRepo:     bidRepo,
		teamRepo:    teamRepo,
		stateCache:  stateCache,
		hub:         hub,
		recorder:    recorder,
		logger:      logger,
	}
}

func (s *auctionService) CreateAuction(ctx context.Context, ownerID string, input CreateAuctionInput) (*models.Auction, error) {
	if input.BiddingType == "" {
		input.BiddingType = models.BiddingTypeSealed
	}
	if !input.BiddingType.Valid() {
		return nil, ErrBiddingTypeInvalid
	}

	auction := &models.Auction{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		LeagueID:    input.LeagueID,
		Name:        input.Name,
		Status:      models.AuctionStatusDraft,
		BiddingType: input.BiddingType,
	}
	if err := s.auctionRepo.Create(ctx, auction); err != nil {
		return nil, fmt.Errorf("failed to create auction: %w", err)
	}
	return auction, nil
}

func (s *auctionService) GetAuctionByID(ctx context.Context, id string) (*models.Auction, error) {
	auction, err := s.auctionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrAuctionNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	return auction, nil
}

func (s *auctionService) ListAuctions(ctx context.Context, limit, offset int) ([]models.Auction, error) {
	return s.auctionRepo.List(ctx, limit, offset)
}

func (s *auctionService) UpdateAuction(ctx context.Context, id string, input UpdateAuctionInput, currentUserID string) (*models.Auction, error) {
	auction, err := s.GetAuctionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if auction.OwnerID != currentUserID {
		return nil, ErrOwnerActionForbidden
	}

	if input.Name != nil {
		auction.Name = *input.Name
	}
	if input.BiddingType != nil {
		if !input.BiddingType.Valid() {
			return nil, ErrBiddingTypeInvalid
		}
		auction.BiddingType = *input.BiddingType
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrAuctionInvalidStatus
		}
		if !validStatusTransition(auction.Status, *input.Status) {
			return nil, ErrAuctionInvalidTransition
		}
		auction.Status = *input.Status
	}

	if err := s.auctionRepo.Update(ctx, auction); err != nil {
		if errors.Is(err, repositories.ErrAuctionNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, fmt.Errorf("failed to update auction %s: %w", id, err)
	}
	if cacheErr := s.stateCache.Invalidate(ctx, id); cacheErr != nil {
		s.logger.Warn("failed to invalidate state cache",
			slog.String("auction_id", id), slog.Any("error", cacheErr))
	}
	return auction, nil
}

func validStatusTransition(from, to models.AuctionStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case models.AuctionStatusDraft:
		return to == models.AuctionStatusLive
	case models.AuctionStatusLive:
		return to == models.AuctionStatusComplete
	}
	return false
}

func (s *auctionService) GetState(ctx context.Context, auctionID string) (*StateDocument, error) {
	if payload, ok := s.stateCache.Get(ctx, auctionID); ok {
		doc := &StateDocument{}
		if err := json.Unmarshal(payload, doc); err == nil {
			return doc, nil
		}
		// Unreadable cache entry; fall through to the store.
	}

	auction, err := s.GetAuctionByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	doc := &StateDocument{Status: auction.Status, QueueState: auction.QueueState}
	if payload, marshalErr := json.Marshal(doc); marshalErr == nil {
		s.stateCache.Set(ctx, auctionID, payload)
	}
	return doc, nil
}

// ReplaceState overwrites status and/or queue_state with whatever the caller
// supplied. Last writer wins; the blob is never merged or validated.
func (s *auctionService) ReplaceState(ctx context.Context, auctionID string, input ReplaceStateInput) (*StateDocument, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrAuctionInvalidStatus
	}

	update := repositories.StateUpdate{Status: input.Status, QueueState: input.QueueState}
	if err := s.auctionRepo.UpdateState(ctx, auctionID, update); err != nil {
		if errors.Is(err, repositories.ErrAuctionNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, fmt.Errorf("failed to replace state for auction %s: %w", auctionID, err)
	}

	if cacheErr := s.stateCache.Invalidate(ctx, auctionID); cacheErr != nil {
		s.logger.Warn("failed to invalidate state cache",
			slog.String("auction_id", auctionID), slog.Any("error", cacheErr))
	}

	auction, err := s.GetAuctionByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	doc := &StateDocument{Status: auction.Status, QueueState: auction.QueueState}

	if s.hub != nil {
		s.hub.BroadcastToRoom(auctionID, live.Event{
			Type:      live.EventStateUpdated,
			AuctionID: auctionID,
			Payload:   doc,
		})
	}
	return doc, nil
}

// RecordSale upserts the auction result for (auction, player) and then makes
// a best-effort attempt to mark the matching bid in the open round as the
// winning bid. The secondary step is not atomic with the upsert: when it
// fails or nothing matches, the sale still stands and BidMarked is false.
func (s *auctionService) RecordSale(ctx context.Context, auctionID string, input SaleInput) (*SaleOutcome, error) {
	auction, err := s.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, repositories.ErrAuctionNotFound) {
			return nil, ErrAuctionNotLive
		}
		return nil, err
	}
	if auction.Status != models.AuctionStatusLive {
		return nil, ErrAuctionNotLive
	}
	if input.PlayerID == "" {
		return nil, ErrSalePlayerRequired
	}
	if input.TeamID == "" {
		return nil, ErrSaleTeamRequired
	}
	if !input.Amount.IsPositive() {
		return nil, ErrSaleAmountInvalid
	}

	// Previous result, if any, so the old winner's budget can be credited
	// back on a re-recorded sale.
	prior, err := s.resultRepo.GetByAuctionAndPlayer(ctx, auctionID, input.PlayerID)
	if err != nil && !errors.Is(err, repositories.ErrResultNotFound) {
		return nil, fmt.Errorf("failed to look up prior result: %w", err)
	}

	result := &models.AuctionResult{
		ID:        uuid.NewString(),
		AuctionID: auctionID,
		PlayerID:  input.PlayerID,
		TeamID:    input.TeamID,
		Amount:    input.Amount,
		SoldAt:    time.Now().UTC(),
	}

	start := time.Now()
	err = s.resultRepo.Upsert(ctx, result)
	s.recordOp("result.upsert", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}

	s.settleBudgets(ctx, prior, result)
	marked := s.markWinningBid(ctx, auctionID, input)

	if s.hub != nil {
		s.hub.BroadcastToRoom(auctionID, live.Event{
			Type:      live.EventPlayerSold,
			AuctionID: auctionID,
			Payload:   result,
		})
	}

	return &SaleOutcome{Result: result, BidMarked: marked}, nil
}

// settleBudgets debits the buying team and, on a re-recorded sale, credits
// the previously recorded winner. Both updates are best effort: a failure is
// logged and accepted as drift, never surfaced to the caller.
func (s *auctionService) settleBudgets(ctx context.Context, prior, current *models.AuctionResult) {
	if prior != nil {
		if err := s.teamRepo.AdjustBudget(ctx, prior.TeamID, prior.Amount); err != nil {
			s.logger.Warn("failed to credit previous winning team",
				slog.String("team_id", prior.TeamID), slog.Any("error", err))
		}
	}
	if err := s.teamRepo.AdjustBudget(ctx, current.TeamID, current.Amount.Neg()); err != nil {
		s.logger.Warn("failed to debit winning team",
			slog.String("team_id", current.TeamID), slog.Any("error", err))
	}
}

func (s *auctionService) markWinningBid(ctx context.Context, auctionID string, input SaleInput) bool {
	round, err := s.roundRepo.GetOpenByAuctionAndPlayer(ctx, auctionID, input.PlayerID)
	if err != nil {
		if !errors.Is(err, repositories.ErrRoundNotFound) {
			s.logger.Warn("failed to look up open round for sale",
				slog.String("auction_id", auctionID),
				slog.String("player_id", input.PlayerID),
				slog.Any("error", err))
		}
		return false
	}

	start := time.Now()
	err = s.bidRepo.MarkWinning(ctx, round.ID, input.TeamID, input.PlayerID)
	s.recordOp("bid.mark_winning", start, err)
	if err != nil {
		if !errors.Is(err, repositories.ErrBidNotFound) {
			s.logger.Warn("failed to mark winning bid",
				slog.String("round_id", round.ID),
				slog.String("team_id", input.TeamID),
				slog.Any("error", err))
		}
		return false
	}
	return true
}

func (s *auctionService) ListResults(ctx context.Context, auctionID string) ([]models.AuctionResult, error) {
	if _, err := s.GetAuctionByID(ctx, auctionID); err != nil {
		return nil, err
	}
	return s.resultRepo.ListByAuctionID(ctx, auctionID)
}

func (s *auctionService) recordOp(op string, start time.Time, err error) {
	if s.recorder != nil {
		s.recorder.RecordStoreOp(op, time.Since(start), err)
	}
}
