package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/bidround/auction-system/models"
	"github.com/bidround/auction-system/repositories"
	"github.com/bidround/auction-system/storage"
	"github.com/shopspring/decimal"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockAuctionRepo and friends are function-field fakes: tests set only the
// methods a scenario touches.
type mockAuctionRepo struct {
	createFn      func(ctx context.Context, auction *models.Auction) error
	getByIDFn     func(ctx context.Context, id string) (*models.Auction, error)
	listFn        func(ctx context.Context, limit, offset int) ([]models.Auction, error)
	updateFn      func(ctx context.Context, auction *models.Auction) error
	updateStateFn func(ctx context.Context, id string, update repositories.StateUpdate) error
}

func (m *mockAuctionRepo) Create(ctx context.Context, auction *models.Auction) error {
	if m.createFn != nil {
		return m.createFn(ctx, auction)
	}
	return nil
}

func (m *mockAuctionRepo) GetByID(ctx context.Context, id string) (*models.Auction, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrAuctionNotFound
}

func (m *mockAuctionRepo) List(ctx context.Context, limit, offset int) ([]models.Auction, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockAuctionRepo) Update(ctx context.Context, auction *models.Auction) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, auction)
	}
	return nil
}

func (m *mockAuctionRepo) UpdateState(ctx context.Context, id string, update repositories.StateUpdate) error {
	if m.updateStateFn != nil {
		return m.updateStateFn(ctx, id, update)
	}
	return nil
}

type mockResultRepo struct {
	upsertFn                func(ctx context.Context, result *models.AuctionResult) error
	getByAuctionAndPlayerFn func(ctx context.Context, auctionID, playerID string) (*models.AuctionResult, error)
	listByAuctionIDFn       func(ctx context.Context, auctionID string) ([]models.AuctionResult, error)
}

func (m *mockResultRepo) Upsert(ctx context.Context, result *models.AuctionResult) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, result)
	}
	return nil
}

func (m *mockResultRepo) GetByAuctionAndPlayer(ctx context.Context, auctionID, playerID string) (*models.AuctionResult, error) {
	if m.getByAuctionAndPlayerFn != nil {
		return m.getByAuctionAndPlayerFn(ctx, auctionID, playerID)
	}
	return nil, repositories.ErrResultNotFound
}

func (m *mockResultRepo) ListByAuctionID(ctx context.Context, auctionID string) ([]models.AuctionResult, error) {
	if m.listByAuctionIDFn != nil {
		return m.listByAuctionIDFn(ctx, auctionID)
	}
	return nil, nil
}

type mockRoundRepo struct {
	createFn                  func(ctx context.Context, round *models.Round) error
	getByIDFn                 func(ctx context.Context, id string) (*models.Round, error)
	getLatestOpenByAuctionFn  func(ctx context.Context, auctionID string) (*models.Round, error)
	getOpenByAuctionAndPlayer func(ctx context.Context, auctionID, playerID string) (*models.Round, error)
	closeFn                   func(ctx context.Context, roundID string) error
	closeOpenForPlayerFn      func(ctx context.Context, auctionID, playerID string) (int64, error)
}

func (m *mockRoundRepo) Create(ctx context.Context, round *models.Round) error {
	if m.createFn != nil {
		return m.createFn(ctx, round)
	}
	return nil
}

func (m *mockRoundRepo) GetByID(ctx context.Context, id string) (*models.Round, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrRoundNotFound
}

func (m *mockRoundRepo) GetLatestOpenByAuction(ctx context.Context, auctionID string) (*models.Round, error) {
	if m.getLatestOpenByAuctionFn != nil {
		return m.getLatestOpenByAuctionFn(ctx, auctionID)
	}
	return nil, repositories.ErrRoundNotFound
}

func (m *mockRoundRepo) GetOpenByAuctionAndPlayer(ctx context.Context, auctionID, playerID string) (*models.Round, error) {
	if m.getOpenByAuctionAndPlayer != nil {
		return m.getOpenByAuctionAndPlayer(ctx, auctionID, playerID)
	}
	return nil, repositories.ErrRoundNotFound
}

func (m *mockRoundRepo) Close(ctx context.Context, roundID string) error {
	if m.closeFn != nil {
		return m.closeFn(ctx, roundID)
	}
	return nil
}

func (m *mockRoundRepo) CloseOpenForPlayer(ctx context.Context, auctionID, playerID string) (int64, error) {
	if m.closeOpenForPlayerFn != nil {
		return m.closeOpenForPlayerFn(ctx, auctionID, playerID)
	}
	return 0, nil
}

type mockBidRepo struct {
	createFn        func(ctx context.Context, bid *models.Bid) error
	listByRoundIDFn func(ctx context.Context, roundID string, order repositories.BidOrder) ([]models.BidWithTeam, error)
	markWinningFn   func(ctx context.Context, roundID, teamID, playerID string) error
}

func (m *mockBidRepo) Create(ctx context.Context, bid *models.Bid) error {
	if m.createFn != nil {
		return m.createFn(ctx, bid)
	}
	return nil
}

func (m *mockBidRepo) ListByRoundID(ctx context.Context, roundID string, order repositories.BidOrder) ([]models.BidWithTeam, error) {
	if m.listByRoundIDFn != nil {
		return m.listByRoundIDFn(ctx, roundID, order)
	}
	return nil, nil
}

func (m *mockBidRepo) MarkWinning(ctx context.Context, roundID, teamID, playerID string) error {
	if m.markWinningFn != nil {
		return m.markWinningFn(ctx, roundID, teamID, playerID)
	}
	return nil
}

type mockTeamRepo struct {
	createFn            func(ctx context.Context, team *models.Team) error
	getByIDFn           func(ctx context.Context, id string) (*models.Team, error)
	getByAuctionAndUser func(ctx context.Context, auctionID, userID string) (*models.Team, error)
	listByAuctionIDFn   func(ctx context.Context, auctionID string) ([]models.Team, error)
	updateCaptainFn     func(ctx context.Context, teamID, userID string) error
	updateLogoKeyFn     func(ctx context.Context, teamID string, logoKey *string) error
	adjustBudgetFn      func(ctx context.Context, teamID string, delta decimal.Decimal) error
	getMemberFn         func(ctx context.Context, teamID, userID string) (*models.TeamMember, error)
	addMemberFn         func(ctx context.Context, member *models.TeamMember) error
	updateMemberRoleFn  func(ctx context.Context, teamID, userID string, role models.TeamRole) error
	listMembersFn       func(ctx context.Context, teamID string) ([]models.TeamMember, error)
}

func (m *mockTeamRepo) Create(ctx context.Context, team *models.Team) error {
	if m.createFn != nil {
		return m.createFn(ctx, team)
	}
	return nil
}

func (m *mockTeamRepo) GetByID(ctx context.Context, id string) (*models.Team, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrTeamNotFound
}

func (m *mockTeamRepo) GetByAuctionAndUser(ctx context.Context, auctionID, userID string) (*models.Team, error) {
	if m.getByAuctionAndUser != nil {
		return m.getByAuctionAndUser(ctx, auctionID, userID)
	}
	return nil, repositories.ErrTeamNotFound
}

func (m *mockTeamRepo) ListByAuctionID(ctx context.Context, auctionID string) ([]models.Team, error) {
	if m.listByAuctionIDFn != nil {
		return m.listByAuctionIDFn(ctx, auctionID)
	}
	return nil, nil
}

func (m *mockTeamRepo) UpdateCaptain(ctx context.Context, teamID, userID string) error {
	if m.updateCaptainFn != nil {
		return m.updateCaptainFn(ctx, teamID, userID)
	}
	return nil
}

func (m *mockTeamRepo) UpdateLogoKey(ctx context.Context, teamID string, logoKey *string) error {
	if m.updateLogoKeyFn != nil {
		return m.updateLogoKeyFn(ctx, teamID, logoKey)
	}
	return nil
}

func (m *mockTeamRepo) AdjustBudget(ctx context.Context, teamID string, delta decimal.Decimal) error {
	if m.adjustBudgetFn != nil {
		return m.adjustBudgetFn(ctx, teamID, delta)
	}
	return nil
}

func (m *mockTeamRepo) GetMember(ctx context.Context, teamID, userID string) (*models.TeamMember, error) {
	if m.getMemberFn != nil {
		return m.getMemberFn(ctx, teamID, userID)
	}
	return nil, repositories.ErrTeamMemberNotFound
}

func (m *mockTeamRepo) AddMember(ctx context.Context, member *models.TeamMember) error {
	if m.addMemberFn != nil {
		return m.addMemberFn(ctx, member)
	}
	return nil
}

func (m *mockTeamRepo) UpdateMemberRole(ctx context.Context, teamID, userID string, role models.TeamRole) error {
	if m.updateMemberRoleFn != nil {
		return m.updateMemberRoleFn(ctx, teamID, userID, role)
	}
	return nil
}

func (m *mockTeamRepo) ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	if m.listMembersFn != nil {
		return m.listMembersFn(ctx, teamID)
	}
	return nil, nil
}

type mockMembershipRepo struct {
	getAuctionMemberFn func(ctx context.Context, auctionID, userID string) (*models.AuctionMember, error)
	addAuctionMemberFn func(ctx context.Context, member *models.AuctionMember) error
	isLeagueMemberFn   func(ctx context.Context, leagueID, userID string) (bool, error)
	isTeamCaptainFn    func(ctx context.Context, auctionID, userID string) (bool, error)
}

func (m *mockMembershipRepo) GetAuctionMember(ctx context.Context, auctionID, userID string) (*models.AuctionMember, error) {
	if m.getAuctionMemberFn != nil {
		return m.getAuctionMemberFn(ctx, auctionID, userID)
	}
	return nil, repositories.ErrAuctionMemberNotFound
}

func (m *mockMembershipRepo) AddAuctionMember(ctx context.Context, member *models.AuctionMember) error {
	if m.addAuctionMemberFn != nil {
		return m.addAuctionMemberFn(ctx, member)
	}
	return nil
}

func (m *mockMembershipRepo) IsLeagueMember(ctx context.Context, leagueID, userID string) (bool, error) {
	if m.isLeagueMemberFn != nil {
		return m.isLeagueMemberFn(ctx, leagueID, userID)
	}
	return false, nil
}

func (m *mockMembershipRepo) IsTeamCaptain(ctx context.Context, auctionID, userID string) (bool, error) {
	if m.isTeamCaptainFn != nil {
		return m.isTeamCaptainFn(ctx, auctionID, userID)
	}
	return false, nil
}

type mockClubRepo struct {
	getByIDFn      func(ctx context.Context, id string) (*models.Club, error)
	countMembersFn func(ctx context.Context, clubID string) (int, error)
	isMemberFn     func(ctx context.Context, clubID, userID string) (bool, error)
	addMemberFn    func(ctx context.Context, membership *models.ClubMembership) error
}

func (m *mockClubRepo) GetByID(ctx context.Context, id string) (*models.Club, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrClubNotFound
}

func (m *mockClubRepo) CountMembers(ctx context.Context, clubID string) (int, error) {
	if m.countMembersFn != nil {
		return m.countMembersFn(ctx, clubID)
	}
	return 0, nil
}

func (m *mockClubRepo) IsMember(ctx context.Context, clubID, userID string) (bool, error) {
	if m.isMemberFn != nil {
		return m.isMemberFn(ctx, clubID, userID)
	}
	return false, nil
}

func (m *mockClubRepo) AddMember(ctx context.Context, membership *models.ClubMembership) error {
	if m.addMemberFn != nil {
		return m.addMemberFn(ctx, membership)
	}
	return nil
}

type mockUserRepo struct {
	createFn     func(ctx context.Context, user *models.User) error
	getByIDFn    func(ctx context.Context, id string) (*models.User, error)
	getByEmailFn func(ctx context.Context, email string) (*models.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repositories.ErrUserNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, repositories.ErrUserNotFound
}

// recordingBroadcaster captures broadcast events for assertions.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []broadcast
}

type broadcast struct {
	auctionID string
	event     interface{}
}

func (b *recordingBroadcaster) BroadcastToRoom(auctionID string, event interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcast{auctionID: auctionID, event: event})
}

func (b *recordingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// mockUploader fakes object storage for logo upload tests.
type mockUploader struct {
	uploadFn func(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error)
	deleted  []string
}

func (m *mockUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, key, contentType, reader)
	}
	return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
}

func (m *mockUploader) Delete(ctx context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *mockUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}
