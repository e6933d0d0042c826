package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bidround/auction-system/models"
	"github.com/bidround/auction-system/repositories"
	"github.com/bidround/auction-system/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateTeamInput struct {
	Name      string          `json:"name"`
	CaptainID string          `json:"captain_id"`
	Budget    decimal.Decimal `json:"budget"`
}

type ChangeCaptainInput struct {
	UserID string `json:"user_id"`
}

type TeamService interface {
	CreateTeam(ctx context.Context, auctionID, currentUserID string, input CreateTeamInput) (*models.Team, error)
	GetTeamByID(ctx context.Context, auctionID, teamID string) (*models.Team, error)
	ListTeams(ctx context.Context, auctionID string) ([]models.Team, error)
	ListMembers(ctx context.Context, auctionID, teamID string) ([]models.TeamMember, error)
	// ChangeCaptain promotes an existing team member to captain. The
	// requester must be the auction owner or the current captain; the
	// demoted captain keeps a roster spot as VICE_CAPTAIN.
	ChangeCaptain(ctx context.Context, auctionID, teamID, requesterID string, input ChangeCaptainInput) (*models.Team, error)
	UploadLogo(ctx context.Context, auctionID, teamID, requesterID, contentType string, file io.Reader) (*models.Team, error)
}

type teamService struct {
	teamRepo    repositories.TeamRepository
	auctionRepo repositories.AuctionRepository
	uploader    storage.FileUploader
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	auctionRepo repositories.AuctionRepository,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		teamRepo:    teamRepo,
		auctionRepo: auctionRepo,
		uploader:    uploader,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, auctionID, currentUserID string, input CreateTeamInput) (*models.Team, error) {
	auction, err := s.getAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if auction.OwnerID != currentUserID {
		return nil, ErrOwnerActionForbidden
	}
	if input.Budget.IsNegative() {
		return nil, ErrValidationFailed
	}

	team := &models.Team{
		ID:             uuid.NewString(),
		AuctionID:      auctionID,
		Name:           input.Name,
		CaptainID:      input.CaptainID,
		Budget:         input.Budget,
		OriginalBudget: input.Budget,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	// The captain gets a member row up front so roster listings include them.
	member := &models.TeamMember{
		ID:     uuid.NewString(),
		TeamID: team.ID,
		UserID: input.CaptainID,
		Role:   models.TeamRoleCaptain,
	}
	if err := s.teamRepo.AddMember(ctx, member); err != nil && !errors.Is(err, repositories.ErrTeamMemberConflict) {
		return nil, fmt.Errorf("failed to add captain member row: %w", err)
	}

	return s.withLogoURL(team), nil
}

func (s *teamService) GetTeamByID(ctx context.Context, auctionID, teamID string) (*models.Team, error) {
	team, err := s.getTeamInAuction(ctx, auctionID, teamID)
	if err != nil {
		return nil, err
	}
	members, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	team.Members = members
	return s.withLogoURL(team), nil
}

func (s *teamService) ListTeams(ctx context.Context, auctionID string) ([]models.Team, error) {
	if _, err := s.getAuction(ctx, auctionID); err != nil {
		return nil, err
	}
	teams, err := s.teamRepo.ListByAuctionID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		s.withLogoURL(&teams[i])
	}
	return teams, nil
}

func (s *teamService) ListMembers(ctx context.Context, auctionID, teamID string) ([]models.TeamMember, error) {
	if _, err := s.getTeamInAuction(ctx, auctionID, teamID); err != nil {
		return nil, err
	}
	return s.teamRepo.ListMembers(ctx, teamID)
}

func (s *teamService) ChangeCaptain(ctx context.Context, auctionID, teamID, requesterID string, input ChangeCaptainInput) (*models.Team, error) {
	auction, err := s.getAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	team, err := s.getTeamInAuction(ctx, auctionID, teamID)
	if err != nil {
		return nil, err
	}

	if requesterID != auction.OwnerID && requesterID != team.CaptainID {
		return nil, ErrCaptainChangeForbidden
	}

	if _, err := s.teamRepo.GetMember(ctx, teamID, input.UserID); err != nil {
		if errors.Is(err, repositories.ErrTeamMemberNotFound) {
			return nil, ErrCaptainNotMember
		}
		return nil, err
	}

	previousCaptainID := team.CaptainID
	if previousCaptainID == input.UserID {
		return s.withLogoURL(team), nil
	}

	if err := s.teamRepo.UpdateCaptain(ctx, teamID, input.UserID); err != nil {
		return nil, fmt.Errorf("failed to update captain: %w", err)
	}
	if err := s.teamRepo.UpdateMemberRole(ctx, teamID, input.UserID, models.TeamRoleCaptain); err != nil {
		return nil, fmt.Errorf("failed to update new captain's member role: %w", err)
	}

	// Keep the demoted captain on the roster: insert a VICE_CAPTAIN row if
	// they have no member row of their own.
	_, err = s.teamRepo.GetMember(ctx, teamID, previousCaptainID)
	if errors.Is(err, repositories.ErrTeamMemberNotFound) {
		member := &models.TeamMember{
			ID:     uuid.NewString(),
			TeamID: teamID,
			UserID: previousCaptainID,
			Role:   models.TeamRoleViceCaptain,
		}
		if addErr := s.teamRepo.AddMember(ctx, member); addErr != nil && !errors.Is(addErr, repositories.ErrTeamMemberConflict) {
			return nil, fmt.Errorf("failed to keep previous captain on roster: %w", addErr)
		}
	} else if err != nil {
		return nil, err
	}

	team.CaptainID = input.UserID
	return s.withLogoURL(team), nil
}

func (s *teamService) UploadLogo(ctx context.Context, auctionID, teamID, requesterID, contentType string, file io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, errors.New("logo uploads are not configured")
	}
	auction, err := s.getAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	team, err := s.getTeamInAuction(ctx, auctionID, teamID)
	if err != nil {
		return nil, err
	}
	if requesterID != auction.OwnerID && requesterID != team.CaptainID {
		return nil, ErrForbiddenOperation
	}

	key := fmt.Sprintf("teams/%s/logo-%s", teamID, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to store logo key: %w", err)
	}
	if team.LogoKey != nil && *team.LogoKey != result.Key {
		// Old object is garbage now; removal failure is not worth failing
		// the upload for.
		_ = s.uploader.Delete(ctx, *team.LogoKey)
	}

	team.LogoKey = &result.Key
	return s.withLogoURL(team), nil
}

func (s *teamService) getAuction(ctx context.Context, auctionID string) (*models.Auction, error) {
	auction, err := s.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, repositories.ErrAuctionNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	return auction, nil
}

func (s *teamService) getTeamInAuction(ctx context.Context, auctionID, teamID string) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	if team.AuctionID != auctionID {
		return nil, ErrTeamNotFound
	}
	return team, nil
}

func (s *teamService) withLogoURL(team *models.Team) *models.Team {
	if s.uploader != nil && team.LogoKey != nil {
		url := s.uploader.GetPublicURL(*team.LogoKey)
		if url != "" {
			team.LogoURL = &url
		}
	}
	return team
}
