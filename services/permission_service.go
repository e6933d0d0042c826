package services

import (
	"context"
	"errors"

	"github.com/bidround/auction-system/models"
	"github.com/bidround/auction-system/repositories"
	"github.com/google/uuid"
)

type JoinAuctionInput struct {
	Role models.AuctionRole `json:"role"`
}

// PermissionService is the single capability evaluator every route consults;
// per-route authorization checks are not duplicated elsewhere.
type PermissionService interface {
	// Resolve computes the capability set for a (user, auction) pair from
	// ownership, direct auction membership, team captaincy, and league
	// ancestry.
	Resolve(ctx context.Context, auctionID, userID string) (*models.PermissionSet, error)
	// Join adds the user to the auction with the requested role. League
	// membership is required no matter how open the auction is.
	Join(ctx context.Context, auctionID, userID string, input JoinAuctionInput) (*models.AuctionMember, error)
}

type permissionService struct {
	auctionRepo    repositories.AuctionRepository
	membershipRepo repositories.MembershipRepository
}

func NewPermissionService(
	auctionRepo repositories.AuctionRepository,
	membershipRepo repositories.MembershipRepository,
) PermissionService {
	return &permissionService{
		auctionRepo:    auctionRepo,
		membershipRepo: membershipRepo,
	}
}

func (s *permissionService) Resolve(ctx context.Context, auctionID, userID string) (*models.PermissionSet, error) {
	auction, err := s.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, repositories.ErrAuctionNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}

	leagueMember, err := s.membershipRepo.IsLeagueMember(ctx, auction.LeagueID, userID)
	if err != nil {
		return nil, err
	}

	role, err := s.strongestRole(ctx, auction, userID)
	if err != nil {
		return nil, err
	}

	return &models.PermissionSet{
		CanView:     role != "" || leagueMember,
		CanJoin:     leagueMember && role == "",
		CanModerate: role == models.PermissionRoleOwner || role == models.PermissionRoleModerator,
		CanManage:   role == models.PermissionRoleOwner,
		Role:        role,
	}, nil
}

// strongestRole resolves the user's most privileged relationship to the
// auction: OWNER > MODERATOR > CAPTAIN > VIEWER > none.
func (s *permissionService) strongestRole(ctx context.Context, auction *models.Auction, userID string) (string, error) {
	if auction.OwnerID == userID {
		return models.PermissionRoleOwner, nil
	}

	member, err := s.membershipRepo.GetAuctionMember(ctx, auction.ID, userID)
	if err != nil && !errors.Is(err, repositories.ErrAuctionMemberNotFound) {
		return "", err
	}
	if member != nil && member.Role == models.AuctionRoleModerator {
		return models.PermissionRoleModerator, nil
	}

	captain, err := s.membershipRepo.IsTeamCaptain(ctx, auction.ID, userID)
	if err != nil {
		return "", err
	}
	if captain {
		return models.PermissionRoleCaptain, nil
	}

	if member != nil {
		return models.PermissionRoleViewer, nil
	}
	return "", nil
}

func (s *permissionService) Join(ctx context.Context, auctionID, userID string, input JoinAuctionInput) (*models.AuctionMember, error) {
	auction, err := s.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, repositories.ErrAuctionNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}

	// Non-league users are rejected regardless of auction visibility.
	leagueMember, err := s.membershipRepo.IsLeagueMember(ctx, auction.LeagueID, userID)
	if err != nil {
		return nil, err
	}
	if !leagueMember {
		return nil, ErrJoinRequiresLeague
	}

	role := input.Role
	if role == "" {
		role = models.AuctionRoleViewer
	}
	if role != models.AuctionRoleViewer && role != models.AuctionRoleModerator {
		return nil, ErrValidationFailed
	}
	// Self-service joins only grant VIEWER; a moderator seat is handed out
	// by the owner.
	if role == models.AuctionRoleModerator && auction.OwnerID != userID {
		return nil, ErrForbiddenOperation
	}

	member := &models.AuctionMember{
		ID:        uuid.NewString(),
		AuctionID: auctionID,
		UserID:    userID,
		Role:      role,
	}
	if err := s.membershipRepo.AddAuctionMember(ctx, member); err != nil {
		if errors.Is(err, repositories.ErrAuctionNotFound) {
			return nil, ErrAuctionNotFound
		}
		return nil, err
	}
	return member, nil
}
