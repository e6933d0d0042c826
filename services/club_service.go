package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bidround/auction-system/models"
	"github.com/bidround/auction-system/repositories"
	"github.com/google/uuid"
)

type ClubService interface {
	// JoinClub adds the user to a public club, respecting the member limit.
	JoinClub(ctx context.Context, clubID, userID string) (*models.ClubMembership, error)
}

type clubService struct {
	clubRepo repositories.ClubRepository
}

func NewClubService(clubRepo repositories.ClubRepository) ClubService {
	return &clubService{clubRepo: clubRepo}
}

func (s *clubService) JoinClub(ctx context.Context, clubID, userID string) (*models.ClubMembership, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	if club.Visibility == models.ClubVisibilityInviteOnly {
		return nil, ErrClubInviteOnly
	}

	count, err := s.clubRepo.CountMembers(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to count club members: %w", err)
	}
	if club.MemberLimit > 0 && count >= club.MemberLimit {
		return nil, ErrClubFull
	}

	membership := &models.ClubMembership{
		ID:     uuid.NewString(),
		ClubID: clubID,
		UserID: userID,
	}
	if err := s.clubRepo.AddMember(ctx, membership); err != nil {
		switch {
		case errors.Is(err, repositories.ErrClubMemberConflict):
			return nil, ErrClubMemberConflict
		case errors.Is(err, repositories.ErrClubNotFound):
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return membership, nil
}
