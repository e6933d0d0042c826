package services

import (
	"context"
	"errors"
	"testing"

	"github.com/bidround/auction-system/models"
	"github.com/bidround/auction-system/repositories"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
)

func teamFixture() *models.Team {
	return &models.Team{
		ID:        "team-1",
		AuctionID: "auction-1",
		Name:      "Falcons",
		CaptainID: "captain-1",
		Budget:    decimal.NewFromInt(500),
	}
}

func TestCreateTeam_OnlyOwner(t *testing.T) {
	auctionRepo := &mockAuctionRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Auction, error) {
			return liveAuction(id), nil
		},
	}
	svc := NewTeamService(&mockTeamRepo{}, auctionRepo, nil)

	_, err := svc.CreateTeam(context.Background(), "auction-1", "not-the-owner", CreateTeamInput{
		Name:      "Falcons",
		CaptainID: "captain-1",
		Budget:    decimal.NewFromInt(500),
	})
	check.True(t, errors.Is(err, ErrOwnerActionForbidden))
}

func TestCreateTeam_AddsCaptainMemberRow(t *testing.T) {
	auctionRepo := &mockAuctionRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Auction, error) {
			return liveAuction(id), nil
		},
	}
	var addedMember *models.TeamMember
	teamRepo := &mockTeamRepo{
		addMemberFn: func(ctx context.Context, member *models.TeamMember) error {
			addedMember = member
			return nil
		},
	}
	svc := NewTeamService(teamRepo, auctionRepo, nil)

	team, err := svc.CreateTeam(context.Background(), "auction-1", "owner-1", CreateTeamInput{
		Name:      "Falcons",
		CaptainID: "captain-1",
		Budget:    decimal.NewFromInt(500),
	})
	assert.NoError(t, err)
	check.True(t, team.OriginalBudget.Equal(decimal.NewFromInt(500)))
	assert.NotNil(t, addedMember)
	check.Equal(t, "captain-1", addedMember.UserID)
	check.Equal(t, models.TeamRoleCaptain, addedMember.Role)
}

func TestChangeCaptain_CandidateMustBeMember(t *testing.T) {
	auctionRepo := &mockAuctionRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Auction, error) {
			return liveAuction(id), nil
		},
	}
	teamRepo := &mockTeamRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Team, error) {
			return teamFixture(), nil
		},
	}
	svc := NewTeamService(teamRepo, auctionRepo, nil)

	_, err := svc.ChangeCaptain(context.Background(), "auction-1", "team-1", "owner-1", ChangeCaptainInput{UserID: "outsider"})
	check.True(t, errors.Is(err, ErrCaptainNotMember))
}

func TestChangeCaptain_RequesterMustBeOwnerOrCaptain(t *testing.T) {
	auctionRepo := &mockAuctionRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Auction, error) {
			return liveAuction(id), nil
		},
	}
	teamRepo := &mockTeamRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Team, error) {
			return teamFixture(), nil
		},
		getMemberFn: func(ctx context.Context, teamID, userID string) (*models.TeamMember, error) {
			return &models.TeamMember{TeamID: teamID, UserID: userID, Role: models.TeamRoleMember}, nil
		},
	}
	svc := NewTeamService(teamRepo, auctionRepo, nil)

	_, err := svc.ChangeCaptain(context.Background(), "auction-1", "team-1", "random-member", ChangeCaptainInput{UserID: "member-2"})
	check.True(t, errors.Is(err, ErrCaptainChangeForbidden))
}

func TestChangeCaptain_PromotesAndDemotes(t *testing.T) {
	auctionRepo := &mockAuctionRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Auction, error) {
			return liveAuction(id), nil
		},
	}

	memberRows := map[string]models.TeamRole{
		"member-2": models.TeamRoleMember,
	}
	var newCaptain string
	var addedMember *models.TeamMember
	teamRepo := &mockTeamRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Team, error) {
			return teamFixture(), nil
		},
		getMemberFn: func(ctx context.Context, teamID, userID string) (*models.TeamMember, error) {
			role, ok := memberRows[userID]
			if !ok {
				return nil, repositories.ErrTeamMemberNotFound
			}
			return &models.TeamMember{TeamID: teamID, UserID: userID, Role: role}, nil
		},
		updateCaptainFn: func(ctx context.Context, teamID, userID string) error {
			newCaptain = userID
			return nil
		},
		updateMemberRoleFn: func(ctx context.Context, teamID, userID string, role models.TeamRole) error {
			memberRows[userID] = role
			return nil
		},
		addMemberFn: func(ctx context.Context, member *models.TeamMember) error {
			addedMember = member
			return nil
		},
	}
	svc := NewTeamService(teamRepo, auctionRepo, nil)

	// The current captain hands the armband to member-2.
	team, err := svc.ChangeCaptain(context.Background(), "auction-1", "team-1", "captain-1", ChangeCaptainInput{UserID: "member-2"})
	assert.NoError(t, err)
	check.Equal(t, "member-2", team.CaptainID)
	check.Equal(t, "member-2", newCaptain)
	check.Equal(t, models.TeamRoleCaptain, memberRows["member-2"])

	// captain-1 had no member row, so a VICE_CAPTAIN one was inserted.
	assert.NotNil(t, addedMember)
	check.Equal(t, "captain-1", addedMember.UserID)
	check.Equal(t, models.TeamRoleViceCaptain, addedMember.Role)
}

func TestChangeCaptain_SameCaptainIsNoOp(t *testing.T) {
	auctionRepo := &mockAuctionRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Auction, error) {
			return liveAuction(id), nil
		},
	}
	updateCalled := false
	teamRepo := &mockTeamRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Team, error) {
			return teamFixture(), nil
		},
		getMemberFn: func(ctx context.Context, teamID, userID string) (*models.TeamMember, error) {
			return &models.TeamMember{TeamID: teamID, UserID: userID, Role: models.TeamRoleCaptain}, nil
		},
		updateCaptainFn: func(ctx context.Context, teamID, userID string) error {
			updateCalled = true
			return nil
		},
	}
	svc := NewTeamService(teamRepo, auctionRepo, nil)

	team, err := svc.ChangeCaptain(context.Background(), "auction-1", "team-1", "captain-1", ChangeCaptainInput{UserID: "captain-1"})
	assert.NoError(t, err)
	check.Equal(t, "captain-1", team.CaptainID)
	check.False(t, updateCalled)
}

func TestGetTeamByID_WrongAuctionIsNotFound(t *testing.T) {
	auctionRepo := &mockAuctionRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Auction, error) {
			return liveAuction(id), nil
		},
	}
	teamRepo := &mockTeamRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Team, error) {
			team := teamFixture()
			team.AuctionID = "different-auction"
			return team, nil
		},
	}
	svc := NewTeamService(teamRepo, auctionRepo, nil)

	_, err := svc.GetTeamByID(context.Background(), "auction-1", "team-1")
	check.True(t, errors.Is(err, ErrTeamNotFound))
}

func TestUploadLogo_SetsPublicURLAndDropsOldObject(t *testing.T) {
	auctionRepo := &mockAuctionRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Auction, error) {
			return liveAuction(id), nil
		},
	}
	oldKey := "teams/team-1/logo-old"
	teamRepo := &mockTeamRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Team, error) {
			team := teamFixture()
			team.LogoKey = &oldKey
			return team, nil
		},
	}
	uploader := &mockUploader{}
	svc := NewTeamService(teamRepo, auctionRepo, uploader)

	team, err := svc.UploadLogo(context.Background(), "auction-1", "team-1", "captain-1", "image/png", nil)
	assert.NoError(t, err)
	assert.NotNil(t, team.LogoURL)
	check.NotEqual(t, "", *team.LogoURL)

	assert.Equal(t, 1, len(uploader.deleted))
	check.Equal(t, oldKey, uploader.deleted[0])
}
