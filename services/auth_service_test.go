package services

import (
	"context"
	"errors"
	"testing"

	"github.com/bidround/auction-system/models"
	"github.com/bidround/auction-system/repositories"
	"github.com/bidround/auction-system/utils"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func TestRegister_PasswordTooShort(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Nickname: "sam",
		Email:    "sam@example.com",
		Password: "short",
	})
	check.True(t, errors.Is(err, ErrPasswordTooShort))
}

func TestRegister_EmailConflict(t *testing.T) {
	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, user *models.User) error {
			return repositories.ErrUserEmailConflict
		},
	}
	svc := NewAuthService(userRepo)

	_, err := svc.Register(context.Background(), RegisterInput{
		Nickname: "sam",
		Email:    "taken@example.com",
		Password: "long-enough-password",
	})
	check.True(t, errors.Is(err, ErrUserEmailConflict))
}

func TestRegister_HashesPassword(t *testing.T) {
	var created *models.User
	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, user *models.User) error {
			created = user
			return nil
		},
	}
	svc := NewAuthService(userRepo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Nickname: "sam",
		Email:    "sam@example.com",
		Password: "long-enough-password",
	})
	assert.NoError(t, err)
	check.Equal(t, models.UserRolePlayer, user.Role)
	assert.NotNil(t, created)
	check.NotEqual(t, "long-enough-password", created.PasswordHash)
	check.True(t, utils.CheckPasswordHash("long-enough-password", created.PasswordHash))
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := utils.HashPassword("the-real-password")
	assert.NoError(t, err)

	userRepo := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user-1", Email: email, PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(userRepo)

	_, err = svc.Login(context.Background(), LoginInput{Email: "sam@example.com", Password: "wrong"})
	check.True(t, errors.Is(err, ErrAuthInvalidCredentials))
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{})

	_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever"})
	// Unknown email and wrong password are indistinguishable to the caller.
	check.True(t, errors.Is(err, ErrAuthInvalidCredentials))
}

func TestLogin_StripsPasswordHash(t *testing.T) {
	hash, err := utils.HashPassword("the-real-password")
	assert.NoError(t, err)

	userRepo := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user-1", Email: email, PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(userRepo)

	user, err := svc.Login(context.Background(), LoginInput{Email: "sam@example.com", Password: "the-real-password"})
	assert.NoError(t, err)
	check.Equal(t, "", user.PasswordHash)
}
