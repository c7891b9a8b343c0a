package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabiplan/internal/models/db_models"
	"tabiplan/internal/models/request_models"
	"tabiplan/pkg/utils"
)

type fakeAccountRepository struct {
	accounts map[string]*db_models.Account
}

func newFakeAccountRepository() *fakeAccountRepository {
	return &fakeAccountRepository{accounts: map[string]*db_models.Account{}}
}

func (f *fakeAccountRepository) Create(_ context.Context, account *db_models.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	f.accounts[account.Email] = account
	return nil
}

func (f *fakeAccountRepository) FindByEmail(_ context.Context, email string) (*db_models.Account, error) {
	account, ok := f.accounts[email]
	if !ok {
		return nil, nil
	}
	return account, nil
}

func TestRegisterAndLoginIssuesToken(t *testing.T) {
	repo := newFakeAccountRepository()
	service := NewAccountService(repo)

	err := service.Register(context.Background(), request_models.SignUpRequest{
		DisplayName: "Hanako",
		Email:       "hanako@example.com",
		Password:    "correct-horse",
	})
	require.NoError(t, err)

	stored := repo.accounts["hanako@example.com"]
	require.NotNil(t, stored)
	assert.Equal(t, db_models.RoleUser, stored.Role)
	assert.NotEqual(t, "correct-horse", stored.PasswordHash)
	assert.NoError(t, utils.ComparePasswords(stored.PasswordHash, "correct-horse"))

	token, err := service.Login(context.Background(), request_models.LoginRequest{
		Email:    "hanako@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := utils.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID.String(), claims.UserID)
	assert.Equal(t, db_models.RoleUser, claims.Role)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeAccountRepository()
	service := NewAccountService(repo)

	req := request_models.SignUpRequest{
		DisplayName: "Hanako",
		Email:       "hanako@example.com",
		Password:    "correct-horse",
	}
	require.NoError(t, service.Register(context.Background(), req))

	err := service.Register(context.Background(), req)
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newFakeAccountRepository()
	service := NewAccountService(repo)

	require.NoError(t, service.Register(context.Background(), request_models.SignUpRequest{
		DisplayName: "Hanako",
		Email:       "hanako@example.com",
		Password:    "correct-horse",
	}))

	_, err := service.Login(context.Background(), request_models.LoginRequest{
		Email:    "hanako@example.com",
		Password: "wrong-horse",
	})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	service := NewAccountService(newFakeAccountRepository())

	_, err := service.Login(context.Background(), request_models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, utils.ErrAccountNotFound)
}
