package services

import (
	"context"
	"log"

	"tabiplan/internal/models/db_models"
	"tabiplan/internal/models/request_models"
	"tabiplan/internal/repositories"
	"tabiplan/pkg/utils"
)

type AccountServiceInterface interface {
	Register(ctx context.Context, request request_models.SignUpRequest) error
	Login(ctx context.Context, request request_models.LoginRequest) (string, error)
}

type AccountService struct {
	accountRepo repositories.AccountRepository
}

func NewAccountService(accountRepo repositories.AccountRepository) AccountServiceInterface {
	return &AccountService{accountRepo: accountRepo}
}

func (s *AccountService) Register(ctx context.Context, request request_models.SignUpRequest) error {
	existing, err := s.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		log.Printf("Error looking up account by email: %v", err)
		return utils.ErrDatabaseError
	}
	if existing != nil {
		return utils.ErrEmailAlreadyExists
	}

	passwordHash, err := utils.HashPassword(request.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return err
	}

	account := &db_models.Account{
		Name:         request.DisplayName,
		Email:        request.Email,
		PasswordHash: passwordHash,
		Role:         db_models.RoleUser,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		log.Printf("Error creating account: %v", err)
		return utils.ErrDatabaseError
	}
	return nil
}

// Login returns a signed JWT carrying the account id and role.
func (s *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (string, error) {
	account, err := s.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		log.Printf("Error looking up account by email: %v", err)
		return "", utils.ErrDatabaseError
	}
	if account == nil {
		return "", utils.ErrAccountNotFound
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return "", utils.ErrInvalidCredentials
	}

	token, err := utils.CreateToken(account.ID, account.Role)
	if err != nil {
		log.Printf("Error signing token: %v", err)
		return "", err
	}
	return token, nil
}
