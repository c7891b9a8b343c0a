package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"tabiplan/internal/models/db_models"
	"tabiplan/internal/repositories"
	"tabiplan/pkg/utils"
)

const apiKeyPrefixLength = 8

type ApiKeyServiceInterface interface {
	CreateKey(ctx context.Context, name string, planLimitPerDay int) (string, error)
	VerifyKey(ctx context.Context, rawKey string) (string, error)
	RecordGeneration(ctx context.Context, keyID string) error
}

type ApiKeyService struct {
	repo repositories.ApiKeyRepository
}

func NewApiKeyService(repo repositories.ApiKeyRepository) ApiKeyServiceInterface {
	return &ApiKeyService{repo: repo}
}

// CreateKey mints a new agent key and returns the raw secret. The secret is
// never stored and cannot be recovered afterwards.
func (s *ApiKeyService) CreateKey(ctx context.Context, name string, planLimitPerDay int) (string, error) {
	rawKey, err := utils.GenerateSecureToken(24)
	if err != nil {
		return "", err
	}

	hash, err := utils.HashAPIKey(rawKey)
	if err != nil {
		return "", err
	}

	if planLimitPerDay <= 0 {
		planLimitPerDay = 50
	}

	key := &db_models.ApiKey{
		Name:            name,
		Prefix:          rawKey[:apiKeyPrefixLength],
		KeyHash:         hash,
		IsActive:        true,
		PlanLimitPerDay: planLimitPerDay,
	}

	if _, err := s.repo.Create(ctx, key); err != nil {
		log.Printf("failed to create api key %q: %v", name, err)
		return "", utils.ErrDatabaseError
	}
	return rawKey, nil
}

// VerifyKey resolves a raw key to its stored record. Prefix lookup narrows
// the candidates; the bcrypt comparison decides.
func (s *ApiKeyService) VerifyKey(ctx context.Context, rawKey string) (string, error) {
	if len(rawKey) <= apiKeyPrefixLength {
		return "", utils.ErrApiKeyInvalid
	}

	candidates, err := s.repo.FindActiveByPrefix(ctx, rawKey[:apiKeyPrefixLength])
	if err != nil {
		log.Printf("api key lookup failed: %v", err)
		return "", utils.ErrDatabaseError
	}

	for _, candidate := range candidates {
		if utils.CompareAPIKey(candidate.KeyHash, rawKey) == nil {
			if candidate.PlanLimitPerDay > 0 && candidate.PlansGeneratedToday >= candidate.PlanLimitPerDay {
				return "", utils.ErrPlanLimitReached
			}
			if err := s.repo.RecordUsage(ctx, candidate.ID, false); err != nil {
				log.Printf("failed to record api key usage %s: %v", candidate.ID, err)
			}
			return candidate.ID.String(), nil
		}
	}

	return "", utils.ErrApiKeyInvalid
}

func (s *ApiKeyService) RecordGeneration(ctx context.Context, keyID string) error {
	id, err := uuid.Parse(keyID)
	if err != nil {
		return utils.ErrApiKeyInvalid
	}
	if err := s.repo.RecordUsage(ctx, id, true); err != nil {
		log.Printf("failed to record plan generation for key %s: %v", keyID, err)
		return utils.ErrDatabaseError
	}
	return nil
}
