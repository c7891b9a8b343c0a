package utils

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSpotNotFound           = errors.New("spot not found")
	ErrInvalidPage            = errors.New("invalid page parameter")
	ErrInvalidPageSize        = errors.New("invalid page size parameter")
	ErrInvalidInput           = errors.New("invalid input")
	ErrDatabaseError          = errors.New("database error")
	ErrApiKeyInvalid          = errors.New("api key invalid or inactive")
	ErrPlanLimitReached       = errors.New("daily plan generation limit reached")
	ErrPoorQualityInput       = errors.New("could not derive a plan from the input")
	ErrUnexpectedBehaviorOfAI = errors.New("unexpected response from the planning model")
	ErrAccountNotFound        = errors.New("account not found")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrEmailAlreadyExists     = errors.New("email already registered")
)

// AllSpotsRejectedError is returned when every spot the user explicitly
// selected failed catalog resolution. The trip cannot silently honor none
// of the user's requests, so this error surfaces to the caller along with
// the rejected names.
type AllSpotsRejectedError struct {
	Names []string
}

func (e *AllSpotsRejectedError) Error() string {
	return fmt.Sprintf("none of the selected spots exist in the catalog: %s", strings.Join(e.Names, ", "))
}
