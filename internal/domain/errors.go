package domain

import "errors"

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrCorruptToken         = errors.New("corrupt session token")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation")
	ErrForbiddenTransition  = errors.New("forbidden status transition")
	ErrCheckoutInProgress   = errors.New("checkout already in progress")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrSettlementFailed     = errors.New("settlement failed")
)
