package service

import "errors"

var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrProviderUnsupported  = errors.New("provider is not supported")
	ErrPaymentInitFailed    = errors.New("payment initiation failed")
	ErrSignatureInvalid     = errors.New("signature verification failed")
	ErrMissingWebhookFields = errors.New("missing required webhook fields")
	ErrPaymentNotCompleted  = errors.New("payment is not completed")
)
