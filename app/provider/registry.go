package provider

import (
	"errors"
	"strings"
)

var (
	ErrProviderNotSupported = errors.New("provider is not supported")

	// ErrMissingWebhookFields marks a webhook payload rejected before any
	// signature work because required identifiers are absent.
	ErrMissingWebhookFields = errors.New("missing required webhook fields")

	ErrInvalidSignature = errors.New("signature verification failed")
)

type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	items := make(map[string]Provider, len(providers))
	for _, p := range providers {
		items[strings.ToLower(p.Name())] = p
	}
	return &Registry{providers: items}
}

func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, ErrProviderNotSupported
	}
	return p, nil
}
