// Package services – RegistryService
//
// This file implements the client-side half of the shared webhook
// subscription: the single remote list of all watched addresses. The Helius
// API only exposes whole-list replacement, so Add and Remove are a
// read-modify-write over that list. The race window between two concurrent
// writers is accepted: the local wallet store is the authoritative record of
// user intent, and the remote set is best-effort mirrored state that a later
// read-modify-write reconciles.
package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/solxray/wallet-relay/internal/helius"
)

// WebhookAPI is the slice of the Helius client the registry needs.
type WebhookAPI interface {
	GetWebhook(ctx context.Context, webhookID string) (*helius.WebhookConfig, error)
	PutWebhook(ctx context.Context, webhookID string, addresses []string) error
}

// RegistryService maintains the remote shared address list.
type RegistryService struct {
	API       WebhookAPI
	WebhookID string
}

// NewRegistryService constructs a RegistryService for the given webhook.
func NewRegistryService(api WebhookAPI, webhookID string) *RegistryService {
	return &RegistryService{API: api, WebhookID: webhookID}
}

// Fetch retrieves the current remote address list. Any transport error or
// malformed response is reported as ErrRegistryUnavailable.
func (s *RegistryService) Fetch(ctx context.Context) ([]string, error) {
	cfg, err := s.API.GetWebhook(ctx, s.WebhookID)
	if err != nil {
		log.Error().Err(err).Str("webhook_id", s.WebhookID).Msg("registry fetch failed")
		return nil, ErrRegistryUnavailable
	}
	return cfg.AccountAddresses, nil
}

// Add appends address to the remote set. If the address is already present
// this is an idempotent no-op: success without a remote write. Fails closed
// on any write error so callers do not persist local state the webhook will
// never feed.
func (s *RegistryService) Add(ctx context.Context, address string) error {
	addresses, err := s.Fetch(ctx)
	if err != nil {
		return err
	}
	for _, a := range addresses {
		if a == address {
			log.Info().Str("address", address).Msg("address already in webhook set")
			return nil
		}
	}

	if err := s.API.PutWebhook(ctx, s.WebhookID, append(addresses, address)); err != nil {
		log.Error().Err(err).Str("address", address).Msg("registry add failed")
		return ErrRegistryUnavailable
	}
	return nil
}

// Remove deletes address from the remote set. If the address is absent this
// is an idempotent no-op. Same failure semantics as Add.
func (s *RegistryService) Remove(ctx context.Context, address string) error {
	addresses, err := s.Fetch(ctx)
	if err != nil {
		return err
	}

	kept := addresses[:0]
	found := false
	for _, a := range addresses {
		if a == address {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		log.Info().Str("address", address).Msg("address not in webhook set")
		return nil
	}

	if err := s.API.PutWebhook(ctx, s.WebhookID, kept); err != nil {
		log.Error().Err(err).Str("address", address).Msg("registry remove failed")
		return ErrRegistryUnavailable
	}
	return nil
}
