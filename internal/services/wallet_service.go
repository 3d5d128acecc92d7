// Package services – WalletService
//
// This file implements the registration rules: address validation, the
// transaction-rate guard, the per-user wallet limit, the duplicate check,
// and the ordering contract with the remote webhook registry. A local
// subscription row is only persisted after the remote set accepted the
// address; removal mirrors the remote set first when the leaving user is
// the last subscriber of that address system-wide.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/solxray/wallet-relay/internal/domain"
	"github.com/solxray/wallet-relay/internal/repo"
)

// WalletRepo defines the repository contract required by WalletService.
type WalletRepo interface {
	// CreateSubscription inserts a new active row for (userID, address).
	CreateSubscription(ctx context.Context, db *gorm.DB, userID, address string) (*domain.WalletSubscription, error)

	// ListUserSubscriptions returns the user's active subscriptions.
	ListUserSubscriptions(ctx context.Context, db *gorm.DB, userID string) ([]domain.WalletSubscription, error)

	// CountUserSubscriptions counts the user's active subscriptions.
	CountUserSubscriptions(ctx context.Context, db *gorm.DB, userID string) (int64, error)

	// GetSubscription fetches the active row for (userID, address).
	GetSubscription(ctx context.Context, db *gorm.DB, userID, address string) (*domain.WalletSubscription, error)

	// CountAddressSubscribers counts active rows on address across users.
	CountAddressSubscribers(ctx context.Context, db *gorm.DB, address string) (int64, error)

	// DeleteSubscription removes the row for (userID, address).
	DeleteSubscription(ctx context.Context, db *gorm.DB, userID, address string) error
}

// RateGuard is the registration-time activity check.
type RateGuard interface {
	// Check reports acceptance and the computed tx/day rate.
	Check(ctx context.Context, wallet string) (bool, float64)
}

// Registry mirrors local registrations into the shared remote webhook set.
type Registry interface {
	Add(ctx context.Context, address string) error
	Remove(ctx context.Context, address string) error
}

// WalletService owns the lifecycle of wallet subscriptions.
type WalletService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the subscription repository used by this service.
	Repo WalletRepo
	// Guard rejects hyperactive wallets at registration time.
	Guard RateGuard
	// Registry keeps the remote webhook set in sync.
	Registry Registry

	// MaxWallets caps active subscriptions per user.
	MaxWallets int
}

// NewWalletService constructs a WalletService with the default wallet limit.
func NewWalletService(db *gorm.DB, r WalletRepo, g RateGuard, reg Registry) *WalletService {
	return &WalletService{
		DB:         db,
		Repo:       r,
		Guard:      g,
		Registry:   reg,
		MaxWallets: 5,
	}
}

// Register runs the full registration pipeline for (userID, address).
//
// Checks run in order: address syntax, rate guard, wallet limit, duplicate.
// Only when all pass is the address added to the remote webhook set, and
// only when that write succeeds is the local row persisted — the webhook is
// never left feeding events for a wallet nobody stored, and the store never
// records a wallet the webhook will not deliver.
func (s *WalletService) Register(ctx context.Context, userID, address string) error {
	if !domain.IsWalletAddress(address) {
		return ErrInvalidAddress
	}

	if ok, rate := s.Guard.Check(ctx, address); !ok {
		return &TooActiveError{Rate: rate}
	}

	n, err := s.Repo.CountUserSubscriptions(ctx, s.DB, userID)
	if err != nil {
		return err
	}
	if n >= int64(s.MaxWallets) {
		return ErrWalletLimit
	}

	// Duplicate-check-then-insert is not transactional against the store;
	// a racing duplicate is tolerated (see DESIGN.md).
	if _, err := s.Repo.GetSubscription(ctx, s.DB, userID, address); err == nil {
		return ErrDuplicateWallet
	} else if !errors.Is(err, repo.ErrNotFound) {
		return err
	}

	if err := s.Registry.Add(ctx, address); err != nil {
		return err
	}

	_, err = s.Repo.CreateSubscription(ctx, s.DB, userID, address)
	return err
}

// Unregister removes the subscription for (userID, address). When the user
// is the last active subscriber of that address system-wide, the address
// leaves the remote webhook set first; a registry failure aborts the
// removal so local and remote state cannot diverge silently.
func (s *WalletService) Unregister(ctx context.Context, userID, address string) error {
	n, err := s.Repo.CountAddressSubscribers(ctx, s.DB, address)
	if err != nil {
		return err
	}
	if n == 1 {
		if err := s.Registry.Remove(ctx, address); err != nil {
			return err
		}
	}

	if err := s.Repo.DeleteSubscription(ctx, s.DB, userID, address); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrWalletNotFound
		}
		return err
	}
	return nil
}

// List returns the user's active subscriptions in registration order.
func (s *WalletService) List(ctx context.Context, userID string) ([]domain.WalletSubscription, error) {
	return s.Repo.ListUserSubscriptions(ctx, s.DB, userID)
}
