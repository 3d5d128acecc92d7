// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for wallet
// subscriptions.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a subscription is not found, functions return
//     gorm.ErrRecordNotFound (also exported here as ErrNotFound).
//   - On DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solxray/wallet-relay/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateSubscription inserts a new active subscription row for userID and
// address. The row ID is a randomly generated UUID and CreatedAt is UTC.
func CreateSubscription(ctx context.Context, db *gorm.DB, userID, address string) (*domain.WalletSubscription, error) {
	s := &domain.WalletSubscription{
		ID:        uuid.NewString(),
		UserID:    userID,
		Address:   address,
		Status:    domain.StatusActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// ListUserSubscriptions returns all active subscriptions owned by userID,
// ordered by creation time ascending (registration order).
func ListUserSubscriptions(ctx context.Context, db *gorm.DB, userID string) ([]domain.WalletSubscription, error) {
	var out []domain.WalletSubscription
	err := db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, domain.StatusActive).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// CountUserSubscriptions returns the number of active subscriptions owned by
// userID. Used to enforce the per-user wallet limit.
func CountUserSubscriptions(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.WalletSubscription{}).
		Where("user_id = ? AND status = ?", userID, domain.StatusActive).
		Count(&total).Error
	return total, err
}

// GetSubscription fetches the active subscription for (userID, address).
// Returns ErrNotFound when no such row exists.
func GetSubscription(ctx context.Context, db *gorm.DB, userID, address string) (*domain.WalletSubscription, error) {
	var s domain.WalletSubscription
	err := db.WithContext(ctx).
		Where("user_id = ? AND address = ? AND status = ?", userID, address, domain.StatusActive).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CountAddressSubscribers returns the number of active subscriptions on
// address across all users. The delete flow uses this to decide whether the
// address must also leave the remote webhook set.
func CountAddressSubscribers(ctx context.Context, db *gorm.DB, address string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.WalletSubscription{}).
		Where("address = ? AND status = ?", address, domain.StatusActive).
		Count(&total).Error
	return total, err
}

// ListSubscriptionsByAddresses returns all active subscriptions whose address
// is in addrs. This is the audience query behind the formatter.
func ListSubscriptionsByAddresses(ctx context.Context, db *gorm.DB, addrs []string) ([]domain.WalletSubscription, error) {
	if len(addrs) == 0 {
		return []domain.WalletSubscription{}, nil
	}
	var out []domain.WalletSubscription
	err := db.WithContext(ctx).
		Where("address IN ? AND status = ?", addrs, domain.StatusActive).
		Find(&out).Error
	return out, err
}

// DeleteSubscription removes the subscription row for (userID, address).
// If no row was deleted (missing or not owned by userID), it returns
// ErrNotFound. On DB error, the raw error is returned.
func DeleteSubscription(ctx context.Context, db *gorm.DB, userID, address string) error {
	res := db.WithContext(ctx).
		Where("user_id = ? AND address = ?", userID, address).
		Delete(&domain.WalletSubscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
