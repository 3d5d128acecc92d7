// Package repo – message audit log persistence.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solxray/wallet-relay/internal/domain"
)

// AppendMessageLog records one outbound notification for audit purposes.
// Called by the webhook endpoint before dispatch; dispatch failures do not
// roll the row back.
func AppendMessageLog(ctx context.Context, db *gorm.DB, userID, message string) (*domain.MessageLog, error) {
	m := &domain.MessageLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessageLogs returns the most recent limit audit rows for userID,
// newest first.
func ListMessageLogs(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.MessageLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []domain.MessageLog
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}
