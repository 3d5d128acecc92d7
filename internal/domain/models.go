// Package domain defines the persistence models for wallet subscriptions and
// the outbound-message audit log, plus the Solana address validator. These
// types are mapped with GORM and form the core data layer of the relay.
package domain

import (
	"time"
)

// Subscription lifecycle status values. Only active rows are ever persisted;
// removal deletes the row instead of flipping the status.
const (
	StatusActive = "active"
)

// WalletSubscription represents one user's claim on one wallet address.
// The intended invariant is at most one active row per (user_id, address)
// pair; it is checked at write time in the service layer rather than with a
// unique index, so a racing duplicate insert is tolerated (see DESIGN.md).
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: Telegram user id stored as text; indexed for per-user lookups.
//   - Address: validated base58 wallet address; indexed for audience lookups.
//   - Status: lifecycle status, always "active" for persisted rows.
//   - CreatedAt: timestamp set on registration.
type WalletSubscription struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_user_subs"`
	Address   string    `json:"address"    gorm:"type:varchar(64);not null;index:idx_addr_subs"`
	Status    string    `json:"status"     gorm:"type:varchar(16);not null;default:'active'"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for WalletSubscription.
func (WalletSubscription) TableName() string { return "wallet_subscriptions" }

// MessageLog is the audit row written for every outbound notification before
// it is handed to the dispatcher. Delivery failures do not remove the row;
// the log records intent, not outcome.
type MessageLog struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);not null;index"`
	Message   string    `json:"message"    gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for MessageLog.
func (MessageLog) TableName() string { return "message_logs" }

// OutboundMessage is the ephemeral value produced by the formatter and
// consumed by the dispatcher: one rendered notification for one user, with an
// optional preview image URL.
type OutboundMessage struct {
	UserID   string
	Text     string
	ImageURL string // empty when no preview could be resolved
}
