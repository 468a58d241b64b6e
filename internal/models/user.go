package models

import "time"

// InternalUser represents a user account stored in the internal database.
// Auth and identity only; preferences are stored as UserKeyValue entries.
type InternalUser struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}

// UserKeyValue represents a per-user configuration key-value pair.
type UserKeyValue struct {
	UserID   string    `json:"user_id"`
	Key      string    `json:"key"`
	Value    string    `json:"value"`
	DateTime time.Time `json:"datetime"`
}

// LedgerEvent is broadcast over the WebSocket change feed after every
// successful mutation so clients can re-fetch and recompute.
type LedgerEvent struct {
	Entity    string    `json:"entity"` // "bet", "deposit", "withdrawal"
	Action    string    `json:"action"` // "created", "updated", "deleted"
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}
