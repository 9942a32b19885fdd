// Package gatewaystore defines the gateway's repository interface and a
// gorm/MySQL-backed implementation: users, API keys, and a task mirror
// used for listing/pagination without going back to the coordinator for
// every read.
package gatewaystore

import "time"

// User is a gateway account. NEARAccountID is optional: a user may
// authenticate by password alone, by wallet alone, or link both.
type User struct {
	ID            string `gorm:"primary_key"`
	Username      string `gorm:"unique_index;size:50"`
	Email         string `gorm:"size:255"`
	PasswordHash  string `gorm:"size:255"`
	NEARAccountID string `gorm:"unique_index;size:128"`
	Role          string `gorm:"size:20"` // "user" or "admin"
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// APIKey is a long-lived credential issued to a user: prefix for display,
// optional per-key rate limit override, last-used tracking.
type APIKey struct {
	ID                string `gorm:"primary_key"`
	UserID            string `gorm:"index;size:64"`
	Prefix            string `gorm:"size:16"` // first chars shown back to the user, e.g. "dc_live_7f3a9c01"
	TokenHash         string `gorm:"size:255"`
	RateLimitOverride *int
	LastUsedAt        *time.Time
	CreatedAt         time.Time
	ExpiresAt         time.Time
	Revoked           bool
}

// TaskMirror is the gateway's local read-model row for a coordinator task,
// refreshed on submission and on result polling, letting /api/v1/tasks
// support pagination/sort without querying the coordinator per page.
type TaskMirror struct {
	ID          string `gorm:"primary_key"` // gateway-issued UUID, distinct from the coordinator's numeric task ID
	CoordTaskID uint64 `gorm:"index"`
	UserID      string `gorm:"index;size:64"`
	TaskType    string `gorm:"size:32"`
	ModelName   string `gorm:"size:128"`
	Parameters  string `gorm:"type:text"` // opaque JSON
	Status      string `gorm:"size:20;index"`
	CreatedAt   time.Time
	ExpiresAt   *time.Time
}
