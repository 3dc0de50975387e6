package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Interaction is one persisted request/response exchange.
type Interaction struct {
	ID          int64
	Timestamp   time.Time
	UserInput   string
	AgentOutput string
	SessionID   string
	ContextTags string // comma-joined labels: intent plus handler names
}

// Preference is a single key/value entry from the preferences table.
type Preference struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
