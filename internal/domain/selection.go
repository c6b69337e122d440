package domain

import (
	"fmt"
	"time"
)

// SelectionEvent records that a user added an advisor to their board.
// Events are append-only facts; the discovery engine only reads them.
type SelectionEvent struct {
	ID        string
	UserID    string
	AdvisorID string
	Source    string
	CreatedAt time.Time
}

// NewSelectionEvent creates a new SelectionEvent instance
func NewSelectionEvent(id, userID, advisorID, source string, createdAt time.Time) *SelectionEvent {
	return &SelectionEvent{
		ID:        id,
		UserID:    userID,
		AdvisorID: advisorID,
		Source:    source,
		CreatedAt: createdAt,
	}
}

// ValidateSelectionEvent validates a SelectionEvent instance
func ValidateSelectionEvent(e *SelectionEvent) error {
	if e == nil {
		return fmt.Errorf("selection event cannot be nil")
	}

	if e.ID == "" {
		return fmt.Errorf("selection event ID is required")
	}

	if e.UserID == "" {
		return fmt.Errorf("selection event UserID is required")
	}

	if e.AdvisorID == "" {
		return fmt.Errorf("selection event AdvisorID is required")
	}

	return nil
}
