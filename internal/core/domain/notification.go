package domain

import (
	"time"

	"github.com/google/uuid"
)

const NotificationTypeVote = "vote"

// Notification is emitted to a poll's creator when someone else's vote
// mutates the tallies. Delivery is best-effort and never blocks a vote.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"userId"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      string           `json:"type"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
	Data      NotificationData `json:"data"`
}

type NotificationData struct {
	PollID uuid.UUID `json:"pollId"`
}
