package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is a ledger entry: at most one per (PollID, UserID). OptionID is
// mutable through vote changes; the key never duplicates.
type Vote struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"pollId"`
	UserID    uuid.UUID `json:"userId"`
	OptionID  uuid.UUID `json:"optionId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VoteTransition classifies what a ledger upsert did, so the caller knows
// which tallies to adjust.
type VoteTransition string

const (
	VoteCreated   VoteTransition = "created"
	VoteChanged   VoteTransition = "changed"
	VoteUnchanged VoteTransition = "unchanged"
)
