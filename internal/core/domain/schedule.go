package domain

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusEnded   Status = "ended"
)

// Schedule maps a scheduling window to the poll's voting state at now.
// A nil bound means the window is open on that side. When a misconfigured
// window makes both conditions hold, pending wins.
func Schedule(now time.Time, start, end *time.Time) Status {
	if start != nil && now.Before(*start) {
		return StatusPending
	}
	if end != nil && now.After(*end) {
		return StatusEnded
	}
	return StatusActive
}
