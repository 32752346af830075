package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinOptions        = 2
	MaxOptions        = 6
	MaxQuestionLength = 200
	MaxOptionLength   = 100
)

// Poll is the aggregate: the question, its options and their tallies form a
// single consistency boundary. TotalVotes always equals the sum of the option
// counters; only the vote transaction mutates either.
type Poll struct {
	ID         uuid.UUID  `json:"id"`
	Question   string     `json:"question"`
	Options    []Option   `json:"options"`
	TotalVotes int        `json:"totalVotes"`
	CreatedBy  uuid.UUID  `json:"createdBy"`
	CreatedAt  time.Time  `json:"createdAt"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
}

type Option struct {
	ID    uuid.UUID `json:"id"`
	Text  string    `json:"text"`
	Votes int       `json:"votes"`
}

// Status evaluates the scheduling window against now. Never cache the result
// across requests.
func (p *Poll) Status(now time.Time) Status {
	return Schedule(now, p.StartDate, p.EndDate)
}

func (p *Poll) HasOption(id uuid.UUID) bool {
	return p.OptionIndex(id) >= 0
}

func (p *Poll) OptionIndex(id uuid.UUID) int {
	for i, opt := range p.Options {
		if opt.ID == id {
			return i
		}
	}
	return -1
}

// SumVotes recomputes the tally sum from the options, for invariant checks.
func (p *Poll) SumVotes() int {
	sum := 0
	for _, opt := range p.Options {
		sum += opt.Votes
	}
	return sum
}

// Clone returns a deep copy so callers can hand out the aggregate without
// exposing shared option slices.
func (p *Poll) Clone() *Poll {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Options = make([]Option, len(p.Options))
	copy(cp.Options, p.Options)
	if p.StartDate != nil {
		t := *p.StartDate
		cp.StartDate = &t
	}
	if p.EndDate != nil {
		t := *p.EndDate
		cp.EndDate = &t
	}
	return &cp
}
