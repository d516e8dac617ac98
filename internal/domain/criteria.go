package domain

import (
	"strings"
	"time"
)

// Mode selects which inactivity predicate a query evaluates. The two modes
// are mutually exclusive partitions of "inactive": an account with a
// recorded last logon can only match ModeLastLogonBefore, an account with
// none can only match ModeNeverLoggedIn.
type Mode int

const (
	// ModeLastLogonBefore matches accounts whose recorded last logon falls
	// strictly before the cutoff instant.
	ModeLastLogonBefore Mode = iota
	// ModeNeverLoggedIn matches accounts with no recorded logon at all that
	// were created strictly before the cutoff instant.
	ModeNeverLoggedIn
)

func (m Mode) String() string {
	if m == ModeNeverLoggedIn {
		return "never-logged-in"
	}
	return "last-logon-before"
}

// Bounds for InactivityCriteria.DaysInactive.
const (
	MinDaysInactive = 1
	MaxDaysInactive = 3650
)

// InactivityCriteria describes one inactivity query. Construct it with
// NewCriteria; the value is immutable after construction.
type InactivityCriteria struct {
	// DaysInactive is the inactivity window in days, within
	// [MinDaysInactive, MaxDaysInactive].
	DaysInactive int
	// SearchOU is the distinguished name of the organizational unit to
	// search, or empty to search the entire directory. Use Scoped to test
	// for presence.
	SearchOU string
	// Mode selects the inactivity predicate.
	Mode Mode

	exclude map[string]struct{}
}

// NewCriteria validates the day window and returns an immutable criteria
// value. Validation happens here, before any directory access.
func NewCriteria(daysInactive int, searchOU string, mode Mode) (InactivityCriteria, error) {
	if daysInactive < MinDaysInactive || daysInactive > MaxDaysInactive {
		return InactivityCriteria{}, ErrValidation(
			"days inactive must be between %d and %d, got %d",
			MinDaysInactive, MaxDaysInactive, daysInactive)
	}
	return InactivityCriteria{
		DaysInactive: daysInactive,
		SearchOU:     strings.TrimSpace(searchOU),
		Mode:         mode,
	}, nil
}

// WithExclusions returns a copy of the criteria that additionally excludes
// the given account ids (case-insensitive) from all matching.
func (c InactivityCriteria) WithExclusions(accountIDs []string) InactivityCriteria {
	if len(accountIDs) == 0 {
		return c
	}
	out := c
	out.exclude = make(map[string]struct{}, len(accountIDs))
	for id := range c.exclude {
		out.exclude[id] = struct{}{}
	}
	for _, id := range accountIDs {
		out.exclude[strings.ToLower(strings.TrimSpace(id))] = struct{}{}
	}
	return out
}

// Scoped reports whether the criteria restricts the search to one
// organizational unit.
func (c InactivityCriteria) Scoped() bool { return c.SearchOU != "" }

// Excluded reports whether the account id is waived from matching.
func (c InactivityCriteria) Excluded(accountID string) bool {
	_, ok := c.exclude[strings.ToLower(accountID)]
	return ok
}

// Cutoff derives the inactivity cutoff instant from the given clock reading.
func (c InactivityCriteria) Cutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -c.DaysInactive)
}

// Matches evaluates the mode's inactivity predicate for one account against
// the cutoff derived from now. Disabled accounts never match; the caller is
// expected to fetch enabled accounts only, this is a second fence.
func (c InactivityCriteria) Matches(u DirectoryUser, now time.Time) bool {
	if !u.Enabled || c.Excluded(u.SAMAccountName) {
		return false
	}
	cutoff := c.Cutoff(now)
	switch c.Mode {
	case ModeNeverLoggedIn:
		// An account created after the cutoff is new, not inactive.
		return u.LastLogon == nil && u.WhenCreated != nil && u.WhenCreated.Before(cutoff)
	default:
		return u.LastLogon != nil && u.LastLogon.Before(cutoff)
	}
}
