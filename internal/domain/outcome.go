package domain

import "fmt"

// RemediationOutcome records what happened to one account during a
// remediation batch. Exactly one outcome exists per processed candidate.
type RemediationOutcome struct {
	AccountID     string
	Disabled      bool
	Moved         bool
	GroupsRemoved int
	// GroupsTotal is the membership count seen before removal began; -1 when
	// the membership lookup itself failed.
	GroupsTotal int
	// GroupsSkipped is true when group removal was not requested for the run.
	GroupsSkipped bool
	Err           error
}

// Describe renders the single human-readable line for this outcome.
func (o RemediationOutcome) Describe() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: error: %v", o.AccountID, o.Err)
	}
	switch {
	case o.GroupsSkipped:
		return fmt.Sprintf("%s: disabled and moved", o.AccountID)
	case o.GroupsTotal < 0:
		return fmt.Sprintf("%s: disabled and moved; group memberships left in place", o.AccountID)
	case o.GroupsTotal == 0:
		return fmt.Sprintf("%s: disabled and moved; had no group memberships", o.AccountID)
	case o.GroupsRemoved < o.GroupsTotal:
		return fmt.Sprintf("%s: disabled and moved; removed from %d of %d group(s)", o.AccountID, o.GroupsRemoved, o.GroupsTotal)
	default:
		return fmt.Sprintf("%s: disabled and moved; removed from %d group(s)", o.AccountID, o.GroupsRemoved)
	}
}

// Succeeded reports whether the account finished disable and move.
func (o RemediationOutcome) Succeeded() bool { return o.Err == nil && o.Disabled && o.Moved }
