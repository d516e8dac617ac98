package domain

import "context"

// DirectoryStore is the port to the external directory service. Implemented
// by directory.Client over LDAP; tests substitute testutil.MockDirectory.
// All calls block for the duration of the directory round trip; timeouts are
// configured on the client, not here.
type DirectoryStore interface {
	// ResolveOU reports whether the distinguished name resolves to an
	// existing organizational unit. An unknown or malformed DN is
	// (false, nil), not an error.
	ResolveOU(ctx context.Context, dn string) (bool, error)

	// SearchEnabledUsers returns every enabled account under the given
	// organizational unit, or under the directory base when ou is empty.
	// Disabled accounts are never returned.
	SearchEnabledUsers(ctx context.Context, ou string) ([]DirectoryUser, error)

	// DisableAccount disables the account with the given sAMAccountName.
	DisableAccount(ctx context.Context, accountID string) error

	// MoveAccount re-resolves the account's current distinguished name and
	// moves the object under targetOU, returning the new DN.
	MoveAccount(ctx context.Context, accountID, targetOU string) (string, error)

	// GroupsOf re-resolves the account and returns its current DN together
	// with the DNs of every group it is a member of.
	GroupsOf(ctx context.Context, accountID string) (dn string, groups []string, err error)

	// RemoveFromGroup removes the member with the given user DN from one
	// group. Callers tolerate individual failures.
	RemoveFromGroup(ctx context.Context, userDN, groupDN string) error
}

// Confirmer is the operator confirmation gate for remediation. It receives
// the candidate summaries about to be mutated and returns true only on an
// explicit affirmative answer. Injectable so the workflow is testable
// without a terminal.
type Confirmer func(candidates []InactiveUserSummary) bool
