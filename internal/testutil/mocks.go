// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"strings"

	"adsweep/internal/domain"
)

// MockDirectory implements domain.DirectoryStore for testing. Each method
// prefers its Fn override; without one it falls back to a canned in-memory
// behavior driven by the exported fixture fields. Every call is recorded so
// tests can assert on exactly which directory operations were issued.
type MockDirectory struct {
	ResolveOUFn       func(ctx context.Context, dn string) (bool, error)
	SearchFn          func(ctx context.Context, ou string) ([]domain.DirectoryUser, error)
	DisableFn         func(ctx context.Context, accountID string) error
	MoveFn            func(ctx context.Context, accountID, targetOU string) (string, error)
	GroupsOfFn        func(ctx context.Context, accountID string) (string, []string, error)
	RemoveFromGroupFn func(ctx context.Context, userDN, groupDN string) error

	// Fixtures for the canned behavior.
	OUs    []string               // DNs that resolve
	Users  []domain.DirectoryUser // returned by SearchEnabledUsers
	Groups map[string][]string    // account id -> group DNs

	// Recorded calls.
	ResolvedOUs   []string
	SearchedOUs   []string
	Disabled      []string
	Moved         []string
	GroupRemovals []string // "userDN<-groupDN"
}

// ResolveOU implements the interface method for testing.
func (m *MockDirectory) ResolveOU(ctx context.Context, dn string) (bool, error) {
	m.ResolvedOUs = append(m.ResolvedOUs, dn)
	if m.ResolveOUFn != nil {
		return m.ResolveOUFn(ctx, dn)
	}
	for _, known := range m.OUs {
		if strings.EqualFold(known, dn) {
			return true, nil
		}
	}
	return false, nil
}

// SearchEnabledUsers implements the interface method for testing. The canned
// behavior mirrors the real client: disabled fixture users are filtered out.
func (m *MockDirectory) SearchEnabledUsers(ctx context.Context, ou string) ([]domain.DirectoryUser, error) {
	m.SearchedOUs = append(m.SearchedOUs, ou)
	if m.SearchFn != nil {
		return m.SearchFn(ctx, ou)
	}
	out := make([]domain.DirectoryUser, 0, len(m.Users))
	for _, u := range m.Users {
		if u.Enabled {
			out = append(out, u)
		}
	}
	return out, nil
}

// DisableAccount implements the interface method for testing.
func (m *MockDirectory) DisableAccount(ctx context.Context, accountID string) error {
	m.Disabled = append(m.Disabled, accountID)
	if m.DisableFn != nil {
		return m.DisableFn(ctx, accountID)
	}
	return nil
}

// MoveAccount implements the interface method for testing.
func (m *MockDirectory) MoveAccount(ctx context.Context, accountID, targetOU string) (string, error) {
	m.Moved = append(m.Moved, accountID)
	if m.MoveFn != nil {
		return m.MoveFn(ctx, accountID, targetOU)
	}
	return "CN=" + accountID + "," + targetOU, nil
}

// GroupsOf implements the interface method for testing.
func (m *MockDirectory) GroupsOf(ctx context.Context, accountID string) (string, []string, error) {
	if m.GroupsOfFn != nil {
		return m.GroupsOfFn(ctx, accountID)
	}
	return "CN=" + accountID, m.Groups[accountID], nil
}

// RemoveFromGroup implements the interface method for testing.
func (m *MockDirectory) RemoveFromGroup(ctx context.Context, userDN, groupDN string) error {
	m.GroupRemovals = append(m.GroupRemovals, userDN+"<-"+groupDN)
	if m.RemoveFromGroupFn != nil {
		return m.RemoveFromGroupFn(ctx, userDN, groupDN)
	}
	return nil
}

// MutationCount returns how many mutating directory calls were issued.
func (m *MockDirectory) MutationCount() int {
	return len(m.Disabled) + len(m.Moved) + len(m.GroupRemovals)
}

// DirectoryCallCount returns how many directory calls of any kind were
// issued, for asserting that validation rejects before directory access.
func (m *MockDirectory) DirectoryCallCount() int {
	return len(m.ResolvedOUs) + len(m.SearchedOUs) + m.MutationCount()
}

var _ domain.DirectoryStore = (*MockDirectory)(nil)
