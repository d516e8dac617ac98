// Package waiver loads the optional exclusion file that keeps named
// accounts (service accounts and similar) out of inactivity results.
package waiver

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"
)

// expiryLayout is the date format accepted in the expires field.
const expiryLayout = "2006-01-02"

// Entry is one waived account.
type Entry struct {
	Account string `yaml:"account"`
	Reason  string `yaml:"reason"`
	Expires string `yaml:"expires,omitempty"`

	expiresAt *time.Time
}

type file struct {
	Waivers []Entry `yaml:"waivers"`
}

// Set holds the loaded waivers, keyed by lowercased account id.
type Set struct {
	entries map[string]Entry
}

// Load reads and validates a waiver file. Duplicate accounts, missing
// account names, and unparseable expiry dates are load errors.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read waiver file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Set from raw YAML.
func Parse(data []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse waiver file: %w", err)
	}

	set := &Set{entries: make(map[string]Entry, len(f.Waivers))}
	for i, e := range f.Waivers {
		key := strings.ToLower(strings.TrimSpace(e.Account))
		if key == "" {
			return nil, fmt.Errorf("waiver %d: account is required", i+1)
		}
		if _, dup := set.entries[key]; dup {
			return nil, fmt.Errorf("waiver %d: duplicate account %q", i+1, e.Account)
		}
		if e.Expires != "" {
			t, err := time.Parse(expiryLayout, e.Expires)
			if err != nil {
				return nil, fmt.Errorf("waiver %q: bad expires date %q (want YYYY-MM-DD)", e.Account, e.Expires)
			}
			e.expiresAt = &t
		}
		set.entries[key] = e
	}
	return set, nil
}

// Match reports whether the account id is waived as of now. Expired waivers
// do not match.
func (s *Set) Match(accountID string, now time.Time) bool {
	if s == nil {
		return false
	}
	e, ok := s.entries[strings.ToLower(strings.TrimSpace(accountID))]
	if !ok {
		return false
	}
	return e.expiresAt == nil || now.Before(*e.expiresAt)
}

// Accounts returns the waived account ids that are active as of now.
func (s *Set) Accounts(now time.Time) []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.entries))
	for key, e := range s.entries {
		if e.expiresAt == nil || now.Before(*e.expiresAt) {
			out = append(out, key)
		}
	}
	return out
}

// Len returns the number of loaded waivers, expired ones included.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}
