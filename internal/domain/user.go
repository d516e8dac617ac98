// Package domain defines the core types, ports, and errors for the account
// hygiene workflows.
package domain

import "time"

// Display strings for summaries. The timestamp layout is fixed; reports and
// the API render the same text everywhere.
const (
	DisplayTimeLayout = "2006-01-02 15:04:05"
	DisplayUnknown    = "Unknown"
	DisplayNeverLogon = "Never Logged In"
)

// DirectoryUser is one enabled account as read from the directory. The
// directory layer owns the conversion from native attribute encodings;
// nil instants mean the attribute was absent or carried an unset sentinel.
type DirectoryUser struct {
	DN             string
	SAMAccountName string
	DisplayName    string
	Enabled        bool
	WhenCreated    *time.Time
	LastLogon      *time.Time
}

// InactiveUserSummary is the normalized per-account result of an inactivity
// query. It is created per invocation and discarded after export or
// remediation consumes it.
type InactiveUserSummary struct {
	DisplayName      string     `json:"display_name"`
	AccountID        string     `json:"account_id"`
	CreatedDisplay   string     `json:"created"`
	LastLogonDisplay string     `json:"last_logon"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	LastLogonAt      *time.Time `json:"last_logon_at,omitempty"`
}

// Summarize renders the display fields for one matched account.
func Summarize(u DirectoryUser) InactiveUserSummary {
	return InactiveUserSummary{
		DisplayName:      u.DisplayName,
		AccountID:        u.SAMAccountName,
		CreatedDisplay:   formatInstant(u.WhenCreated, DisplayUnknown),
		LastLogonDisplay: formatInstant(u.LastLogon, DisplayNeverLogon),
		CreatedAt:        u.WhenCreated,
		LastLogonAt:      u.LastLogon,
	}
}

func formatInstant(t *time.Time, missing string) string {
	if t == nil {
		return missing
	}
	return t.UTC().Format(DisplayTimeLayout)
}
