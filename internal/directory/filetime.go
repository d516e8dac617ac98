package directory

import (
	"strconv"
	"time"
)

// Active Directory stores lastLogonTimestamp (and friends) as a FILETIME:
// the count of 100-nanosecond ticks since 1601-01-01 UTC. Zero, negative,
// and the "never expires" sentinel all mean the attribute is unset.
const filetimeUnset = 0x7FFFFFFFFFFFFFFF

// Seconds between the FILETIME epoch and the Unix epoch. The conversion
// works in integer seconds because the 423-year span overflows a
// time.Duration.
const filetimeUnixOffset = 11644473600

// FromFiletime converts a FILETIME tick count to an instant. Unset values
// (zero, negative, or the sentinel) convert to nil.
func FromFiletime(ticks int64) *time.Time {
	if ticks <= 0 || ticks == filetimeUnset {
		return nil
	}
	t := time.Unix(ticks/10_000_000-filetimeUnixOffset, (ticks%10_000_000)*100).UTC()
	return &t
}

// ToFiletime converts an instant back to a FILETIME tick count.
func ToFiletime(t time.Time) int64 {
	return (t.Unix()+filetimeUnixOffset)*10_000_000 + int64(t.Nanosecond())/100
}

// parseFiletimeAttr parses the raw string form of a FILETIME attribute.
// Empty or malformed values are treated as unset.
func parseFiletimeAttr(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	ticks, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return FromFiletime(ticks)
}

// generalizedTimeLayout matches AD's whenCreated encoding, e.g.
// "20240115093000.0Z".
const generalizedTimeLayout = "20060102150405.0Z"

// parseGeneralizedTime parses an LDAP GeneralizedTime attribute. Empty or
// malformed values are treated as unset.
func parseGeneralizedTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(generalizedTimeLayout, raw)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
