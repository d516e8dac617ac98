// Package directory implements the domain.DirectoryStore port against an
// Active Directory server over LDAP.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/go-ldap/ldap/v3"

	"adsweep/internal/domain"
)

// userAccountControl bit for a disabled account.
const uacAccountDisable = 0x2

// LDAP_MATCHING_RULE_BIT_AND, used to test userAccountControl bits
// server-side so disabled accounts are never fetched at all.
const matchingRuleBitAnd = "1.2.840.113556.1.4.803"

// Config holds the connection settings for one directory server.
type Config struct {
	// URL is the LDAP URL, e.g. "ldaps://dc01.corp.example.com:636".
	URL string
	// BindDN and BindPassword authenticate the connection.
	BindDN       string
	BindPassword string
	// BaseDN is the search base used when no organizational unit scope is
	// given.
	BaseDN string
	// DialTimeout bounds the initial connection. Zero means 10s.
	DialTimeout time.Duration
}

// Client is a stateless directory client holding one bound LDAP connection.
// All methods block for the duration of the directory round trip; the
// context is checked before each call but cannot interrupt one in flight.
type Client struct {
	conn   ldapConn
	baseDN string
	logger *slog.Logger
}

// ldapConn is the slice of *ldap.Conn the client uses, extracted so tests
// can substitute a fake connection.
type ldapConn interface {
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	SearchWithPaging(req *ldap.SearchRequest, pagingSize uint32) (*ldap.SearchResult, error)
	Modify(req *ldap.ModifyRequest) error
	ModifyDN(req *ldap.ModifyDNRequest) error
	Close() error
}

// Connect dials and binds a new directory client.
func Connect(cfg Config, logger *slog.Logger) (*Client, error) {
	timeout := cfg.DialTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	conn, err := ldap.DialURL(cfg.URL, ldap.DialWithDialer(&net.Dialer{Timeout: timeout}))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.URL, err)
	}
	if err := conn.Bind(cfg.BindDN, cfg.BindPassword); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("bind as %s: %w", cfg.BindDN, err)
	}
	return &Client{conn: conn, baseDN: cfg.BaseDN, logger: logger.With("component", "directory")}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

// ResolveOU reports whether the DN resolves to an existing organizational
// unit. An unknown DN is (false, nil), not an error.
func (c *Client) ResolveOU(ctx context.Context, dn string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	req := ldap.NewSearchRequest(
		dn,
		ldap.ScopeBaseObject, ldap.NeverDerefAliases, 1, 0, false,
		"(objectClass=organizationalUnit)",
		[]string{"distinguishedName"},
		nil,
	)
	res, err := c.conn.Search(req)
	if err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) ||
			ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidDNSyntax) {
			return false, nil
		}
		return false, fmt.Errorf("resolve ou %s: %w", dn, err)
	}
	return len(res.Entries) > 0, nil
}

var userAttributes = []string{
	"distinguishedName",
	"sAMAccountName",
	"displayName",
	"whenCreated",
	"lastLogonTimestamp",
	"userAccountControl",
}

// SearchEnabledUsers returns every enabled user account under ou, or under
// the configured base DN when ou is empty. The disabled bit is excluded
// server-side, so disabled accounts are never returned.
func (c *Client) SearchEnabledUsers(ctx context.Context, ou string) ([]domain.DirectoryUser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	base := ou
	if base == "" {
		base = c.baseDN
	}
	filter := fmt.Sprintf(
		"(&(objectCategory=person)(objectClass=user)(!(userAccountControl:%s:=%d)))",
		matchingRuleBitAnd, uacAccountDisable,
	)
	req := ldap.NewSearchRequest(
		base,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		filter,
		userAttributes,
		nil,
	)
	res, err := c.conn.SearchWithPaging(req, 500)
	if err != nil {
		return nil, fmt.Errorf("search users under %s: %w", base, err)
	}
	users := make([]domain.DirectoryUser, 0, len(res.Entries))
	for _, entry := range res.Entries {
		users = append(users, userFromEntry(entry))
	}
	return users, nil
}

// userFromEntry converts one LDAP entry into the domain representation,
// decoding the native attribute encodings.
func userFromEntry(entry *ldap.Entry) domain.DirectoryUser {
	uac, _ := strconv.Atoi(entry.GetAttributeValue("userAccountControl"))
	return domain.DirectoryUser{
		DN:             entry.DN,
		SAMAccountName: entry.GetAttributeValue("sAMAccountName"),
		DisplayName:    entry.GetAttributeValue("displayName"),
		Enabled:        uac&uacAccountDisable == 0,
		WhenCreated:    parseGeneralizedTime(entry.GetAttributeValue("whenCreated")),
		LastLogon:      parseFiletimeAttr(entry.GetAttributeValue("lastLogonTimestamp")),
	}
}

// resolveAccount looks up one account by sAMAccountName and returns its
// current DN plus the requested extra attributes.
func (c *Client) resolveAccount(accountID string, attrs ...string) (*ldap.Entry, error) {
	req := ldap.NewSearchRequest(
		c.baseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 1, 0, false,
		fmt.Sprintf("(&(objectClass=user)(sAMAccountName=%s))", ldap.EscapeFilter(accountID)),
		append([]string{"distinguishedName"}, attrs...),
		nil,
	)
	res, err := c.conn.Search(req)
	if err != nil {
		return nil, fmt.Errorf("lookup account %s: %w", accountID, err)
	}
	if len(res.Entries) == 0 {
		return nil, domain.ErrNotFound("account %s not found", accountID)
	}
	return res.Entries[0], nil
}

// DisableAccount sets the disable bit on the account's userAccountControl,
// read-modify-write.
func (c *Client) DisableAccount(ctx context.Context, accountID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry, err := c.resolveAccount(accountID, "userAccountControl")
	if err != nil {
		return err
	}
	uac, err := strconv.Atoi(entry.GetAttributeValue("userAccountControl"))
	if err != nil {
		return fmt.Errorf("account %s: unreadable userAccountControl: %w", accountID, err)
	}
	mod := ldap.NewModifyRequest(entry.DN, nil)
	mod.Replace("userAccountControl", []string{strconv.Itoa(uac | uacAccountDisable)})
	if err := c.conn.Modify(mod); err != nil {
		return fmt.Errorf("disable account %s: %w", accountID, err)
	}
	c.logger.Debug("account disabled", "account", accountID, "dn", entry.DN)
	return nil
}

// MoveAccount re-resolves the account's current DN and moves the object
// under targetOU, keeping its RDN. Returns the new DN.
func (c *Client) MoveAccount(ctx context.Context, accountID, targetOU string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	entry, err := c.resolveAccount(accountID)
	if err != nil {
		return "", err
	}
	dn, err := ldap.ParseDN(entry.DN)
	if err != nil || len(dn.RDNs) == 0 {
		return "", fmt.Errorf("account %s: unparseable DN %q", accountID, entry.DN)
	}
	rdn := dn.RDNs[0].String()
	req := ldap.NewModifyDNRequest(entry.DN, rdn, true, targetOU)
	if err := c.conn.ModifyDN(req); err != nil {
		return "", fmt.Errorf("move account %s to %s: %w", accountID, targetOU, err)
	}
	newDN := rdn + "," + targetOU
	c.logger.Debug("account moved", "account", accountID, "dn", newDN)
	return newDN, nil
}

// GroupsOf re-resolves the account and returns its current DN together with
// the DNs of every group it is a member of.
func (c *Client) GroupsOf(ctx context.Context, accountID string) (string, []string, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	entry, err := c.resolveAccount(accountID, "memberOf")
	if err != nil {
		return "", nil, err
	}
	return entry.DN, entry.GetAttributeValues("memberOf"), nil
}

// RemoveFromGroup removes the member with the given user DN from one group.
func (c *Client) RemoveFromGroup(ctx context.Context, userDN, groupDN string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mod := ldap.NewModifyRequest(groupDN, nil)
	mod.Delete("member", []string{userDN})
	if err := c.conn.Modify(mod); err != nil {
		return fmt.Errorf("remove %s from %s: %w", userDN, groupDN, err)
	}
	return nil
}

var _ domain.DirectoryStore = (*Client)(nil)
