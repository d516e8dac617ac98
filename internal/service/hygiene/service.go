// Package hygiene implements the dormant-account workflows: the inactivity
// query, the disable-and-relocate remediation batch, and report export.
package hygiene

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"adsweep/internal/domain"
	"adsweep/internal/report"
)

// Format selects the report artifact type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// ParseFormat validates a format string from operator input.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatHTML:
		return Format(s), nil
	case "":
		return FormatCSV, nil
	default:
		return "", domain.ErrValidation("unsupported report format %q: use csv or html", s)
	}
}

// Service exposes the three operations over one directory connection. It is
// stateless apart from that handle; all execution is synchronous and
// sequential.
type Service struct {
	dir     domain.DirectoryStore
	logger  *slog.Logger
	now     func() time.Time
	limiter *rate.Limiter
}

// Option configures a Service.
type Option func(*Service)

// WithClock substitutes the time source. Tests pin the clock with this.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMutationRate throttles directory mutations during remediation to the
// given sustained rate. Zero or negative means unthrottled.
func WithMutationRate(rps float64) Option {
	return func(s *Service) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// New builds a Service on the given directory store.
func New(dir domain.DirectoryStore, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		dir:    dir,
		logger: logger.With("component", "hygiene"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindInactive evaluates the criteria against all enabled accounts in the
// search scope and returns one summary per match, in directory enumeration
// order. An empty result is an informational condition, not an error; an
// unresolvable search scope is reported as a NotFoundError before any
// account is fetched.
func (s *Service) FindInactive(ctx context.Context, c domain.InactivityCriteria) ([]domain.InactiveUserSummary, error) {
	log := s.logger.With("days", c.DaysInactive, "mode", c.Mode.String())

	if c.Scoped() {
		ok, err := s.dir.ResolveOU(ctx, c.SearchOU)
		if err != nil {
			return nil, fmt.Errorf("resolve search scope: %w", err)
		}
		if !ok {
			log.Warn("search scope not found", "ou", c.SearchOU)
			return nil, domain.ErrNotFound("search scope not found: %s", c.SearchOU)
		}
	}

	users, err := s.dir.SearchEnabledUsers(ctx, c.SearchOU)
	if err != nil {
		return nil, fmt.Errorf("search enabled users: %w", err)
	}

	now := s.now()
	summaries := make([]domain.InactiveUserSummary, 0, len(users))
	for _, u := range users {
		if c.Matches(u, now) {
			summaries = append(summaries, domain.Summarize(u))
		}
	}

	if len(summaries) == 0 {
		log.Info("no inactive accounts matched", "candidates", len(users))
	} else {
		log.Info("inactive accounts matched", "matched", len(summaries), "candidates", len(users))
	}
	return summaries, nil
}

// Remediate disables and relocates every account matching the criteria,
// after the confirm gate approves the full candidate set. It returns one
// outcome per processed account; a failure on one account never aborts the
// batch. Declined confirmation and an empty candidate set both return
// (nil, nil) with zero mutations issued.
func (s *Service) Remediate(ctx context.Context, c domain.InactivityCriteria, targetOU string, removeGroups bool, confirm domain.Confirmer) ([]domain.RemediationOutcome, error) {
	if targetOU == "" {
		return nil, domain.ErrValidation("target organizational unit is required")
	}
	ok, err := s.dir.ResolveOU(ctx, targetOU)
	if err != nil {
		return nil, fmt.Errorf("resolve target scope: %w", err)
	}
	if !ok {
		s.logger.Warn("target scope not found", "ou", targetOU)
		return nil, domain.ErrNotFound("target scope not found: %s", targetOU)
	}

	candidates, err := s.FindInactive(ctx, c)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	if confirm == nil || !confirm(candidates) {
		s.logger.Info("confirmation declined; no changes made", "candidates", len(candidates))
		return nil, nil
	}

	log := s.logger.With("run_id", uuid.NewString(), "target_ou", targetOU)
	log.Info("remediation started", "accounts", len(candidates), "remove_groups", removeGroups)

	outcomes := make([]domain.RemediationOutcome, 0, len(candidates))
	for _, cand := range candidates {
		outcomes = append(outcomes, s.remediateOne(ctx, log, cand.AccountID, targetOU, removeGroups))
	}

	var failed int
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	log.Info("remediation finished", "succeeded", len(outcomes)-failed, "failed", failed)
	return outcomes, nil
}

// remediateOne runs disable, move, and optional group strip for a single
// account. Ordering within the account is fixed; errors are captured on the
// outcome rather than returned.
func (s *Service) remediateOne(ctx context.Context, log *slog.Logger, accountID, targetOU string, removeGroups bool) domain.RemediationOutcome {
	out := domain.RemediationOutcome{AccountID: accountID, GroupsSkipped: !removeGroups}

	if err := s.waitMutation(ctx); err != nil {
		out.Err = err
		return out
	}
	if err := s.dir.DisableAccount(ctx, accountID); err != nil {
		out.Err = fmt.Errorf("disable: %w", err)
		log.Error("account remediation failed", "account", accountID, "error", out.Err)
		return out
	}
	out.Disabled = true

	if err := s.waitMutation(ctx); err != nil {
		out.Err = err
		return out
	}
	newDN, err := s.dir.MoveAccount(ctx, accountID, targetOU)
	if err != nil {
		out.Err = fmt.Errorf("move: %w", err)
		log.Error("account remediation failed", "account", accountID, "error", out.Err)
		return out
	}
	out.Moved = true

	if removeGroups {
		out.GroupsRemoved, out.GroupsTotal = s.stripGroups(ctx, log, accountID)
	}

	log.Info("account remediated", "account", accountID, "dn", newDN,
		"groups_removed", out.GroupsRemoved, "groups_skipped", out.GroupsSkipped)
	return out
}

// stripGroups removes the account from every group it is a member of.
// Individual group failures are logged and tolerated; they never affect the
// account's disable/move outcome. Returns the number of removals that
// succeeded and the membership count seen, with total -1 when the lookup
// itself failed.
func (s *Service) stripGroups(ctx context.Context, log *slog.Logger, accountID string) (removed, total int) {
	// The move changed the DN, so re-resolve before touching memberships.
	dn, groups, err := s.dir.GroupsOf(ctx, accountID)
	if err != nil {
		log.Warn("group lookup failed; leaving memberships in place", "account", accountID, "error", err)
		return 0, -1
	}
	if len(groups) == 0 {
		return 0, 0
	}
	for _, group := range groups {
		if err := s.waitMutation(ctx); err != nil {
			log.Warn("group removal interrupted", "account", accountID, "error", err)
			break
		}
		if err := s.dir.RemoveFromGroup(ctx, dn, group); err != nil {
			log.Warn("group removal failed", "account", accountID, "group", group, "error", err)
			continue
		}
		removed++
	}
	return removed, len(groups)
}

// waitMutation blocks on the mutation throttle when one is configured.
func (s *Service) waitMutation(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

// Export runs the query and writes the result set to dest in the given
// format. The destination's containing directory is validated before any
// directory access. Returns the number of rows written; zero with a nil
// error means the no-op empty-result case and no file is created.
func (s *Service) Export(ctx context.Context, c domain.InactivityCriteria, dest string, format Format) (int, error) {
	parent := filepath.Dir(dest)
	info, err := os.Stat(parent)
	if err != nil || !info.IsDir() {
		return 0, domain.ErrValidation("export destination invalid: %s is not an existing directory", parent)
	}

	rows, err := s.FindInactive(ctx, c)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		s.logger.Info("no matches; no report written", "path", dest)
		return 0, nil
	}

	f, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("export failure: %w", err)
	}
	switch format {
	case FormatHTML:
		err = report.WriteHTML(f, c, rows, s.now())
	default:
		err = report.WriteCSV(f, rows)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("export failure: %w", err)
	}

	s.logger.Info("report written", "path", dest, "format", string(format), "rows", len(rows))
	return len(rows), nil
}
