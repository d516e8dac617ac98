package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"adsweep/internal/domain"
	"adsweep/internal/service/hygiene"
	"adsweep/internal/waiver"
)

// criteriaFlags are the query parameters shared by query, report, and
// remediate.
type criteriaFlags struct {
	days          int
	ou            string
	neverLoggedIn bool
	excludeFile   string
}

func (f *criteriaFlags) register(cmd *cobra.Command) {
	f.bind(cmd.Flags())
	_ = cmd.MarkFlagRequired("days")
}

func (f *criteriaFlags) bind(fs *pflag.FlagSet) {
	fs.IntVar(&f.days, "days", 0, "Inactivity window in days (1-3650)")
	fs.StringVar(&f.ou, "ou", "", "Restrict the search to this organizational unit DN")
	fs.BoolVar(&f.neverLoggedIn, "never-logged-in", false, "Match accounts that never logged on instead of stale logons")
	fs.StringVar(&f.excludeFile, "exclude-file", "", "YAML waiver file of accounts to exclude")
}

// build validates the flags into criteria, loading the waiver file when one
// was given.
func (f *criteriaFlags) build() (domain.InactivityCriteria, error) {
	mode := domain.ModeLastLogonBefore
	if f.neverLoggedIn {
		mode = domain.ModeNeverLoggedIn
	}
	criteria, err := domain.NewCriteria(f.days, f.ou, mode)
	if err != nil {
		return domain.InactivityCriteria{}, err
	}
	if f.excludeFile != "" {
		set, err := waiver.Load(f.excludeFile)
		if err != nil {
			return domain.InactivityCriteria{}, err
		}
		criteria = criteria.WithExclusions(set.Accounts(time.Now()))
	}
	return criteria, nil
}

func newQueryCmd(opts *options) *cobra.Command {
	flags := &criteriaFlags{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "List inactive accounts",
		Long:  "Evaluates all enabled accounts in the directory (or one OU) against the inactivity window and lists the matches.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := flags.build()
			if err != nil {
				return notice(cmd, err)
			}

			store, closeStore, err := opts.newStore(opts)
			if err != nil {
				return err
			}
			defer closeStore()

			svc := hygiene.New(store, opts.logger())
			rows, err := svc.FindInactive(cmd.Context(), criteria)
			if err != nil {
				return notice(cmd, err)
			}

			if opts.output == "json" {
				return PrintJSON(cmd.OutOrStdout(), map[string]interface{}{
					"data":  rows,
					"count": len(rows),
				})
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matches.")
				return nil
			}
			PrintTable(cmd.OutOrStdout(), summaryHeaders, summaryRows(rows))
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d account(s) matched.\n", len(rows))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
