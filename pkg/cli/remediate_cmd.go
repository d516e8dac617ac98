package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"adsweep/internal/domain"
	"adsweep/internal/service/hygiene"
)

// affirmatives is the explicit allow-list for the confirmation gate. Any
// other answer, including empty input, declines the whole batch.
var affirmatives = map[string]bool{"y": true, "yes": true}

func newRemediateCmd(opts *options) *cobra.Command {
	flags := &criteriaFlags{}
	var (
		targetOU     string
		removeGroups bool
		autoApprove  bool
		mutationRate float64
	)

	cmd := &cobra.Command{
		Use:   "remediate",
		Short: "Disable and relocate inactive accounts",
		Long: "Runs the inactivity query, presents the candidates, and after an explicit confirmation " +
			"disables each account, moves it to the target OU, and optionally strips its group memberships.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := flags.build()
			if err != nil {
				return notice(cmd, err)
			}
			if !autoApprove && !IsStdinTTY() {
				return fmt.Errorf("confirmation required but stdin is not a terminal; use --auto-approve")
			}

			store, closeStore, err := opts.newStore(opts)
			if err != nil {
				return err
			}
			defer closeStore()

			svc := hygiene.New(store, opts.logger(), hygiene.WithMutationRate(mutationRate))

			prompted := false
			confirm := func(candidates []domain.InactiveUserSummary) bool {
				prompted = true
				PrintTable(cmd.OutOrStdout(), summaryHeaders, summaryRows(candidates))
				if autoApprove {
					return true
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nDisable and move %d account(s) to %s? [y/N] ", len(candidates), targetOU)
				answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return false
				}
				if !affirmatives[strings.ToLower(strings.TrimSpace(answer))] {
					fmt.Fprintln(cmd.OutOrStdout(), "Remediation cancelled; no changes made.")
					return false
				}
				return true
			}

			outcomes, err := svc.Remediate(cmd.Context(), criteria, targetOU, removeGroups, confirm)
			if err != nil {
				return notice(cmd, err)
			}
			if outcomes == nil {
				if !prompted {
					fmt.Fprintln(cmd.OutOrStdout(), "No matching accounts; nothing to do.")
				}
				return nil
			}

			var failed int
			for _, o := range outcomes {
				fmt.Fprintln(cmd.OutOrStdout(), o.Describe())
				if o.Err != nil {
					failed++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nRemediation complete: %d succeeded, %d failed.\n", len(outcomes)-failed, failed)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&targetOU, "target-ou", "", "OU to move disabled accounts into")
	cmd.Flags().BoolVar(&removeGroups, "remove-groups", false, "Also remove each account from all its groups")
	cmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "Skip interactive confirmation prompt")
	cmd.Flags().Float64Var(&mutationRate, "rate", 0, "Throttle directory mutations to this many per second (0 = unthrottled)")
	_ = cmd.MarkFlagRequired("target-ou")
	return cmd
}
