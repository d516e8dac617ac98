package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"adsweep/internal/notify"
	"adsweep/internal/service/hygiene"
)

func newReportCmd(opts *options) *cobra.Command {
	flags := &criteriaFlags{}
	var (
		outPath string
		format  string
		mailTo  string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export inactive accounts to a report file",
		Long:  "Runs the inactivity query and writes the matches as a CSV or HTML report. No file is written when nothing matches.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := flags.build()
			if err != nil {
				return notice(cmd, err)
			}
			reportFormat, err := hygiene.ParseFormat(format)
			if err != nil {
				return notice(cmd, err)
			}

			store, closeStore, err := opts.newStore(opts)
			if err != nil {
				return err
			}
			defer closeStore()

			svc := hygiene.New(store, opts.logger())
			n, err := svc.Export(cmd.Context(), criteria, outPath, reportFormat)
			if err != nil {
				return notice(cmd, err)
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matches; no report written.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s (%d account(s)).\n", outPath, n)

			if mailTo != "" {
				if err := mailReport(cmd, outPath, n, mailTo, opts); err != nil {
					// Delivery failure does not undo a successful export.
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report mailed to %s.\n", mailTo)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&outPath, "out", "", "Destination path for the report")
	cmd.Flags().StringVar(&format, "format", "csv", "Report format (csv, html)")
	cmd.Flags().StringVar(&mailTo, "mail-to", "", "Mail the report to this address after export")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// mailReport sends the written artifact using the SMTP settings from the
// environment; without them the delivery is logged and skipped.
func mailReport(cmd *cobra.Command, path string, rows int, to string, opts *options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read report for mailing: %w", err)
	}

	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	cfg := notify.SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		From:     os.Getenv("SMTP_FROM"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
	}
	var sender notify.Sender
	if cfg.Configured() {
		sender = notify.NewSMTPSender(cfg)
	} else {
		sender = &notify.LogSender{Logger: opts.logger()}
	}

	return sender.Send(cmd.Context(), to, notify.Report{
		Filename: filepath.Base(path),
		Data:     data,
		Summary:  fmt.Sprintf("%d inactive account(s) found.", rows),
	})
}
