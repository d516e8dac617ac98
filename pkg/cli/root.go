// Package cli implements the adsweep command-line interface.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"adsweep/internal/directory"
	"adsweep/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			_ = PrintJSON(os.Stdout, map[string]interface{}{"error": err.Error()})
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// options holds the resolved global settings shared by all commands, plus
// the store factory the tests substitute.
type options struct {
	url          string
	bindDN       string
	bindPassword string
	baseDN       string
	output       string
	profile      string
	verbose      bool

	// newStore opens the directory connection. Defaults to an LDAP dial;
	// tests inject a mock.
	newStore func(o *options) (domain.DirectoryStore, func(), error)
}

// logger builds the CLI-side slog logger; notices stay readable on stderr.
func (o *options) logger() *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func dialStore(o *options) (domain.DirectoryStore, func(), error) {
	password, err := resolveBindPassword(o)
	if err != nil {
		return nil, nil, err
	}
	client, err := directory.Connect(directory.Config{
		URL:          o.url,
		BindDN:       o.bindDN,
		BindPassword: password,
		BaseDN:       o.baseDN,
	}, o.logger())
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithOptions(&options{newStore: dialStore})
}

func newRootCmdWithOptions(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "adsweep",
		Short:         "Dormant directory-account hygiene",
		Long:          "Find, report on, and remediate inactive Active Directory accounts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Load config from profile if flags/env not set
			cfg, err := LoadUserConfig()
			if err != nil {
				// Config file is optional
				cfg = &UserConfig{
					CurrentProfile: "default",
					Profiles:       map[string]Profile{},
				}
			}
			p := cfg.ActiveProfile(opts.profile)

			// Apply precedence: flag > env > profile > default
			resolve := func(flag, env, profileValue string, target *string) {
				if cmd.Flags().Changed(flag) {
					return
				}
				if v := os.Getenv(env); v != "" {
					*target = v
				} else if profileValue != "" {
					*target = profileValue
				}
			}
			resolve("url", "ADSWEEP_URL", p.URL, &opts.url)
			resolve("bind-dn", "ADSWEEP_BIND_DN", p.BindDN, &opts.bindDN)
			resolve("bind-password", "ADSWEEP_BIND_PASSWORD", p.BindPassword, &opts.bindPassword)
			resolve("base-dn", "ADSWEEP_BASE_DN", p.BaseDN, &opts.baseDN)
			resolve("output", "ADSWEEP_OUTPUT", p.Output, &opts.output)

			if opts.output != "" && opts.output != "table" && opts.output != "json" {
				return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", opts.output)
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.url, "url", "", "Directory server URL (e.g. ldaps://dc01.example.com:636)")
	pf.StringVar(&opts.bindDN, "bind-dn", "", "Bind DN for the directory connection")
	pf.StringVar(&opts.bindPassword, "bind-password", "", "Bind password (prompted when omitted)")
	pf.StringVar(&opts.baseDN, "base-dn", "", "Search base DN")
	pf.StringVarP(&opts.output, "output", "o", "table", "Output format (table, json)")
	pf.StringVarP(&opts.profile, "profile", "p", "", "Config profile to use")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(newQueryCmd(opts))
	rootCmd.AddCommand(newReportCmd(opts))
	rootCmd.AddCommand(newRemediateCmd(opts))
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// notice prints validation and not-found conditions as warning notices and
// swallows them: the operation aborted cleanly with no side effects, which
// is not a process fault. Everything else stays an error.
func notice(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	var validation *domain.ValidationError
	var notFound *domain.NotFoundError
	if errors.As(err, &validation) || errors.As(err, &notFound) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		return nil
	}
	return err
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
	return cmd
}
