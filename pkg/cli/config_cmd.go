package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration profiles",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetProfileCmd())
	cmd.AddCommand(newConfigUseProfileCmd())

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadUserConfig()
			if err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "No configuration found at %s\n", ConfigPath())
				return err
			}
			if !reveal {
				cfg = maskConfig(cfg)
			}
			output, _ := cmd.Root().PersistentFlags().GetString("output")
			if output == "json" {
				return PrintJSON(os.Stdout, cfg)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, _ = fmt.Fprint(os.Stdout, string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "Show sensitive values unmasked")

	return cmd
}

func newConfigSetProfileCmd() *cobra.Command {
	var (
		url          string
		bindDN       string
		bindPassword string
		baseDN       string
		output       string
	)

	cmd := &cobra.Command{
		Use:   "set-profile <name>",
		Short: "Create or update a named profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := args[0]
			cfg, err := LoadUserConfig()
			if err != nil {
				cfg = &UserConfig{CurrentProfile: "default", Profiles: map[string]Profile{}}
			}

			p := cfg.Profiles[name]
			if url != "" {
				p.URL = url
			}
			if bindDN != "" {
				p.BindDN = bindDN
			}
			if bindPassword != "" {
				p.BindPassword = bindPassword
			}
			if baseDN != "" {
				p.BaseDN = baseDN
			}
			if output != "" {
				p.Output = output
			}
			cfg.Profiles[name] = p

			if err := SaveUserConfig(cfg); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Profile %q saved to %s\n", name, ConfigPath())
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Directory server URL")
	cmd.Flags().StringVar(&bindDN, "bind-dn", "", "Bind DN")
	cmd.Flags().StringVar(&bindPassword, "bind-password", "", "Bind password")
	cmd.Flags().StringVar(&baseDN, "base-dn", "", "Search base DN")
	cmd.Flags().StringVar(&output, "output", "", "Default output format")

	return cmd
}

func newConfigUseProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use-profile <name>",
		Short: "Switch the active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			name := args[0]
			cfg, err := LoadUserConfig()
			if err != nil {
				return fmt.Errorf("no configuration found; create a profile first with set-profile")
			}
			if _, ok := cfg.Profiles[name]; !ok {
				return fmt.Errorf("profile %q does not exist", name)
			}
			cfg.CurrentProfile = name
			if err := SaveUserConfig(cfg); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Switched to profile %q\n", name)
			return nil
		},
	}
}

// maskConfig returns a copy of the config with sensitive fields masked.
func maskConfig(cfg *UserConfig) *UserConfig {
	masked := &UserConfig{
		CurrentProfile: cfg.CurrentProfile,
		Profiles:       make(map[string]Profile, len(cfg.Profiles)),
	}
	for name, p := range cfg.Profiles {
		masked.Profiles[name] = Profile{
			URL:          p.URL,
			BindDN:       p.BindDN,
			BindPassword: maskSecret(p.BindPassword),
			BaseDN:       p.BaseDN,
			Output:       p.Output,
		}
	}
	return masked
}

// maskSecret masks a sensitive string, showing first 2 and last 2 chars.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "****"
	}
	return s[:2] + "****" + s[len(s)-2:]
}
