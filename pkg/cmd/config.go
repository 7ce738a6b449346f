package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeConfig(cmd)
	},
}

func executeConfig(cmd *cobra.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	token := "(not set)"
	if a.settings.GitHubToken != "" {
		token = "(set)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "config file:", viper.ConfigFileUsed())
	fmt.Fprintln(out, "github_token:", token)
	fmt.Fprintln(out, "proxy:", a.settings.Proxy)
	fmt.Fprintln(out, "skills_dir:", a.settings.SkillsDir)
	fmt.Fprintln(out, "api_base_url:", a.settings.APIBaseURL)
	fmt.Fprintln(out, "timeout:", a.settings.Timeout)
	fmt.Fprintln(out, "max_redirects:", a.settings.MaxRedirects)
	return nil
}
