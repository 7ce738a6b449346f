package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/smy-101/skills/internal/add"
)

func init() {
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Install a skill from a GitHub repository",
	Long: `Install a skill from a GitHub repository.

The URL path is <owner>/<repo>/<skill>; the skill is read from the
repository's skills/<skill> directory and installed to ~/.claude/skills/<skill>.

Example:
  skills add https://github.com/TailorHub-Mad/ai-skills/tailor-code-review`,
	Args: exactArgs(1, "skills add <github-skill-url>"),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeAdd(cmd, args[0])
	},
}

func executeAdd(cmd *cobra.Command, rawURL string) error {
	ref, err := add.ParseSkillURL(rawURL)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	installDir, err := a.installer.Install(cmd.Context(), ref, rawURL)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	color.New(color.FgGreen).Fprintf(out, "\nSkill %q installed to %s/\n", ref.SkillPath, installDir)
	fmt.Fprintln(out, "Restart Claude Code to use it.")
	return nil
}
