package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/smy-101/skills/internal/logger"
)

func init() {
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update [skill-name]",
	Short: "Re-fetch installed skills from their source",
	Long: `Re-fetch installed skills using the .source.json written by "skills add".

With a name only that skill is updated. Without one every skill that has a
source record is updated; failures are reported and the rest continue.

Examples:
  skills update
  skills update tailor-code-review`,
	Args: maxArgs(1, "skills update [skill-name]"),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return executeUpdateOne(cmd, args[0])
		}
		return executeUpdateAll(cmd)
	},
}

func executeUpdateOne(cmd *cobra.Command, name string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	installDir, err := a.updater.UpdateSkill(cmd.Context(), name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	color.New(color.FgGreen).Fprintf(out, "\nSkill %q updated at %s/\n", name, installDir)
	fmt.Fprintln(out, "Restart Claude Code to apply changes.")
	return nil
}

func executeUpdateAll(cmd *cobra.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	report, err := a.updater.UpdateAll(cmd.Context())
	if err != nil {
		return err
	}
	logger.G(cmd.Context()).WithField("duration", report.Duration).Debug("Batch update finished")

	out := cmd.OutOrStdout()

	if report.NoSkillsDir {
		fmt.Fprintln(out, "No skills directory found. Nothing to update.")
		return nil
	}
	if report.NothingToUpdate {
		fmt.Fprintln(out, "No updatable skills found.")
		fmt.Fprintln(out, `Re-install skills with "skills add <url>" to enable updates.`)
		return nil
	}

	updated := len(report.Updated())
	failed := report.Failed()

	summary := color.New(color.FgGreen)
	if len(failed) > 0 {
		summary = color.New(color.FgYellow)
		fmt.Fprintln(out, "Failed:")
		for _, res := range failed {
			fmt.Fprintf(out, "  • %s\n", res.Name)
		}
	}
	summary.Fprintf(out, "Done. %d updated, %d failed.\n", updated, len(failed))

	if updated > 0 {
		fmt.Fprintln(out, "Restart Claude Code to apply changes.")
	}
	return nil
}
