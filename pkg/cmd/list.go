package cmd

import (
	"errors"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/smy-101/skills/internal/registry"
	"github.com/smy-101/skills/internal/types"
)

const (
	colName        = "Name"
	colSourceURL   = "Source URL"
	colDescription = "Description"
	emptyMsg       = "No skills installed yet."
	usageHint      = "Use 'skills add <url>' to install a skill."
	noSource       = "-"
	maxDescLen     = 60
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed skills",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeList(cmd)
	},
}

// executeList scans the install root and prints a table of skill directories.
func executeList(cmd *cobra.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	skills, err := registry.ListInstalled(a.settings.SkillsDir)
	if err != nil && !errors.Is(err, registry.ErrSkillsDirNotFound) {
		return fmt.Errorf("failed to list skills: %w", err)
	}

	if len(skills) == 0 {
		fmt.Fprintln(out, emptyMsg)
		fmt.Fprintln(out, usageHint)
		return nil
	}

	cnf := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
	}

	table := tablewriter.NewTable(out, tablewriter.WithConfig(cnf))
	table.Header(colName, colSourceURL, colDescription)

	updatable := 0
	for _, skill := range skills {
		if skill.Updatable() {
			updatable++
		}
		table.Append(skill.Name, sourceColumn(skill), truncate(skill.Description, maxDescLen))
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	fmt.Fprintf(out, "\nTotal: %d skills (%d updatable)\n", len(skills), updatable)

	return nil
}

func sourceColumn(skill types.InstalledSkill) string {
	if !skill.Updatable() || skill.Source.URL == "" {
		return noSource
	}
	return skill.Source.URL
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
