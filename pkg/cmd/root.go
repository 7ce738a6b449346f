package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/smy-101/skills/internal/config"
)

// usageError makes Execute print the command's usage to stderr.
type usageError struct {
	cmd *cobra.Command
	msg string
}

func (e *usageError) Error() string {
	if e.msg == "" {
		return "invalid usage"
	}
	return e.msg
}

var rootCmd = &cobra.Command{
	Use:   "skills",
	Short: "Install and update skills from GitHub",
	Long: `skills installs skill directories from GitHub repositories into ~/.claude/skills
and keeps a .source.json next to them so they can be updated later.

Examples:
  skills add https://github.com/TailorHub-Mad/ai-skills/tailor-code-review
  skills update
  skills update tailor-code-review`,

	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	SilenceErrors:     true,
	SilenceUsage:      true,

	// Without a known subcommand we print usage and fail.
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return &usageError{cmd: cmd, msg: fmt.Sprintf("unknown command %q", args[0])}
		}
		return &usageError{cmd: cmd}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("skills-dir", "", "Install root (default ~/.claude/skills)")
	_ = viper.BindPFlag(config.KeySkillsDir, rootCmd.PersistentFlags().Lookup("skills-dir"))

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{cmd: cmd, msg: err.Error()}
	})
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command tree with args and returns the process exit code.
func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var ue *usageError
	if errors.As(err, &ue) {
		if ue.msg != "" {
			fmt.Fprintf(errOut, "%s %s\n\n", color.RedString("Error:"), ue.msg)
		}
		fmt.Fprint(errOut, ue.cmd.UsageString())
		return 1
	}

	fmt.Fprintf(errOut, "%s %v\n", color.RedString("Error:"), err)
	return 1
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &usageError{cmd: cmd, msg: "usage: " + usage}
		}
		return nil
	}
}

func maxArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return &usageError{cmd: cmd, msg: "usage: " + usage}
		}
		return nil
	}
}
