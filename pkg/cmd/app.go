package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/smy-101/skills/internal/add"
	"github.com/smy-101/skills/internal/config"
	"github.com/smy-101/skills/internal/logger"
	"github.com/smy-101/skills/internal/update"
)

// app bundles the services a command needs, built from the current config.
type app struct {
	settings  *config.Settings
	installer *add.Installer
	updater   *update.Updater
}

func newApp(cmd *cobra.Command) (*app, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level := settings.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	if err := logger.SetLogLevel(level); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLogOutput(cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	entry := logger.G(ctx).WithField("command", cmd.Name())
	cmd.SetContext(logger.WithLogger(ctx, entry))
	log := logger.NewAdapter(entry)

	client := settings.NewClient(log)
	client.SetRestyLogger(log)

	installer := add.NewInstaller(client, settings.SkillsDir)
	installer.SetOutput(cmd.OutOrStdout())
	installer.SetLogger(log)

	updater := update.NewUpdater(installer)
	updater.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	updater.SetLogger(log)

	return &app{
		settings:  settings,
		installer: installer,
		updater:   updater,
	}, nil
}
