package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/smy-101/skills/internal/config"
	"github.com/smy-101/skills/pkg/cmd"
	"github.com/spf13/viper"
)

func main() {
	if err := initViper(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cmd.Execute()
}

func initViper() error {
	config.SetDefaults(viper.GetViper())

	viper.SetEnvPrefix("SKILLS")
	viper.AutomaticEnv()
	if err := viper.BindEnv(config.KeyGitHubToken, "SKILLS_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return fmt.Errorf("failed to bind github_token env: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".skills")
	configPath := filepath.Join(configDir, "config.json")

	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		defaultConfig := map[string]interface{}{
			config.KeyGitHubToken: "",
			config.KeyProxy:       "",
			config.KeySkillsDir:   "",
		}

		data, err := json.MarshalIndent(defaultConfig, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to create default config: %w", err)
		}
		if err := os.WriteFile(configPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return nil
}
