package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/smy-101/skills/internal/add"
	"github.com/spf13/viper"
)

// Config keys understood in ~/.skills/config.json and as SKILLS_* env vars.
const (
	KeyGitHubToken  = "github_token"
	KeyProxy        = "proxy"
	KeySkillsDir    = "skills_dir"
	KeyAPIBaseURL   = "api_base_url"
	KeyTimeout      = "timeout"
	KeyMaxRedirects = "max_redirects"
	KeyRetryCount   = "retry_count"
	KeyLogLevel     = "log_level"
)

// Settings is the typed view of the viper configuration.
type Settings struct {
	GitHubToken  string
	Proxy        string
	SkillsDir    string
	APIBaseURL   string
	Timeout      time.Duration
	MaxRedirects int
	RetryCount   int
	LogLevel     string
}

// DefaultSkillsDir returns ~/.claude/skills.
func DefaultSkillsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "skills"), nil
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyGitHubToken, "")
	v.SetDefault(KeyProxy, "")
	v.SetDefault(KeySkillsDir, "")
	v.SetDefault(KeyAPIBaseURL, add.DefaultAPIBaseURL)
	v.SetDefault(KeyTimeout, add.DefaultTimeout.String())
	v.SetDefault(KeyMaxRedirects, add.DefaultMaxRedirects)
	v.SetDefault(KeyRetryCount, 0)
	v.SetDefault(KeyLogLevel, "warn")
}

// Load reads Settings from v. An empty skills_dir falls back to ~/.claude/skills.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		GitHubToken:  v.GetString(KeyGitHubToken),
		Proxy:        v.GetString(KeyProxy),
		SkillsDir:    v.GetString(KeySkillsDir),
		APIBaseURL:   v.GetString(KeyAPIBaseURL),
		MaxRedirects: v.GetInt(KeyMaxRedirects),
		RetryCount:   v.GetInt(KeyRetryCount),
		LogLevel:     v.GetString(KeyLogLevel),
	}

	timeout, err := parseTimeout(v.Get(KeyTimeout))
	if err != nil {
		return nil, err
	}
	s.Timeout = timeout

	if s.SkillsDir == "" {
		dir, err := DefaultSkillsDir()
		if err != nil {
			return nil, err
		}
		s.SkillsDir = dir
	}
	if s.APIBaseURL == "" {
		s.APIBaseURL = add.DefaultAPIBaseURL
	}
	if s.Timeout <= 0 {
		s.Timeout = add.DefaultTimeout
	}
	if s.MaxRedirects < 0 {
		return nil, fmt.Errorf("%s cannot be negative", KeyMaxRedirects)
	}
	if s.RetryCount < 0 {
		return nil, fmt.Errorf("%s cannot be negative", KeyRetryCount)
	}

	return s, nil
}

// NewClient builds a GitHub client configured from s.
func (s *Settings) NewClient(logger add.Logger) *add.Client {
	client := add.NewClient(s.GitHubToken)
	client.SetBaseURL(s.APIBaseURL)
	client.SetTimeout(s.Timeout)
	client.SetMaxRedirects(s.MaxRedirects)
	client.SetRetryCount(s.RetryCount)
	client.SetProxy(s.Proxy)
	if logger != nil {
		client.SetLogger(logger)
	}
	return client
}

// parseTimeout accepts a duration string ("30s", "1m") or a bare number of
// seconds. JSON config files decode numbers as float64.
func parseTimeout(raw any) (time.Duration, error) {
	switch val := raw.(type) {
	case nil:
		return 0, nil
	case time.Duration:
		return val, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case int64:
		return time.Duration(val) * time.Second, nil
	case float64:
		return time.Duration(val * float64(time.Second)), nil
	case string:
		val = strings.TrimSpace(val)
		if val == "" {
			return 0, nil
		}
		if secs, err := strconv.ParseFloat(val, 64); err == nil {
			return time.Duration(secs * float64(time.Second)), nil
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", KeyTimeout, val, err)
		}
		return d, nil
	default:
		return 0, fmt.Errorf("invalid %s: unsupported value %v", KeyTimeout, raw)
	}
}
