package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smy-101/skills/internal/config"
	"github.com/smy-101/skills/internal/logger"
	"github.com/smy-101/skills/internal/registry"
)

// setupCommandTest isolates HOME and viper and points the API at ts.
func setupCommandTest(t *testing.T, ts *httptest.Server) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)

	color.NoColor = true

	flag := rootCmd.PersistentFlags().Lookup("skills-dir")
	require.NoError(t, flag.Value.Set(""))
	flag.Changed = false

	viper.Reset()
	config.SetDefaults(viper.GetViper())
	require.NoError(t, viper.BindPFlag(config.KeySkillsDir, flag))
	if ts != nil {
		viper.Set(config.KeyAPIBaseURL, ts.URL)
	}
	t.Cleanup(viper.Reset)

	return filepath.Join(home, ".claude", "skills")
}

func runCommand(args ...string) (int, string, string) {
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

// newGitHubStub serves skills/<name> listings for repo Acme/tools. Every
// listing holds SKILL.md, a nested directory and notes.txt.
func newGitHubStub(t *testing.T, hits map[string]int) *httptest.Server {
	t.Helper()

	var ts *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/Acme/tools/contents/skills/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/repos/Acme/tools/contents/skills/")
		hits[name]++
		if name == "missing" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		fmt.Fprintf(w, `[
			{"name":"SKILL.md","type":"file","download_url":"%[1]s/raw/%[2]s/SKILL.md"},
			{"name":"scripts","type":"dir","download_url":null},
			{"name":"notes.txt","type":"file","download_url":"%[1]s/raw/%[2]s/notes.txt"}
		]`, ts.URL, name)
	})
	mux.HandleFunc("/raw/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/raw/")
		if strings.HasSuffix(path, "SKILL.md") {
			fmt.Fprintf(w, "---\nname: %s\ndescription: Skill %s\n---\n", filepath.Dir(path), filepath.Dir(path))
			return
		}
		fmt.Fprintf(w, "notes for %s", path)
	})
	ts = httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestUsage(t *testing.T) {
	setupCommandTest(t, nil)

	tests := []struct {
		name   string
		args   []string
		errMsg string
	}{
		{name: "no command", args: []string{}},
		{name: "unknown command", args: []string{"frobnicate"}, errMsg: `unknown command "frobnicate"`},
		{name: "add without url", args: []string{"add"}, errMsg: "skills add <github-skill-url>"},
		{name: "update with two names", args: []string{"update", "a", "b"}, errMsg: "skills update [skill-name]"},
		{name: "unknown flag", args: []string{"add", "--nope", "x"}, errMsg: "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := runCommand(tt.args...)
			assert.Equal(t, 1, code)
			assert.Empty(t, out)
			assert.Contains(t, errOut, "Usage:")
			if tt.errMsg != "" {
				assert.Contains(t, errOut, tt.errMsg)
			}
		})
	}
}

func TestAddAndUpdateRoundTrip(t *testing.T) {
	hits := map[string]int{}
	ts := newGitHubStub(t, hits)
	skillsDir := setupCommandTest(t, ts)

	const skillURL = "https://github.com/Acme/tools/review"

	code, out, errOut := runCommand("add", skillURL)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, `Fetching skill "review" from Acme/tools...`)
	assert.Contains(t, out, fmt.Sprintf(`Skill "review" installed to %s/`, filepath.Join(skillsDir, "review")))

	installDir := filepath.Join(skillsDir, "review")
	entries, err := os.ReadDir(installDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{".source.json", "SKILL.md", "notes.txt"}, names)

	record, err := registry.ReadSource(installDir)
	require.NoError(t, err)
	assert.Equal(t, skillURL, record.URL)
	assert.Equal(t, "Acme", record.Owner)
	assert.Equal(t, "tools", record.Repo)
	assert.Equal(t, "review", record.Skill)

	require.NoError(t, os.Remove(filepath.Join(installDir, "notes.txt")))

	code, out, errOut = runCommand("update", "review")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, fmt.Sprintf(`Skill "review" updated at %s/`, installDir))
	assert.FileExists(t, filepath.Join(installDir, "notes.txt"))
	assert.Equal(t, 2, hits["review"])

	again, err := registry.ReadSource(installDir)
	require.NoError(t, err)
	assert.Equal(t, record, again)
}

func TestAddErrors(t *testing.T) {
	hits := map[string]int{}
	ts := newGitHubStub(t, hits)
	skillsDir := setupCommandTest(t, ts)

	t.Run("bad url", func(t *testing.T) {
		code, _, errOut := runCommand("add", "https://github.com/Acme/tools")
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "Error:")
		assert.Contains(t, errOut, "Invalid skill URL")
		assert.Empty(t, hits)
	})

	t.Run("remote 404", func(t *testing.T) {
		code, _, errOut := runCommand("add", "https://github.com/Acme/tools/missing")
		assert.Equal(t, 1, code)
		assert.Contains(t, errOut, "Error: could not fetch skill from GitHub API")
		assert.Contains(t, errOut, "404")
		assert.NoDirExists(t, filepath.Join(skillsDir, "missing"))
	})
}

func TestUpdateSingleWithoutSource(t *testing.T) {
	skillsDir := setupCommandTest(t, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(skillsDir, "manual"), 0755))

	code, _, errOut := runCommand("update", "manual")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `no source info found for "manual"`)
}

func TestUpdateAllCommand(t *testing.T) {
	hits := map[string]int{}
	ts := newGitHubStub(t, hits)
	skillsDir := setupCommandTest(t, ts)

	for _, name := range []string{"review", "missing"} {
		dir := filepath.Join(skillsDir, name)
		require.NoError(t, os.MkdirAll(dir, 0755))
		record := fmt.Sprintf(`{"url":"https://github.com/Acme/tools/%[1]s","owner":"Acme","repo":"tools","skill":"%[1]s"}`, name)
		require.NoError(t, os.WriteFile(filepath.Join(dir, registry.SourceFileName), []byte(record), 0644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(skillsDir, "handmade"), 0755))

	code, out, errOut := runCommand("update")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Updating 2 skill(s)...")
	assert.Contains(t, out, "Done. 1 updated, 1 failed.")
	assert.Contains(t, out, "  • missing")
	assert.Contains(t, errOut, `Failed to update "missing"`)
	assert.Zero(t, hits["handmade"])
}

func TestUpdateAllNothing(t *testing.T) {
	t.Run("no skills directory", func(t *testing.T) {
		setupCommandTest(t, nil)
		code, out, _ := runCommand("update")
		assert.Equal(t, 0, code)
		assert.Contains(t, out, "No skills directory found. Nothing to update.")
	})

	t.Run("no records", func(t *testing.T) {
		skillsDir := setupCommandTest(t, nil)
		require.NoError(t, os.MkdirAll(filepath.Join(skillsDir, "manual"), 0755))
		code, out, _ := runCommand("update")
		assert.Equal(t, 0, code)
		assert.Contains(t, out, "No updatable skills found.")
	})
}

func TestSkillsDirFlag(t *testing.T) {
	hits := map[string]int{}
	ts := newGitHubStub(t, hits)
	setupCommandTest(t, ts)

	custom := t.TempDir()
	code, _, errOut := runCommand("--skills-dir", custom, "add", "https://github.com/Acme/tools/review")
	require.Equal(t, 0, code, errOut)
	assert.FileExists(t, filepath.Join(custom, "review", registry.SourceFileName))
}

func TestList(t *testing.T) {
	hits := map[string]int{}
	ts := newGitHubStub(t, hits)
	skillsDir := setupCommandTest(t, ts)

	code, out, _ := runCommand("list")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, emptyMsg)

	code, _, errOut := runCommand("add", "https://github.com/Acme/tools/review")
	require.Equal(t, 0, code, errOut)
	require.NoError(t, os.MkdirAll(filepath.Join(skillsDir, "handmade"), 0755))

	code, out, _ = runCommand("list")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "review")
	assert.Contains(t, out, "https://github.com/Acme/tools/review")
	assert.Contains(t, out, "Skill review")
	assert.Contains(t, out, "handmade")
	assert.Contains(t, out, "Total: 2 skills (1 updatable)")
}

func TestConfigCommand(t *testing.T) {
	skillsDir := setupCommandTest(t, nil)
	viper.Set(config.KeyGitHubToken, "secret-token")

	code, out, _ := runCommand("config")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "github_token: (set)")
	assert.NotContains(t, out, "secret-token")
	assert.Contains(t, out, "skills_dir: "+skillsDir)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

func TestNewAppAttachesCommandLogger(t *testing.T) {
	setupCommandTest(t, nil)

	var errOut bytes.Buffer
	c := &cobra.Command{Use: "sync"}
	c.SetErr(&errOut)
	c.SetContext(context.Background())

	_, err := newApp(c)
	require.NoError(t, err)

	entry := logger.G(c.Context())
	assert.Equal(t, "sync", entry.Data["command"])
}
