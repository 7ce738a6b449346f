package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/smy-101/skills/internal/types"
)

// SourceFileName is the provenance record kept at the root of each skill directory.
const SourceFileName = ".source.json"

var (
	ErrSourceNotFound    = errors.New("source record not found")
	ErrSourceMalformed   = errors.New("malformed source record")
	ErrSkillsDirNotFound = errors.New("skills directory not found")
)

var (
	sourceMutexes sync.Map
)

func SourcePath(skillDir string) string {
	return filepath.Join(skillDir, SourceFileName)
}

// ReadSource loads the provenance record of a skill directory. A record is
// only accepted when it decodes and names an owner, repo and skill.
func ReadSource(skillDir string) (*types.SourceRecord, error) {
	data, err := os.ReadFile(SourcePath(skillDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSourceNotFound
		}
		return nil, fmt.Errorf("failed to read source record: %w", err)
	}

	var record types.SourceRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceMalformed, err)
	}

	if err := validateSourceRecord(&record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceMalformed, err)
	}

	return &record, nil
}

func validateSourceRecord(record *types.SourceRecord) error {
	if record.Owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if record.Repo == "" {
		return fmt.Errorf("repo cannot be empty")
	}
	if record.Skill == "" {
		return fmt.Errorf("skill cannot be empty")
	}
	return nil
}

// WriteSource replaces the provenance record of a skill directory.
func WriteSource(skillDir string, record *types.SourceRecord) error {
	if record == nil {
		return fmt.Errorf("source record cannot be nil")
	}
	if err := validateSourceRecord(record); err != nil {
		return err
	}

	sourcePath := SourcePath(skillDir)

	muIface, _ := sourceMutexes.LoadOrStore(sourcePath, &sync.Mutex{})
	mu, ok := muIface.(*sync.Mutex)
	if !ok {
		return fmt.Errorf("failed to get mutex for source path")
	}
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(skillDir, 0755); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal source record: %w", err)
	}

	tmpPath := sourcePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary source file: %w", err)
	}

	if err := os.Rename(tmpPath, sourcePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename source file: %w", err)
	}

	return nil
}

// ListInstalled returns every immediate subdirectory of root, sorted by name.
// Source is nil for directories without a usable provenance record.
func ListInstalled(root string) ([]types.InstalledSkill, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSkillsDirNotFound
		}
		return nil, fmt.Errorf("failed to read skills directory: %w", err)
	}

	skills := make([]types.InstalledSkill, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dir := filepath.Join(root, entry.Name())
		skill := types.InstalledSkill{
			Name: entry.Name(),
			Dir:  dir,
		}

		if source, err := ReadSource(dir); err == nil {
			skill.Source = source
		}

		if desc, err := ReadDescription(dir); err == nil {
			skill.Description = desc
		}

		skills = append(skills, skill)
	}

	sort.Slice(skills, func(i, j int) bool {
		return skills[i].Name < skills[j].Name
	})

	return skills, nil
}

// ListUpdatable filters ListInstalled down to skills with a valid record.
func ListUpdatable(root string) ([]types.InstalledSkill, error) {
	skills, err := ListInstalled(root)
	if err != nil {
		return nil, err
	}

	updatable := make([]types.InstalledSkill, 0, len(skills))
	for _, s := range skills {
		if s.Updatable() {
			updatable = append(updatable, s)
		}
	}
	return updatable, nil
}
