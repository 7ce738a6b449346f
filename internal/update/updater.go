// Package update re-installs skills from the provenance record written when
// they were added.
//
// A single update reads <store>/<name>/.source.json and runs the installer
// again with the stored owner, repo, skill path and URL. UpdateAll does the
// same for every immediate subdirectory of the store that carries a valid
// record, one skill at a time, collecting a result per skill instead of
// stopping at the first failure.
package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/smy-101/skills/internal/add"
	"github.com/smy-101/skills/internal/registry"
)

// UpdateResult is the outcome of updating one skill during a batch.
type UpdateResult struct {
	Name string
	Dir  string
	Err  error
}

// OK reports whether the skill was updated.
func (r UpdateResult) OK() bool {
	return r.Err == nil
}

// UpdateReport collects the per-skill outcomes of UpdateAll.
type UpdateReport struct {
	Results []UpdateResult
	// NoSkillsDir is set when the store directory does not exist.
	NoSkillsDir bool
	// NothingToUpdate is set when no directory carries a valid source record.
	NothingToUpdate bool
	Duration        time.Duration
}

// Updated returns the names of skills that were updated.
func (r *UpdateReport) Updated() []string {
	var names []string
	for _, res := range r.Results {
		if res.OK() {
			names = append(names, res.Name)
		}
	}
	return names
}

// Failed returns the results that ended in an error.
func (r *UpdateReport) Failed() []UpdateResult {
	var failed []UpdateResult
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}

type Updater struct {
	installer *add.Installer
	validator *add.PathValidator
	out       io.Writer
	errOut    io.Writer
	logger    add.Logger
}

// NewUpdater creates an Updater that re-installs through installer.
func NewUpdater(installer *add.Installer) *Updater {
	return &Updater{
		installer: installer,
		validator: add.NewPathValidator(installer.StorePath()),
		out:       os.Stdout,
		errOut:    os.Stderr,
		logger:    add.NoOpLogger{},
	}
}

// SetOutput sets the writers used for batch progress and per-skill failures.
func (u *Updater) SetOutput(out, errOut io.Writer) {
	u.out = out
	u.errOut = errOut
}

// SetLogger sets the logger for the updater. If no logger is set,
// a NoOpLogger is used which suppresses all log output.
func (u *Updater) SetLogger(logger add.Logger) {
	u.logger = logger
}

// UpdateSkill re-installs the named skill from its source record and returns
// the install directory.
func (u *Updater) UpdateSkill(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", &UpdateError{Type: UpdateErrorTypeNotFound, Message: "skill name cannot be empty"}
	}

	skillDir, err := u.validator.SkillDir(name)
	if err != nil {
		return "", err
	}

	source, err := registry.ReadSource(skillDir)
	if err != nil {
		if errors.Is(err, registry.ErrSourceNotFound) {
			return "", &UpdateError{
				Type: UpdateErrorTypeNotFound,
				Message: fmt.Sprintf("no source info found for %q. Re-install it with \"skills add <url>\" to enable updates.",
					name),
				Skill: name,
			}
		}
		u.logger.Debug("Unreadable source record", "skill", name, "error", err)
		return "", &UpdateError{
			Type:    UpdateErrorTypeMalformed,
			Message: fmt.Sprintf("could not read source info for %q: malformed %s", name, registry.SourceFileName),
			Err:     err,
			Skill:   name,
		}
	}

	u.logger.Debug("Updating skill", "skill", name, "owner", source.Owner, "repo", source.Repo, "path", source.Skill)

	installDir, err := u.installer.Install(ctx, source.Ref(), source.URL)
	if err != nil {
		return "", &UpdateError{Type: UpdateErrorTypeDownload, Err: err, Skill: name}
	}
	return installDir, nil
}

// UpdateAll updates every skill in the store that has a source record. Skills
// are processed in name order, one after another; a failure is recorded in the
// report and the loop moves on. Only a failure to read the store itself is
// returned as an error.
func (u *Updater) UpdateAll(ctx context.Context) (*UpdateReport, error) {
	startTime := time.Now()
	report := &UpdateReport{}

	skills, err := registry.ListUpdatable(u.installer.StorePath())
	if err != nil {
		if errors.Is(err, registry.ErrSkillsDirNotFound) {
			report.NoSkillsDir = true
			return report, nil
		}
		return nil, &UpdateError{Type: UpdateErrorTypeList, Message: "failed to list installed skills", Err: err}
	}

	if len(skills) == 0 {
		report.NothingToUpdate = true
		return report, nil
	}

	fmt.Fprintf(u.out, "Updating %d skill(s)...\n\n", len(skills))

	for _, skill := range skills {
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(u.errOut, "  Failed to update %q: %v\n", skill.Name, err)
			report.Results = append(report.Results, UpdateResult{Name: skill.Name, Err: err})
			continue
		}

		dir, err := u.UpdateSkill(ctx, skill.Name)
		if err != nil {
			u.logger.Error("Failed to update skill", err, "skill", skill.Name)
			fmt.Fprintf(u.errOut, "  Failed to update %q: %v\n", skill.Name, err)
		}
		report.Results = append(report.Results, UpdateResult{Name: skill.Name, Dir: dir, Err: err})
		fmt.Fprintln(u.out)
	}

	report.Duration = time.Since(startTime)
	return report, nil
}
