package add

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/smy-101/skills/internal/registry"
	"github.com/smy-101/skills/internal/types"
)

// Installer downloads a skill listing into the local store and records where
// it came from.
type Installer struct {
	client    *Client
	validator *PathValidator
	out       io.Writer
	logger    Logger
}

// NewInstaller 创建安装器
func NewInstaller(client *Client, storePath string) *Installer {
	return &Installer{
		client:    client,
		validator: NewPathValidator(storePath),
		out:       os.Stdout,
		logger:    NoOpLogger{},
	}
}

// SetOutput sets where progress lines are printed.
func (i *Installer) SetOutput(w io.Writer) {
	i.out = w
}

func (i *Installer) SetLogger(logger Logger) {
	i.logger = logger
}

// StorePath returns the root every skill is installed under.
func (i *Installer) StorePath() string {
	return i.validator.BaseStorePath
}

// Install fetches the listing for ref, downloads each file entry in order and
// writes the provenance record. Directory entries are skipped. A failure part
// way through leaves the files written so far in place.
func (i *Installer) Install(ctx context.Context, ref *types.SkillRef, originURL string) (string, error) {
	if ref == nil {
		return "", &DownloadError{Type: ErrorTypeValidation, Message: "skill reference cannot be nil"}
	}

	installDir, err := i.validator.SkillDir(ref.SkillPath)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(i.out, "Fetching skill %q from %s/%s...\n", ref.SkillPath, ref.Owner, ref.Repo)

	contents, err := i.client.GetSkillContents(ctx, ref)
	if err != nil {
		return "", err
	}

	i.logger.Debug("Listed skill contents", "skill", ref.SkillPath, "entries", len(contents))

	existed, err := ensureDir(installDir)
	if err != nil {
		return "", err
	}
	if existed {
		i.logger.Debug("Overwriting existing install", "dir", installDir)
	}

	for _, content := range contents {
		if !content.IsFile() {
			i.logger.Debug("Skipping non-file entry", "name", content.Name, "type", content.Type)
			continue
		}

		targetPath, err := i.validator.FilePath(installDir, content.Name)
		if err != nil {
			return "", err
		}

		fmt.Fprintf(i.out, "  Downloading %s...\n", content.Name)
		if err := i.downloadFile(ctx, content.DownloadURL, targetPath); err != nil {
			return "", err
		}
	}

	record := &types.SourceRecord{
		URL:   originURL,
		Owner: ref.Owner,
		Repo:  ref.Repo,
		Skill: ref.SkillPath,
	}
	if err := registry.WriteSource(installDir, record); err != nil {
		return "", &DownloadError{Type: ErrorTypeFilesystem, Message: "failed to write source record", Err: err}
	}

	i.logger.Info("Skill installed", "skill", ref.SkillPath, "dir", installDir)

	return installDir, nil
}

// downloadFile 下载单个文件
func (i *Installer) downloadFile(ctx context.Context, downloadURL, destPath string) error {
	data, err := i.client.DownloadRawContent(ctx, downloadURL)
	if err != nil {
		return err
	}

	// 写入文件
	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return &DownloadError{
			Type:    ErrorTypeFilesystem,
			Message: fmt.Sprintf("failed to write file %s", destPath),
			Err:     err,
		}
	}

	return nil
}
