package add

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PathValidator 路径校验器
type PathValidator struct {
	BaseStorePath string
}

// NewPathValidator 创建校验器
func NewPathValidator(basePath string) *PathValidator {
	return &PathValidator{
		BaseStorePath: basePath,
	}
}

// SkillDir resolves the install directory for a skill path and makes sure it
// stays inside the store directory.
func (v *PathValidator) SkillDir(skillPath string) (string, error) {
	if skillPath == "" {
		return "", &DownloadError{Type: ErrorTypeValidation, Message: "skill path cannot be empty"}
	}

	absBase, err := filepath.Abs(v.BaseStorePath)
	if err != nil {
		return "", &DownloadError{Type: ErrorTypeFilesystem, Message: "failed to get base absolute path", Err: err}
	}

	target := filepath.Join(absBase, filepath.FromSlash(skillPath))
	if !isWithin(absBase, target) || target == absBase {
		return "", &DownloadError{
			Type:    ErrorTypeValidation,
			Message: fmt.Sprintf("path traversal detected: %s", skillPath),
		}
	}

	return target, nil
}

// FilePath resolves a listing entry name inside an install directory. Names
// must be a single path element.
func (v *PathValidator) FilePath(installDir, name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", &DownloadError{
			Type:    ErrorTypeValidation,
			Message: fmt.Sprintf("invalid file name %q in listing", name),
		}
	}
	return filepath.Join(installDir, name), nil
}

func isWithin(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
