package registry

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

const skillFileName = "SKILL.md"

// ReadDescription returns the description from the frontmatter of a skill's SKILL.md.
func ReadDescription(skillDir string) (string, error) {
	content, err := os.ReadFile(filepath.Join(skillDir, skillFileName))
	if err != nil {
		return "", fmt.Errorf("failed to read skill file: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return "", fmt.Errorf("failed to parse markdown: %w", err)
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return "", errors.New("missing frontmatter")
	}

	description, _ := metaData["description"].(string)
	description = strings.TrimSpace(description)
	if description == "" {
		return "", errors.New("skill description is required in frontmatter")
	}

	return description, nil
}
