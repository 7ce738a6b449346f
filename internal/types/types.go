package types

// SkillRef 远程技能目录定位信息
type SkillRef struct {
	Owner     string
	Repo      string
	SkillPath string
}

// SourceRecord is the provenance record stored as .source.json at the
// root of every installed skill directory.
type SourceRecord struct {
	URL   string `json:"url"`
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Skill string `json:"skill"`
}

// Ref returns the remote location the record points at.
func (s *SourceRecord) Ref() *SkillRef {
	return &SkillRef{
		Owner:     s.Owner,
		Repo:      s.Repo,
		SkillPath: s.Skill,
	}
}

// InstalledSkill 本地已安装的技能目录
type InstalledSkill struct {
	Name        string
	Dir         string
	Source      *SourceRecord
	Description string
}

// Updatable reports whether the skill carries a well-formed provenance record.
func (s *InstalledSkill) Updatable() bool {
	return s.Source != nil
}

// GitHubContent GitHub API返回的内容项
type GitHubContent struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha"`
	Size        int    `json:"size"`
	URL         string `json:"url"`
	HTMLURL     string `json:"html_url"`
	DownloadURL string `json:"download_url"`
}

// IsFile reports whether the listing entry is a regular file.
func (c *GitHubContent) IsFile() bool {
	return c.Type == "file"
}
