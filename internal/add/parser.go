package add

import (
	"net/url"
	"strings"

	"github.com/smy-101/skills/internal/types"
)

const urlFormatHint = "Invalid skill URL. Expected format: https://github.com/<owner>/<repo>/<skill>"

// ParseSkillURL splits a skill URL into owner, repo and the skill path below
// the repository's skills directory. The host is not checked; owner and repo
// are only validated by the API call that follows.
func ParseSkillURL(rawURL string) (*types.SkillRef, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, &DownloadError{Type: ErrorTypeInvalidURL, Message: "invalid URL", Err: err}
	}

	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &DownloadError{Type: ErrorTypeInvalidURL, Message: urlFormatHint}
	}

	var segments []string
	for _, part := range strings.Split(parsedURL.Path, "/") {
		if part == "" {
			continue
		}
		if part == "." || part == ".." {
			return nil, &DownloadError{
				Type:    ErrorTypeInvalidURL,
				Message: "skill URL must not contain relative path segments",
			}
		}
		segments = append(segments, part)
	}

	if len(segments) < 3 {
		return nil, &DownloadError{Type: ErrorTypeInvalidURL, Message: urlFormatHint}
	}

	return &types.SkillRef{
		Owner:     segments[0],
		Repo:      segments[1],
		SkillPath: strings.Join(segments[2:], "/"),
	}, nil
}
