package add

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/smy-101/skills/internal/types"
)

const (
	DefaultAPIBaseURL   = "https://api.github.com"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRedirects = 10
	UserAgent           = "skills-cli/1.0"
)

// Client GitHub API客户端
type Client struct {
	restyClient  *resty.Client
	token        string
	apiBaseURL   string
	maxRedirects int
	logger       Logger
}

// NewClient 创建客户端
func NewClient(token string) *Client {
	client := resty.New()

	// 配置
	client.SetTimeout(DefaultTimeout)
	client.SetRetryCount(0)

	// 重定向由 Fetch 显式处理
	client.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))

	// 设置User-Agent
	client.SetHeader("User-Agent", UserAgent)

	return &Client{
		restyClient:  client,
		token:        token,
		apiBaseURL:   DefaultAPIBaseURL,
		maxRedirects: DefaultMaxRedirects,
		logger:       NoOpLogger{},
	}
}

// SetBaseURL points listing requests at a different API host.
func (c *Client) SetBaseURL(baseURL string) {
	c.apiBaseURL = strings.TrimRight(baseURL, "/")
}

func (c *Client) SetTimeout(timeout time.Duration) {
	c.restyClient.SetTimeout(timeout)
}

// SetProxy routes requests through proxyURL. An empty value keeps the
// transport's HTTP_PROXY/HTTPS_PROXY handling.
func (c *Client) SetProxy(proxyURL string) {
	if proxyURL == "" {
		return
	}
	c.restyClient.SetProxy(proxyURL)
}

// SetRetryCount enables resty's retry of transport failures. Zero disables it.
func (c *Client) SetRetryCount(count int) {
	c.restyClient.SetRetryCount(count)
	c.restyClient.SetRetryWaitTime(2 * time.Second)
}

func (c *Client) SetMaxRedirects(limit int) {
	if limit < 0 {
		limit = 0
	}
	c.maxRedirects = limit
}

func (c *Client) SetLogger(logger Logger) {
	c.logger = logger
}

// SetRestyLogger routes resty's own warnings through the given logger.
func (c *Client) SetRestyLogger(logger resty.Logger) {
	c.restyClient.SetLogger(logger)
}

// Fetch GETs rawURL and returns the full body. Redirects are followed up to
// the configured hop limit; the token is only sent to the host of rawURL.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	origin, err := url.Parse(rawURL)
	if err != nil {
		return nil, &DownloadError{Type: ErrorTypeInvalidURL, Message: fmt.Sprintf("invalid URL %q", rawURL), Err: err}
	}

	current := origin
	for hops := 0; ; hops++ {
		req := c.restyClient.R().SetContext(ctx)
		if c.token != "" && current.Host == origin.Host {
			req.SetAuthToken(c.token)
		}

		resp, err := req.Get(current.String())
		if err != nil {
			return nil, &DownloadError{
				Type:    ErrorTypeNetwork,
				Message: fmt.Sprintf("request to %s failed", current),
				Err:     err,
			}
		}

		status := resp.StatusCode()
		location := resp.Header().Get("Location")
		if isRedirect(status) && location != "" {
			if hops >= c.maxRedirects {
				return nil, &DownloadError{
					Type:       ErrorTypeTooManyRedirects,
					Message:    fmt.Sprintf("too many redirects (limit %d) fetching %s", c.maxRedirects, rawURL),
					StatusCode: status,
				}
			}

			next, err := current.Parse(location)
			if err != nil {
				return nil, &DownloadError{
					Type:       ErrorTypeHTTPStatus,
					Message:    fmt.Sprintf("invalid redirect location %q from %s", location, current),
					StatusCode: status,
					Err:        err,
				}
			}

			c.logger.Debug("Following redirect", "status", status, "from", current.String(), "to", next.String())
			current = next
			continue
		}

		if resp.IsSuccess() {
			c.logger.Debug("Fetched", "url", current.String(), "bytes", len(resp.Body()))
			return resp.Body(), nil
		}

		if status == http.StatusForbidden && strings.Contains(strings.ToLower(resp.String()), "rate limit") {
			return nil, &DownloadError{
				Type:       ErrorTypeRateLimit,
				Message:    "API rate limit exceeded. Please configure a GitHub Token via 'github_token' in the config file or GITHUB_TOKEN",
				StatusCode: status,
			}
		}

		return nil, &DownloadError{
			Type:       ErrorTypeHTTPStatus,
			Message:    fmt.Sprintf("HTTP %d for %s", status, current),
			StatusCode: status,
		}
	}
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return true
	}
	return false
}

// ContentsURL returns the listing endpoint for a skill directory.
func (c *Client) ContentsURL(ref *types.SkillRef) string {
	segments := strings.Split(ref.SkillPath, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/skills/%s",
		c.apiBaseURL,
		url.PathEscape(ref.Owner),
		url.PathEscape(ref.Repo),
		strings.Join(segments, "/"),
	)
}

// GetSkillContents 获取技能目录列表
func (c *Client) GetSkillContents(ctx context.Context, ref *types.SkillRef) ([]types.GitHubContent, error) {
	body, err := c.Fetch(ctx, c.ContentsURL(ref))
	if err != nil {
		return nil, &DownloadError{Type: ErrorTypeAPI, Message: "could not fetch skill from GitHub API", Err: err}
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &DownloadError{Type: ErrorTypeAPI, Message: "could not fetch skill from GitHub API", Err: err}
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		msg := "unexpected response from GitHub API, is the skill path correct?"
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(trimmed, &apiErr) == nil && apiErr.Message != "" {
			msg = fmt.Sprintf("%s (%s)", msg, apiErr.Message)
		}
		return nil, &DownloadError{Type: ErrorTypeAPIShape, Message: msg}
	}

	var contents []types.GitHubContent
	if err := json.Unmarshal(trimmed, &contents); err != nil {
		return nil, &DownloadError{Type: ErrorTypeAPI, Message: "could not fetch skill from GitHub API", Err: err}
	}

	return contents, nil
}

// DownloadRawContent 下载原始内容
func (c *Client) DownloadRawContent(ctx context.Context, downloadURL string) ([]byte, error) {
	if downloadURL == "" {
		return nil, &DownloadError{Type: ErrorTypeValidation, Message: "missing download URL"}
	}
	return c.Fetch(ctx, downloadURL)
}
