package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrRateLimit indicates GitHub API rate limit exceeded
	ErrRateLimit = errors.New("GitHub API rate limit exceeded")
	// ErrNotFound indicates the repository has no releases or tags
	ErrNotFound = errors.New("no releases or tags found for repository")
	// ErrAPIError indicates a general GitHub API error
	ErrAPIError = errors.New("GitHub API error")
)

// Client handles communication with the GitHub API.
type Client struct {
	BaseURL    string
	ScrapeBase string // base URL for the HTML tags-page fallback
	Org        string
	UserAgent  string
	Token      string // GitHub personal access token (optional, increases rate limit)
	HTTP       *RetryableHTTPClient
}

// NewClient creates a new GitHub API client for the esm-tools organization.
func NewClient() *Client {
	return &Client{
		BaseURL:    "https://api.github.com",
		ScrapeBase: "https://github.com",
		Org:        "esm-tools",
		UserAgent:  "esm_versions/1.0",
		HTTP:       NewRetryableHTTPClient(),
	}
}

// releaseResponse is the subset of the GitHub release payload we read
type releaseResponse struct {
	TagName string `json:"tag_name"`
}

// tagResponse is the subset of the GitHub tag payload we read
type tagResponse struct {
	Name string `json:"name"`
}

// LatestVersion returns the latest released tag for a repository.
// It tries the latest-release endpoint first and falls back to the tag
// list for repositories that tag without publishing releases.
func (c *Client) LatestVersion(repo string) (string, error) {
	release, err := c.latestRelease(repo)
	if err == nil {
		return release, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	return c.latestTag(repo)
}

// latestRelease queries the releases/latest endpoint
func (c *Client) latestRelease(repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.BaseURL, c.Org, repo)

	body, err := c.get(url)
	if err != nil {
		return "", err
	}

	var release releaseResponse
	if err := json.Unmarshal(body, &release); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPIError, err)
	}
	if release.TagName == "" {
		return "", ErrNotFound
	}

	return release.TagName, nil
}

// latestTag queries the tag list and returns the newest tag
func (c *Client) latestTag(repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/tags?per_page=1", c.BaseURL, c.Org, repo)

	body, err := c.get(url)
	if err != nil {
		return "", err
	}

	var tags []tagResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPIError, err)
	}
	if len(tags) == 0 || tags[0].Name == "" {
		return "", ErrNotFound
	}

	return tags[0].Name, nil
}

// get performs an authenticated GET and maps GitHub error statuses.
func (c *Client) get(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to read
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusForbidden, http.StatusTooManyRequests:
		return nil, ErrRateLimit
	default:
		return nil, fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
