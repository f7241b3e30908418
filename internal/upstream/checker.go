package upstream

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/esm-tools/esm-version-checker/internal/common/config"
	"github.com/esm-tools/esm-version-checker/internal/common/logger"
	"github.com/esm-tools/esm-version-checker/internal/inventory"
)

// CheckResult is the outcome of a latest-version lookup for one tool.
type CheckResult struct {
	// Tool is the tracked tool name
	Tool string
	// Installed is the locally reported version (or the unknown sentinel)
	Installed string
	// Latest is the newest version found upstream
	Latest string
	// HasUpdate is true when upstream is newer than the installed version
	HasUpdate bool
	// FromCache is true when Latest came from the on-disk cache
	FromCache bool
	// Err holds any lookup failure; the other fields are unset then
	Err error
}

// Checker looks up the latest released versions of known tools.
// It coordinates the GitHub client, the on-disk cache, the HTML
// fallback, and per-tool overrides.
type Checker struct {
	client    *Client
	cache     *Cache
	overrides Overrides
	stateDir  string
}

// CheckerOption is a functional option for configuring Checker
type CheckerOption func(*Checker) error

// WithClient sets a custom GitHub client for the checker
func WithClient(client *Client) CheckerOption {
	return func(c *Checker) error {
		c.client = client
		return nil
	}
}

// WithCache sets a custom cache for the checker
func WithCache(cache *Cache) CheckerOption {
	return func(c *Checker) error {
		c.cache = cache
		return nil
	}
}

// WithOverrides sets custom per-tool overrides
func WithOverrides(overrides Overrides) CheckerOption {
	return func(c *Checker) error {
		c.overrides = overrides
		return nil
	}
}

// WithStateDir sets the directory for the cache file
func WithStateDir(dir string) CheckerOption {
	return func(c *Checker) error {
		c.stateDir = dir
		return nil
	}
}

// NewChecker creates a checker with defaults: the esm-tools GitHub
// client, cache under the XDG config dir's esm_versions/upstream, and
// overrides from esm_versions/upstream.toml next to it when present.
func NewChecker(opts ...CheckerOption) (*Checker, error) {
	checker := &Checker{}

	for _, opt := range opts {
		if err := opt(checker); err != nil {
			return nil, fmt.Errorf("failed to apply checker option: %w", err)
		}
	}

	configPath, err := config.DefaultConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}
	configDir := filepath.Dir(configPath)
	if checker.stateDir == "" {
		checker.stateDir = filepath.Join(configDir, "upstream")
	}

	if checker.client == nil {
		checker.client = NewClient()
	}

	if checker.cache == nil {
		cache, err := NewCache(checker.stateDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize cache: %w", err)
		}
		checker.cache = cache
	}

	if checker.overrides == nil {
		overrides, err := LoadOverrides(filepath.Join(configDir, "upstream.toml"), inventory.IsKnown)
		if err != nil {
			return nil, err
		}
		checker.overrides = overrides
	}

	return checker, nil
}

// CheckTool looks up the latest upstream version for one probed entry.
// force bypasses the cache.
func (c *Checker) CheckTool(entry inventory.Entry, force bool) CheckResult {
	result := CheckResult{
		Tool:      entry.Tool,
		Installed: entry.Version,
	}

	if override, ok := c.overrides[entry.Tool]; ok && override.Pin != "" {
		result.Latest = override.Pin
		result.HasUpdate = c.hasUpdate(entry, result.Latest)
		return result
	}

	repo := c.overrides.RepoFor(entry.Tool)

	if latest, ok := c.cache.GetWithForce(entry.Tool, force); ok {
		result.Latest = latest
		result.FromCache = true
		result.HasUpdate = c.hasUpdate(entry, latest)
		return result
	}

	latest, err := c.client.LatestVersion(repo)
	if errors.Is(err, ErrRateLimit) {
		// Unauthenticated API quota is small; scrape the tags page instead
		logger.Debug("rate limited for %s, falling back to tags page", repo)
		latest, err = c.client.scrapeLatestTag(repo, c.overrides.ParserFor(entry.Tool))
	}
	if err != nil {
		result.Err = err
		return result
	}

	if err := c.cache.Set(entry.Tool, latest, repo); err != nil {
		logger.Warn("failed to save version cache: %v", err)
	}

	result.Latest = latest
	result.HasUpdate = c.hasUpdate(entry, latest)
	return result
}

// CheckAll looks up the latest versions of every installed tool in the
// report. Tools that were not located are skipped.
func (c *Checker) CheckAll(report *inventory.Report, force bool) []CheckResult {
	var results []CheckResult
	for _, entry := range report.Entries {
		if !entry.Installed {
			continue
		}
		results = append(results, c.CheckTool(entry, force))
	}
	return results
}

// hasUpdate reports whether the upstream version is newer than the
// installed one. Development installs and unknown versions never count
// as updatable.
func (c *Checker) hasUpdate(entry inventory.Entry, latest string) bool {
	if !entry.Installed || entry.Dev || entry.Version == inventory.UnknownVersion {
		return false
	}
	return CompareVersions(entry.Version, latest) < 0
}
