package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrToolsPathNotSet   = errors.New("esm_tools checkout path is not configured")
	ErrToolsPathNotFound = errors.New("esm_tools checkout path does not exist")
	ErrToolsNotARepo     = errors.New("esm_tools checkout is not a git repository")
)

// Config represents the application configuration
type Config struct {
	Install  InstallConfig     `yaml:"install"`
	Tools    ToolsConfig       `yaml:"tools"`
	GitHub   GitHubConfig      `yaml:"github"`
	DevPaths map[string]string `yaml:"dev_paths,omitempty"`
}

// InstallConfig holds installer settings
type InstallConfig struct {
	// BinDir overrides the directory searched for tool binaries.
	// Empty means GOBIN, then GOPATH/bin, then PATH.
	BinDir string `yaml:"bin_dir"`
}

// ToolsConfig holds settings for the esm_tools data checkout
type ToolsConfig struct {
	Path   string `yaml:"path"`
	Remote string `yaml:"remote"`
}

// GitHubConfig holds GitHub API settings
type GitHubConfig struct {
	Token string `yaml:"token"` // Personal access token for higher rate limits
}

// ConfigPaths returns the candidate config file locations in priority
// order: the XDG path first, then the legacy dotdir.
func ConfigPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return []string{
		filepath.Join(xdgConfig, "esm_versions", "config.yaml"),
		filepath.Join(home, ".esm_versions", "config.yaml"),
	}, nil
}

// DefaultConfigPath returns the XDG config file path.
func DefaultConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// FindConfigPath returns the first config file that exists, or the XDG
// path when none does yet.
func FindConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return paths[0], nil
}

// Load reads configuration from the first available config file,
// creating a default one when none exists.
func Load() (*Config, error) {
	configPath, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from a specific file path
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{Tools: ToolsConfig{Remote: "origin"}}
			if saveErr := cfg.SaveTo(path); saveErr != nil {
				return nil, saveErr
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Tools.Remote == "" {
		cfg.Tools.Remote = "origin"
	}

	return &cfg, nil
}

// Save writes configuration to the default config file
func (c *Config) Save() error {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes configuration to a specific file path, creating the
// parent directory as needed.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetToolsPath returns the validated esm_tools checkout path.
// The path must exist, be a directory, and contain a .git entry.
func (c *Config) GetToolsPath() (string, error) {
	if c.Tools.Path == "" {
		return "", ErrToolsPathNotSet
	}

	path, err := ExpandHome(c.Tools.Path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrToolsPathNotFound
		}
		return "", err
	}
	if !info.IsDir() {
		return "", ErrToolsPathNotFound
	}

	if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
		return "", ErrToolsNotARepo
	}

	return path, nil
}

// GetBinDir returns the configured binary directory, expanded, or empty
// when the default search order should apply.
func (c *Config) GetBinDir() (string, error) {
	if c.Install.BinDir == "" {
		return "", nil
	}
	return ExpandHome(c.Install.BinDir)
}

// GetDevPath returns the configured development checkout for a tool,
// expanded, or empty when none is configured.
func (c *Config) GetDevPath(tool string) (string, error) {
	path, ok := c.DevPaths[tool]
	if !ok || path == "" {
		return "", nil
	}
	return ExpandHome(path)
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
