package upstream

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Error variables for override configuration errors
var (
	// ErrUnknownOverrideTool is returned when overrides name an untracked tool
	ErrUnknownOverrideTool = errors.New("override refers to an unknown tool")
	// ErrOverrideSelectorAndXPath is returned when an override sets both extraction methods
	ErrOverrideSelectorAndXPath = errors.New("override must set selector or xpath, not both")
)

// ToolOverride adjusts how a single tool's upstream version is checked.
type ToolOverride struct {
	// Repo replaces the default repository name (tool name)
	Repo string `toml:"repo,omitempty"`
	// Pin fixes the reported latest version, skipping any lookup
	Pin string `toml:"pin,omitempty"`
	// Selector is a custom CSS selector for the HTML fallback
	Selector string `toml:"selector,omitempty"`
	// XPath is a custom XPath expression for the HTML fallback
	XPath string `toml:"xpath,omitempty"`
	// Regex is applied to the extracted fallback text
	Regex string `toml:"regex,omitempty"`
}

// Overrides is the optional per-tool upstream configuration, keyed by
// tool name.
type Overrides map[string]ToolOverride

// LoadOverrides reads overrides from a TOML file.
// A missing file is not an error; it yields an empty set.
func LoadOverrides(path string, validTool func(string) bool) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Overrides{}, nil
		}
		return nil, err
	}

	var overrides Overrides
	if err := toml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	for tool, override := range overrides {
		if validTool != nil && !validTool(tool) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownOverrideTool, tool)
		}
		if override.Selector != "" && override.XPath != "" {
			return nil, fmt.Errorf("%w: %s", ErrOverrideSelectorAndXPath, tool)
		}
	}

	return overrides, nil
}

// RepoFor returns the repository name to query for a tool.
func (o Overrides) RepoFor(tool string) string {
	if override, ok := o[tool]; ok && override.Repo != "" {
		return override.Repo
	}
	return tool
}

// ParserFor returns the HTML fallback parser for a tool.
func (o Overrides) ParserFor(tool string) *HTMLParser {
	parser := &HTMLParser{Selector: DefaultTagSelector}
	if override, ok := o[tool]; ok {
		if override.Selector != "" || override.XPath != "" {
			parser.Selector = override.Selector
			parser.XPath = override.XPath
		}
		parser.Regex = override.Regex
	}
	return parser
}
