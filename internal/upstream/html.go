package upstream

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

var (
	// ErrInvalidXPath is returned when the XPath expression syntax is invalid
	ErrInvalidXPath = errors.New("invalid XPath expression")
	// ErrNoElementFound is returned when no element matches the selector/xpath
	ErrNoElementFound = errors.New("no element found matching selector")
	// ErrNoSelectorOrXPath is returned when neither selector nor xpath is provided
	ErrNoSelectorOrXPath = errors.New("either selector or xpath must be provided")
	// ErrNoVersionFound is returned when the matched text is empty
	ErrNoVersionFound = errors.New("no version found in HTML content")
)

// DefaultTagSelector matches the first tag link on a GitHub tags page.
const DefaultTagSelector = "a.Link--primary"

// HTMLParser extracts a version from an HTML page. This is the fallback
// path when the GitHub API is rate limited: a CSS selector (goquery) or
// an XPath expression (htmlquery) picks an element, and an optional
// regex narrows the element text down to the version.
type HTMLParser struct {
	Selector string
	XPath    string
	Regex    string

	compiled *regexp.Regexp
}

// Parse extracts a version string from HTML content.
func (p *HTMLParser) Parse(content []byte) (string, error) {
	text, err := p.extract(content)
	if err != nil {
		return "", err
	}

	if p.Regex != "" {
		if p.compiled == nil {
			p.compiled, err = regexp.Compile(p.Regex)
			if err != nil {
				return "", fmt.Errorf("invalid regex %q: %w", p.Regex, err)
			}
		}
		m := p.compiled.FindStringSubmatch(text)
		if m == nil {
			return "", fmt.Errorf("%w: regex %q did not match", ErrNoVersionFound, p.Regex)
		}
		// First capture group when present, whole match otherwise
		text = m[0]
		if len(m) > 1 {
			text = m[1]
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoVersionFound
	}
	return text, nil
}

// extract returns the text of the first element picked by the selector,
// or by the XPath when no selector is set.
func (p *HTMLParser) extract(content []byte) (string, error) {
	switch {
	case p.Selector != "":
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
		if err != nil {
			return "", fmt.Errorf("failed to parse HTML: %w", err)
		}
		sel := doc.Find(p.Selector)
		if sel.Length() == 0 {
			return "", fmt.Errorf("%w: %s", ErrNoElementFound, p.Selector)
		}
		return sel.First().Text(), nil

	case p.XPath != "":
		doc, err := htmlquery.Parse(bytes.NewReader(content))
		if err != nil {
			return "", fmt.Errorf("failed to parse HTML: %w", err)
		}
		nodes, err := htmlquery.QueryAll(doc, p.XPath)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidXPath, err)
		}
		if len(nodes) == 0 {
			return "", fmt.Errorf("%w: %s", ErrNoElementFound, p.XPath)
		}
		return htmlquery.InnerText(nodes[0]), nil

	default:
		return "", ErrNoSelectorOrXPath
	}
}

// scrapeLatestTag fetches a repository's tags page and extracts the
// newest tag name with the given parser.
func (c *Client) scrapeLatestTag(repo string, parser *HTMLParser) (string, error) {
	url := fmt.Sprintf("%s/%s/%s/tags", c.ScrapeBase, c.Org, repo)

	resp, err := c.HTTP.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return "", err
	}

	return parser.Parse(buf.Bytes())
}
