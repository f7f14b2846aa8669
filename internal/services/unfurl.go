package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nuggetsapp/nuggets-backend/pkg/urlcheck"
	"golang.org/x/net/html"
)

const (
	// unfurlTimeout bounds the whole fetch
	unfurlTimeout = 8 * time.Second
	// unfurlMaxBody caps how much HTML we read looking for metadata
	unfurlMaxBody = 1 << 20 // 1MB
	// UnfurlCacheTTL is how long unfurl results are cached in Redis
	UnfurlCacheTTL = 6 * time.Hour
)

var ErrUnfurlNotHTML = errors.New("URL did not return an HTML document")

// UnfurlResult is the preview metadata extracted for a pasted URL.
type UnfurlResult struct {
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	SiteName    string `json:"site_name,omitempty"`
}

var unfurlClient = &http.Client{
	Timeout: unfurlTimeout,
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		if len(via) >= 5 {
			return errors.New("too many redirects")
		}
		// Redirect targets go through the same safety check as the original URL
		return urlcheck.CheckURL(req.URL.String())
	},
}

// FetchUnfurl downloads the page and extracts preview metadata.
// The caller is responsible for checking URL safety first.
func FetchUnfurl(ctx context.Context, rawURL string) (*UnfurlResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "NuggetsBot/1.0 (+link preview)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := unfurlClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "html") {
		return nil, ErrUnfurlNotHTML
	}

	result := ParseUnfurlHTML(io.LimitReader(resp.Body, unfurlMaxBody))
	result.URL = rawURL
	return result, nil
}

// ParseUnfurlHTML extracts OpenGraph/meta preview fields from an HTML stream.
// OpenGraph values win over the plain <title> / description fallbacks.
func ParseUnfurlHTML(r io.Reader) *UnfurlResult {
	result := &UnfurlResult{}

	doc, err := html.Parse(r)
	if err != nil {
		return result
	}

	var titleTag string
	var metaDescription string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if n.FirstChild != nil && titleTag == "" {
					titleTag = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				name, property, content := metaAttrs(n)
				switch property {
				case "og:title":
					result.Title = content
				case "og:description":
					result.Description = content
				case "og:image":
					result.Image = content
				case "og:site_name":
					result.SiteName = content
				}
				if name == "description" && metaDescription == "" {
					metaDescription = content
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if result.Title == "" {
		result.Title = titleTag
	}
	if result.Description == "" {
		result.Description = metaDescription
	}

	return result
}

func metaAttrs(n *html.Node) (name, property, content string) {
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "name":
			name = strings.ToLower(strings.TrimSpace(attr.Val))
		case "property":
			property = strings.ToLower(strings.TrimSpace(attr.Val))
		case "content":
			content = strings.TrimSpace(attr.Val)
		}
	}
	return name, property, content
}
