// Package webpage fetches a resource page and reduces it to readable
// markdown, stripping navigation, ads and other clutter.
package webpage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/go-shiori/go-readability"
)

const (
	userAgent = "Mozilla/5.0 (compatible; LearnSimply/1.0)"
	maxBody   = 5 << 20
)

var ErrUnsupportedURL = errors.New("only http and https URLs can be read")

type Page struct {
	URL      string
	Title    string
	Byline   string
	Markdown string
}

// Render returns the page as a markdown document with a small header.
func (p Page) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n**Source**: %s\n", p.Title, p.URL)
	if p.Byline != "" {
		fmt.Fprintf(&sb, "**Author**: %s\n", p.Byline)
	}
	sb.WriteString("\n")
	sb.WriteString(p.Markdown)
	return sb.String()
}

type Reader struct {
	client  *http.Client
	timeout time.Duration
}

func NewReader(client *http.Client) *Reader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Reader{client: client, timeout: 30 * time.Second}
}

func (r *Reader) Read(ctx context.Context, rawURL string) (Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Page{}, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Page{}, ErrUnsupportedURL
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Page{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Page{}, fmt.Errorf("HTTP %d error reading page", resp.StatusCode)
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxBody), u)
	if err != nil {
		return Page{}, fmt.Errorf("extract content: %w", err)
	}

	page := Page{URL: u.String(), Title: article.Title, Byline: article.Byline}
	converter := md.NewConverter(u.Host, true, nil)
	markdown, err := converter.ConvertString(article.Content)
	if err != nil {
		page.Markdown = article.TextContent
	} else {
		page.Markdown = strings.TrimSpace(markdown)
	}
	return page, nil
}
