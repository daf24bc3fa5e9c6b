package ingestion

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
)

// UnreachableError means the URL could not be validated or fetched; callers
// map it to a 422 rather than a server fault.
type UnreachableError struct {
	URL string
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("url unreachable: %s: %v", e.URL, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

var blankLines = regexp.MustCompile(`\n{3,}`)

// Fetcher retrieves a page and strips it down to readable article text.
type Fetcher struct {
	log         *logger.Logger
	headClient  *http.Client
	fetchClient *http.Client
}

func NewFetcher(log *logger.Logger) *Fetcher {
	return &Fetcher{
		log:         log.With("service", "WebFetcher"),
		headClient:  &http.Client{Timeout: 10 * time.Second},
		fetchClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch validates the URL with a cheap HEAD before downloading it, then
// extracts the main content region of the page.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := f.validate(ctx, rawURL); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &UnreachableError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; doomfeed/1.0)")
	resp, err := f.fetchClient.Do(req)
	if err != nil {
		return "", &UnreachableError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", &UnreachableError{URL: rawURL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	text := extractReadableText(doc)
	if text == "" {
		return "", &EmptyDocumentError{}
	}
	return text, nil
}

func (f *Fetcher) validate(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return &UnreachableError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; doomfeed/1.0)")
	resp, err := f.headClient.Do(req)
	if err != nil {
		return &UnreachableError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return &UnreachableError{URL: rawURL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	return nil
}

// extractReadableText drops boilerplate elements, then walks the most
// content-like region it can find.
func extractReadableText(doc *goquery.Document) string {
	doc.Find("script, style, nav, footer, header, aside, form, iframe").Remove()

	var region *goquery.Selection
	for _, sel := range []string{"article", "main", "div[class*=content]", "body"} {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			region = s
			break
		}
	}
	if region == nil {
		return ""
	}

	var lines []string
	region.Find("h1, h2, h3, h4, h5, h6, p, li, blockquote, pre, td").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	text := strings.Join(lines, "\n\n")
	if text == "" {
		text = strings.TrimSpace(region.Text())
	}
	return strings.TrimSpace(blankLines.ReplaceAllString(text, "\n\n"))
}
