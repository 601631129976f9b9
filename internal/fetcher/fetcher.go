// Package fetcher retrieves and cleans third-party web pages for the research
// and brand steps.
package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/unicornmarketers/pageforge/internal/httpclient"
	"github.com/unicornmarketers/pageforge/internal/logger"
)

const (
	// maxTextLen caps the cleaned text of a single page.
	maxTextLen = 30000

	defaultUserAgent = "Mozilla/5.0 (compatible; PageForgeBot/1.0; +https://unicornmarketers.com)"
)

// strippedSelectors are removed before text extraction: boilerplate that
// drowns out the business content.
const strippedSelectors = "script, style, nav, footer, noscript"

var whitespaceRuns = regexp.MustCompile(`\s+`)

// relevantPathKeywords marks same-domain links worth scraping for research.
var relevantPathKeywords = []string{
	"about", "product", "service", "testimonial", "review", "pricing",
	"feature", "benefit", "story", "team", "mission", "why",
}

// Page is a fetched page with both raw HTML and cleaned text.
type Page struct {
	URL  string
	HTML string
	Text string
}

// Fetcher fetches pages over HTTP with a bounded per-request timeout.
type Fetcher struct {
	client    *http.Client
	userAgent string
	logger    logger.Logger
}

// Config holds fetcher settings.
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// New creates a fetcher.
func New(cfg Config, log logger.Logger) *Fetcher {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Fetcher{
		client: httpclient.New(&httpclient.Config{
			Timeout: cfg.Timeout,
		}),
		userAgent: userAgent,
		logger:    log,
	}
}

// Fetch retrieves a URL and returns the raw HTML plus stripped, collapsed,
// length-capped text. Non-2xx responses and timeouts are errors.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if reqErr != nil {
		return nil, fmt.Errorf("create request: %w", reqErr)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, doErr := f.client.Do(req)
	if doErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, doErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	doc, parseErr := goquery.NewDocumentFromReader(resp.Body)
	if parseErr != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, parseErr)
	}

	html, _ := doc.Html()

	return &Page{
		URL:  pageURL,
		HTML: html,
		Text: ExtractText(doc),
	}, nil
}

// ExtractText strips boilerplate elements from doc and returns collapsed,
// length-capped text.
func ExtractText(doc *goquery.Document) string {
	cleaned := doc.Clone()
	cleaned.Find(strippedSelectors).Remove()

	text := whitespaceRuns.ReplaceAllString(cleaned.Text(), " ")
	text = strings.TrimSpace(text)

	if len(text) > maxTextLen {
		text = text[:maxTextLen]
	}

	return text
}

// RelevantLinks returns up to max same-domain links from html whose paths
// look like research-worthy pages (about, products, testimonials, pricing...).
func RelevantLinks(html, baseURL string, max int) []string {
	base, baseErr := url.Parse(baseURL)
	if baseErr != nil || base.Host == "" {
		return nil
	}

	doc, parseErr := goquery.NewDocumentFromReader(strings.NewReader(html))
	if parseErr != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if skipHref(href) {
			return true
		}

		resolved, resolveErr := base.Parse(href)
		if resolveErr != nil || resolved.Hostname() != base.Hostname() {
			return true
		}

		if !relevantPath(resolved.Path) {
			return true
		}

		resolved.Fragment = ""
		link := resolved.String()
		if link == baseURL || seen[link] {
			return true
		}

		seen[link] = true
		links = append(links, link)
		return len(links) < max
	})

	return links
}

func skipHref(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
		return true
	}

	lower := strings.ToLower(href)
	for _, ext := range []string{".pdf", ".jpg", ".jpeg", ".png", ".gif", ".zip"} {
		if strings.Contains(lower, ext) {
			return true
		}
	}

	return false
}

func relevantPath(path string) bool {
	lower := strings.ToLower(path)
	for _, keyword := range relevantPathKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
