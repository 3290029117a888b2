package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Ozeirr/ai-chatbot-platform/internal/config"
	"github.com/Ozeirr/ai-chatbot-platform/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

// Crawler walks a website breadth-first, collecting page text for ingestion.
// It never leaves the start URL's host and skips URLs carrying fragments or
// query strings, which on content sites are almost always duplicate views.
type Crawler struct {
	client     *http.Client
	maxPages   int
	userAgent  string
	minContent int
}

// New creates a crawler from configuration
func New(cfg config.CrawlerConfig) *Crawler {
	return &Crawler{
		client:     &http.Client{Timeout: cfg.Timeout},
		maxPages:   cfg.MaxPages,
		userAgent:  cfg.UserAgent,
		minContent: cfg.MinContent,
	}
}

// Crawl fetches pages starting from baseURL until the frontier is empty or
// the page budget is spent. Pages whose extracted text is too short are
// fetched for their links but not returned. Per-page failures are logged
// and skipped; only an unusable base URL or a cancelled context is an error.
func (c *Crawler) Crawl(ctx context.Context, baseURL string) ([]domain.Page, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid crawl URL %q", baseURL)
	}

	frontier := []string{base.String()}
	visited := make(map[string]bool)
	var pages []domain.Page

	for len(frontier) > 0 && len(visited) < c.maxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := frontier[0]
		frontier = frontier[1:]
		if visited[current] {
			continue
		}

		root, err := c.fetch(ctx, current)
		if err != nil {
			log.Warn().Str("url", current).Err(err).Msg("failed to crawl page")
			continue
		}
		visited[current] = true

		title := extractTitle(root)
		text := extractText(root)

		if len(text) > c.minContent {
			pages = append(pages, domain.Page{
				URL:     current,
				Title:   title,
				Content: text,
			})
		}

		for _, link := range extractLinks(root, current, base.Host) {
			if !visited[link] {
				frontier = append(frontier, link)
			}
		}
	}

	return pages, nil
}

func (c *Crawler) fetch(ctx context.Context, pageURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	root, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	return root, nil
}

func extractTitle(root *html.Node) string {
	var title string
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return false
		}
		return true
	})

	if title == "" {
		return "Untitled Page"
	}
	return title
}

// extractText gathers visible text, one trimmed line per text node, with
// script and style subtrees removed.
func extractText(root *html.Node) string {
	var lines []string
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return false
			}
		}
		if n.Type == html.TextNode {
			if line := strings.TrimSpace(n.Data); line != "" {
				lines = append(lines, line)
			}
		}
		return true
	})

	return strings.Join(lines, "\n")
}

func extractLinks(root *html.Node, currentURL, host string) []string {
	current, err := url.Parse(currentURL)
	if err != nil {
		return nil
	}

	var links []string
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				ref, err := url.Parse(attr.Val)
				if err != nil {
					continue
				}
				abs := current.ResolveReference(ref)
				if abs.Fragment != "" || abs.RawQuery != "" {
					continue
				}
				if abs.Host != host {
					continue
				}
				links = append(links, abs.String())
			}
		}
		return true
	})

	return links
}

// walk visits nodes depth-first. Returning false from fn skips the subtree.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child, fn)
	}
}
