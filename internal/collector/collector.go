// Package collector fetches Korean statutes from the national law portal
// and turns them into segmented Statute records for the corpus.
package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/hanbeop/lawdex/internal/models"
	"github.com/hanbeop/lawdex/internal/segment"
)

// DefaultBaseURL is the national law information portal.
const DefaultBaseURL = "https://www.law.go.kr"

// DefaultKeywords are the fair-trade search terms the corpus is seeded with.
var DefaultKeywords = []string{
	"공정거래법",
	"하도급법",
	"상생협력법",
	"독점규제",
	"공정거래",
	"하도급거래",
	"상생협력",
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// searchHit is one entry of a portal search result page.
type searchHit struct {
	Title string
	Link  string
}

// Collector scrapes statute pages. BaseURL, the HTTP client and the
// politeness delay are injectable for tests.
type Collector struct {
	baseURL string
	client  *http.Client
	delay   time.Duration
	logger  *zap.Logger
}

// Option configures a Collector.
type Option func(*Collector)

// WithBaseURL overrides the portal URL (tests point this at a local server).
func WithBaseURL(u string) Option {
	return func(c *Collector) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Collector) { c.client = client }
}

// WithDelay sets the wait between statute fetches.
func WithDelay(d time.Duration) Option {
	return func(c *Collector) { c.delay = d }
}

// WithLogger sets a logger for per-statute progress.
func WithLogger(l *zap.Logger) Option {
	return func(c *Collector) { c.logger = l }
}

// New creates a collector for the portal.
func New(opts ...Option) *Collector {
	c := &Collector{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		delay:   time.Second,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Collector) get(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	return doc, nil
}

// searchStatutes queries the portal for a keyword and returns the result
// list entries.
func (c *Collector) searchStatutes(ctx context.Context, keyword string) ([]searchHit, error) {
	searchURL := fmt.Sprintf("%s/lsSc.do?menuId=0&p1=&subMenu=1&tabNo=1&query=%s",
		c.baseURL, url.QueryEscape(keyword))
	doc, err := c.get(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", keyword, err)
	}

	var hits []searchHit
	doc.Find("div.law_item").Each(func(_ int, item *goquery.Selection) {
		title := item.Find("a.law_title")
		href, ok := title.Attr("href")
		if !ok {
			return
		}
		hits = append(hits, searchHit{
			Title: strings.TrimSpace(title.Text()),
			Link:  href,
		})
	})
	return hits, nil
}

// FetchStatute downloads a statute detail page and segments its content into
// articles.
func (c *Collector) FetchStatute(ctx context.Context, link string) (models.Statute, error) {
	fullURL := link
	if strings.HasPrefix(link, "/") {
		fullURL = c.baseURL + link
	}
	doc, err := c.get(ctx, fullURL)
	if err != nil {
		return models.Statute{}, fmt.Errorf("fetch statute: %w", err)
	}

	title := strings.TrimSpace(doc.Find("h1.law_title").First().Text())
	if title == "" {
		title = "제목 없음"
	}
	content := strings.TrimSpace(doc.Find("div.law_content").First().Text())

	return models.Statute{
		Title:    title,
		URL:      fullURL,
		Content:  content,
		Articles: segment.Segment(content),
	}, nil
}

// Collect searches every keyword and fetches each hit, waiting between
// statute fetches to keep load on the portal low. Per-statute failures are
// logged and skipped; the collection continues. Context cancellation stops
// the run and returns what was gathered so far along with the context error.
func (c *Collector) Collect(ctx context.Context, keywords []string) ([]models.Statute, error) {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	var statutes []models.Statute
	for _, keyword := range keywords {
		c.logger.Info("searching statutes", zap.String("keyword", keyword))
		hits, err := c.searchStatutes(ctx, keyword)
		if err != nil {
			if ctx.Err() != nil {
				return statutes, ctx.Err()
			}
			c.logger.Warn("search failed", zap.String("keyword", keyword), zap.Error(err))
			continue
		}
		for _, hit := range hits {
			statute, err := c.FetchStatute(ctx, hit.Link)
			if err != nil {
				if ctx.Err() != nil {
					return statutes, ctx.Err()
				}
				c.logger.Warn("fetch failed", zap.String("title", hit.Title), zap.Error(err))
				continue
			}
			statute.Keyword = keyword
			statutes = append(statutes, statute)
			c.logger.Info("collected statute",
				zap.String("title", statute.Title),
				zap.Int("articles", len(statute.Articles)))

			select {
			case <-ctx.Done():
				return statutes, ctx.Err()
			case <-time.After(c.delay):
			}
		}
	}
	return statutes, nil
}
