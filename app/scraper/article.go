package scraper

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	readability "codeberg.org/readeck/go-readability"
	"github.com/PuerkitoBio/goquery"
)

// pageMeta holds what can be read from an article page without a platform API.
type pageMeta struct {
	Author      string
	PublishedAt string
}

var publishedMetaSelectors = []string{
	`meta[property="article:published_time"]`,
	`meta[name="article:published_time"]`,
	`meta[itemprop="datePublished"]`,
	`meta[name="date"]`,
}

var authorMetaSelectors = []string{
	`meta[name="author"]`,
	`meta[property="article:author"]`,
	`meta[name="twitter:data1"]`,
}

// articleMeta reads author and publication date from page meta tags, using the
// readability byline when no author tag is present.
func articleMeta(data []byte, pageURL string) (pageMeta, error) {
	if len(data) == 0 {
		return pageMeta{}, fmt.Errorf("HTML data is empty")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return pageMeta{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	meta := pageMeta{
		Author:      firstMetaContent(doc, authorMetaSelectors),
		PublishedAt: firstMetaContent(doc, publishedMetaSelectors),
	}
	if meta.PublishedAt == "" {
		if datetime, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
			meta.PublishedAt = strings.TrimSpace(datetime)
		}
	}

	if meta.Author == "" {
		meta.Author = readabilityByline(data, pageURL)
	}

	return meta, nil
}

func readabilityByline(data []byte, pageURL string) string {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		parsedURL = nil
	}

	article, err := readability.FromReader(bytes.NewReader(data), parsedURL)
	if err != nil {
		slog.Debug("Readability extraction failed", "url", pageURL, "error", err)
		return ""
	}

	return strings.TrimPrefix(strings.TrimSpace(article.Byline), "By ")
}

func firstMetaContent(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if content = strings.TrimSpace(content); content != "" {
				return content
			}
		}
	}
	return ""
}
