package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/lysyi3m/telelinker/app/link"
)

// "1,234 likes, 56 comments - someone on March 3, 2024: ..."
var instagramSummaryPattern = regexp.MustCompile(
	`(?i)([\d.,]+[KM]?)\s+likes?,\s*([\d.,]+[KM]?)\s+comments?\s*-\s*(\S+)\s+on\s+([A-Za-z]+\s+\d{1,2},\s+\d{4})`)

var errNoSummary = errors.New("no engagement summary in page description")

// Instagram parses the engagement summary Instagram puts into the page description.
type Instagram struct {
	fetcher *Fetcher
}

func NewInstagram(fetcher *Fetcher) *Instagram {
	return &Instagram{fetcher: fetcher}
}

func (i *Instagram) Extract(ctx context.Context, rawURL string) Record {
	return extractOrFallback(ctx, link.PlatformInstagram, rawURL, instagramContentType(rawURL), i.extract)
}

func (i *Instagram) extract(ctx context.Context, rawURL string) (Record, error) {
	data, err := i.fetcher.Get(ctx, rawURL, map[string]string{"Accept": "text/html"})
	if err != nil {
		return Record{}, fmt.Errorf("failed to fetch post page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return Record{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	description := firstMetaContent(doc, []string{
		`meta[property="og:description"]`,
		`meta[name="description"]`,
	})

	match := instagramSummaryPattern.FindStringSubmatch(description)
	if match == nil {
		return Record{}, errNoSummary
	}

	rec := Record{
		Likes:       parseCount(match[1]),
		Comments:    parseCount(match[2]),
		Author:      normalizeAuthor(match[3]),
		ContentType: ptr(instagramContentType(rawURL)),
	}

	if published, err := dateparse.ParseAny(match[4]); err == nil {
		rec.PublishedAt = ptr(published.Format("2006-01-02"))
	}

	return rec, nil
}

func instagramContentType(rawURL string) string {
	if strings.Contains(rawURL, "/reel/") || strings.Contains(rawURL, "/reels/") {
		return ContentTypeReel
	}
	return ContentTypePost
}

// parseCount understands "1,234", "1.2K" and "3M".
func parseCount(s string) *int64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil
	}

	multiplier := 1.0
	switch strings.ToUpper(s[len(s)-1:]) {
	case "K":
		multiplier = 1_000
		s = s[:len(s)-1]
	case "M":
		multiplier = 1_000_000
		s = s[:len(s)-1]
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}

	n := int64(math.Round(f * multiplier))
	return &n
}
