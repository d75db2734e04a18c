package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/lysyi3m/telelinker/app/link"
	"github.com/mmcdole/gofeed"
)

const DefaultMediumFeedBase = "https://medium.com"

var (
	mediumClapsPattern     = regexp.MustCompile(`"clapCount":\s*(\d+)`)
	mediumResponsesPattern = regexp.MustCompile(`"responsesCount":\s*(\d+)`)
)

// Medium combines the author feed (author and date) with counters embedded in
// the post page.
type Medium struct {
	fetcher    *Fetcher
	feedBase   string
	feedParser *gofeed.Parser
}

func NewMedium(fetcher *Fetcher, feedBase string) *Medium {
	feedBase = strings.TrimRight(feedBase, "/")
	if feedBase == "" {
		feedBase = DefaultMediumFeedBase
	}
	return &Medium{
		fetcher:    fetcher,
		feedBase:   feedBase,
		feedParser: gofeed.NewParser(),
	}
}

func (m *Medium) Extract(ctx context.Context, rawURL string) Record {
	return extractOrFallback(ctx, link.PlatformMedium, rawURL, ContentTypeArticle, m.extract)
}

func (m *Medium) extract(ctx context.Context, rawURL string) (Record, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Record{}, fmt.Errorf("failed to parse URL: %w", err)
	}

	page, err := m.fetcher.Get(ctx, rawURL, nil)
	if err != nil {
		return Record{}, fmt.Errorf("failed to fetch post page: %w", err)
	}

	rec := Record{
		Likes:       matchCount(mediumClapsPattern, page),
		Comments:    matchCount(mediumResponsesPattern, page),
		ContentType: ptr(ContentTypeArticle),
	}

	if item := m.findFeedItem(ctx, u); item != nil {
		rec.Author = normalizeAuthor(feedItemAuthor(item))
		rec.PublishedAt = nonEmpty(item.Published)
	}

	if rec.Author == nil || rec.PublishedAt == nil {
		meta, err := articleMeta(page, rawURL)
		if err != nil {
			return Record{}, err
		}
		if rec.Author == nil {
			rec.Author = normalizeAuthor(meta.Author)
		}
		if rec.PublishedAt == nil {
			rec.PublishedAt = nonEmpty(meta.PublishedAt)
		}
	}

	return rec, nil
}

// findFeedItem looks the post up in its author or publication feed. Feed
// failures are not fatal; the page metadata is used instead.
func (m *Medium) findFeedItem(ctx context.Context, u *url.URL) *gofeed.Item {
	feedURL, postID := m.feedLocation(u)
	if feedURL == "" || postID == "" {
		return nil
	}

	data, err := m.fetcher.Get(ctx, feedURL, nil)
	if err != nil {
		slog.Debug("Failed to fetch Medium feed", "feed", feedURL, "error", err)
		return nil
	}

	feed, err := m.feedParser.Parse(bytes.NewReader(data))
	if err != nil {
		slog.Debug("Failed to parse Medium feed", "feed", feedURL, "error", err)
		return nil
	}

	for _, item := range feed.Items {
		if strings.Contains(item.Link, postID) || strings.Contains(item.GUID, postID) {
			return item
		}
	}
	return nil
}

// feedLocation returns the feed URL for the post's author or publication and
// the post id, which is the last dash separated token of the slug.
func (m *Medium) feedLocation(u *url.URL) (string, string) {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	slug := segments[len(segments)-1]
	postID := slug[strings.LastIndex(slug, "-")+1:]

	host := strings.ToLower(u.Hostname())
	if strings.HasSuffix(host, ".medium.com") && host != "www.medium.com" {
		return fmt.Sprintf("%s://%s/feed", u.Scheme, u.Host), postID
	}

	if len(segments) < 2 || segments[0] == "" {
		return "", postID
	}
	return fmt.Sprintf("%s/feed/%s", m.feedBase, segments[0]), postID
}

func feedItemAuthor(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	for _, author := range item.Authors {
		if author != nil && author.Name != "" {
			return author.Name
		}
	}
	return ""
}

func matchCount(pattern *regexp.Regexp, data []byte) *int64 {
	match := pattern.FindSubmatch(data)
	if match == nil {
		return nil
	}
	n, err := strconv.ParseInt(string(match[1]), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
