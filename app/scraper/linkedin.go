package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lysyi3m/telelinker/app/link"
)

var errNoStructuredData = errors.New("no structured post data found")

var postingTypes = map[string]bool{
	"SocialMediaPosting":     true,
	"DiscussionForumPosting": true,
	"Article":                true,
	"NewsArticle":            true,
	"VideoObject":            true,
}

// LinkedIn reads the JSON-LD block that public post pages embed.
type LinkedIn struct {
	fetcher *Fetcher
}

func NewLinkedIn(fetcher *Fetcher) *LinkedIn {
	return &LinkedIn{fetcher: fetcher}
}

func (l *LinkedIn) Extract(ctx context.Context, rawURL string) Record {
	return extractOrFallback(ctx, link.PlatformLinkedIn, rawURL, ContentTypePost, l.extract)
}

func (l *LinkedIn) extract(ctx context.Context, rawURL string) (Record, error) {
	data, err := l.fetcher.Get(ctx, rawURL, map[string]string{"Accept": "text/html"})
	if err != nil {
		return Record{}, fmt.Errorf("failed to fetch post page: %w", err)
	}

	posting, err := findPosting(data)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		Author:      normalizeAuthor(ldAuthorName(posting["author"])),
		PublishedAt: nonEmpty(ldString(posting["datePublished"])),
		ContentType: ptr(ContentTypePost),
	}

	for _, stat := range ldList(posting["interactionStatistic"]) {
		statMap, ok := stat.(map[string]any)
		if !ok {
			continue
		}
		count := ldInt(statMap["userInteractionCount"])
		switch interaction := ldTypeName(statMap["interactionType"]); {
		case strings.HasSuffix(interaction, "LikeAction"):
			rec.Likes = count
		case strings.HasSuffix(interaction, "CommentAction"):
			rec.Comments = count
		case strings.HasSuffix(interaction, "ShareAction"):
			rec.Shares = count
		case strings.HasSuffix(interaction, "WatchAction"):
			rec.Views = count
		}
	}

	if rec.Comments == nil {
		rec.Comments = ldInt(posting["commentCount"])
	}

	return rec, nil
}

// findPosting returns the first JSON-LD node whose @type is a posting type.
func findPosting(data []byte) (map[string]any, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var found map[string]any
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var node any
		if err := json.Unmarshal([]byte(s.Text()), &node); err != nil {
			return true
		}
		found = walkPosting(node)
		return found == nil
	})

	if found == nil {
		return nil, errNoStructuredData
	}
	return found, nil
}

func walkPosting(node any) map[string]any {
	switch v := node.(type) {
	case []any:
		for _, child := range v {
			if found := walkPosting(child); found != nil {
				return found
			}
		}
	case map[string]any:
		for _, t := range ldList(v["@type"]) {
			if name, ok := t.(string); ok && postingTypes[name] {
				return v
			}
		}
		if graph, ok := v["@graph"]; ok {
			return walkPosting(graph)
		}
	}
	return nil
}

func ldList(v any) []any {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		return x
	default:
		return []any{x}
	}
}

func ldString(v any) string {
	s, _ := v.(string)
	return s
}

func ldTypeName(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case map[string]any:
		return ldString(x["@type"])
	}
	return ""
}

func ldAuthorName(v any) string {
	for _, author := range ldList(v) {
		switch a := author.(type) {
		case string:
			if a != "" {
				return a
			}
		case map[string]any:
			if name := ldString(a["name"]); name != "" {
				return name
			}
		}
	}
	return ""
}

func ldInt(v any) *int64 {
	switch x := v.(type) {
	case float64:
		n := int64(x)
		return &n
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return nil
		}
		return &n
	}
	return nil
}
