package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/lysyi3m/telelinker/app/link"
)

const DefaultDevToAPIBase = "https://dev.to/api"

// DevTo queries the Forem public articles API.
type DevTo struct {
	fetcher *Fetcher
	apiBase string
}

func NewDevTo(fetcher *Fetcher, apiBase string) *DevTo {
	apiBase = strings.TrimRight(apiBase, "/")
	if apiBase == "" {
		apiBase = DefaultDevToAPIBase
	}
	return &DevTo{fetcher: fetcher, apiBase: apiBase}
}

func (d *DevTo) Extract(ctx context.Context, rawURL string) Record {
	return extractOrFallback(ctx, link.PlatformDevTo, rawURL, ContentTypeArticle, d.extract)
}

type devtoArticle struct {
	PublishedAt          *string `json:"published_at"`
	PublicReactionsCount *int64  `json:"public_reactions_count"`
	CommentsCount        *int64  `json:"comments_count"`
	PageViewsCount       *int64  `json:"page_views_count"`
	User                 struct {
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"user"`
}

func (d *DevTo) extract(ctx context.Context, rawURL string) (Record, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Record{}, fmt.Errorf("failed to parse URL: %w", err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return Record{}, fmt.Errorf("not an article URL: %s", rawURL)
	}

	endpoint := fmt.Sprintf("%s/articles/%s/%s", d.apiBase,
		url.PathEscape(segments[0]), url.PathEscape(segments[1]))

	data, err := d.fetcher.Get(ctx, endpoint, map[string]string{"Accept": "application/vnd.forem.api-v1+json"})
	if err != nil {
		return Record{}, fmt.Errorf("failed to query Dev.to API: %w", err)
	}

	var article devtoArticle
	if err := json.Unmarshal(data, &article); err != nil {
		return Record{}, fmt.Errorf("failed to decode Dev.to article: %w", err)
	}

	author := normalizeAuthor(article.User.Name)
	if author == nil {
		author = normalizeAuthor(article.User.Username)
	}

	rec := Record{
		Author:      author,
		Likes:       article.PublicReactionsCount,
		Comments:    article.CommentsCount,
		Views:       article.PageViewsCount,
		ContentType: ptr(ContentTypeArticle),
	}
	if article.PublishedAt != nil {
		rec.PublishedAt = nonEmpty(*article.PublishedAt)
	}
	return rec, nil
}
