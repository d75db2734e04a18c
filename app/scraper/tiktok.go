package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/lysyi3m/telelinker/app/link"
)

var errNoVideoDetail = errors.New("no video detail in page data")

// TikTok reads the rehydration JSON TikTok embeds into video pages.
type TikTok struct {
	fetcher *Fetcher
}

func NewTikTok(fetcher *Fetcher) *TikTok {
	return &TikTok{fetcher: fetcher}
}

func (t *TikTok) Extract(ctx context.Context, rawURL string) Record {
	return extractOrFallback(ctx, link.PlatformTikTok, rawURL, ContentTypeVideo, t.extract)
}

type tiktokUniversalData struct {
	DefaultScope struct {
		VideoDetail struct {
			ItemInfo struct {
				ItemStruct *tiktokItem `json:"itemStruct"`
			} `json:"itemInfo"`
		} `json:"webapp.video-detail"`
	} `json:"__DEFAULT_SCOPE__"`
}

type tiktokItem struct {
	CreateTime json.RawMessage `json:"createTime"`
	Author     struct {
		UniqueID string `json:"uniqueId"`
		Nickname string `json:"nickname"`
	} `json:"author"`
	Stats struct {
		DiggCount    *int64 `json:"diggCount"`
		CommentCount *int64 `json:"commentCount"`
		ShareCount   *int64 `json:"shareCount"`
		PlayCount    *int64 `json:"playCount"`
	} `json:"stats"`
}

func (t *TikTok) extract(ctx context.Context, rawURL string) (Record, error) {
	data, err := t.fetcher.Get(ctx, rawURL, map[string]string{"Accept": "text/html"})
	if err != nil {
		return Record{}, fmt.Errorf("failed to fetch video page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return Record{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	script := doc.Find(`script#__UNIVERSAL_DATA_FOR_REHYDRATION__`).First().Text()
	if strings.TrimSpace(script) == "" {
		return Record{}, errNoVideoDetail
	}

	var universal tiktokUniversalData
	if err := json.Unmarshal([]byte(script), &universal); err != nil {
		return Record{}, fmt.Errorf("failed to decode page data: %w", err)
	}

	item := universal.DefaultScope.VideoDetail.ItemInfo.ItemStruct
	if item == nil {
		return Record{}, errNoVideoDetail
	}

	author := normalizeAuthor(item.Author.UniqueID)
	if author == nil {
		author = normalizeAuthor(item.Author.Nickname)
	}

	rec := Record{
		Author:      author,
		Likes:       item.Stats.DiggCount,
		Comments:    item.Stats.CommentCount,
		Shares:      item.Stats.ShareCount,
		Views:       item.Stats.PlayCount,
		ContentType: ptr(ContentTypeVideo),
	}

	if created, ok := unixTimestamp(item.CreateTime); ok {
		rec.PublishedAt = ptr(time.Unix(created, 0).UTC().Format(time.RFC3339))
	}

	return rec, nil
}

// unixTimestamp accepts both "1700000000" and 1700000000.
func unixTimestamp(raw json.RawMessage) (int64, bool) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
