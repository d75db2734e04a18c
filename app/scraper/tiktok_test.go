package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

const tiktokPage = `<html><head></head><body>
<script id="__UNIVERSAL_DATA_FOR_REHYDRATION__" type="application/json">{"__DEFAULT_SCOPE__":{"webapp.video-detail":{"itemInfo":{"itemStruct":{
"createTime":"1700000000",
"author":{"uniqueId":"gopher","nickname":"The Gopher"},
"stats":{"diggCount":1500,"commentCount":42,"shareCount":7,"playCount":99000}}}}}}</script>
</body></html>`

func TestTikTok_Extract(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(tiktokPage))
	})

	rec := NewTikTok(testFetcher()).Extract(context.Background(), srv.URL+"/@gopher/video/123")

	assertString(t, "author", rec.Author, "gopher")
	assertInt(t, "likes", rec.Likes, 1500)
	assertInt(t, "comments", rec.Comments, 42)
	assertInt(t, "shares", rec.Shares, 7)
	assertInt(t, "views", rec.Views, 99000)
	assertString(t, "published", rec.PublishedAt, "2023-11-14T22:13:20Z")
	assertString(t, "content type", rec.ContentType, ContentTypeVideo)
	if !rec.Complete() {
		t.Errorf("Expected complete record")
	}
}

func TestTikTok_MissingDataFallsBack(t *testing.T) {
	pages := []string{
		`<html><body>no data</body></html>`,
		`<html><body><script id="__UNIVERSAL_DATA_FOR_REHYDRATION__">{"__DEFAULT_SCOPE__":{}}</script></body></html>`,
		`<html><body><script id="__UNIVERSAL_DATA_FOR_REHYDRATION__">{broken</script></body></html>`,
	}

	for _, page := range pages {
		srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(page))
		})
		assertFallback(t, NewTikTok(testFetcher()).Extract(context.Background(), srv.URL+"/@x/video/1"), ContentTypeVideo)
	}
}

func TestUnixTimestamp(t *testing.T) {
	tests := []struct {
		raw      string
		expected int64
		ok       bool
	}{
		{`1700000000`, 1700000000, true},
		{`"1700000000"`, 1700000000, true},
		{`null`, 0, false},
		{`""`, 0, false},
		{`"0"`, 0, false},
		{`"soon"`, 0, false},
	}

	for _, tt := range tests {
		got, ok := unixTimestamp(json.RawMessage(tt.raw))
		if ok != tt.ok || got != tt.expected {
			t.Errorf("unixTimestamp(%s): expected (%d, %v), got (%d, %v)", tt.raw, tt.expected, tt.ok, got, ok)
		}
	}
}
