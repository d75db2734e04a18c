package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/telelinker/app/database"
	"github.com/lysyi3m/telelinker/app/link"
	"github.com/lysyi3m/telelinker/app/scraper"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func strPtr(s string) *string { return &s }
func intPtr(n int64) *int64   { return &n }

func testRegistry() *scraper.Registry {
	registry := scraper.NewRegistry()
	registry.Register(link.PlatformYouTube, scraper.ExtractorFunc(func(ctx context.Context, rawURL string) scraper.Record {
		return scraper.Record{
			Author:      strPtr("Channel"),
			Likes:       intPtr(5),
			Comments:    intPtr(1),
			PublishedAt: strPtr("20240101"),
			ContentType: strPtr(scraper.ContentTypeVideo),
		}
	}))
	registry.Register(link.PlatformMedium, scraper.ExtractorFunc(func(ctx context.Context, rawURL string) scraper.Record {
		return scraper.Fallback(scraper.ContentTypeArticle)
	}))
	return registry
}

func testPosts(t *testing.T) *database.PostRepository {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "posts.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	repo := database.NewPostRepository(db)
	for _, p := range []database.Post{
		{GroupID: "1", URL: "https://youtu.be/a", Platform: "YouTube", Author: strPtr("A"), Likes: intPtr(3)},
		{GroupID: "1", URL: "https://youtu.be/b", Platform: "YouTube"},
		{GroupID: "2", URL: "https://dev.to/x/y", Platform: "Dev.to"},
	} {
		if _, err := repo.InsertPost(p); err != nil {
			t.Fatal(err)
		}
	}
	return repo
}

func perform(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	r := NewServer(NewHandler(testRegistry(), testPosts(t), "test"), "")

	w := perform(r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body map[string]any
	decode(t, w, &body)
	if body["version"] != "test" {
		t.Errorf("Expected version 'test', got %v", body["version"])
	}
	if body["posts"] != float64(3) {
		t.Errorf("Expected 3 posts, got %v", body["posts"])
	}
}

func TestPlatforms(t *testing.T) {
	r := NewServer(NewHandler(testRegistry(), nil, "test"), "")

	w := perform(r, http.MethodGet, "/platforms", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body struct {
		Platforms []struct {
			Name       string `json:"name"`
			Registered bool   `json:"registered"`
		} `json:"platforms"`
	}
	decode(t, w, &body)

	if len(body.Platforms) != 6 {
		t.Fatalf("Expected 6 platforms, got %d", len(body.Platforms))
	}
	if body.Platforms[0].Name != "LinkedIn" || body.Platforms[0].Registered {
		t.Errorf("Expected unregistered LinkedIn first, got %+v", body.Platforms[0])
	}
	if body.Platforms[2].Name != "YouTube" || !body.Platforms[2].Registered {
		t.Errorf("Expected registered YouTube, got %+v", body.Platforms[2])
	}
}

func TestExtract(t *testing.T) {
	r := NewServer(NewHandler(testRegistry(), nil, "test"), "")

	w := perform(r, http.MethodPost, "/api/extract",
		`{"text": "watch https://youtu.be/abc then https://medium.com/@x/p-1 or https://example.com"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Links []struct {
			URL      string          `json:"url"`
			Platform string          `json:"platform"`
			Record   *scraper.Record `json:"record"`
			Complete bool            `json:"complete"`
		} `json:"links"`
	}
	decode(t, w, &body)

	if len(body.Links) != 3 {
		t.Fatalf("Expected 3 links, got %d", len(body.Links))
	}

	yt := body.Links[0]
	if yt.Platform != "YouTube" || !yt.Complete || yt.Record == nil {
		t.Errorf("Expected complete YouTube record, got %+v", yt)
	} else if yt.Record.Author == nil || *yt.Record.Author != "Channel" {
		t.Errorf("Expected author 'Channel', got %v", yt.Record.Author)
	}

	medium := body.Links[1]
	if medium.Platform != "Medium" || medium.Complete || medium.Record == nil {
		t.Errorf("Expected incomplete Medium record, got %+v", medium)
	}

	other := body.Links[2]
	if other.Platform != "" || other.Record != nil || other.Complete {
		t.Errorf("Expected unclassified link, got %+v", other)
	}
}

func TestExtractBadRequest(t *testing.T) {
	r := NewServer(NewHandler(testRegistry(), nil, "test"), "")

	for _, body := range []string{`not json`, `{}`} {
		w := perform(r, http.MethodPost, "/api/extract", body, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for %q, got %d", body, w.Code)
		}
	}
}

func TestListPosts(t *testing.T) {
	r := NewServer(NewHandler(testRegistry(), testPosts(t), "test"), "")

	w := perform(r, http.MethodGet, "/api/posts?platform=YouTube&limit=10", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body struct {
		Posts []map[string]any `json:"posts"`
		Total int              `json:"total"`
	}
	decode(t, w, &body)

	if body.Total != 2 {
		t.Errorf("Expected 2 YouTube posts, got %d", body.Total)
	}
	for _, post := range body.Posts {
		if post["platform"] != "YouTube" {
			t.Errorf("Expected only YouTube posts, got %v", post["platform"])
		}
	}

	w = perform(r, http.MethodGet, "/api/posts?limit=abc", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid limit, got %d", w.Code)
	}
}

func TestListPostsWithoutDatabase(t *testing.T) {
	r := NewServer(NewHandler(testRegistry(), nil, "test"), "")

	for _, path := range []string{"/api/posts", "/api/stats"} {
		w := perform(r, http.MethodGet, path, "", nil)
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected status 503 for %s, got %d", path, w.Code)
		}
	}
}

func TestStats(t *testing.T) {
	r := NewServer(NewHandler(testRegistry(), testPosts(t), "test"), "")

	w := perform(r, http.MethodGet, "/api/stats", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body struct {
		Platforms map[string]int `json:"platforms"`
		Total     int            `json:"total"`
	}
	decode(t, w, &body)
	if body.Total != 3 || body.Platforms["YouTube"] != 2 || body.Platforms["Dev.to"] != 1 {
		t.Errorf("Unexpected stats: %+v", body)
	}
}

func TestAuthMiddleware(t *testing.T) {
	r := NewServer(NewHandler(testRegistry(), testPosts(t), "test"), "secret")

	tests := []struct {
		name     string
		headers  map[string]string
		expected int
	}{
		{"missing key", nil, http.StatusUnauthorized},
		{"wrong key", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"header key", map[string]string{"X-API-Key": "secret"}, http.StatusOK},
		{"bearer token", map[string]string{"Authorization": "Bearer secret"}, http.StatusOK},
	}

	for _, tt := range tests {
		w := perform(r, http.MethodGet, "/api/posts", "", tt.headers)
		if w.Code != tt.expected {
			t.Errorf("%s: expected status %d, got %d", tt.name, tt.expected, w.Code)
		}
	}

	if w := perform(r, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("Expected /health to stay public, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := NewServer(NewHandler(testRegistry(), nil, "test"), "secret")

	w := perform(r, http.MethodOptions, "/api/extract", "", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header")
	}
}
