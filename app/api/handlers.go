package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/telelinker/app/database"
	"github.com/lysyi3m/telelinker/app/link"
)

const maxPostsLimit = 1000

// NewHandler wires the API to the extractor registry. posts may be nil when
// no database is configured.
func NewHandler(registry ExtractorRegistry, posts PostStore, version string) *Handler {
	return &Handler{
		registry: registry,
		posts:    posts,
		version:  version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":    "ok",
		"version":   h.version,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"database":  h.posts != nil,
	}

	if h.posts != nil {
		if count, err := h.posts.GetPostCount(); err == nil {
			health["posts"] = count
		}
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetPlatforms(c *gin.Context) {
	registered := make(map[link.Platform]bool)
	for _, p := range h.registry.Platforms() {
		registered[p] = true
	}

	platforms := make([]map[string]interface{}, 0, len(link.Platforms()))
	for _, p := range link.Platforms() {
		platforms = append(platforms, map[string]interface{}{
			"name":       p,
			"registered": registered[p],
		})
	}

	c.JSON(http.StatusOK, gin.H{"platforms": platforms})
}

func (h *Handler) APIExtract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	links := make([]ExtractedLink, 0)
	for rawURL := range link.Extract(req.Text) {
		extracted := ExtractedLink{URL: rawURL}

		platform, ok := link.Classify(rawURL)
		if ok {
			extracted.Platform = platform
			if extractor, found := h.registry.Lookup(platform); found {
				rec := extractor.Extract(c.Request.Context(), rawURL)
				rec.URL = rawURL
				rec.Platform = platform
				extracted.Record = &rec
				extracted.Complete = rec.Complete()
			}
		}

		links = append(links, extracted)
	}

	slog.Debug("Links extracted", "count", len(links))

	c.JSON(http.StatusOK, gin.H{"links": links})
}

func (h *Handler) APIListPosts(c *gin.Context) {
	if h.posts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No database configured"})
		return
	}

	filter := database.PostFilter{
		Platform: c.Query("platform"),
		GroupID:  c.Query("group"),
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > maxPostsLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		filter.Limit = limit
	}

	posts, err := h.posts.ListPosts(filter)
	if err != nil {
		slog.Error("Database error", "operation", "list_posts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	items := make([]map[string]interface{}, 0, len(posts))
	for _, post := range posts {
		items = append(items, map[string]interface{}{
			"id":           post.ID,
			"group_id":     post.GroupID,
			"url":          post.URL,
			"platform":     post.Platform,
			"content_type": post.ContentType,
			"author":       post.Author,
			"date":         post.Date,
			"likes":        post.Likes,
			"comments":     post.Comments,
			"shared":       post.Shared,
			"visit":        post.Visit,
			"created_at":   post.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"posts": items,
		"total": len(items),
	})
}

func (h *Handler) APIGetStats(c *gin.Context) {
	if h.posts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No database configured"})
		return
	}

	counts, err := h.posts.GetPlatformCounts()
	if err != nil {
		slog.Error("Database error", "operation", "platform_counts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	c.JSON(http.StatusOK, gin.H{
		"platforms": counts,
		"total":     total,
	})
}
