package api

import (
	"github.com/lysyi3m/telelinker/app/database"
	"github.com/lysyi3m/telelinker/app/link"
	"github.com/lysyi3m/telelinker/app/scraper"
)

type ExtractorRegistry interface {
	Lookup(platform link.Platform) (scraper.Extractor, bool)
	Platforms() []link.Platform
}

type PostStore interface {
	ListPosts(filter database.PostFilter) ([]database.Post, error)
	GetPostCount() (int, error)
	GetPlatformCounts() (map[string]int, error)
}

var _ ExtractorRegistry = (*scraper.Registry)(nil)
var _ PostStore = (*database.PostRepository)(nil)

type Handler struct {
	registry ExtractorRegistry
	posts    PostStore
	version  string
}

type ExtractRequest struct {
	Text string `json:"text" binding:"required"`
}

type ExtractedLink struct {
	URL      string          `json:"url"`
	Platform link.Platform   `json:"platform,omitempty"`
	Record   *scraper.Record `json:"record,omitempty"`
	Complete bool            `json:"complete"`
}
