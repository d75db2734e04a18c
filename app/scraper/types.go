package scraper

import (
	"strings"

	"github.com/lysyi3m/telelinker/app/link"
	"golang.org/x/text/unicode/norm"
)

const (
	ContentTypeVideo   = "video"
	ContentTypeArticle = "article"
	ContentTypePost    = "post"
	ContentTypeReel    = "reel"
)

// Record is the metadata extracted for a single URL. Nil fields are absent.
type Record struct {
	Author      *string       `json:"author"`
	Likes       *int64        `json:"likes"`
	Comments    *int64        `json:"comments"`
	Shares      *int64        `json:"shares"`
	Views       *int64        `json:"views"`
	PublishedAt *string       `json:"published_at"`
	ContentType *string       `json:"content_type"`
	URL         string        `json:"url"`
	Platform    link.Platform `json:"platform"`
}

// Complete reports whether the record carries author, likes, comments and
// publication date. Only complete records are exported.
func (r Record) Complete() bool {
	return r.Author != nil && r.Likes != nil && r.Comments != nil && r.PublishedAt != nil
}

// Fallback returns the record extractors produce when their lookup fails:
// every field absent except the static content type.
func Fallback(contentType string) Record {
	var rec Record
	if contentType != "" {
		rec.ContentType = ptr(contentType)
	}
	return rec
}

func ptr[T any](v T) *T {
	return &v
}

func normalizeAuthor(name string) *string {
	name = strings.TrimSpace(norm.NFC.String(name))
	if name == "" {
		return nil
	}
	return &name
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
