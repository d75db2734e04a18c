package scraper

import (
	"context"
	"sort"
	"time"

	"github.com/lysyi3m/telelinker/app/link"
)

// Extractor turns a URL into a metadata record. Implementations never fail:
// lookup errors degrade to Fallback.
type Extractor interface {
	Extract(ctx context.Context, rawURL string) Record
}

type ExtractorFunc func(ctx context.Context, rawURL string) Record

func (f ExtractorFunc) Extract(ctx context.Context, rawURL string) Record {
	return f(ctx, rawURL)
}

// Options configures the default extractors.
type Options struct {
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	MaxRetries        int
	RetryBackoff      time.Duration

	YouTubeAPIKey  string
	YouTubeAPIBase string
	YtDlpPath      string
	DevToAPIBase   string
	MediumFeedBase string
}

type Registry struct {
	extractors map[link.Platform]Extractor
}

func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[link.Platform]Extractor),
	}
}

// NewDefaultRegistry registers an extractor for every known platform. Each
// extractor gets its own fetcher so rate limits apply per platform.
func NewDefaultRegistry(opts Options) *Registry {
	r := NewRegistry()
	r.Register(link.PlatformYouTube, NewYouTube(NewFetcher(opts), opts))
	r.Register(link.PlatformDevTo, NewDevTo(NewFetcher(opts), opts.DevToAPIBase))
	r.Register(link.PlatformMedium, NewMedium(NewFetcher(opts), opts.MediumFeedBase))
	r.Register(link.PlatformLinkedIn, NewLinkedIn(NewFetcher(opts)))
	r.Register(link.PlatformInstagram, NewInstagram(NewFetcher(opts)))
	r.Register(link.PlatformTikTok, NewTikTok(NewFetcher(opts)))
	return r
}

func (r *Registry) Register(platform link.Platform, extractor Extractor) {
	r.extractors[platform] = extractor
}

func (r *Registry) Lookup(platform link.Platform) (Extractor, bool) {
	extractor, ok := r.extractors[platform]
	return extractor, ok
}

// Platforms returns the registered platforms sorted by name.
func (r *Registry) Platforms() []link.Platform {
	platforms := make([]link.Platform, 0, len(r.extractors))
	for platform := range r.extractors {
		platforms = append(platforms, platform)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })
	return platforms
}
