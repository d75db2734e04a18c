package scraper

import (
	"context"
	"log/slog"

	"github.com/lysyi3m/telelinker/app/link"
)

type extractFunc func(ctx context.Context, rawURL string) (Record, error)

// extractOrFallback runs fn and converts any error or panic into
// Fallback(contentType), so no failure crosses the Extractor boundary.
func extractOrFallback(ctx context.Context, platform link.Platform, rawURL, contentType string, fn extractFunc) (rec Record) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("Extractor panicked", "platform", platform, "url", rawURL, "panic", r)
			rec = Fallback(contentType)
		}
	}()

	rec, err := fn(ctx, rawURL)
	if err != nil {
		slog.Debug("Extraction failed", "platform", platform, "url", rawURL, "error", err)
		return Fallback(contentType)
	}

	return rec
}
