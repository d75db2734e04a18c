package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lysyi3m/telelinker/app/export"
	"github.com/lysyi3m/telelinker/app/link"
	"github.com/lysyi3m/telelinker/app/scraper"
	"github.com/lysyi3m/telelinker/app/telegram"
)

// Registry resolves the extractor for a platform.
type Registry interface {
	Lookup(platform link.Platform) (scraper.Extractor, bool)
}

// Runner walks group messages, extracts link metadata and writes complete
// records. Work is strictly sequential.
type Runner struct {
	source   telegram.Source
	registry Registry
	writer   export.Writer
	out      io.Writer
}

func NewRunner(source telegram.Source, registry Registry, writer export.Writer, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		source:   source,
		registry: registry,
		writer:   writer,
		out:      out,
	}
}

// Run processes groups in order and returns the number of rows written. A
// negative limit reads every message; otherwise at most limit messages are
// read per group, textless ones included. Source and writer errors stop the
// run; the count reflects the rows written before the failure.
func (r *Runner) Run(ctx context.Context, groups []string, limit int) (int, error) {
	total := 0

	for _, group := range groups {
		groupID, err := strconv.ParseInt(strings.TrimSpace(group), 10, 64)
		if err != nil {
			return total, fmt.Errorf("invalid group id %q: %w", group, err)
		}

		if limit >= 0 {
			fmt.Fprintf(r.out, "📡 Fetching up to %d posts from group %s...\n", limit, group)
		} else {
			fmt.Fprintf(r.out, "📡 Fetching all posts from group %s...\n", group)
		}

		written, err := r.runGroup(ctx, group, groupID, limit)
		total += written
		if err != nil {
			return total, err
		}

		slog.Debug("Group processed", "group", group, "rows", written)
	}

	return total, nil
}

func (r *Runner) runGroup(ctx context.Context, group string, groupID int64, limit int) (int, error) {
	if limit == 0 {
		return 0, nil
	}

	written := 0
	seen := 0

	for msg, err := range r.source.Messages(ctx, groupID) {
		if err != nil {
			return written, fmt.Errorf("failed to read messages from group %s: %w", group, err)
		}
		if err := ctx.Err(); err != nil {
			return written, err
		}

		seen++
		if msg.Text != "" {
			n, err := r.processMessage(ctx, group, msg)
			written += n
			if err != nil {
				return written, err
			}
		}

		if limit > 0 && seen >= limit {
			break
		}
	}

	return written, nil
}

func (r *Runner) processMessage(ctx context.Context, group string, msg telegram.Message) (int, error) {
	written := 0

	for rawURL := range link.Extract(msg.Text) {
		platform, ok := link.Classify(rawURL)
		if !ok {
			continue
		}
		extractor, ok := r.registry.Lookup(platform)
		if !ok {
			continue
		}

		rec := extractor.Extract(ctx, rawURL)
		rec.URL = rawURL
		rec.Platform = platform

		if !rec.Complete() {
			slog.Debug("Skipping incomplete record", "url", rawURL, "platform", platform, "message", msg.ID)
			continue
		}

		if err := r.writer.Write(export.Row{GroupID: group, Record: rec}); err != nil {
			return written, fmt.Errorf("failed to export %s: %w", rawURL, err)
		}
		written++

		fmt.Fprintf(r.out, "\nLink inserted: %s (%s)\n", rawURL, platform)
	}

	return written, nil
}
