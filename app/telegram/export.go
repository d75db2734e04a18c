package telegram

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
)

var errSourceClosed = errors.New("message source is closed")

// ExportSource reads the JSON files produced by Telegram Desktop's
// "Export chat history". A group is looked up as <dir>/<id>.json or
// <dir>/<id>/result.json. Messages are yielded newest first, like a live
// history request.
type ExportSource struct {
	dir    string
	closed atomic.Bool
}

func NewExportSource(dir string) (*ExportSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open exports directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("exports path %s is not a directory", dir)
	}
	return &ExportSource{dir: dir}, nil
}

func (s *ExportSource) Close() error {
	s.closed.Store(true)
	return nil
}

func (s *ExportSource) Messages(ctx context.Context, groupID int64) iter.Seq2[Message, error] {
	return func(yield func(Message, error) bool) {
		if s.closed.Load() {
			yield(Message{}, errSourceClosed)
			return
		}

		path, err := s.locate(groupID)
		if err != nil {
			yield(Message{}, err)
			return
		}

		messages, err := readExport(ctx, path)
		if err != nil {
			yield(Message{}, err)
			return
		}

		slog.Debug("Read group export", "group", groupID, "path", path, "messages", len(messages))

		for _, msg := range slices.Backward(messages) {
			if err := ctx.Err(); err != nil {
				yield(Message{}, err)
				return
			}
			if !yield(msg, nil) {
				return
			}
		}
	}
}

// readExport decodes the chat messages of an export in file order, which
// Telegram Desktop writes oldest first.
func readExport(ctx context.Context, path string) ([]Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(bufio.NewReader(f))
	if err := seekMessages(dec); err != nil {
		return nil, fmt.Errorf("failed to read export %s: %w", path, err)
	}

	var messages []Message
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var entry exportEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode message in %s: %w", path, err)
		}
		if entry.Type != "message" {
			continue
		}
		messages = append(messages, Message{ID: entry.ID, Text: string(entry.Text), Date: entry.Date})
	}

	return messages, nil
}

// locate tries the id as given, then without the "-100" channel prefix or the
// "-" group prefix that Telegram clients show.
func (s *ExportSource) locate(groupID int64) (string, error) {
	raw := strconv.FormatInt(groupID, 10)
	names := []string{raw}
	switch {
	case strings.HasPrefix(raw, "-100"):
		names = append(names, strings.TrimPrefix(raw, "-100"))
	case strings.HasPrefix(raw, "-"):
		names = append(names, strings.TrimPrefix(raw, "-"))
	}

	for _, name := range names {
		for _, candidate := range []string{
			filepath.Join(s.dir, name+".json"),
			filepath.Join(s.dir, name, "result.json"),
		} {
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %d in %s", ErrGroupNotFound, groupID, s.dir)
}

// seekMessages advances the decoder to the first element of the top-level
// "messages" array.
func seekMessages(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected a JSON object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		if key != "messages" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return err
			}
			continue
		}

		tok, err = dec.Token()
		if err != nil {
			return err
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			return fmt.Errorf("messages is not an array")
		}
		return nil
	}

	return fmt.Errorf("no messages array")
}

type exportEntry struct {
	ID   int64      `json:"id"`
	Type string     `json:"type"`
	Date string     `json:"date"`
	Text exportText `json:"text"`
}

// exportText is either a plain string or a list of strings and entity objects
// such as {"type": "link", "text": "https://..."}.
type exportText string

func (t *exportText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = exportText(s)
		return nil
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("unsupported text value: %w", err)
	}

	var b strings.Builder
	for _, part := range parts {
		var s string
		if err := json.Unmarshal(part, &s); err == nil {
			b.WriteString(s)
			continue
		}
		var entity struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(part, &entity); err != nil {
			return fmt.Errorf("unsupported text entity: %w", err)
		}
		b.WriteString(entity.Text)
	}
	*t = exportText(b.String())
	return nil
}
