package export

import (
	"fmt"
	"time"

	"github.com/lysyi3m/telelinker/app/database"
)

// SQLiteWriter stores rows in a migrated SQLite database.
type SQLiteWriter struct {
	path  string
	db    *database.DB
	posts *database.PostRepository
}

func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite export: %w", err)
	}

	return &SQLiteWriter{
		path:  path,
		db:    db,
		posts: database.NewPostRepository(db),
	}, nil
}

func (w *SQLiteWriter) Write(row Row) error {
	rec := row.Record
	_, err := w.posts.InsertPost(database.Post{
		GroupID:     row.GroupID,
		URL:         rec.URL,
		Platform:    string(rec.Platform),
		ContentType: rec.ContentType,
		Author:      rec.Author,
		Date:        rec.PublishedAt,
		Likes:       rec.Likes,
		Comments:    rec.Comments,
		Shared:      rec.Shares,
		Visit:       rec.Views,
		CreatedAt:   time.Now(),
	})
	return err
}

func (w *SQLiteWriter) Close() error {
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close SQLite export: %w", err)
	}
	return nil
}

func (w *SQLiteWriter) Describe() string {
	return w.path + " (SQLite)"
}
