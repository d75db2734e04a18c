package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const defaultListLimit = 100

// PostRepository handles database operations for exported posts
type PostRepository struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db}
}

// InsertPost stores a post and returns its row id
func (r *PostRepository) InsertPost(post Post) (int64, error) {
	createdAt := post.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := r.db.Exec(`
		INSERT INTO posts (
			group_id, url, platform, content_type, author, date,
			likes, comments, shared, visit, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, post.GroupID, post.URL, post.Platform, post.ContentType, post.Author, post.Date,
		post.Likes, post.Comments, post.Shared, post.Visit, createdAt.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to insert post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get post id: %w", err)
	}

	return id, nil
}

// ListPosts returns the newest posts first, optionally filtered by platform and group
func (r *PostRepository) ListPosts(filter PostFilter) ([]Post, error) {
	var where []string
	var args []any

	if filter.Platform != "" {
		where = append(where, "platform = ?")
		args = append(args, filter.Platform)
	}
	if filter.GroupID != "" {
		where = append(where, "group_id = ?")
		args = append(args, filter.GroupID)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT id, group_id, url, platform, content_type, author, date,
		       likes, comments, shared, visit, created_at
		FROM posts`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY id DESC\n\t\tLIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		var contentType, author, date sql.NullString
		var likes, comments, shared, visit sql.NullInt64
		var createdAt int64

		err := rows.Scan(
			&post.ID, &post.GroupID, &post.URL, &post.Platform,
			&contentType, &author, &date,
			&likes, &comments, &shared, &visit, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}

		post.ContentType = nullString(contentType)
		post.Author = nullString(author)
		post.Date = nullString(date)
		post.Likes = nullInt(likes)
		post.Comments = nullInt(comments)
		post.Shared = nullInt(shared)
		post.Visit = nullInt(visit)
		post.CreatedAt = time.Unix(createdAt, 0).UTC()

		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

// GetPostCount returns the number of stored posts
func (r *PostRepository) GetPostCount() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get post count: %w", err)
	}
	return count, nil
}

// GetPlatformCounts returns the number of stored posts per platform
func (r *PostRepository) GetPlatformCounts() (map[string]int, error) {
	rows, err := r.db.Query("SELECT platform, COUNT(*) FROM posts GROUP BY platform")
	if err != nil {
		return nil, fmt.Errorf("failed to get platform counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var platform string
		var count int
		if err := rows.Scan(&platform, &count); err != nil {
			return nil, fmt.Errorf("failed to scan platform count: %w", err)
		}
		counts[platform] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating platform counts: %w", err)
	}

	return counts, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	return &n.Int64
}
