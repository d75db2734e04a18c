package database

import (
	"time"
)

// Post is a stored link record. Nullable columns map to nil pointers.
type Post struct {
	ID          int64
	GroupID     string
	URL         string
	Platform    string
	ContentType *string
	Author      *string
	Date        *string
	Likes       *int64
	Comments    *int64
	Shared      *int64
	Visit       *int64
	CreatedAt   time.Time
}

type PostFilter struct {
	Platform string
	GroupID  string
	Limit    int
}
