package export

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lysyi3m/telelinker/app/link"
)

const createTableStatement = "CREATE TABLE posts (\n" +
	"    id SERIAL PRIMARY KEY,\n" +
	"    url TEXT NOT NULL,\n" +
	"    platform VARCHAR(50) NOT NULL,\n" +
	"    content_type VARCHAR(50),\n" +
	"    author VARCHAR(100),\n" +
	"    date TIMESTAMP,\n" +
	"    likes INT,\n" +
	"    comments INT,\n" +
	"    shared INT,\n" +
	"    visit INT\n" +
	");\n\n"

const insertPrefix = "INSERT INTO posts (url, platform, content_type, author, date, likes, comments, shared, visit) VALUES ("

// SQLWriter produces a PostgreSQL script. A new file starts with the CREATE
// TABLE statement; an existing file is appended to.
type SQLWriter struct {
	path string
	file *os.File
}

func NewSQLWriter(path string) (*SQLWriter, error) {
	_, err := os.Stat(path)
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to check SQL file: %w", err)
	}

	flag := os.O_WRONLY | os.O_APPEND
	if !exists {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	file, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQL file: %w", err)
	}

	if !exists {
		if _, err := file.WriteString(createTableStatement); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write table definition: %w", err)
		}
	}

	return &SQLWriter{path: path, file: file}, nil
}

func (w *SQLWriter) Write(row Row) error {
	if _, err := w.file.WriteString(InsertStatement(row)); err != nil {
		return fmt.Errorf("failed to write SQL row: %w", err)
	}
	return nil
}

func (w *SQLWriter) Close() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close SQL file: %w", err)
	}
	return nil
}

func (w *SQLWriter) Describe() string {
	return w.path + " (PostgreSQL)"
}

// InsertStatement renders row as a single INSERT line. The group id is not
// part of the PostgreSQL table.
func InsertStatement(row Row) string {
	rec := row.Record
	values := []string{
		Literal(rec.URL),
		Literal(rec.Platform),
		Literal(rec.ContentType),
		Literal(rec.Author),
		Literal(rec.PublishedAt),
		Literal(rec.Likes),
		Literal(rec.Comments),
		Literal(rec.Shares),
		Literal(rec.Views),
	}
	return insertPrefix + strings.Join(values, ", ") + ");\n"
}

// Literal renders v as a SQL literal: NULL for nil, single-quoted text with
// embedded quotes doubled, bare integers.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	case link.Platform:
		return Literal(string(x))
	case *string:
		if x == nil {
			return "NULL"
		}
		return Literal(*x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case *int64:
		if x == nil {
			return "NULL"
		}
		return strconv.FormatInt(*x, 10)
	default:
		return fmt.Sprint(x)
	}
}
