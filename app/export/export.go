package export

import (
	"errors"
	"fmt"

	"github.com/lysyi3m/telelinker/app/scraper"
)

var ErrUnsupportedFormat = errors.New("format not supported")

type Format string

const (
	FormatCSV        Format = "csv"
	FormatPostgreSQL Format = "postgresql"
	FormatSQLite     Format = "sqlite"
)

// Row is one exported record together with the group it was found in.
type Row struct {
	GroupID string
	Record  scraper.Record
}

// Writer receives complete records. The destination stays open until Close.
type Writer interface {
	Write(row Row) error
	Close() error
	// Describe names the destination for the summary line.
	Describe() string
}

func Formats() []Format {
	return []Format{FormatCSV, FormatPostgreSQL, FormatSQLite}
}

func DefaultPath(format Format) string {
	switch format {
	case FormatCSV:
		return "posts.csv"
	case FormatSQLite:
		return "posts.db"
	default:
		return "posts.sql"
	}
}

// Open prepares the destination for format. An empty path selects
// DefaultPath. Unknown formats return ErrUnsupportedFormat without touching
// the filesystem.
func Open(format Format, path string) (Writer, error) {
	if path == "" {
		path = DefaultPath(format)
	}

	switch format {
	case FormatCSV:
		return NewCSVWriter(path)
	case FormatPostgreSQL:
		return NewSQLWriter(path)
	case FormatSQLite:
		return NewSQLiteWriter(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
