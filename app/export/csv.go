package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

var csvHeader = []string{
	"group_id",
	"autor_contenido",
	"likes",
	"comentarios",
	"compartidos",
	"visitas",
	"fecha_publicacion",
	"tipo_contenido",
}

// CSVWriter truncates its file and writes one row per record, flushing after
// every row so an interrupted run keeps what it already found.
type CSVWriter struct {
	path string
	file *os.File
	csv  *csv.Writer
}

func NewCSVWriter(path string) (*CSVWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV file: %w", err)
	}

	w := &CSVWriter{path: path, file: file, csv: csv.NewWriter(file)}
	w.csv.UseCRLF = true

	if err := w.writeRecord(csvHeader); err != nil {
		file.Close()
		return nil, err
	}

	return w, nil
}

func (w *CSVWriter) Write(row Row) error {
	rec := row.Record
	return w.writeRecord([]string{
		row.GroupID,
		csvString(rec.Author),
		csvInt(rec.Likes),
		csvInt(rec.Comments),
		csvInt(rec.Shares),
		csvInt(rec.Views),
		csvString(rec.PublishedAt),
		csvString(rec.ContentType),
	})
}

func (w *CSVWriter) writeRecord(fields []string) error {
	if err := w.csv.Write(fields); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV row: %w", err)
	}
	return nil
}

func (w *CSVWriter) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to flush CSV file: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close CSV file: %w", err)
	}
	return nil
}

func (w *CSVWriter) Describe() string {
	return w.path
}

func csvString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func csvInt(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}
