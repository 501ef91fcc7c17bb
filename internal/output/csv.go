package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// CSVWriter appends rows to a CSV stream. The header is written on creation and
// rows are flushed per batch, so an interrupted run leaves every completed
// batch on disk.
type CSVWriter struct {
	w      *csv.Writer
	closer io.Closer
	rows   int
}

// NewCSVWriter writes the header to w and returns a writer for the rows.
// If w is an io.Closer it is closed by Close.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := &CSVWriter{w: csv.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		cw.closer = c
	}
	if err := cw.w.Write(Header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	if err := cw.Flush(); err != nil {
		return nil, err
	}
	return cw, nil
}

// CreateCSV creates (or truncates) the file at path and writes the header.
func CreateCSV(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output %s: %w", path, err)
	}
	cw, err := NewCSVWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating output %s: %w", path, err)
	}
	return cw, nil
}

// WriteRows appends rows and flushes them.
func (cw *CSVWriter) WriteRows(rows []Row) error {
	for _, r := range rows {
		if err := cw.w.Write(r.fields()); err != nil {
			return fmt.Errorf("writing row %s: %w", r.RecordID, err)
		}
	}
	if err := cw.Flush(); err != nil {
		return err
	}
	cw.rows += len(rows)
	return nil
}

// Rows returns the number of data rows written so far.
func (cw *CSVWriter) Rows() int { return cw.rows }

// Flush writes buffered rows to the underlying writer.
func (cw *CSVWriter) Flush() error {
	cw.w.Flush()
	if err := cw.w.Error(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer when it is closable. It is
// safe to call more than once.
func (cw *CSVWriter) Close() error {
	flushErr := cw.Flush()
	var closeErr error
	if cw.closer != nil {
		closeErr = cw.closer.Close()
		cw.closer = nil
	}
	return errors.Join(flushErr, closeErr)
}
