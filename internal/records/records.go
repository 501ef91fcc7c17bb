// Package records loads the input CSV and extracts external identifiers from
// authority URIs.
package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Input column names.
const (
	ColumnRecordID    = "recordnumber"
	ColumnExternalURI = "external_uri"
)

// utf8BOM is stripped from the first header cell; spreadsheet exports add it.
const utf8BOM = "\ufeff"

// ErrMissingColumn is returned when a required header column is absent.
var ErrMissingColumn = errors.New("missing required column")

// Record is one input row: a local record number and the external authority URI
// to resolve.
type Record struct {
	RecordID    string
	ExternalURI string
}

// ExternalID returns the identifier token of the record's URI.
func (r Record) ExternalID() string {
	return ExtractID(r.ExternalURI)
}

// ExtractID returns the last path segment of uri after trailing slashes are
// removed. A string without "/" is returned unchanged.
func ExtractID(uri string) string {
	trimmed := strings.TrimRight(uri, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// CanonicalToken is the join key used on both sides of a lookup: the extracted
// identifier, trimmed and NFC-normalized. Case is preserved.
func CanonicalToken(s string) string {
	return norm.NFC.String(strings.TrimSpace(ExtractID(strings.TrimSpace(s))))
}

// Load reads all records from the CSV file at path.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input %s: %w", path, err)
	}
	defer f.Close()

	recs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading input %s: %w", path, err)
	}
	return recs, nil
}

// Read parses records from r. The header must contain the recordnumber and
// external_uri columns in any position; other columns are ignored.
func Read(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file, expected header %s,%s",
			ErrMissingColumn, ColumnRecordID, ColumnExternalURI)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idCol, uriCol, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var recs []Record
	for {
		row, readErr := cr.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(recs)+2, readErr)
		}
		recs = append(recs, Record{
			RecordID:    field(row, idCol),
			ExternalURI: field(row, uriCol),
		})
	}

	return recs, nil
}

func locateColumns(header []string) (int, int, error) {
	idCol, uriCol := -1, -1
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		switch strings.TrimSpace(name) {
		case ColumnRecordID:
			idCol = i
		case ColumnExternalURI:
			uriCol = i
		}
	}

	var missing []string
	if idCol < 0 {
		missing = append(missing, ColumnRecordID)
	}
	if uriCol < 0 {
		missing = append(missing, ColumnExternalURI)
	}
	if len(missing) > 0 {
		return 0, 0, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idCol, uriCol, nil
}

func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
