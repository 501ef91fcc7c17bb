// Package output writes resolution results: the annotated CSV file and the
// per-record console echo.
package output

// Status classifies how a row was produced.
type Status int

const (
	// StatusUnknown is the zero value; the row has not been resolved.
	StatusUnknown Status = iota
	// StatusFound means the identifier resolved to a Q-code.
	StatusFound
	// StatusNotFound means the service returned no entity for the identifier.
	StatusNotFound
	// StatusFailed means the record's batch failed and the row was written blank.
	StatusFailed
)

// Row is one output line. QCode and Link are empty unless Status is StatusFound.
type Row struct {
	RecordID    string
	ExternalURI string
	QCode       string
	Link        string
	Status      Status
}

// Header is the output CSV header.
var Header = []string{"recordnumber", "external_uri", "qcode", "full_q_link"} //nolint:gochecknoglobals // fixed output schema

func (r Row) fields() []string {
	return []string{r.RecordID, r.ExternalURI, r.QCode, r.Link}
}
