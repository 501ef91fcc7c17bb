package engine

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary counts the outcome of a run.
type Summary struct {
	Records       int
	Batches       int
	Matched       int
	Unmatched     int
	FailedBatches int
	FailedRecords int
	Elapsed       time.Duration
}

// Written returns the number of records that reached the output, given the
// policy the run used.
func (s Summary) Written(policy Policy) int {
	if policy == PolicySkip {
		return s.Matched + s.Unmatched
	}
	return s.Matched + s.Unmatched + s.FailedRecords
}

// String renders the one-line run summary with thousands separators.
func (s Summary) String() string {
	p := message.NewPrinter(language.English)
	line := p.Sprintf("Resolved %d of %d records (%d unmatched", s.Matched, s.Records, s.Unmatched)
	if s.FailedBatches > 0 {
		line += p.Sprintf(", %d in %d failed batches", s.FailedRecords, s.FailedBatches)
	}
	return line + p.Sprintf(") in %s", s.Elapsed.Round(time.Millisecond))
}
