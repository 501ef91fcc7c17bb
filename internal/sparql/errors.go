package sparql

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors, comparable with errors.Is.
var (
	// ErrInvalidProperty indicates a property identifier that is not of the form P<digits>.
	ErrInvalidProperty = constError("invalid property identifier")

	// ErrNoTokens indicates a query was requested for an empty batch.
	ErrNoTokens = constError("no identifiers to query")
)

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("sparql endpoint returned %s", e.Status)
	}
	return fmt.Sprintf("sparql endpoint returned %s: %s", e.Status, e.Body)
}
