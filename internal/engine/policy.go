package engine

import (
	"fmt"
	"strings"
)

// Policy decides what happens to the records of a batch whose lookup failed.
type Policy string

const (
	// PolicyBlank writes a row with empty qcode and link for every record of
	// the failed batch, so the output keeps one row per input record.
	PolicyBlank Policy = "blank"

	// PolicySkip writes no rows for the failed batch.
	PolicySkip Policy = "skip"
)

// ParsePolicy parses a policy name, case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyBlank, PolicySkip:
		return p, nil
	default:
		return "", fmt.Errorf("invalid batch error policy %q (valid: %s, %s)", s, PolicyBlank, PolicySkip)
	}
}
