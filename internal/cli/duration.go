package cli

import (
	"fmt"
	"strconv"
	"time"
)

// parseDuration accepts Go durations ("500ms", "2s") and bare numbers, which
// are read as seconds ("0.5").
func parseDuration(name, s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s %q: expected a duration like 500ms or seconds like 0.5", name, s)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
