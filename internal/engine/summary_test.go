package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryString(t *testing.T) {
	s := Summary{Records: 12500, Matched: 12000, Unmatched: 450, Elapsed: 1500 * time.Millisecond}
	assert.Equal(t, "Resolved 12,000 of 12,500 records (450 unmatched) in 1.5s", s.String())

	s.FailedBatches = 1
	s.FailedRecords = 50
	assert.Equal(t, "Resolved 12,000 of 12,500 records (450 unmatched, 50 in 1 failed batches) in 1.5s", s.String())
	assert.Equal(t, 12500, s.Written(PolicyBlank))
	assert.Equal(t, 12450, s.Written(PolicySkip))
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy(" Skip ")
	require.NoError(t, err)
	assert.Equal(t, PolicySkip, p)

	p, err = ParsePolicy("blank")
	require.NoError(t, err)
	assert.Equal(t, PolicyBlank, p)

	_, err = ParsePolicy("")
	require.Error(t, err)
}

func TestEntityLink(t *testing.T) {
	assert.Equal(t, "http://www.wikidata.org/entity/Q1", EntityLink("", "Q1"))
	assert.Equal(t, "https://example.org/e/Q1", EntityLink("https://example.org/e", "Q1"))
}
