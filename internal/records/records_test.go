package records

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ulan with trailing slash", in: "http://vocab.getty.edu/ulan/500115493/", want: "500115493"},
		{name: "rkd without trailing slash", in: "https://rkd.nl/explore/artists/32439", want: "32439"},
		{name: "plain id", in: "plainid", want: "plainid"},
		{name: "multiple trailing slashes", in: "http://example.org/a/b//", want: "b"},
		{name: "empty", in: "", want: ""},
		{name: "only slashes", in: "///", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractID(tt.in))
		})
	}
}

func TestCanonicalToken(t *testing.T) {
	assert.Equal(t, "500115493", CanonicalToken("500115493"))
	assert.Equal(t, "500115493", CanonicalToken(" http://vocab.getty.edu/ulan/500115493/ "))
	assert.Equal(t, "cnp01234567", CanonicalToken("cnp01234567"))
	assert.NotEqual(t, CanonicalToken("CNP01"), CanonicalToken("cnp01"), "case is preserved")

	// "é" decomposed (e + U+0301) and precomposed map to the same token.
	assert.Equal(t, CanonicalToken("caf\u00e9"), CanonicalToken("cafe\u0301"))
}

func TestRead(t *testing.T) {
	t.Run("reads records in order", func(t *testing.T) {
		in := "recordnumber,external_uri\n1,http://vocab.getty.edu/ulan/500115493/\n2,http://vocab.getty.edu/ulan/500115494/\n"
		recs, err := Read(strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, []Record{
			{RecordID: "1", ExternalURI: "http://vocab.getty.edu/ulan/500115493/"},
			{RecordID: "2", ExternalURI: "http://vocab.getty.edu/ulan/500115494/"},
		}, recs)
		assert.Equal(t, "500115493", recs[0].ExternalID())
	})

	t.Run("extra columns and reordered header", func(t *testing.T) {
		in := "\ufeffnote,external_uri,recordnumber\nhello,https://rkd.nl/explore/artists/1,42\n"
		recs, err := Read(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "42", recs[0].RecordID)
		assert.Equal(t, "https://rkd.nl/explore/artists/1", recs[0].ExternalURI)
	})

	t.Run("short rows yield empty fields", func(t *testing.T) {
		recs, err := Read(strings.NewReader("recordnumber,external_uri\n7\n"))
		require.NoError(t, err)
		assert.Equal(t, []Record{{RecordID: "7"}}, recs)
	})

	t.Run("header only", func(t *testing.T) {
		recs, err := Read(strings.NewReader("recordnumber,external_uri\n"))
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := Read(strings.NewReader("id,external_uri\n1,x\n"))
		require.ErrorIs(t, err, ErrMissingColumn)
		assert.Contains(t, err.Error(), ColumnRecordID)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Read(strings.NewReader(""))
		require.ErrorIs(t, err, ErrMissingColumn)
	})
}

func TestLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "source.csv")
		require.NoError(t, os.WriteFile(path, []byte("recordnumber,external_uri\n1,a/b\n"), 0600))
		recs, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []Record{{RecordID: "1", ExternalURI: "a/b"}}, recs)
	})
}
