package parser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestParseTimeISO(t *testing.T) {
	got, ok := parseTime(gjson.Parse(`"2025-03-14T09:26:00Z"`))
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC), got.UTC())

	got, ok = parseTime(gjson.Parse(`"2025-03-14T09:26:00"`))
	require.True(t, ok)
	assert.Equal(t, 2025, got.Year())
}

func TestParseTimeEpochSeconds(t *testing.T) {
	got, ok := parseTime(gjson.Parse(`1741944360`))
	require.True(t, ok)
	assert.Equal(t, int64(1741944360), got.Unix())
}

func TestParseTimeEpochMillis(t *testing.T) {
	got, ok := parseTime(gjson.Parse(`1741944360000`))
	require.True(t, ok)
	assert.Equal(t, int64(1741944360), got.Unix())
}

func TestParseTimeNumericString(t *testing.T) {
	got, ok := parseTime(gjson.Parse(`"1741944360"`))
	require.True(t, ok)
	assert.Equal(t, int64(1741944360), got.Unix())
}

func TestParseTimeRejectsJunk(t *testing.T) {
	for _, raw := range []string{`"yesterday"`, `""`, `0`, `-5`, `null`, `{"a":1}`} {
		_, ok := parseTime(gjson.Parse(raw))
		assert.False(t, ok, raw)
	}
}

func TestFirstTime(t *testing.T) {
	doc := gjson.Parse(`{"created_at":"junk","createdAt":1741944360}`)
	got, ok := firstTime(doc, "created_at", "createdAt")
	require.True(t, ok)
	assert.Equal(t, int64(1741944360), got.Unix())

	_, ok = firstTime(doc, "missing")
	assert.False(t, ok)
}

func TestResolveCreatedAtFallsBackToMtime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	info, err := os.Stat(path)
	require.NoError(t, err)

	created, mtime := resolveCreatedAt(time.Time{}, false, path)
	assert.Equal(t, info.ModTime(), created)
	assert.InDelta(t, float64(info.ModTime().UnixNano())/1e9, mtime, 0.001)

	explicit := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	created, _ = resolveCreatedAt(explicit, true, path)
	assert.Equal(t, explicit, created)
}
