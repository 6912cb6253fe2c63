package failures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Accumulates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "failed_parts_log.json")

	l, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, l.IDs())

	require.NoError(t, l.Record("5", "Testville", "Part2_Children"))
	require.NoError(t, l.Record("5", "Testville", "Part4_PlacesOfPower"))
	require.NoError(t, l.Record("5", "Testville", "Part2_Children"))
	require.NoError(t, l.Record("12", "Zürich & Co", "Part1_Description"))

	e, ok := l.Entry("5")
	require.True(t, ok)
	assert.Equal(t, "Testville", e.CityName)
	assert.Equal(t, []string{"Part2_Children", "Part4_PlacesOfPower"}, e.FailedParts)
	assert.Equal(t, []string{"12", "5"}, l.IDs())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"5": {"city_name": "Testville", "failed_parts": ["Part2_Children", "Part4_PlacesOfPower"]},
		"12": {"city_name": "Zürich & Co", "failed_parts": ["Part1_Description"]}
	}`, string(data))
	assert.Contains(t, string(data), "Zürich & Co", "non-ASCII and & are written as-is")
	assert.Contains(t, string(data), "\n  \"12\": {", "two-space indent")
}

func TestLoad_ExistingLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed_parts_log.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"7": {"city_name": "Old", "failed_parts": ["Part3_Instagram"]}}`), 0o644))

	l, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, l.Record("7", "Renamed", "Part3_Instagram"))
	require.NoError(t, l.Record("7", "Renamed", "Part5_NewAttractions"))

	reloaded, err := Load(path)
	require.NoError(t, err)
	e, ok := reloaded.Entry("7")
	require.True(t, ok)
	assert.Equal(t, "Old", e.CityName, "existing entries keep their name")
	assert.Equal(t, []string{"Part3_Instagram", "Part5_NewAttractions"}, e.FailedParts)
}

func TestLoad_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed_parts_log.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "failed_parts_log.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	l, err := Load(empty)
	require.NoError(t, err)
	assert.Empty(t, l.IDs())
}

func TestLoad_NullLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed_parts_log.json")
	require.NoError(t, os.WriteFile(path, []byte("null\n"), 0o644))

	l, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, l.IDs())

	require.NoError(t, l.Record("3", "Three", "Part2_Children"))
	e, ok := l.Entry("3")
	require.True(t, ok)
	assert.Equal(t, []string{"Part2_Children"}, e.FailedParts)
}

func TestEntry_ReturnsCopy(t *testing.T) {
	l, err := Load(filepath.Join(t.TempDir(), "log.json"))
	require.NoError(t, err)
	require.NoError(t, l.Record("1", "One", "Part1_Description"))

	e, _ := l.Entry("1")
	e.FailedParts[0] = "mutated"

	again, _ := l.Entry("1")
	assert.Equal(t, []string{"Part1_Description"}, again.FailedParts)

	_, ok := l.Entry("missing")
	assert.False(t, ok)
}
