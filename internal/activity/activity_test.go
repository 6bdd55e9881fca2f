package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMovingTime(t *testing.T) {
	tests := []struct {
		in      string
		present bool
		ok      bool
		secs    float64
	}{
		{"0:45:12", true, true, 2712},
		{"1:02:03.500000", true, true, 3723.5},
		{"1 day, 2:00:00", true, true, 93600},
		{"2 days, 0:00:01", true, true, 172801},
		{"1970-01-01 00:30:00.000000", true, true, 1800},
		{"1970-01-01T01:00:00Z", true, true, 3600},
		{"", false, false, 0},
		{"fast", true, false, 0},
		{"1:75:00", true, false, 0},
		{"3 weeks, 0:00:00", true, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m := ParseMovingTime(tt.in)
			assert.Equal(t, tt.present, m.Present())
			secs, ok := m.Seconds()
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.secs, secs, 1e-6)
		})
	}
}

func TestMovingTimeUnmarshalJSON(t *testing.T) {
	var v struct {
		A MovingTime `json:"a"`
		B MovingTime `json:"b"`
		C MovingTime `json:"c"`
		D MovingTime `json:"d"`
		E MovingTime `json:"e"`
	}
	err := json.Unmarshal([]byte(`{"a": 1800, "b": "0:10:00", "c": null, "d": {"x": 1}, "e": "nope"}`), &v)
	require.NoError(t, err)

	secs, ok := v.A.Seconds()
	assert.True(t, ok)
	assert.Equal(t, 1800.0, secs)

	secs, ok = v.B.Seconds()
	assert.True(t, ok)
	assert.Equal(t, 600.0, secs)

	assert.False(t, v.C.Present())

	assert.True(t, v.D.Present())
	_, ok = v.D.Seconds()
	assert.False(t, ok)

	assert.True(t, v.E.Present())
	_, ok = v.E.Seconds()
	assert.False(t, ok)
}

func TestFilterYearAndTypes(t *testing.T) {
	acts := []Activity{
		{Type: "Run", StartLocal: time.Date(2023, 12, 31, 23, 30, 0, 0, time.UTC)},
		{Type: "Run", StartLocal: time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)},
		{Type: "Ride", StartLocal: time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)},
	}

	year := FilterYear(acts, 2024)
	require.Len(t, year, 2)
	for _, a := range year {
		assert.Equal(t, 2024, a.StartLocal.Year())
	}

	runs := FilterTypes(year, "run")
	require.Len(t, runs, 1)
	assert.Equal(t, "Run", runs[0].Type)

	assert.Len(t, FilterTypes(year), 2)
	assert.Equal(t, []int{2024, 2023}, Years(acts))
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "activities.json")
	body := `[
	  {"run_id": 1, "name": "Morning Run", "distance": 5000.0, "moving_time": "0:25:00",
	   "elapsed_time": "0:27:00", "type": "Run", "start_date": "2024-01-01 22:00:00",
	   "start_date_local": "2024-01-02 06:00:00", "location_country": "Taipei"},
	  {"run_id": 2, "distance": 10000.0, "moving_time": 3000, "type": "Run",
	   "start_date_local": "2024-01-03 07:00:00"},
	  {"run_id": 3, "distance": 1000.0, "start_date_local": "not a date"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	acts, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, acts, 2)

	first := acts[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "Taipei", first.Location)
	assert.Equal(t, time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC), first.StartLocal)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), first.Date())
	assert.Equal(t, 27*time.Minute, first.End.Sub(first.Start))
	secs, ok := first.Moving.Seconds()
	assert.True(t, ok)
	assert.Equal(t, 1500.0, secs)

	assert.True(t, acts[1].Start.IsZero())
	secs, _ = acts[1].Moving.Seconds()
	assert.Equal(t, 3000.0, secs)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-01 22:00:00", time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)},
		{"2024-01-01 22:00:00+00:00", time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)},
		{"2024-01-02 06:00:00+08:00", time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)},
		{"2024-01-01 22:00:00.250000", time.Date(2024, 1, 1, 22, 0, 0, 250000000, time.UTC)},
		{"2024-01-01T22:00:00Z", time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseTimestamp(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%s: got %v", tt.in, got)
	}

	_, err := parseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestLoadJSON_OffsetStartDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.json")
	body := `[{"run_id": 7, "distance": 5000, "elapsed_time": "0:30:00", "type": "Run",
	  "start_date": "2024-01-01 22:00:00+00:00", "start_date_local": "2024-01-02 06:00:00"}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	acts, err := LoadJSON(path)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.False(t, acts[0].Start.IsZero())
	assert.Equal(t, 30*time.Minute, acts[0].End.Sub(acts[0].Start))
}

func TestLoadJSON_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	_, err := LoadJSON(path)
	assert.Error(t, err)
}

func TestLoad_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.gpx")
	require.NoError(t, os.WriteFile(path, []byte(`<gpx/>`), 0644))

	_, err := Load(context.Background(), path)
	assert.Error(t, err)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadFIT_EmptyDir(t *testing.T) {
	acts, err := LoadFIT(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, acts)
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)

	_, err = db.Exec(`CREATE TABLE activities (
		run_id INTEGER PRIMARY KEY,
		name VARCHAR,
		distance FLOAT,
		moving_time DATETIME,
		elapsed_time DATETIME,
		type VARCHAR,
		start_date VARCHAR,
		start_date_local VARCHAR,
		location_country VARCHAR
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO activities VALUES
		(10, 'Easy', 8000, '1970-01-01 00:40:00.000000', '1970-01-01 00:42:00.000000', 'Run',
		 '2024-03-01 06:00:00', '2024-03-01 14:00:00', ''),
		(11, 'Long', 21100, NULL, NULL, 'Run', '2024-03-02 06:00:00', '2024-03-02 14:00:00', '')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	acts, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, acts, 2)

	secs, ok := acts[0].Moving.Seconds()
	assert.True(t, ok)
	assert.InDelta(t, 2400.0, secs, 1e-6)
	assert.Equal(t, 42*time.Minute, acts[0].End.Sub(acts[0].Start))

	assert.False(t, acts[1].Moving.Present())
	assert.Equal(t, 21100.0, acts[1].Length)
	assert.Equal(t, 2, acts[1].StartLocal.Day())
}
