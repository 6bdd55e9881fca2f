package activity

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tormoder/fit"
)

type fitSession struct {
	sport    fit.Sport
	start    time.Time
	meters   float64
	timer    time.Duration
	elapsed  time.Duration
	tzOffset time.Duration // zero leaves local_timestamp unset
}

func writeFIT(t *testing.T, path string, fs fitSession) {
	t.Helper()
	file, err := fit.NewFile(fit.FileTypeActivity, fit.NewHeader(fit.V20, false))
	require.NoError(t, err)
	af, err := file.Activity()
	require.NoError(t, err)

	end := fs.start.Add(fs.elapsed)

	s := fit.NewSessionMsg()
	s.Timestamp = end
	s.StartTime = fs.start
	s.Sport = fs.sport
	s.TotalDistance = uint32(fs.meters * 100)
	s.TotalTimerTime = uint32(fs.timer / time.Millisecond)
	s.TotalElapsedTime = uint32(fs.elapsed / time.Millisecond)
	af.Sessions = append(af.Sessions, s)

	msg := fit.NewActivityMsg()
	msg.Timestamp = end
	msg.NumSessions = 1
	if fs.tzOffset != 0 {
		msg.LocalTimestamp = end.In(time.FixedZone("", int(fs.tzOffset/time.Second)))
	}
	af.Activity = msg

	var buf bytes.Buffer
	require.NoError(t, fit.Encode(&buf, file, binary.LittleEndian))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestLoadFIT_LocalDateAcrossNewYear(t *testing.T) {
	dir := t.TempDir()
	writeFIT(t, filepath.Join(dir, "a.fit"), fitSession{
		sport:    fit.SportRunning,
		start:    time.Date(2023, 12, 31, 23, 30, 0, 0, time.UTC),
		meters:   10000,
		timer:    55 * time.Minute,
		elapsed:  time.Hour,
		tzOffset: 8 * time.Hour,
	})

	acts, err := LoadFIT(dir)
	require.NoError(t, err)
	require.Len(t, acts, 1)

	a := acts[0]
	assert.Equal(t, "Run", a.Type)
	assert.True(t, a.StartLocal.Equal(time.Date(2024, 1, 1, 7, 30, 0, 0, time.UTC)), "local start %v", a.StartLocal)
	assert.Equal(t, 2024, a.StartLocal.Year())
	assert.True(t, a.Start.Equal(time.Date(2023, 12, 31, 23, 30, 0, 0, time.UTC)))
	assert.InDelta(t, 10000.0, a.Length, 1e-9)
	secs, ok := a.Moving.Seconds()
	assert.True(t, ok)
	assert.InDelta(t, 3300.0, secs, 1e-9)
	assert.Equal(t, time.Hour, a.End.Sub(a.Start))

	assert.Len(t, FilterYear(acts, 2024), 1)
	assert.Empty(t, FilterYear(acts, 2023))
}

func TestLoadFIT_WithoutLocalTimestamp(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, 6, 1, 5, 0, 0, 0, time.UTC)
	writeFIT(t, filepath.Join(dir, "b.fit"), fitSession{
		sport:   fit.SportCycling,
		start:   start,
		meters:  40000,
		timer:   80 * time.Minute,
		elapsed: 90 * time.Minute,
	})

	acts, err := Load(context.Background(), filepath.Join(dir, "b.fit"))
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, "Ride", acts[0].Type)
	assert.True(t, acts[0].StartLocal.Equal(start), "local start %v", acts[0].StartLocal)
}

func TestLocalOffset(t *testing.T) {
	assert.Zero(t, localOffset(nil))
	assert.Zero(t, localOffset(fit.NewActivityMsg()))

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := fit.NewActivityMsg()
	msg.Timestamp = ts
	msg.LocalTimestamp = ts.In(time.FixedZone("FITLOCAL", -5*3600))
	assert.Equal(t, -5*time.Hour, localOffset(msg))

	// an unset local_timestamp decodes as the FIT epoch in a zone decades off
	msg.LocalTimestamp = ts.In(time.FixedZone("FITLOCAL", -int(ts.Sub(time.Date(1989, 12, 31, 0, 0, 0, 0, time.UTC))/time.Second)))
	assert.Zero(t, localOffset(msg))
}

func TestSportType(t *testing.T) {
	assert.Equal(t, "Run", sportType(fit.SportRunning))
	assert.Equal(t, "Walk", sportType(fit.SportWalking))
	assert.Equal(t, "Hike", sportType(fit.SportHiking))
	assert.Equal(t, fit.SportRowing.String(), sportType(fit.SportRowing))
}
