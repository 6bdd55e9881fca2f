package activity

import (
	"bufio"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/tormoder/fit"
)

// LoadFIT reads every .fit file in dir, one record per session. Files that
// fail to decode are logged and skipped.
func LoadFIT(dir string) ([]Activity, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.fit"))
	if err != nil {
		return nil, fmt.Errorf("failed to list FIT files: %w", err)
	}
	sort.Strings(matches)

	var acts []Activity
	for _, path := range matches {
		fileActs, err := loadFITFile(path)
		if err != nil {
			log.Printf("skipping %s: %v", filepath.Base(path), err)
			continue
		}
		acts = append(acts, fileActs...)
	}
	return acts, nil
}

func loadFITFile(path string) ([]Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoded, err := fit.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	af, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("not an activity file: %w", err)
	}

	offset := localOffset(af.Activity)

	acts := make([]Activity, 0, len(af.Sessions))
	for _, s := range af.Sessions {
		if s == nil || fit.IsBaseTime(s.StartTime) {
			continue
		}
		start := s.StartTime.UTC()
		a := Activity{
			Name:       filepath.Base(path),
			Type:       sportType(s.Sport),
			StartLocal: start.Add(offset),
			Start:      start,
		}
		if d := s.GetTotalDistanceScaled(); !math.IsNaN(d) {
			a.Length = d
		}
		if secs := s.GetTotalTimerTimeScaled(); !math.IsNaN(secs) {
			a.Moving = MovingSeconds(secs)
		}
		if secs := s.GetTotalElapsedTimeScaled(); !math.IsNaN(secs) {
			a.End = start.Add(time.Duration(secs * float64(time.Second)))
		}
		acts = append(acts, a)
	}
	return acts, nil
}

// maxUTCOffset bounds real zone offsets. The decoder reports a missing
// local_timestamp as the FIT epoch, which shows up as an offset of decades.
const maxUTCOffset = 14 * time.Hour

// localOffset is the device's UTC offset when the file was recorded. The
// decoder keeps local_timestamp at the same instant as timestamp and carries
// the offset in its zone, so the zone is all there is to read.
func localOffset(a *fit.ActivityMsg) time.Duration {
	if a == nil || fit.IsBaseTime(a.Timestamp) {
		return 0
	}
	_, secs := a.LocalTimestamp.Zone()
	offset := time.Duration(secs) * time.Second
	if offset < -maxUTCOffset || offset > maxUTCOffset {
		return 0
	}
	return offset
}

// sportType maps FIT sports onto the Strava-style type names running_page uses.
func sportType(s fit.Sport) string {
	switch s {
	case fit.SportRunning:
		return "Run"
	case fit.SportCycling:
		return "Ride"
	case fit.SportWalking:
		return "Walk"
	case fit.SportHiking:
		return "Hike"
	case fit.SportSwimming:
		return "Swim"
	}
	return s.String()
}
