package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// record mirrors one entry of running_page's activities.json.
type record struct {
	RunID           int64      `json:"run_id"`
	Name            string     `json:"name"`
	Distance        float64    `json:"distance"`
	MovingTime      MovingTime `json:"moving_time"`
	ElapsedTime     MovingTime `json:"elapsed_time"`
	Type            string     `json:"type"`
	StartDate       string     `json:"start_date"`
	StartDateLocal  string     `json:"start_date_local"`
	LocationCountry string     `json:"location_country"`
}

func (r record) toActivity() (Activity, error) {
	local, err := parseTimestamp(r.StartDateLocal)
	if err != nil {
		return Activity{}, fmt.Errorf("start_date_local: %w", err)
	}
	a := Activity{
		ID:         r.RunID,
		Name:       r.Name,
		Type:       r.Type,
		Location:   r.LocationCountry,
		StartLocal: local,
		Length:     r.Distance,
		Moving:     r.MovingTime,
	}
	if r.StartDate != "" {
		if start, err := parseTimestamp(r.StartDate); err == nil {
			a.Start = start
			if secs, ok := r.ElapsedTime.Seconds(); ok {
				a.End = start.Add(time.Duration(secs * float64(time.Second)))
			}
		}
	}
	return a, nil
}

// LoadJSON reads a running_page activities.json file. Records with an
// unreadable start date are logged and skipped.
func LoadJSON(path string) ([]Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read activities file: %w", err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse activities: %w", err)
	}

	acts := make([]Activity, 0, len(records))
	for _, r := range records {
		a, err := r.toActivity()
		if err != nil {
			log.Printf("skipping activity %d: %v", r.RunID, err)
			continue
		}
		acts = append(acts, a)
	}
	return acts, nil
}

// Load picks a reader from the shape of path: a .json file, a SQLite
// database, or a directory of FIT files.
func Load(ctx context.Context, path string) ([]Activity, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("activity source: %w", err)
	}
	if info.IsDir() {
		return LoadFIT(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(ctx, path)
	case ".fit":
		return loadFITFile(path)
	}
	return nil, fmt.Errorf("unsupported activity source %q", path)
}
