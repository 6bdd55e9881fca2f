package activity

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const selectActivities = `SELECT run_id, name, distance, moving_time, elapsed_time, type,
	start_date, start_date_local, location_country
FROM activities
ORDER BY start_date_local`

// LoadSQLite reads the activities table of a running_page data.db.
func LoadSQLite(ctx context.Context, path string) ([]Activity, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, selectActivities)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var acts []Activity
	for rows.Next() {
		var (
			id                    int64
			name, typ, location   sql.NullString
			startDate, startLocal sql.NullString
			distance              sql.NullFloat64
			moving, elapsed       any
		)
		if err := rows.Scan(&id, &name, &distance, &moving, &elapsed, &typ, &startDate, &startLocal, &location); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}

		local, err := parseTimestamp(startLocal.String)
		if err != nil {
			log.Printf("skipping activity %d: start_date_local: %v", id, err)
			continue
		}
		a := Activity{
			ID:         id,
			Name:       name.String,
			Type:       typ.String,
			Location:   location.String,
			StartLocal: local,
			Length:     distance.Float64,
			Moving:     movingFromColumn(moving),
		}
		if start, err := parseTimestamp(startDate.String); err == nil {
			a.Start = start
			if secs, ok := movingFromColumn(elapsed).Seconds(); ok {
				a.End = start.Add(time.Duration(secs * float64(time.Second)))
			}
		}
		acts = append(acts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activities: %w", err)
	}
	return acts, nil
}

// movingFromColumn converts an interval column. The driver hands DATETIME
// columns back as time.Time when they parse, otherwise as text.
func movingFromColumn(v any) MovingTime {
	switch v := v.(type) {
	case nil:
		return MovingTime{}
	case time.Time:
		return MovingDuration(v.Sub(epoch))
	case string:
		return ParseMovingTime(v)
	case []byte:
		return ParseMovingTime(string(v))
	case float64:
		return MovingSeconds(v)
	case int64:
		return MovingSeconds(float64(v))
	}
	return MalformedMovingTime()
}
