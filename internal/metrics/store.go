package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// GenerationMetric records metadata for a single generation run.
type GenerationMetric struct {
	UserID          string
	WeeksRequested  int
	WeeksGenerated  int
	AppetizerCount  int
	MainCourseCount int
	DessertCount    int
	DurationMS      int64
	Outcome         string
	Timestamp       time.Time
}

// Outcome values recorded with each run.
const (
	OutcomeSuccess             = "SUCCESS"
	OutcomeInsufficientRecipes = "INSUFFICIENT_RECIPES"
	OutcomeNoCompatibleRecipes = "NO_COMPATIBLE_RECIPES"
	OutcomeInvalidPreferences  = "INVALID_PREFERENCES"
	OutcomeInternalError       = "INTERNAL_ERROR"
)

// Store handles persistence of generation metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(m GenerationMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO generation_metrics
		 (user_id, weeks_requested, weeks_generated, appetizer_count, main_course_count, dessert_count, duration_ms, outcome, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.UserID, m.WeeksRequested, m.WeeksGenerated, m.AppetizerCount, m.MainCourseCount, m.DessertCount, m.DurationMS, m.Outcome, ts)
	if err != nil {
		return fmt.Errorf("failed to insert generation metric: %w", err)
	}
	return nil
}

// DailyGenerations represents run totals for a single day.
type DailyGenerations struct {
	Date      string
	Runs      int
	Succeeded int
}

// GetDailyGenerations retrieves run counts for the last N days.
func (s *Store) GetDailyGenerations(days int) ([]DailyGenerations, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT date(timestamp), COUNT(*), SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END)
		 FROM generation_metrics WHERE timestamp >= ?
		 GROUP BY date(timestamp) ORDER BY date(timestamp) DESC`,
		OutcomeSuccess, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily generations: %w", err)
	}
	defer rows.Close()

	var daily []DailyGenerations
	for rows.Next() {
		var d DailyGenerations
		if err := rows.Scan(&d.Date, &d.Runs, &d.Succeeded); err != nil {
			return nil, fmt.Errorf("failed to scan daily generation row: %w", err)
		}
		daily = append(daily, d)
	}
	return daily, rows.Err()
}

// Cleanup removes metrics older than the given number of days and returns
// the number of rows removed.
func (s *Store) Cleanup(days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	res, err := s.db.ExecContext(context.Background(),
		`DELETE FROM generation_metrics WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up metrics: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
}
