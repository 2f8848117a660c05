package planner

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// StoredBatch is a persisted generation batch: raw JSON of whatever the
// application assembled around a MultiWeekResult (plans, rotation snapshot,
// shopping lists, preferences).
type StoredBatch struct {
	BatchID   string
	UserID    string
	Data      []byte
	CreatedAt time.Time
}

// PlanRepository is a database-backed repository for generation batches.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(d *sql.DB) *PlanRepository {
	return &PlanRepository{db: d}
}

// Save inserts or replaces a batch. Replacing the same batch ID is how a
// single-week regeneration lands.
func (r *PlanRepository) Save(ctx context.Context, batchID, userID string, data []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO meal_plan_batches (id, user_id, data, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		batchID, userID, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save meal plan batch: %w", err)
	}
	return nil
}

// Get retrieves a batch by ID. Returns (nil, nil) when not found.
func (r *PlanRepository) Get(ctx context.Context, batchID string) (*StoredBatch, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, data, created_at FROM meal_plan_batches WHERE id = ?`, batchID)
	return scanBatch(row)
}

// GetLatestByUser retrieves the most recently created batch for a user.
// Returns (nil, nil) when the user has none.
func (r *PlanRepository) GetLatestByUser(ctx context.Context, userID string) (*StoredBatch, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, data, created_at FROM meal_plan_batches
		 WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`, userID)
	return scanBatch(row)
}

// ListRecentByUserID retrieves the N most recent batches for a given user.
func (r *PlanRepository) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]StoredBatch, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, data, created_at FROM meal_plan_batches
		 WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent batches for user %s: %w", userID, err)
	}
	defer rows.Close()

	var batches []StoredBatch
	for rows.Next() {
		var b StoredBatch
		if err := rows.Scan(&b.BatchID, &b.UserID, &b.Data, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan batch row: %w", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate batch rows: %w", err)
	}
	return batches, nil
}

func scanBatch(row *sql.Row) (*StoredBatch, error) {
	var b StoredBatch
	if err := row.Scan(&b.BatchID, &b.UserID, &b.Data, &b.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meal plan batch: %w", err)
	}
	return &b, nil
}
