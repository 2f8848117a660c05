package shopping

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository handles persistence of shopping lists, one row per generated
// week.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save upserts the shopping list for a (user, week start) pair and returns
// its row ID. Regenerating a week replaces its list.
func (r *Repository) Save(ctx context.Context, list *ShoppingList) (int64, error) {
	itemsJSON, err := json.Marshal(list.Items)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal shopping list items: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`DELETE FROM shopping_lists WHERE user_id = ? AND week_start = ?`,
		list.UserID, list.WeekStart.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to clear previous shopping list: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO shopping_lists (user_id, batch_id, week_start, items, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		list.UserID, list.BatchID, list.WeekStart.UTC(), string(itemsJSON), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert shopping list: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read shopping list ID: %w", err)
	}
	return id, nil
}

// GetByUserAndWeek retrieves a shopping list by user ID and week start date.
// Returns (nil, nil) when none exists.
func (r *Repository) GetByUserAndWeek(ctx context.Context, userID string, weekStart time.Time) (*ShoppingList, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, batch_id, week_start, items, created_at
		 FROM shopping_lists WHERE user_id = ? AND week_start = ?`,
		userID, weekStart.UTC())
	return scanList(row)
}

// ListByBatch retrieves every shopping list belonging to a generation batch,
// ordered by week start.
func (r *Repository) ListByBatch(ctx context.Context, batchID string) ([]ShoppingList, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, batch_id, week_start, items, created_at
		 FROM shopping_lists WHERE batch_id = ? ORDER BY week_start`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping lists for batch: %w", err)
	}
	defer rows.Close()

	var lists []ShoppingList
	for rows.Next() {
		list, err := scanListRow(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, *list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shopping list rows: %w", err)
	}
	return lists, nil
}

// DeleteByBatch removes every shopping list of a generation batch.
func (r *Repository) DeleteByBatch(ctx context.Context, batchID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM shopping_lists WHERE batch_id = ?`, batchID); err != nil {
		return fmt.Errorf("failed to delete shopping lists for batch: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanList(row *sql.Row) (*ShoppingList, error) {
	list, err := scanListRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func scanListRow(row rowScanner) (*ShoppingList, error) {
	var list ShoppingList
	var itemsJSON string
	if err := row.Scan(&list.ID, &list.UserID, &list.BatchID, &list.WeekStart, &itemsJSON, &list.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan shopping list row: %w", err)
	}
	if err := json.Unmarshal([]byte(itemsJSON), &list.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list items: %w", err)
	}
	return &list, nil
}
