package telegram

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SessionRegenConfirm marks a session waiting for the user to confirm a
// week regeneration.
const SessionRegenConfirm = "regen_confirm"

// Session represents an active bot conversation state (e.g. awaiting a
// confirmation reply).
type Session struct {
	ID          int64
	UserID      string
	SessionType string
	State       string
	ContextData string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// SessionContextData holds structured data stored in the context_data JSON
// field.
type SessionContextData struct {
	BatchID   string `json:"batch_id"`
	WeekIndex int    `json:"week_index"`
}

// GetContextData unmarshals the context_data JSON field.
func (s *Session) GetContextData() (SessionContextData, error) {
	var data SessionContextData
	err := json.Unmarshal([]byte(s.ContextData), &data)
	return data, err
}

// SessionRepository provides access to session persistence operations.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository instance.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session and returns its ID. Any previous session for
// the user is replaced so stale confirmations cannot fire later.
func (sr *SessionRepository) Create(ctx context.Context, userID, sessionType, state string, contextData SessionContextData, ttlSeconds int) (int64, error) {
	jsonData, err := json.Marshal(contextData)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal session context: %w", err)
	}

	if _, err := sr.db.ExecContext(ctx, `DELETE FROM bot_sessions WHERE user_id = ?`, userID); err != nil {
		return 0, fmt.Errorf("failed to clear previous sessions: %w", err)
	}

	now := time.Now().UTC()
	res, err := sr.db.ExecContext(ctx,
		`INSERT INTO bot_sessions (user_id, session_type, state, context_data, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, sessionType, state, string(jsonData), now.Add(time.Duration(ttlSeconds)*time.Second), now)
	if err != nil {
		return 0, fmt.Errorf("failed to create session: %w", err)
	}

	return res.LastInsertId()
}

// GetActive retrieves the most recent non-expired session for a user.
// Returns (nil, nil) when there is none.
func (sr *SessionRepository) GetActive(ctx context.Context, userID string, now time.Time) (*Session, error) {
	row := sr.db.QueryRowContext(ctx,
		`SELECT id, user_id, session_type, state, context_data, expires_at, created_at
		 FROM bot_sessions WHERE user_id = ? AND expires_at > ?
		 ORDER BY created_at DESC LIMIT 1`,
		userID, now.UTC())

	var s Session
	if err := row.Scan(&s.ID, &s.UserID, &s.SessionType, &s.State, &s.ContextData, &s.ExpiresAt, &s.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	return &s, nil
}

// Delete removes a session.
func (sr *SessionRepository) Delete(ctx context.Context, sessionID int64) error {
	if _, err := sr.db.ExecContext(ctx, `DELETE FROM bot_sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CleanupExpired removes all expired sessions.
func (sr *SessionRepository) CleanupExpired(ctx context.Context) error {
	if _, err := sr.db.ExecContext(ctx, `DELETE FROM bot_sessions WHERE expires_at <= ?`, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to clean up sessions: %w", err)
	}
	return nil
}
