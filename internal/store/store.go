// Package store owns durable and short-lived gateway state: cached user
// identity with the validated flag, the recent-passenger autocomplete
// history, and the payment handoff / reply cache.
package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"buschat/internal/domain"
	"buschat/internal/domain/models"
)

// Store wraps the MySQL handle for the gateway's persistent state.
type Store struct {
	DB *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{DB: db}
}

// EnsureSchema creates the gateway's tables when they do not exist yet.
// The unique key on recent_passengers is what lets INSERT IGNORE dedup
// repeat passengers per user.
func (s *Store) EnsureSchema(ctx context.Context) error {
	ddls := []string{`
CREATE TABLE IF NOT EXISTS gateway_users (
	session_key VARCHAR(64) NOT NULL PRIMARY KEY,
	user_json TEXT NOT NULL,
	validated TINYINT(1) NOT NULL DEFAULT 0,
	credentials TEXT NOT NULL,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`, `
CREATE TABLE IF NOT EXISTS recent_passengers (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	user_id BIGINT NOT NULL,
	name VARCHAR(255) NOT NULL,
	age INT NOT NULL,
	gender VARCHAR(20) NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_user_passenger (user_id, name, age, gender),
	KEY idx_user (user_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`}
	for _, ddl := range ddls {
		if _, err := s.DB.ExecContext(ctx, ddl); err != nil {
			return domain.InternalError{Msg: "ensure schema", Err: err}
		}
	}
	return nil
}

// UserRecord is one cached identity row. Credentials holds serialized
// upstream cookies so a restarted gateway can resume sessions; Validated is
// only trusted after a live profile round-trip per process start.
type UserRecord struct {
	Key         string
	User        models.User
	Validated   bool
	Credentials string
}

// SaveUser upserts a cached identity keyed by gateway session key.
func (s *Store) SaveUser(ctx context.Context, rec UserRecord) error {
	userJSON, err := json.Marshal(rec.User)
	if err != nil {
		return domain.InternalError{Msg: "encode user", Err: err}
	}
	_, err = s.DB.ExecContext(ctx, `
        INSERT INTO gateway_users (session_key, user_json, validated, credentials, updated_at)
        VALUES (?, ?, ?, ?, NOW())
        ON DUPLICATE KEY UPDATE user_json = VALUES(user_json),
            validated = VALUES(validated), credentials = VALUES(credentials),
            updated_at = NOW()
    `, rec.Key, string(userJSON), rec.Validated, rec.Credentials)
	if err != nil {
		return domain.InternalError{Msg: "save user", Err: err}
	}
	return nil
}

// LoadUser fetches one cached identity.
func (s *Store) LoadUser(ctx context.Context, key string) (*UserRecord, error) {
	var (
		rec      UserRecord
		userJSON string
	)
	err := s.DB.QueryRowContext(ctx, `
        SELECT session_key, user_json, validated, credentials
        FROM gateway_users
        WHERE session_key = ?
    `, key).Scan(&rec.Key, &userJSON, &rec.Validated, &rec.Credentials)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return nil, domain.InternalError{Msg: "load user", Err: err}
	}
	if err := json.Unmarshal([]byte(userJSON), &rec.User); err != nil {
		return nil, domain.InternalError{Msg: "decode user", Err: err}
	}
	return &rec, nil
}

// DeleteUser drops a cached identity. Used on logout and session expiry.
func (s *Store) DeleteUser(ctx context.Context, key string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM gateway_users WHERE session_key = ?`, key)
	if err != nil {
		return domain.InternalError{Msg: "delete user", Err: err}
	}
	return nil
}

// AddRecentPassengers appends to the autocomplete history after a successful
// booking. Duplicates by (user, name, age, gender) are ignored; rows are
// never auto-deleted.
func (s *Store) AddRecentPassengers(ctx context.Context, userID int64, passengers []models.Passenger) error {
	for _, p := range passengers {
		_, err := s.DB.ExecContext(ctx, `
            INSERT IGNORE INTO recent_passengers (user_id, name, age, gender, created_at)
            VALUES (?, ?, ?, ?, NOW())
        `, userID, p.Name, p.Age, p.Gender)
		if err != nil {
			return domain.InternalError{Msg: "save recent passenger", Err: err}
		}
	}
	return nil
}

// RecentPassengers lists the newest history entries for booking forms.
func (s *Store) RecentPassengers(ctx context.Context, userID int64, limit int) ([]models.Passenger, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.DB.QueryContext(ctx, `
        SELECT name, age, gender
        FROM recent_passengers
        WHERE user_id = ?
        ORDER BY created_at DESC, id DESC
        LIMIT ?
    `, userID, limit)
	if err != nil {
		return nil, domain.InternalError{Msg: "load recent passengers", Err: err}
	}
	defer rows.Close()

	var out []models.Passenger
	for rows.Next() {
		var p models.Passenger
		if err := rows.Scan(&p.Name, &p.Age, &p.Gender); err != nil {
			return nil, domain.InternalError{Msg: "scan recent passenger", Err: err}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Msg: "iterate recent passengers", Err: err}
	}
	return out, nil
}
