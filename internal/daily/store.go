// internal/daily/store.go
//
// SQLite persistence for daily challenge results. One row per user per
// date (enforced by UNIQUE(user_id, date)); the leaderboard ranks by
// fewest mistakes, then fastest solve.

package daily

import (
	"context"
	"database/sql"
)

// Result is a single user's finished daily attempt.
type Result struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	WordIndex int    `json:"wordIndex"`
	Mistakes  int    `json:"mistakes"`
	ElapsedMs int    `json:"elapsedMs"`
}

// LBRow is one leaderboard entry for a date.
type LBRow struct {
	UserID    string `json:"userId"`
	Mistakes  int    `json:"mistakes"`
	ElapsedMs int    `json:"elapsedMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether the user has a recorded result for the date.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?`,
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records a finished attempt. A duplicate (user, date) is
// silently ignored so retries are harmless.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, word_index, mistakes, elapsed_ms)
		 VALUES(?,?,?,?,?)`, r.UserID, r.Date, r.WordIndex, r.Mistakes, r.ElapsedMs,
	)
	return err
}

// Leaderboard returns the top results for a date, best first.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, mistakes, elapsed_ms
		 FROM daily_results
		 WHERE date=?
		 ORDER BY mistakes ASC, elapsed_ms ASC, created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Mistakes, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
