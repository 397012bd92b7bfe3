// internal/daily/store.go
//
// SQLite persistence for daily results and the leaderboard.

package daily

import (
	"context"
	"database/sql"
)

// Result is one player's finished daily puzzle.
type Result struct {
	PlayerID   string `json:"playerId"`
	Date       string `json:"date"`
	Selections int    `json:"selections"`
	ElapsedMs  int    `json:"elapsedMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) AlreadyPlayed(ctx context.Context, playerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE player_id=? AND date=?`,
		playerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records a result; a second result for the same day is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(player_id, date, selections, elapsed_ms)
		 VALUES(?,?,?,?)`, r.PlayerID, r.Date, r.Selections, r.ElapsedMs,
	)
	return err
}

// Claim moves an anonymous player's results onto a user account. When both
// played the same day, the user's own result is kept.
func (s *Store) Claim(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" || anonID == userID {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx,
		`UPDATE OR IGNORE daily_results SET player_id=? WHERE player_id=?`, userID, anonID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM daily_results WHERE player_id=?`, anonID); err != nil {
		return err
	}
	return tx.Commit()
}

type LBRow struct {
	PlayerID   string `json:"playerId"`
	Username   string `json:"username,omitempty"`
	Selections int    `json:"selections"`
	ElapsedMs  int    `json:"elapsedMs"`
}

// Leaderboard returns the fastest results for date; fewer selections break ties.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.player_id, COALESCE(u.username, ''), r.selections, r.elapsed_ms
		 FROM daily_results r LEFT JOIN users u ON u.id = r.player_id
		 WHERE r.date=?
		 ORDER BY r.elapsed_ms ASC, r.selections ASC, r.created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerID, &r.Username, &r.Selections, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
