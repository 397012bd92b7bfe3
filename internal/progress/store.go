// internal/progress/store.go

// Package progress persists which games each player has completed and
// derives their treehouse from it.
package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robalobadob/treehouse/internal/catalog"
)

var ErrUnknownGame = errors.New("unknown game")

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Completed lists a player's completed games in completion order.
func (s *Store) Completed(ctx context.Context, playerID string) ([]catalog.GameType, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game FROM completed_games WHERE player_id=? ORDER BY completed_at ASC, rowid ASC`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []catalog.GameType{}
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		out = append(out, catalog.GameType(g))
	}
	return out, rows.Err()
}

// Complete records a completion. first is false when the player had already
// completed that game, in which case nothing new unlocks.
func (s *Store) Complete(ctx context.Context, playerID string, game catalog.GameType) (first bool, err error) {
	if _, ok := catalog.Lookup(game); !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownGame, game)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO completed_games(player_id, game) VALUES(?,?)`, playerID, string(game))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Treehouse builds the player's reward screen.
func (s *Store) Treehouse(ctx context.Context, playerID string) (catalog.Treehouse, error) {
	done, err := s.Completed(ctx, playerID)
	if err != nil {
		return catalog.Treehouse{}, err
	}
	return catalog.BuildTreehouse(done), nil
}

// Claim moves an anonymous player's completions onto a user account.
// Games the user already completed keep the user's original record.
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
		`UPDATE OR IGNORE completed_games SET player_id=? WHERE player_id=?`, userID, anonID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM completed_games WHERE player_id=?`, anonID); err != nil {
		return err
	}
	return tx.Commit()
}
