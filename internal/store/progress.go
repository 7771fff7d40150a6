package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salita/internal/progress"
)

// GameRecord is one row of game history.
type GameRecord struct {
	ID       int64     `json:"id"`
	UserID   string    `json:"user_id"`
	Section  int       `json:"section"`
	Level    int       `json:"level"`
	Game     string    `json:"game"`
	Correct  int       `json:"correct"`
	Total    int       `json:"total"`
	XP       int       `json:"xp"`
	QuestXP  int       `json:"quest_xp"`
	PlayedAt time.Time `json:"played_at"`
}

// LeaderboardEntry ranks a learner by total XP.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	TotalXP     int    `json:"total_xp"`
	Streak      int    `json:"streak"`
	LastActive  string `json:"last_active,omitempty"`
}

// Stats summarizes database contents.
type Stats struct {
	Users int `json:"users"`
	Games int `json:"games"`
}

// LoadProgress returns the stored progress for userID, or nil when the
// learner has not played yet.
func (s *Store) LoadProgress(ctx context.Context, userID string) (*progress.Progress, error) {
	var raw string
	err := s.db.QueryRowContext(ensureContext(ctx), `SELECT data_json FROM progress WHERE user_id = ?`, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	var p progress.Progress
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decode progress for %s: %w", userID, err)
	}
	return &p, nil
}

// SaveProgress upserts the progress snapshot.
func (s *Store) SaveProgress(ctx context.Context, p *progress.Progress) error {
	if p == nil {
		return errors.New("progress is nil")
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return saveProgressTx(ctx, tx, p)
	})
}

// RecordResult stores the updated progress and appends the game to history
// in one transaction.
func (s *Store) RecordResult(ctx context.Context, p *progress.Progress, record GameRecord) (GameRecord, error) {
	if p == nil {
		return record, errors.New("progress is nil")
	}
	record.UserID = p.UserID
	if record.PlayedAt.IsZero() {
		record.PlayedAt = time.Now()
	}
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := saveProgressTx(ctx, tx, p); err != nil {
			return err
		}
		res, err := tx.ExecContext(ensureContext(ctx),
			`INSERT INTO game_results (user_id, section, level, game, correct, total, xp, quest_xp, played_at)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.UserID, record.Section, record.Level, record.Game,
			record.Correct, record.Total, record.XP, record.QuestXP, formatTime(record.PlayedAt),
		)
		if err != nil {
			return fmt.Errorf("insert game result: %w", err)
		}
		record.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		return nil
	})
	return record, err
}

func saveProgressTx(ctx context.Context, tx *sql.Tx, p *progress.Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err = tx.ExecContext(ensureContext(ctx),
		`INSERT INTO progress (user_id, data_json, total_xp, streak, last_active, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(user_id) DO UPDATE SET
             data_json = excluded.data_json,
             total_xp = excluded.total_xp,
             streak = excluded.streak,
             last_active = excluded.last_active,
             updated_at = excluded.updated_at`,
		p.UserID, string(data), p.TotalXP, p.Streak.Current, nullableString(p.Streak.LastActive), formatTime(updated),
	)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// History returns the most recent games for userID, newest first.
func (s *Store) History(ctx context.Context, userID string, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, user_id, section, level, game, correct, total, xp, quest_xp, played_at
         FROM game_results WHERE user_id = ? ORDER BY played_at DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("game history: %w", err)
	}
	defer rows.Close()

	var records []GameRecord
	for rows.Next() {
		var (
			rec       GameRecord
			playedRaw string
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Section, &rec.Level, &rec.Game,
			&rec.Correct, &rec.Total, &rec.XP, &rec.QuestXP, &playedRaw); err != nil {
			return nil, err
		}
		if played, err := parseTimeString(playedRaw); err == nil {
			rec.PlayedAt = played
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Leaderboard ranks learners that have played by total XP. Ties keep a
// stable order by user id.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT u.id, u.display_name, p.total_xp, p.streak, p.last_active
         FROM progress p JOIN users u ON u.id = p.user_id
         ORDER BY p.total_xp DESC, u.id ASC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var (
			entry      LeaderboardEntry
			lastActive sql.NullString
		)
		if err := rows.Scan(&entry.UserID, &entry.DisplayName, &entry.TotalXP, &entry.Streak, &lastActive); err != nil {
			return nil, err
		}
		entry.LastActive = lastActive.String
		entry.Rank = len(entries) + 1
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Stats counts learners and recorded games.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	ctx = ensureContext(ctx)
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users`).Scan(&stats.Users); err != nil {
		return stats, fmt.Errorf("count users: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM game_results`).Scan(&stats.Games); err != nil {
		return stats, fmt.Errorf("count games: %w", err)
	}
	return stats, nil
}
