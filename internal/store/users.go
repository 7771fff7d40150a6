package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"salita/internal/services"
)

// User is a registered learner.
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Timezone    string    `json:"timezone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Location resolves the learner's timezone, or fallback when unset or unknown.
func (u *User) Location(fallback *time.Location) *time.Location {
	if u != nil && u.Timezone != "" {
		if loc, err := time.LoadLocation(u.Timezone); err == nil {
			return loc
		}
	}
	if fallback == nil {
		return time.UTC
	}
	return fallback
}

const userColumns = "id, display_name, timezone, created_at, updated_at"

func scanUser(scanner interface{ Scan(dest ...any) error }) (*User, error) {
	var (
		user       User
		timezone   sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&user.ID, &user.DisplayName, &timezone, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	user.Timezone = timezone.String
	if created, err := parseTimeString(createdRaw); err == nil {
		user.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		user.UpdatedAt = updated
	}
	return &user, nil
}

func validateTimezone(tz string) error {
	if tz == "" {
		return nil
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return services.Wrap(services.ErrValidation, "store", "timezone", fmt.Sprintf("unknown timezone %q", tz), nil)
	}
	return nil
}

// CreateUser registers a learner with a generated id.
func (s *Store) CreateUser(ctx context.Context, displayName, timezone string) (*User, error) {
	displayName = strings.TrimSpace(displayName)
	timezone = strings.TrimSpace(timezone)
	if displayName == "" {
		return nil, services.Wrap(services.ErrValidation, "store", "create user", "display name required", nil)
	}
	if err := validateTimezone(timezone); err != nil {
		return nil, err
	}

	now := formatTime(time.Now())
	id := uuid.NewString()
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO users (id, display_name, timezone, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, displayName, nullableString(timezone), now, now,
	); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.GetUser(ctx, id)
}

// GetUser fetches a learner by id. It returns nil when the learner does not exist.
func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns every learner ordered by creation time.
func (s *Store) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// SetTimezone changes the zone a learner's days roll over in.
func (s *Store) SetTimezone(ctx context.Context, id, timezone string) error {
	timezone = strings.TrimSpace(timezone)
	if err := validateTimezone(timezone); err != nil {
		return err
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE users SET timezone = ?, updated_at = ? WHERE id = ?`,
		nullableString(timezone), formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("update timezone: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "set timezone", fmt.Sprintf("user %s", id), nil)
	}
	return nil
}
