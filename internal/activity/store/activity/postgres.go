package activity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rollcall/internal/activity/models"
	"rollcall/pkg/email"
	"rollcall/pkg/platform/sentinel"
)

// PostgresStore persists the directory in PostgreSQL. The store is pure I/O;
// roster invariants are enforced inside row-locked transactions so concurrent
// mutations for the same activity serialize on the activity row.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed directory store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, a *models.Activity) error {
	query := `
		INSERT INTO activities (name, description, schedule, max_participants, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (lower(name)) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query, a.Name, a.Description, a.Schedule, a.MaxParticipants, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create activity rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Activity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, description, schedule, max_participants, created_at
		FROM activities
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]*models.Activity)
	var out []*models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.Name, &a.Description, &a.Schedule, &a.MaxParticipants, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Participants = []string{}
		byName[a.Name] = &a
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	prows, err := s.db.QueryContext(ctx, `
		SELECT activity_name, email
		FROM activity_participants
		ORDER BY activity_name, signed_up_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var name, addr string
		if err := prows.Scan(&name, &addr); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		if a, ok := byName[name]; ok {
			a.Participants = append(a.Participants, addr)
		}
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (*models.Activity, error) {
	var a models.Activity
	err := s.db.QueryRowContext(ctx, `
		SELECT name, description, schedule, max_participants, created_at
		FROM activities
		WHERE lower(name) = lower($1)
	`, name).Scan(&a.Name, &a.Description, &a.Schedule, &a.MaxParticipants, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find activity: %w", err)
	}

	a.Participants = []string{}
	rows, err := s.db.QueryContext(ctx, `
		SELECT email
		FROM activity_participants
		WHERE activity_name = $1
		ORDER BY signed_up_at
	`, a.Name)
	if err != nil {
		return nil, fmt.Errorf("find activity participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var addr string
		if err := rows.Scan(&addr); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		a.Participants = append(a.Participants, addr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find activity participants: %w", err)
	}
	return &a, nil
}

// AddParticipant atomically adds an email to a roster. The activity row is
// locked for the duration of the checks so the capacity and uniqueness
// invariants hold under concurrent signups.
func (s *PostgresStore) AddParticipant(ctx context.Context, name, addr string) error {
	addr = email.Normalize(addr)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add participant: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var canonicalName string
	var max int
	err = tx.QueryRowContext(ctx,
		`SELECT name, max_participants FROM activities WHERE lower(name) = lower($1) FOR UPDATE`,
		name,
	).Scan(&canonicalName, &max)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("lock activity: %w", err)
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM activity_participants WHERE activity_name = $1 AND email = $2)`,
		canonicalName, addr,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if exists {
		return sentinel.ErrAlreadyUsed
	}

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM activity_participants WHERE activity_name = $1`,
		canonicalName,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("count roster: %w", err)
	}
	if count >= max {
		return sentinel.ErrFull
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO activity_participants (activity_name, email, signed_up_at) VALUES ($1, $2, NOW())`,
		canonicalName, addr,
	)
	if err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit add participant: %w", err)
	}
	return nil
}

// RemoveParticipant atomically removes an email from a roster. Returns
// ErrNotFound when either the activity or the membership does not exist.
func (s *PostgresStore) RemoveParticipant(ctx context.Context, name, addr string) error {
	addr = email.Normalize(addr)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM activity_participants
		 WHERE lower(activity_name) = lower($1) AND email = $2`,
		name, addr,
	)
	if err != nil {
		return fmt.Errorf("remove participant: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove participant rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
