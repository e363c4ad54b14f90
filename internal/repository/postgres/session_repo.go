package postgres

import (
	"context"
	"database/sql"
	"errors"

	"schoolcal/internal/domain"
)

type sessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &sessionRepository{
		DB: db,
	}
}

const sessionColumns = `id, event_id, title, description, presenter, location, start_time, end_time, session_type, color_code, display_order, is_active, attendance_required, created_at, updated_at`

func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (event_id, title, description, presenter, location, start_time, end_time, session_type, color_code, display_order, is_active, attendance_required, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		s.EventID, s.Title, nullString(s.Description), nullString(s.Presenter), nullString(s.Location),
		s.StartTime.String(), s.EndTime.String(), s.Type, s.ColorCode,
		s.DisplayOrder, s.IsActive, s.AttendanceRequired,
		s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE id = $1
	`
	s, err := scanSession(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE event_id = $1
		ORDER BY display_order, start_time
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *sessionRepository) Update(ctx context.Context, s *domain.Session) error {
	query := `
		UPDATE sessions
		SET title = $1, description = $2, presenter = $3, location = $4,
		    start_time = $5, end_time = $6, session_type = $7, color_code = $8,
		    display_order = $9, is_active = $10, attendance_required = $11, updated_at = $12
		WHERE id = $13
	`
	result, err := r.DB.ExecContext(ctx, query,
		s.Title, nullString(s.Description), nullString(s.Presenter), nullString(s.Location),
		s.StartTime.String(), s.EndTime.String(), s.Type, s.ColorCode,
		s.DisplayOrder, s.IsActive, s.AttendanceRequired, s.UpdatedAt, s.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSession(row rowScanner) (*domain.Session, error) {
	s := &domain.Session{}
	var descNull, presNull, locNull sql.NullString
	var startStr, endStr string
	err := row.Scan(
		&s.ID, &s.EventID, &s.Title, &descNull, &presNull, &locNull,
		&startStr, &endStr, &s.Type, &s.ColorCode,
		&s.DisplayOrder, &s.IsActive, &s.AttendanceRequired,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if descNull.Valid {
		s.Description = &descNull.String
	}
	if presNull.Valid {
		s.Presenter = &presNull.String
	}
	if locNull.Valid {
		s.Location = &locNull.String
	}
	if s.StartTime, err = domain.ParseTimeOfDay(startStr); err != nil {
		return nil, err
	}
	if s.EndTime, err = domain.ParseTimeOfDay(endStr); err != nil {
		return nil, err
	}
	return s, nil
}
