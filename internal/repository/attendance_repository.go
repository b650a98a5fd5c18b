package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/volley-vote-api/internal/models"
	"github.com/noah-isme/volley-vote-api/pkg/database"
)

// AttendanceRepository persists attendance marks. The unique key on
// (person_id, day, slot, week_id) is the only coordination point for toggles.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// InsertMark inserts the mark unless one already exists for its key. It
// reports false, without error, when a concurrent writer got there first.
func (r *AttendanceRepository) InsertMark(ctx context.Context, mark *models.AttendanceMark) (bool, error) {
	if mark.ID == "" {
		mark.ID = newMarkID()
	}
	if mark.CreatedAt.IsZero() {
		mark.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`INSERT INTO attendance_marks (id, person_id, day, slot, week_id, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (person_id, day, slot, week_id) DO NOTHING`)
	res, err := r.db.ExecContext(ctx, query, mark.ID, mark.PersonID, mark.Day, mark.Slot, mark.WeekID, mark.CreatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return false, fmt.Errorf("insert attendance mark: %w", ErrPersonNotFound)
		}
		return false, fmt.Errorf("insert attendance mark: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert attendance mark rows: %w", err)
	}
	return affected > 0, nil
}

// DeleteMark removes the mark for key and reports whether one existed.
func (r *AttendanceRepository) DeleteMark(ctx context.Context, key models.MarkKey) (bool, error) {
	query := r.db.Rebind(`DELETE FROM attendance_marks WHERE person_id = ? AND day = ? AND slot = ? AND week_id = ?`)
	res, err := r.db.ExecContext(ctx, query, key.PersonID, key.Day, key.Slot, key.WeekID)
	if err != nil {
		return false, fmt.Errorf("delete attendance mark: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete attendance mark rows: %w", err)
	}
	return affected > 0, nil
}

// DeleteByID removes a single mark by its identifier.
func (r *AttendanceRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM attendance_marks WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete attendance mark by id: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete attendance mark by id rows: %w", err)
	}
	return affected > 0, nil
}

// ListByWeek returns every mark for the week in insertion order.
func (r *AttendanceRepository) ListByWeek(ctx context.Context, weekID string) ([]models.AttendanceMark, error) {
	query := r.db.Rebind(`SELECT id, person_id, day, slot, week_id, created_at
FROM attendance_marks
WHERE week_id = ?
ORDER BY created_at, id`)
	marks := make([]models.AttendanceMark, 0)
	if err := r.db.SelectContext(ctx, &marks, query, weekID); err != nil {
		return nil, fmt.Errorf("list attendance marks: %w", err)
	}
	return marks, nil
}

// PeopleWithoutMarks returns roster members with no mark in the week. The
// anti-join runs as one statement so the result is a single snapshot.
func (r *AttendanceRepository) PeopleWithoutMarks(ctx context.Context, weekID string) ([]models.Person, error) {
	query := r.db.Rebind(`SELECT p.id, p.first_name, p.last_name, p.created_at
FROM people p
WHERE NOT EXISTS (
    SELECT 1 FROM attendance_marks m WHERE m.person_id = p.id AND m.week_id = ?
)
ORDER BY p.created_at, p.id`)
	people := make([]models.Person, 0)
	if err := r.db.SelectContext(ctx, &people, query, weekID); err != nil {
		return nil, fmt.Errorf("list people without marks: %w", err)
	}
	return people, nil
}

// newMarkID returns a time-ordered id so ties on created_at keep insertion order.
func newMarkID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
