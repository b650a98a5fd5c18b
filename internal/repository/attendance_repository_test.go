package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/volley-vote-api/internal/models"
)

func TestInsertMarkCreated(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance_marks .* ON CONFLICT \\(person_id, day, slot, week_id\\) DO NOTHING").
		WithArgs(sqlmock.AnyArg(), "p1", models.DayMonday, models.Slot("19:00"), "2024-03-04", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mark := &models.AttendanceMark{PersonID: "p1", Day: models.DayMonday, Slot: "19:00", WeekID: "2024-03-04"}
	created, err := repo.InsertMark(context.Background(), mark)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, mark.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertMarkConflict(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance_marks").WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.InsertMark(context.Background(), &models.AttendanceMark{PersonID: "p1", Day: models.DayMonday, Slot: "19:00", WeekID: "2024-03-04"})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestInsertMarkUnknownPerson(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance_marks").WillReturnError(&pq.Error{Code: "23503"})

	_, err := repo.InsertMark(context.Background(), &models.AttendanceMark{PersonID: "ghost", Day: models.DayMonday, Slot: "19:00", WeekID: "2024-03-04"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersonNotFound)
}

func TestDeleteMark(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	key := models.MarkKey{PersonID: "p1", Day: models.DayFriday, Slot: "21:00", WeekID: "2024-03-04"}
	mock.ExpectExec("DELETE FROM attendance_marks WHERE person_id").
		WithArgs("p1", models.DayFriday, models.Slot("21:00"), "2024-03-04").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM attendance_marks WHERE person_id").
		WithArgs("p1", models.DayFriday, models.Slot("21:00"), "2024-03-04").
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := repo.DeleteMark(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteMark(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByWeek(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "person_id", "day", "slot", "week_id", "created_at"}).
		AddRow("m1", "p1", "mon", "18:00", "2024-03-04", now).
		AddRow("m2", "p2", "sun", "21:00", "2024-03-04", now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance_marks\nWHERE week_id = ?\nORDER BY created_at, id")).
		WithArgs("2024-03-04").
		WillReturnRows(rows)

	marks, err := repo.ListByWeek(context.Background(), "2024-03-04")
	require.NoError(t, err)
	require.Len(t, marks, 2)
	assert.Equal(t, models.DaySunday, marks[1].Day)
	assert.Equal(t, models.Slot("21:00"), marks[1].Slot)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPeopleWithoutMarks(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "created_at"}).
		AddRow("p3", "Vera", "Smirnova", time.Now())
	mock.ExpectQuery("FROM people p\\s+WHERE NOT EXISTS").
		WithArgs("2024-03-04").
		WillReturnRows(rows)

	people, err := repo.PeopleWithoutMarks(context.Background(), "2024-03-04")
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "p3", people[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("DELETE FROM attendance_marks WHERE id").WithArgs("m1").WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := repo.DeleteByID(context.Background(), "m1")
	require.NoError(t, err)
	assert.True(t, removed)
}
