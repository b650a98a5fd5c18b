package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/volley-vote-api/internal/models"
)

func TestPersonRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectExec("INSERT INTO people").
		WithArgs(sqlmock.AnyArg(), "Anna", "Ivanova", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	person := &models.Person{FirstName: "Anna", LastName: "Ivanova"}
	require.NoError(t, repo.Create(context.Background(), person))
	assert.NotEmpty(t, person.ID)
	assert.False(t, person.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "created_at"}).
		AddRow("p1", "Anna", "Ivanova", now).
		AddRow("p2", "Boris", "Petrov", now.Add(time.Second))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, first_name, last_name, created_at FROM people ORDER BY created_at, id")).
		WillReturnRows(rows)

	people, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "Boris", people[1].FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryDeleteCascades(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM attendance_marks WHERE person_id").WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM push_subscriptions WHERE person_id").WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM people WHERE id").WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := repo.Delete(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryDeleteUnknown(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM attendance_marks").WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM push_subscriptions").WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM people").WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	deleted, err := repo.Delete(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryDeleteRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM attendance_marks").WithArgs("p1").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.Delete(context.Background(), "p1")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryCreateDuplicateID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPersonRepository(db)

	mock.ExpectExec("INSERT INTO people").WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Person{ID: "p1", FirstName: "Anna", LastName: "Ivanova"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersonExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
