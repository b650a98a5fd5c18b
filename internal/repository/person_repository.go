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

// PersonRepository provides database access for the roster.
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository creates a new instance of PersonRepository.
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// Create inserts a new person.
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) error {
	if person.ID == "" {
		person.ID = uuid.NewString()
	}
	if person.CreatedAt.IsZero() {
		person.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO people (id, first_name, last_name, created_at) VALUES (:id, :first_name, :last_name, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, person); err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("create person %s: %w", person.ID, ErrPersonExists)
		}
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

// List returns the whole roster in registration order.
func (r *PersonRepository) List(ctx context.Context) ([]models.Person, error) {
	const query = `SELECT id, first_name, last_name, created_at FROM people ORDER BY created_at, id`
	people := make([]models.Person, 0)
	if err := r.db.SelectContext(ctx, &people, query); err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	return people, nil
}

// Delete removes a person together with every mark and their subscription in
// one transaction so no mark ever outlives its owner.
func (r *PersonRepository) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete person: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM attendance_marks WHERE person_id = ?`), id); err != nil {
		return false, fmt.Errorf("delete person marks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM push_subscriptions WHERE person_id = ?`), id); err != nil {
		return false, fmt.Errorf("delete person subscription: %w", err)
	}
	res, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM people WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete person: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete person rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete person: %w", err)
	}
	commit = true
	return affected > 0, nil
}
