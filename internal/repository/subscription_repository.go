package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/volley-vote-api/internal/models"
	"github.com/noah-isme/volley-vote-api/pkg/database"
)

// SubscriptionRepository persists the one push subscription each person may hold.
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository constructs the repository.
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Upsert stores the subscription, replacing any previous one for the person.
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *models.PushSubscription) error {
	now := time.Now().UTC()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	if sub.UpdatedAt.IsZero() {
		sub.UpdatedAt = sub.CreatedAt
	}

	query := r.db.Rebind(`INSERT INTO push_subscriptions (person_id, endpoint, p256dh, auth, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (person_id) DO UPDATE
SET endpoint = EXCLUDED.endpoint,
    p256dh = EXCLUDED.p256dh,
    auth = EXCLUDED.auth,
    updated_at = EXCLUDED.updated_at`)
	if _, err := r.db.ExecContext(ctx, query, sub.PersonID, sub.Endpoint, sub.P256dh, sub.Auth, sub.CreatedAt, sub.UpdatedAt); err != nil {
		if database.IsForeignKeyViolation(err) {
			return fmt.Errorf("upsert push subscription: %w", ErrPersonNotFound)
		}
		return fmt.Errorf("upsert push subscription: %w", err)
	}
	return nil
}

type recipientRow struct {
	PersonID  string         `db:"id"`
	FirstName string         `db:"first_name"`
	Endpoint  sql.NullString `db:"endpoint"`
	P256dh    sql.NullString `db:"p256dh"`
	Auth      sql.NullString `db:"auth"`
}

// Recipients loads the requested people with their subscription, if any.
// People that do not exist are simply absent from the result.
func (r *SubscriptionRepository) Recipients(ctx context.Context, personIDs []string) ([]models.Recipient, error) {
	if len(personIDs) == 0 {
		return []models.Recipient{}, nil
	}
	query, args, err := sqlx.In(`SELECT p.id, p.first_name, s.endpoint, s.p256dh, s.auth
FROM people p
LEFT JOIN push_subscriptions s ON s.person_id = p.id
WHERE p.id IN (?)`, personIDs)
	if err != nil {
		return nil, fmt.Errorf("build recipients query: %w", err)
	}

	var rows []recipientRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}

	recipients := make([]models.Recipient, 0, len(rows))
	for _, row := range rows {
		recipient := models.Recipient{PersonID: row.PersonID, FirstName: row.FirstName}
		if row.Endpoint.Valid {
			recipient.Subscription = &models.PushSubscription{
				PersonID: row.PersonID,
				Endpoint: row.Endpoint.String,
				P256dh:   row.P256dh.String,
				Auth:     row.Auth.String,
			}
		}
		recipients = append(recipients, recipient)
	}
	return recipients, nil
}
