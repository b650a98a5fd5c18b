package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/volley-vote-api/internal/models"
)

func TestSubscriptionUpsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	mock.ExpectExec("INSERT INTO push_subscriptions .* ON CONFLICT \\(person_id\\) DO UPDATE").
		WithArgs("p1", "https://push.example/abc", "key", "secret", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), &models.PushSubscription{PersonID: "p1", Endpoint: "https://push.example/abc", P256dh: "key", Auth: "secret"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionUpsertUnknownPerson(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	mock.ExpectExec("INSERT INTO push_subscriptions").WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Upsert(context.Background(), &models.PushSubscription{PersonID: "ghost", Endpoint: "https://push.example/abc"})
	assert.ErrorIs(t, err, ErrPersonNotFound)
}

func TestRecipients(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "first_name", "endpoint", "p256dh", "auth"}).
		AddRow("p1", "Anna", "https://push.example/a", "k1", "a1").
		AddRow("p2", "Boris", nil, nil, nil)
	mock.ExpectQuery("LEFT JOIN push_subscriptions s ON s.person_id = p.id\\s+WHERE p.id IN \\(\\?, \\?, \\?\\)").
		WithArgs("p1", "p2", "ghost").
		WillReturnRows(rows)

	recipients, err := repo.Recipients(context.Background(), []string{"p1", "p2", "ghost"})
	require.NoError(t, err)
	require.Len(t, recipients, 2)
	require.NotNil(t, recipients[0].Subscription)
	assert.Equal(t, "https://push.example/a", recipients[0].Subscription.Endpoint)
	assert.Nil(t, recipients[1].Subscription)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipientsEmpty(t *testing.T) {
	db, _, cleanup := newMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	recipients, err := repo.Recipients(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, recipients)
}
