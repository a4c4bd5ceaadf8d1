package account

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockStore(t *testing.T) (*Store, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db), db, mock
}

func TestGetUserNotFound(t *testing.T) {
	store, _, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, email, full_name, role, subscription_tier, generations_used, created_at, updated_at
		FROM users
		WHERE id = $1
	`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet SQL expectations: %v", err)
	}
}

func TestGetUser(t *testing.T) {
	store, _, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, email, full_name, role, subscription_tier, generations_used, created_at, updated_at
		FROM users
		WHERE id = $1
	`)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "full_name", "role", "subscription_tier", "generations_used", "created_at", "updated_at"}).
			AddRow("user-1", "a@b.co", "Ada", "user", "free", 3, now, now))

	user, err := store.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get returned unexpected error: %v", err)
	}
	if user.SubscriptionTier != "free" || user.GenerationsUsed != 3 {
		t.Fatalf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet SQL expectations: %v", err)
	}
}

func TestConsumeGenerationFreeTierAtLimit(t *testing.T) {
	store, _, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE users SET generations_used = generations_used + 1, updated_at = NOW()
		WHERE id = $1 AND generations_used < $2
	`)).
		WithArgs("user-1", FreeGenerationLimit).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.ConsumeGeneration(context.Background(), "user-1", TierFree)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet SQL expectations: %v", err)
	}
}

func TestConsumeGenerationPaidTierUncapped(t *testing.T) {
	store, _, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`
			UPDATE users SET generations_used = generations_used + 1, updated_at = NOW()
			WHERE id = $1
		`)).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.ConsumeGeneration(context.Background(), "user-1", TierPro); err != nil {
		t.Fatalf("ConsumeGeneration returned unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet SQL expectations: %v", err)
	}
}

func TestSettingMissingKeyReturnsEmpty(t *testing.T) {
	store, _, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT value FROM user_settings WHERE user_id = $1 AND key = $2
	`)).
		WithArgs("user-1", "active_profile").
		WillReturnError(sql.ErrNoRows)

	value, err := store.Setting(context.Background(), "user-1", "active_profile")
	if err != nil {
		t.Fatalf("Setting returned unexpected error: %v", err)
	}
	if value != "" {
		t.Fatalf("expected empty value, got %q", value)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet SQL expectations: %v", err)
	}
}
