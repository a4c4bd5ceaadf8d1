package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no user matches the given id.
var ErrNotFound = errors.New("user not found")

// ErrQuotaExceeded is returned when the free-tier generation allowance
// has been used up.
var ErrQuotaExceeded = errors.New("generation quota exceeded")

type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	FullName         string    `json:"full_name"`
	Role             string    `json:"role"`
	SubscriptionTier string    `json:"subscription_tier"`
	GenerationsUsed  int       `json:"generations_used"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, userID string) (*User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, full_name, role, subscription_tier, generations_used, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.Role,
		&user.SubscriptionTier,
		&user.GenerationsUsed,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// Ensure inserts the user row on first sight of a token-authenticated
// identity. Existing rows are left untouched.
func (s *Store) Ensure(ctx context.Context, userID, email string) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`, userID, email); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

type UserUpdate struct {
	FullName         *string `json:"full_name"`
	SubscriptionTier *string `json:"subscription_tier"`
}

func (s *Store) Update(ctx context.Context, userID string, update UserUpdate) (*User, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET full_name = COALESCE($2, full_name),
			subscription_tier = COALESCE($3, subscription_tier),
			updated_at = NOW()
		WHERE id = $1
	`, userID, update.FullName, update.SubscriptionTier)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, userID)
}

// ConsumeGeneration increments the lifetime generation counter. For the
// free tier the increment and the limit check are a single statement so
// concurrent generations cannot push the count past the allowance.
func (s *Store) ConsumeGeneration(ctx context.Context, userID, tier string) error {
	if tier == TierStarter || tier == TierPro {
		if _, err := s.db.ExecContext(ctx, `
			UPDATE users SET generations_used = generations_used + 1, updated_at = NOW()
			WHERE id = $1
		`, userID); err != nil {
			return fmt.Errorf("count generation: %w", err)
		}
		return nil
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET generations_used = generations_used + 1, updated_at = NOW()
		WHERE id = $1 AND generations_used < $2
	`, userID, FreeGenerationLimit)
	if err != nil {
		return fmt.Errorf("count generation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("count generation: %w", err)
	}
	if affected == 0 {
		return ErrQuotaExceeded
	}
	return nil
}

// Setting reads a single user_settings value. Missing keys return "".
func (s *Store) Setting(ctx context.Context, userID, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM user_settings WHERE user_id = $1 AND key = $2
	`, userID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

// SetSetting upserts a single user_settings value.
func (s *Store) SetSetting(ctx context.Context, userID, key, value string) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, userID, key, value); err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}
