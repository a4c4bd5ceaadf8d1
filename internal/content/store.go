package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no saved content matches the id for the user.
var ErrNotFound = errors.New("generated content not found")

// Record is a saved generation. Rows are immutable after insert.
type Record struct {
	ID                string    `json:"id"`
	BusinessProfileID string    `json:"business_profile_id"`
	ContentType       string    `json:"content_type"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	PromptUsed        string    `json:"prompt_used"`
	CreatedAt         time.Time `json:"created_at"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, record Record) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO generated_content (business_profile_id, content_type, title, content, prompt_used)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, record.BusinessProfileID, record.ContentType, record.Title, record.Content, record.PromptUsed)
	if err := row.Scan(&record.ID, &record.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert generated content: %w", err)
	}
	return &record, nil
}

func (s *Store) ListByProfile(ctx context.Context, userID, profileID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT gc.id, gc.business_profile_id, gc.content_type, gc.title, gc.content, gc.prompt_used, gc.created_at
		FROM generated_content gc
		JOIN business_profiles bp ON bp.id = gc.business_profile_id
		WHERE gc.business_profile_id = $1 AND bp.user_id = $2
		ORDER BY gc.created_at DESC
	`, profileID, userID)
	if err != nil {
		return nil, fmt.Errorf("list generated content: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var record Record
		if err := rows.Scan(
			&record.ID,
			&record.BusinessProfileID,
			&record.ContentType,
			&record.Title,
			&record.Content,
			&record.PromptUsed,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan generated content: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generated content: %w", err)
	}
	return records, nil
}

func (s *Store) Delete(ctx context.Context, userID, recordID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM generated_content gc
		USING business_profiles bp
		WHERE gc.id = $1 AND bp.id = gc.business_profile_id AND bp.user_id = $2
	`, recordID, userID)
	if err != nil {
		return fmt.Errorf("delete generated content: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete generated content: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
