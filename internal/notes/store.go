package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no note matches the id for the user.
var ErrNotFound = errors.New("note not found")

type Note struct {
	ID                string    `json:"id"`
	BusinessProfileID string    `json:"business_profile_id"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Fields struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, userID, profileID string, fields Fields) (*Note, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO profile_notes (business_profile_id, title, content)
		SELECT bp.id, $3, $4
		FROM business_profiles bp
		WHERE bp.id = $1 AND bp.user_id = $2
		RETURNING id, business_profile_id, title, content, created_at, updated_at
	`, profileID, userID, fields.Title, fields.Content)
	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

func (s *Store) ListByProfile(ctx context.Context, userID, profileID string) ([]Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pn.id, pn.business_profile_id, pn.title, pn.content, pn.created_at, pn.updated_at
		FROM profile_notes pn
		JOIN business_profiles bp ON bp.id = pn.business_profile_id
		WHERE pn.business_profile_id = $1 AND bp.user_id = $2
		ORDER BY pn.updated_at DESC
	`, profileID, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var result []Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		result = append(result, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return result, nil
}

func (s *Store) Update(ctx context.Context, userID, noteID string, fields Fields) (*Note, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE profile_notes pn
		SET title = $3, content = $4, updated_at = NOW()
		FROM business_profiles bp
		WHERE pn.id = $1 AND bp.id = pn.business_profile_id AND bp.user_id = $2
		RETURNING pn.id, pn.business_profile_id, pn.title, pn.content, pn.created_at, pn.updated_at
	`, noteID, userID, fields.Title, fields.Content)
	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return note, nil
}

func (s *Store) Delete(ctx context.Context, userID, noteID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM profile_notes pn
		USING business_profiles bp
		WHERE pn.id = $1 AND bp.id = pn.business_profile_id AND bp.user_id = $2
	`, noteID, userID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanNote(row interface{ Scan(dest ...any) error }) (*Note, error) {
	var note Note
	if err := row.Scan(
		&note.ID,
		&note.BusinessProfileID,
		&note.Title,
		&note.Content,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &note, nil
}
