package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no chat matches the id for the user.
var ErrNotFound = errors.New("chat not found")

// titleLimit caps the auto-generated chat title at the first characters
// of the opening message.
const titleLimit = 40

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type History struct {
	ID                string    `json:"id"`
	BusinessProfileID string    `json:"business_profile_id"`
	Title             string    `json:"title"`
	Messages          []Message `json:"messages"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// TitleFor derives a chat title from its opening message.
func TitleFor(firstMessage string) string {
	runes := []rune(firstMessage)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit])
	}
	return firstMessage
}

func (s *Store) Create(ctx context.Context, userID, profileID string, messages []Message) (*History, error) {
	title := ""
	if len(messages) > 0 {
		title = TitleFor(messages[0].Content)
	}
	encoded, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("encode messages: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO chat_histories (business_profile_id, title, messages)
		SELECT bp.id, $3, $4
		FROM business_profiles bp
		WHERE bp.id = $1 AND bp.user_id = $2
		RETURNING id, business_profile_id, title, messages, created_at, updated_at
	`, profileID, userID, title, encoded)
	history, err := scanHistory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	return history, nil
}

func (s *Store) UpdateMessages(ctx context.Context, userID, chatID string, messages []Message) (*History, error) {
	encoded, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("encode messages: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE chat_histories ch
		SET messages = $3, updated_at = NOW()
		FROM business_profiles bp
		WHERE ch.id = $1 AND bp.id = ch.business_profile_id AND bp.user_id = $2
		RETURNING ch.id, ch.business_profile_id, ch.title, ch.messages, ch.created_at, ch.updated_at
	`, chatID, userID, encoded)
	history, err := scanHistory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update chat: %w", err)
	}
	return history, nil
}

func (s *Store) Get(ctx context.Context, userID, chatID string) (*History, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT ch.id, ch.business_profile_id, ch.title, ch.messages, ch.created_at, ch.updated_at
		FROM chat_histories ch
		JOIN business_profiles bp ON bp.id = ch.business_profile_id
		WHERE ch.id = $1 AND bp.user_id = $2
	`, chatID, userID)
	history, err := scanHistory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	return history, nil
}

func (s *Store) ListByProfile(ctx context.Context, userID, profileID string) ([]History, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ch.id, ch.business_profile_id, ch.title, ch.messages, ch.created_at, ch.updated_at
		FROM chat_histories ch
		JOIN business_profiles bp ON bp.id = ch.business_profile_id
		WHERE ch.business_profile_id = $1 AND bp.user_id = $2
		ORDER BY ch.updated_at DESC
	`, profileID, userID)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var histories []History
	for rows.Next() {
		history, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		histories = append(histories, *history)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}
	return histories, nil
}

func (s *Store) Delete(ctx context.Context, userID, chatID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM chat_histories ch
		USING business_profiles bp
		WHERE ch.id = $1 AND bp.id = ch.business_profile_id AND bp.user_id = $2
	`, chatID, userID)
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanHistory(row interface{ Scan(dest ...any) error }) (*History, error) {
	var history History
	var encoded []byte
	if err := row.Scan(
		&history.ID,
		&history.BusinessProfileID,
		&history.Title,
		&encoded,
		&history.CreatedAt,
		&history.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(encoded) > 0 {
		if err := json.Unmarshal(encoded, &history.Messages); err != nil {
			return nil, fmt.Errorf("decode messages: %w", err)
		}
	}
	return &history, nil
}
