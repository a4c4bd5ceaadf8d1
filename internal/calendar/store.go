package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no calendar post matches the id for the user.
var ErrNotFound = errors.New("calendar post not found")

// Content types and statuses. Dates have no time component; the wire
// format is a plain YYYY-MM-DD string.
const (
	ContentSocialMedia = "social_media"
	ContentYouTube     = "youtube"

	StatusScheduled = "scheduled"
	StatusPosted    = "posted"

	DateLayout = "2006-01-02"
)

type Post struct {
	ID                string    `json:"id"`
	BusinessProfileID string    `json:"business_profile_id"`
	Date              string    `json:"date"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	ContentType       string    `json:"content_type"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const postColumns = `cp.id, cp.business_profile_id, cp.date, cp.title, cp.content,
		cp.content_type, cp.status, cp.created_at, cp.updated_at`

func scanPost(row interface{ Scan(dest ...any) error }) (*Post, error) {
	var post Post
	var date time.Time
	if err := row.Scan(
		&post.ID,
		&post.BusinessProfileID,
		&date,
		&post.Title,
		&post.Content,
		&post.ContentType,
		&post.Status,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	post.Date = date.Format(DateLayout)
	return &post, nil
}

// Fields carries the mutable calendar post columns.
type Fields struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	Status      string `json:"status"`
}

// Create inserts a post under a profile the user owns.
func (s *Store) Create(ctx context.Context, userID, profileID string, fields Fields) (*Post, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO calendar_posts (business_profile_id, date, title, content, content_type, status)
		SELECT bp.id, $3::date, $4, $5, $6, $7
		FROM business_profiles bp
		WHERE bp.id = $1 AND bp.user_id = $2
		RETURNING id, business_profile_id, date, title, content, content_type, status, created_at, updated_at
	`, profileID, userID, fields.Date, fields.Title, fields.Content, fields.ContentType, fields.Status)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("create calendar post: %w", err)
	}
	return post, nil
}

func (s *Store) Get(ctx context.Context, userID, postID string) (*Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM calendar_posts cp
		JOIN business_profiles bp ON bp.id = cp.business_profile_id
		WHERE cp.id = $1 AND bp.user_id = $2
	`, postID, userID)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get calendar post: %w", err)
	}
	return post, nil
}

func (s *Store) ListByProfile(ctx context.Context, userID, profileID string) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM calendar_posts cp
		JOIN business_profiles bp ON bp.id = cp.business_profile_id
		WHERE cp.business_profile_id = $1 AND bp.user_id = $2
		ORDER BY cp.date, cp.created_at
	`, profileID, userID)
	if err != nil {
		return nil, fmt.Errorf("list calendar posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// ListRange returns posts within [from, to] inclusive, both YYYY-MM-DD.
func (s *Store) ListRange(ctx context.Context, userID, profileID, from, to string) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM calendar_posts cp
		JOIN business_profiles bp ON bp.id = cp.business_profile_id
		WHERE cp.business_profile_id = $1 AND bp.user_id = $2
		  AND cp.date BETWEEN $3::date AND $4::date
		ORDER BY cp.date, cp.created_at
	`, profileID, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list calendar posts in range: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

// RecentPosted returns the newest posted entries of one content type,
// most recent date first. It feeds the generator's recent-content block,
// so no ownership join: the caller has already verified the profile.
func (s *Store) RecentPosted(ctx context.Context, profileID, contentType string, limit int) ([]Post, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT cp.id, cp.business_profile_id, cp.date, cp.title, cp.content,
		cp.content_type, cp.status, cp.created_at, cp.updated_at
		FROM calendar_posts cp
		WHERE cp.business_profile_id = $1 AND cp.status = 'posted' AND cp.content_type = $2
		ORDER BY cp.date DESC
		LIMIT $3
	`, profileID, contentType, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent posted content: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

func collectPosts(rows *sql.Rows) ([]Post, error) {
	var posts []Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calendar post: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calendar posts: %w", err)
	}
	return posts, nil
}

func (s *Store) Update(ctx context.Context, userID, postID string, fields Fields) (*Post, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE calendar_posts cp
		SET date = $3::date, title = $4, content = $5, content_type = $6,
			status = $7, updated_at = NOW()
		FROM business_profiles bp
		WHERE cp.id = $1 AND bp.id = cp.business_profile_id AND bp.user_id = $2
		RETURNING `+postColumns,
		postID, userID, fields.Date, fields.Title, fields.Content, fields.ContentType, fields.Status)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update calendar post: %w", err)
	}
	return post, nil
}

// SetStatus flips a post between scheduled and posted.
func (s *Store) SetStatus(ctx context.Context, userID, postID, status string) (*Post, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE calendar_posts cp
		SET status = $3, updated_at = NOW()
		FROM business_profiles bp
		WHERE cp.id = $1 AND bp.id = cp.business_profile_id AND bp.user_id = $2
		RETURNING `+postColumns,
		postID, userID, status)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set calendar post status: %w", err)
	}
	return post, nil
}

// Reschedule moves a post to a new date, leaving everything else alone.
func (s *Store) Reschedule(ctx context.Context, userID, postID, date string) (*Post, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE calendar_posts cp
		SET date = $3::date, updated_at = NOW()
		FROM business_profiles bp
		WHERE cp.id = $1 AND bp.id = cp.business_profile_id AND bp.user_id = $2
		RETURNING `+postColumns,
		postID, userID, date)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reschedule calendar post: %w", err)
	}
	return post, nil
}

func (s *Store) Delete(ctx context.Context, userID, postID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM calendar_posts cp
		USING business_profiles bp
		WHERE cp.id = $1 AND bp.id = cp.business_profile_id AND bp.user_id = $2
	`, postID, userID)
	if err != nil {
		return fmt.Errorf("delete calendar post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete calendar post: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
