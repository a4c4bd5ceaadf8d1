package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kwallo/internal/composer"
)

// ErrNotFound is returned when no profile matches the id for the user.
var ErrNotFound = errors.New("profile not found")

// Profile is a stored business profile. Field names mirror the generator
// form so the composer can consume the record directly.
type Profile struct {
	ID                     string    `json:"id"`
	UserID                 string    `json:"user_id"`
	BusinessName           string    `json:"business_name"`
	BusinessType           string    `json:"business_type"`
	Niche                  string    `json:"niche"`
	OfferStatement         string    `json:"offer_statement"`
	ContentInterests       string    `json:"content_interests"`
	TargetAudience         string    `json:"target_audience"`
	AudiencePains          string    `json:"audience_pains"`
	BusinessStory          string    `json:"business_story"`
	DesiredOutcome         string    `json:"desired_outcome"`
	CustomerObjections     string    `json:"customer_objections"`
	OfferStructure         string    `json:"offer_structure"`
	USP                    string    `json:"usp"`
	ClientResults          string    `json:"client_results"`
	ClientCount            string    `json:"client_count"`
	ExistingContentScripts string    `json:"existing_content_scripts"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// Complete reports whether every required field is filled in. Existing
// content scripts are optional; everything else must be non-blank before
// the profile can drive generation or chat.
func (p *Profile) Complete() bool {
	required := []string{
		p.BusinessName,
		p.BusinessType,
		p.Niche,
		p.OfferStatement,
		p.ContentInterests,
		p.TargetAudience,
		p.AudiencePains,
		p.BusinessStory,
		p.DesiredOutcome,
		p.CustomerObjections,
		p.OfferStructure,
		p.USP,
		p.ClientResults,
		p.ClientCount,
	}
	for _, field := range required {
		if field == "" {
			return false
		}
	}
	return true
}

// ComposerProfile converts the stored record into the composer's view.
func (p *Profile) ComposerProfile() composer.Profile {
	return composer.Profile{
		BusinessName:           p.BusinessName,
		BusinessType:           p.BusinessType,
		Niche:                  p.Niche,
		OfferStatement:         p.OfferStatement,
		ContentInterests:       p.ContentInterests,
		TargetAudience:         p.TargetAudience,
		AudiencePains:          p.AudiencePains,
		BusinessStory:          p.BusinessStory,
		DesiredOutcome:         p.DesiredOutcome,
		CustomerObjections:     p.CustomerObjections,
		OfferStructure:         p.OfferStructure,
		USP:                    p.USP,
		ClientResults:          p.ClientResults,
		ClientCount:            p.ClientCount,
		ExistingContentScripts: p.ExistingContentScripts,
	}
}

// Fields carries the mutable profile columns for create and update.
type Fields struct {
	BusinessName           string `json:"business_name"`
	BusinessType           string `json:"business_type"`
	Niche                  string `json:"niche"`
	OfferStatement         string `json:"offer_statement"`
	ContentInterests       string `json:"content_interests"`
	TargetAudience         string `json:"target_audience"`
	AudiencePains          string `json:"audience_pains"`
	BusinessStory          string `json:"business_story"`
	DesiredOutcome         string `json:"desired_outcome"`
	CustomerObjections     string `json:"customer_objections"`
	OfferStructure         string `json:"offer_structure"`
	USP                    string `json:"usp"`
	ClientResults          string `json:"client_results"`
	ClientCount            string `json:"client_count"`
	ExistingContentScripts string `json:"existing_content_scripts"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const profileColumns = `id, user_id, business_name, business_type, niche, offer_statement,
		content_interests, target_audience, audience_pains, business_story,
		desired_outcome, customer_objections, offer_structure, usp,
		client_results, client_count, existing_content_scripts, created_at, updated_at`

func scanProfile(row interface{ Scan(dest ...any) error }) (*Profile, error) {
	var p Profile
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.BusinessName,
		&p.BusinessType,
		&p.Niche,
		&p.OfferStatement,
		&p.ContentInterests,
		&p.TargetAudience,
		&p.AudiencePains,
		&p.BusinessStory,
		&p.DesiredOutcome,
		&p.CustomerObjections,
		&p.OfferStructure,
		&p.USP,
		&p.ClientResults,
		&p.ClientCount,
		&p.ExistingContentScripts,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) Create(ctx context.Context, userID string, fields Fields) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO business_profiles (
			user_id, business_name, business_type, niche, offer_statement,
			content_interests, target_audience, audience_pains, business_story,
			desired_outcome, customer_objections, offer_structure, usp,
			client_results, client_count, existing_content_scripts
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+profileColumns,
		userID,
		fields.BusinessName,
		fields.BusinessType,
		fields.Niche,
		fields.OfferStatement,
		fields.ContentInterests,
		fields.TargetAudience,
		fields.AudiencePains,
		fields.BusinessStory,
		fields.DesiredOutcome,
		fields.CustomerObjections,
		fields.OfferStructure,
		fields.USP,
		fields.ClientResults,
		fields.ClientCount,
		fields.ExistingContentScripts,
	)
	p, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

func (s *Store) Get(ctx context.Context, userID, profileID string) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM business_profiles
		WHERE id = $1 AND user_id = $2
	`, profileID, userID)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *Store) List(ctx context.Context, userID string) ([]Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+profileColumns+`
		FROM business_profiles
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return profiles, nil
}

func (s *Store) Count(ctx context.Context, userID string) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM business_profiles WHERE user_id = $1
	`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return count, nil
}

func (s *Store) Update(ctx context.Context, userID, profileID string, fields Fields) (*Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE business_profiles
		SET business_name = $3, business_type = $4, niche = $5, offer_statement = $6,
			content_interests = $7, target_audience = $8, audience_pains = $9,
			business_story = $10, desired_outcome = $11, customer_objections = $12,
			offer_structure = $13, usp = $14, client_results = $15, client_count = $16,
			existing_content_scripts = $17, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+profileColumns,
		profileID,
		userID,
		fields.BusinessName,
		fields.BusinessType,
		fields.Niche,
		fields.OfferStatement,
		fields.ContentInterests,
		fields.TargetAudience,
		fields.AudiencePains,
		fields.BusinessStory,
		fields.DesiredOutcome,
		fields.CustomerObjections,
		fields.OfferStructure,
		fields.USP,
		fields.ClientResults,
		fields.ClientCount,
		fields.ExistingContentScripts,
	)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

func (s *Store) Delete(ctx context.Context, userID, profileID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM business_profiles WHERE id = $1 AND user_id = $2
	`, profileID, userID)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
