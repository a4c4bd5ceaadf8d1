package knowledge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"kwallo/internal/composer"
)

// ErrNotFound is returned when no knowledge item matches the given id.
var ErrNotFound = errors.New("knowledge item not found")

// Item is a curated knowledge base record. Knowledge is global and
// admin-managed; generators and chat read it filtered by target.
type Item struct {
	ID              string    `json:"id"`
	Name            string    `json:"knowledge_name"`
	KnowledgeType   string    `json:"knowledge_type"`
	ExampleType     string    `json:"example_type,omitempty"`
	TargetGenerator string    `json:"target_generator"`
	PostFormat      string    `json:"post_format,omitempty"`
	NicheTags       []string  `json:"niche_tags"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TargetGeneralChat marks knowledge addressed to the assistant chat
// rather than one of the content generators.
const TargetGeneralChat = "general_chat"

// ToComposer converts a stored item into the composer's view.
func (i Item) ToComposer() composer.KnowledgeItem {
	return composer.KnowledgeItem{
		Name:            i.Name,
		TargetGenerator: composer.GeneratorType(i.TargetGenerator),
		KnowledgeType:   i.KnowledgeType,
		ExampleType:     i.ExampleType,
		NicheTags:       i.NicheTags,
		Content:         i.Content,
	}
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const itemColumns = `id, knowledge_name, knowledge_type, example_type, target_generator,
		post_format, niche_tags, content, created_at, updated_at`

func scanItem(row interface{ Scan(dest ...any) error }) (*Item, error) {
	var item Item
	var exampleType, postFormat sql.NullString
	if err := row.Scan(
		&item.ID,
		&item.Name,
		&item.KnowledgeType,
		&exampleType,
		&item.TargetGenerator,
		&postFormat,
		pq.Array(&item.NicheTags),
		&item.Content,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	item.ExampleType = exampleType.String
	item.PostFormat = postFormat.String
	return &item, nil
}

func (s *Store) List(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM app_knowledge
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list knowledge: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// ListForGenerator returns items addressed to the given target, optionally
// narrowed by knowledge type and example subtype. Niche filtering happens
// in the composer so universal items stay visible to every niche.
func (s *Store) ListForGenerator(ctx context.Context, target, knowledgeType, exampleType string) ([]Item, error) {
	if target == "" {
		return nil, errors.New("target generator is required")
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM app_knowledge
		WHERE target_generator = $1
		  AND ($2 = '' OR knowledge_type = $2)
		  AND ($3 = '' OR example_type = $3)
		ORDER BY created_at DESC
	`, target, knowledgeType, exampleType)
	if err != nil {
		return nil, fmt.Errorf("list knowledge for generator: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

// ListGuidelines returns every guidelines item across all targets. The
// chat prompt labels each with its target generator.
func (s *Store) ListGuidelines(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM app_knowledge
		WHERE knowledge_type = 'guidelines'
		ORDER BY target_generator, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list guidelines: %w", err)
	}
	defer rows.Close()
	return collectItems(rows)
}

func collectItems(rows *sql.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan knowledge item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate knowledge items: %w", err)
	}
	return items, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM app_knowledge
		WHERE id = $1
	`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get knowledge item: %w", err)
	}
	return item, nil
}

// Fields carries the mutable knowledge columns for create and update.
type Fields struct {
	Name            string   `json:"knowledge_name"`
	KnowledgeType   string   `json:"knowledge_type"`
	ExampleType     string   `json:"example_type"`
	TargetGenerator string   `json:"target_generator"`
	PostFormat      string   `json:"post_format"`
	NicheTags       []string `json:"niche_tags"`
	Content         string   `json:"content"`
}

func (s *Store) Create(ctx context.Context, fields Fields) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO app_knowledge (
			knowledge_name, knowledge_type, example_type, target_generator,
			post_format, niche_tags, content
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+itemColumns,
		fields.Name,
		fields.KnowledgeType,
		nullable(fields.ExampleType),
		fields.TargetGenerator,
		nullable(fields.PostFormat),
		pq.Array(tagsOrEmpty(fields.NicheTags)),
		fields.Content,
	)
	item, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("create knowledge item: %w", err)
	}
	return item, nil
}

func (s *Store) Update(ctx context.Context, id string, fields Fields) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE app_knowledge
		SET knowledge_name = $2, knowledge_type = $3, example_type = $4,
			target_generator = $5, post_format = $6, niche_tags = $7,
			content = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING `+itemColumns,
		id,
		fields.Name,
		fields.KnowledgeType,
		nullable(fields.ExampleType),
		fields.TargetGenerator,
		nullable(fields.PostFormat),
		pq.Array(tagsOrEmpty(fields.NicheTags)),
		fields.Content,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update knowledge item: %w", err)
	}
	return item, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM app_knowledge WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete knowledge item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete knowledge item: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
