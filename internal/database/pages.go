package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/unicornmarketers/pageforge/internal/domain"
)

// PageRepository handles database operations for generated landing pages.
type PageRepository struct {
	db *sql.DB
}

// NewPageRepository creates a new page repository.
func NewPageRepository(db *sql.DB) *PageRepository {
	return &PageRepository{db: db}
}

// Insert stores a newly assembled landing page.
func (r *PageRepository) Insert(ctx context.Context, page *domain.GeneratedPage) error {
	if page.ID == "" {
		page.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	page.CreatedAt = now
	page.UpdatedAt = now

	metadataJSON, marshalErr := json.Marshal(page.Metadata)
	if marshalErr != nil {
		return fmt.Errorf("marshal generation metadata: %w", marshalErr)
	}

	query := `
		INSERT INTO landing_pages (
			id, name, slug, client_id, job_id, template_id, html_content,
			status, meta_title, meta_description, generation_metadata,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
	`

	_, execErr := r.db.ExecContext(ctx, query,
		page.ID,
		page.Name,
		page.Slug,
		nullString(page.ClientID),
		page.JobID,
		nullString(page.TemplateID),
		page.HTMLContent,
		string(page.Status),
		nullString(page.MetaTitle),
		nullString(page.MetaDescription),
		metadataJSON,
		now,
	)
	if execErr != nil {
		return fmt.Errorf("insert landing page: %w", execErr)
	}

	return nil
}

// GetByID fetches a landing page by id.
func (r *PageRepository) GetByID(ctx context.Context, id string) (*domain.GeneratedPage, error) {
	query := `
		SELECT id, name, slug, client_id, job_id, template_id, html_content,
		       status, meta_title, meta_description, generation_metadata,
		       created_at, updated_at
		FROM landing_pages
		WHERE id = $1
	`

	var (
		page            domain.GeneratedPage
		clientID        sql.NullString
		templateID      sql.NullString
		metaTitle       sql.NullString
		metaDescription sql.NullString
		metadataJSON    []byte
	)

	scanErr := r.db.QueryRowContext(ctx, query, id).Scan(
		&page.ID,
		&page.Name,
		&page.Slug,
		&clientID,
		&page.JobID,
		&templateID,
		&page.HTMLContent,
		&page.Status,
		&metaTitle,
		&metaDescription,
		&metadataJSON,
		&page.CreatedAt,
		&page.UpdatedAt,
	)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return nil, fmt.Errorf("page %s: %w", id, ErrNotFound)
	}
	if scanErr != nil {
		return nil, fmt.Errorf("get page: %w", scanErr)
	}

	page.ClientID = clientID.String
	page.TemplateID = templateID.String
	page.MetaTitle = metaTitle.String
	page.MetaDescription = metaDescription.String

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &page.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal generation metadata: %w", err)
		}
	}

	return &page, nil
}

// ListSlugsWithPrefix returns every slug starting with prefix, used by the
// assembly step to pick a unique slug.
func (r *PageRepository) ListSlugsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	query := `SELECT slug FROM landing_pages WHERE slug LIKE $1`

	rows, queryErr := r.db.QueryContext(ctx, query, prefix+"%")
	if queryErr != nil {
		return nil, fmt.Errorf("query slugs: %w", queryErr)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if scanErr := rows.Scan(&slug); scanErr != nil {
			return nil, fmt.Errorf("scan slug row: %w", scanErr)
		}
		slugs = append(slugs, slug)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("slug rows: %w", rowsErr)
	}

	return slugs, nil
}
