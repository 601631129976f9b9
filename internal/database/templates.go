package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/unicornmarketers/pageforge/internal/domain"
)

// TemplateRepository handles database operations for page templates.
type TemplateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new template repository.
func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// GetByID fetches a page template by id.
func (r *TemplateRepository) GetByID(ctx context.Context, id string) (*domain.PageTemplate, error) {
	query := `
		SELECT id, name, page_type, section_structure, html_skeleton, css_base, times_used
		FROM page_templates
		WHERE id = $1
	`

	var (
		tmpl          domain.PageTemplate
		structureJSON []byte
		htmlSkeleton  sql.NullString
		cssBase       sql.NullString
	)

	scanErr := r.db.QueryRowContext(ctx, query, id).Scan(
		&tmpl.ID,
		&tmpl.Name,
		&tmpl.PageType,
		&structureJSON,
		&htmlSkeleton,
		&cssBase,
		&tmpl.TimesUsed,
	)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return nil, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	if scanErr != nil {
		return nil, fmt.Errorf("get template: %w", scanErr)
	}

	tmpl.SectionStructure = structureJSON
	tmpl.HTMLSkeleton = htmlSkeleton.String
	tmpl.CSSBase = cssBase.String

	return &tmpl, nil
}

// IncrementUsage bumps the template usage counter after assembly.
func (r *TemplateRepository) IncrementUsage(ctx context.Context, id string) error {
	query := `UPDATE page_templates SET times_used = times_used + 1 WHERE id = $1`

	if _, execErr := r.db.ExecContext(ctx, query, id); execErr != nil {
		return fmt.Errorf("increment template usage: %w", execErr)
	}

	return nil
}
