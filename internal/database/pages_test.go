//nolint:testpackage // Testing internal repository requires same package access
package database

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/unicornmarketers/pageforge/internal/domain"
)

func TestPageRepository_Insert(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	repo := NewPageRepository(db)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO landing_pages").
		WithArgs(
			"page-1",
			"Acme Widgets - advertorial",
			"acme-widgets-advertorial",
			"client-1",
			"job-1",
			nil, // template_id
			"<!DOCTYPE html><html></html>",
			"draft",
			"Acme Widgets - advertorial",
			nil,              // meta_description
			sqlmock.AnyArg(), // generation_metadata JSONB
			sqlmock.AnyArg(), // created_at / updated_at
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	insertErr := repo.Insert(ctx, &domain.GeneratedPage{
		ID:          "page-1",
		Name:        "Acme Widgets - advertorial",
		Slug:        "acme-widgets-advertorial",
		ClientID:    "client-1",
		JobID:       "job-1",
		HTMLContent: "<!DOCTYPE html><html></html>",
		Status:      domain.PageDraft,
		MetaTitle:   "Acme Widgets - advertorial",
		Metadata: domain.GenerationMetadata{
			PageType:   "advertorial",
			TokensUsed: 21000,
		},
	})

	if insertErr != nil {
		t.Errorf("Insert() error = %v", insertErr)
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestPageRepository_GetByID(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	repo := NewPageRepository(db)
	ctx := context.Background()

	metadataJSON, marshalErr := json.Marshal(domain.GenerationMetadata{
		PageType:       "advertorial",
		TokensUsed:     21000,
		StepsCompleted: 7,
	})
	if marshalErr != nil {
		t.Fatalf("failed to marshal metadata: %v", marshalErr)
	}

	now := time.Now().UTC()
	columns := []string{
		"id", "name", "slug", "client_id", "job_id", "template_id",
		"html_content", "status", "meta_title", "meta_description",
		"generation_metadata", "created_at", "updated_at",
	}

	mock.ExpectQuery("SELECT (.+) FROM landing_pages").
		WithArgs("page-1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"page-1", "Acme Widgets - advertorial", "acme-widgets-advertorial",
			"client-1", "job-1", nil, "<!DOCTYPE html><html></html>", "draft",
			nil, nil, metadataJSON, now, now,
		))

	page, getErr := repo.GetByID(ctx, "page-1")
	if getErr != nil {
		t.Fatalf("GetByID() error = %v", getErr)
	}

	if page.Slug != "acme-widgets-advertorial" {
		t.Errorf("slug = %q", page.Slug)
	}
	if page.Metadata.TokensUsed != 21000 {
		t.Errorf("metadata tokens = %d, want 21000", page.Metadata.TokensUsed)
	}
	if page.Metadata.StepsCompleted != 7 {
		t.Errorf("metadata steps = %d, want 7", page.Metadata.StepsCompleted)
	}
}

func TestPageRepository_GetByID_NotFound(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	repo := NewPageRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM landing_pages").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, getErr := repo.GetByID(ctx, "missing")
	if !errors.Is(getErr, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", getErr)
	}
}

func TestPageRepository_ListSlugsWithPrefix(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	repo := NewPageRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT slug FROM landing_pages").
		WithArgs("acme-widgets-advertorial%").
		WillReturnRows(sqlmock.NewRows([]string{"slug"}).
			AddRow("acme-widgets-advertorial").
			AddRow("acme-widgets-advertorial-1"))

	slugs, listErr := repo.ListSlugsWithPrefix(ctx, "acme-widgets-advertorial")
	if listErr != nil {
		t.Fatalf("ListSlugsWithPrefix() error = %v", listErr)
	}

	if len(slugs) != 2 {
		t.Errorf("slugs = %d, want 2", len(slugs))
	}
}
