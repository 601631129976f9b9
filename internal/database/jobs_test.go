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

func TestJobRepository_Create(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	repo := NewJobRepository(db)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO page_generation_jobs").
		WithArgs(
			sqlmock.AnyArg(), // generated id
			nil,              // client_id
			"advertorial",
			nil, // template_id
			nil, // target_audience
			nil, // offer_details
			"pending",
			"research",
			sqlmock.AnyArg(), // step_outputs JSONB
			0,
			0.0,
			sqlmock.AnyArg(), // created_at / updated_at
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	job := &domain.GenerationJob{
		PageType:    "advertorial",
		Status:      domain.JobPending,
		CurrentStep: domain.StepResearch,
		StepOutputs: domain.NewStepOutputs(),
	}

	createErr := repo.Create(ctx, job)
	if createErr != nil {
		t.Errorf("Create() error = %v", createErr)
	}
	if job.ID == "" {
		t.Error("Create() should assign an id")
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestJobRepository_GetByID(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	repo := NewJobRepository(db)
	ctx := context.Background()

	outputs := domain.NewStepOutputs()
	outputs[domain.StepResearch] = &domain.StepRecord{
		Result:     json.RawMessage(`{"pages_scraped": 3}`),
		TokensUsed: 1500,
	}
	outputsJSON, marshalErr := json.Marshal(outputs)
	if marshalErr != nil {
		t.Fatalf("failed to marshal outputs: %v", marshalErr)
	}

	now := time.Now().UTC()
	columns := []string{
		"id", "client_id", "page_type", "template_id", "target_audience",
		"offer_details", "status", "current_step", "step_outputs",
		"error_message", "tokens_used", "estimated_cost", "page_id",
		"created_at", "updated_at", "completed_at",
	}

	mock.ExpectQuery("SELECT (.+) FROM page_generation_jobs").
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"job-1", "client-1", "advertorial", nil, nil, nil,
			"pending", "brand", outputsJSON, nil, 1500, 0.0135, nil,
			now, now, nil,
		))

	job, getErr := repo.GetByID(ctx, "job-1")
	if getErr != nil {
		t.Fatalf("GetByID() error = %v", getErr)
	}

	if job.ClientID != "client-1" {
		t.Errorf("client ID = %q, want %q", job.ClientID, "client-1")
	}
	if job.CurrentStep != domain.StepBrand {
		t.Errorf("current step = %s, want %s", job.CurrentStep, domain.StepBrand)
	}
	if job.StepOutputs[domain.StepResearch] == nil {
		t.Error("research record missing after unmarshal")
	}
	if job.StepOutputs[domain.StepResearch].TokensUsed != 1500 {
		t.Errorf("research tokens = %d, want 1500", job.StepOutputs[domain.StepResearch].TokensUsed)
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestJobRepository_GetByID_NotFound(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	repo := NewJobRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM page_generation_jobs").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, getErr := repo.GetByID(ctx, "missing")
	if !errors.Is(getErr, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", getErr)
	}
}

func TestJobRepository_MarkFailed(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	repo := NewJobRepository(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE page_generation_jobs").
		WithArgs("job-1", "failed", "step copy failed: generator timeout", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	markErr := repo.MarkFailed(ctx, "job-1", "step copy failed: generator timeout")
	if markErr != nil {
		t.Errorf("MarkFailed() error = %v", markErr)
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestJobRepository_MarkRunning_MissingJob(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	repo := NewJobRepository(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE page_generation_jobs").
		WithArgs("missing", "running", "copy", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	markErr := repo.MarkRunning(ctx, "missing", domain.StepCopy)
	if !errors.Is(markErr, ErrNotFound) {
		t.Errorf("MarkRunning() error = %v, want ErrNotFound", markErr)
	}
}

func TestJobRepository_RecordStepSuccess(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	repo := NewJobRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	outputs := domain.NewStepOutputs()
	outputs[domain.StepAssembly] = &domain.StepRecord{
		Result:      json.RawMessage(`{"page_id": "page-1"}`),
		CompletedAt: now,
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE page_generation_jobs").
		WithArgs(
			"job-1",
			"completed",
			"assembly",
			sqlmock.AnyArg(), // step_outputs JSONB
			21000,
			0.189,
			"page-1",
			sqlmock.AnyArg(), // completed_at
			sqlmock.AnyArg(), // updated_at
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	job := &domain.GenerationJob{
		ID:            "job-1",
		Status:        domain.JobCompleted,
		CurrentStep:   domain.StepAssembly,
		StepOutputs:   outputs,
		TokensUsed:    21000,
		EstimatedCost: 0.189,
		PageID:        "page-1",
		CompletedAt:   &now,
	}

	recordErr := repo.RecordStepSuccess(ctx, job)
	if recordErr != nil {
		t.Errorf("RecordStepSuccess() error = %v", recordErr)
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}
