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

// JobRepository handles database operations for generation jobs.
type JobRepository struct {
	db *sql.DB
}

// NewJobRepository creates a new job repository.
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new generation job.
func (r *JobRepository) Create(ctx context.Context, job *domain.GenerationJob) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	outputsJSON, marshalErr := json.Marshal(job.StepOutputs)
	if marshalErr != nil {
		return fmt.Errorf("marshal step outputs: %w", marshalErr)
	}

	query := `
		INSERT INTO page_generation_jobs (
			id, client_id, page_type, template_id, target_audience, offer_details,
			status, current_step, step_outputs, tokens_used, estimated_cost,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
	`

	_, execErr := r.db.ExecContext(ctx, query,
		job.ID,
		nullString(job.ClientID),
		job.PageType,
		nullString(job.TemplateID),
		nullString(job.TargetAudience),
		nullString(job.OfferDetails),
		string(job.Status),
		string(job.CurrentStep),
		outputsJSON,
		job.TokensUsed,
		job.EstimatedCost,
		now,
	)
	if execErr != nil {
		return fmt.Errorf("insert job: %w", execErr)
	}

	return nil
}

// GetByID fetches a generation job by id.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.GenerationJob, error) {
	query := `
		SELECT id, client_id, page_type, template_id, target_audience, offer_details,
		       status, current_step, step_outputs, error_message, tokens_used,
		       estimated_cost, page_id, created_at, updated_at, completed_at
		FROM page_generation_jobs
		WHERE id = $1
	`

	var (
		job            domain.GenerationJob
		clientID       sql.NullString
		templateID     sql.NullString
		targetAudience sql.NullString
		offerDetails   sql.NullString
		errorMessage   sql.NullString
		pageID         sql.NullString
		outputsJSON    []byte
	)

	scanErr := r.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID,
		&clientID,
		&job.PageType,
		&templateID,
		&targetAudience,
		&offerDetails,
		&job.Status,
		&job.CurrentStep,
		&outputsJSON,
		&errorMessage,
		&job.TokensUsed,
		&job.EstimatedCost,
		&pageID,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if scanErr != nil {
		return nil, fmt.Errorf("get job: %w", scanErr)
	}

	job.ClientID = clientID.String
	job.TemplateID = templateID.String
	job.TargetAudience = targetAudience.String
	job.OfferDetails = offerDetails.String
	job.ErrorMessage = errorMessage.String
	job.PageID = pageID.String

	job.StepOutputs = domain.NewStepOutputs()
	if len(outputsJSON) > 0 {
		if err := json.Unmarshal(outputsJSON, &job.StepOutputs); err != nil {
			return nil, fmt.Errorf("unmarshal step outputs: %w", err)
		}
	}

	return &job, nil
}

// MarkRunning records that a step is executing, so pollers can observe
// progress during long generator calls.
func (r *JobRepository) MarkRunning(ctx context.Context, id string, step domain.Step) error {
	query := `
		UPDATE page_generation_jobs
		SET status = $2, current_step = $3, updated_at = $4
		WHERE id = $1
	`

	result, execErr := r.db.ExecContext(ctx, query,
		id, string(domain.JobRunning), string(step), time.Now().UTC())
	if execErr != nil {
		return fmt.Errorf("mark job running: %w", execErr)
	}

	return requireRowAffected(result, "job", id)
}

// MarkFailed records a step failure and moves the job to its terminal state.
func (r *JobRepository) MarkFailed(ctx context.Context, id, message string) error {
	query := `
		UPDATE page_generation_jobs
		SET status = $2, error_message = $3, updated_at = $4
		WHERE id = $1
	`

	result, execErr := r.db.ExecContext(ctx, query,
		id, string(domain.JobFailed), message, time.Now().UTC())
	if execErr != nil {
		return fmt.Errorf("mark job failed: %w", execErr)
	}

	return requireRowAffected(result, "job", id)
}

// SetClientID back-fills the client reference created by the research step.
func (r *JobRepository) SetClientID(ctx context.Context, id, clientID string) error {
	query := `
		UPDATE page_generation_jobs
		SET client_id = $2, updated_at = $3
		WHERE id = $1
	`

	result, execErr := r.db.ExecContext(ctx, query, id, clientID, time.Now().UTC())
	if execErr != nil {
		return fmt.Errorf("set job client: %w", execErr)
	}

	return requireRowAffected(result, "job", id)
}

// RecordStepSuccess persists a completed step in a single transaction: the
// merged step outputs, the recomputed token total and cost, the next status
// and step, and the page reference when assembly produced one. A crash cannot
// leave a half-written advance.
func (r *JobRepository) RecordStepSuccess(ctx context.Context, job *domain.GenerationJob) error {
	outputsJSON, marshalErr := json.Marshal(job.StepOutputs)
	if marshalErr != nil {
		return fmt.Errorf("marshal step outputs: %w", marshalErr)
	}

	tx, txErr := r.db.BeginTx(ctx, nil)
	if txErr != nil {
		return fmt.Errorf("begin advance tx: %w", txErr)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	query := `
		UPDATE page_generation_jobs
		SET status = $2,
		    current_step = $3,
		    step_outputs = $4,
		    tokens_used = $5,
		    estimated_cost = $6,
		    page_id = $7,
		    completed_at = $8,
		    updated_at = $9
		WHERE id = $1
	`

	result, execErr := tx.ExecContext(ctx, query,
		job.ID,
		string(job.Status),
		string(job.CurrentStep),
		outputsJSON,
		job.TokensUsed,
		job.EstimatedCost,
		nullString(job.PageID),
		job.CompletedAt,
		time.Now().UTC(),
	)
	if execErr != nil {
		return fmt.Errorf("record step success: %w", execErr)
	}

	if affectedErr := requireRowAffected(result, "job", job.ID); affectedErr != nil {
		return affectedErr
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("commit advance tx: %w", commitErr)
	}

	return nil
}
