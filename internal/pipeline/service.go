// Package pipeline orchestrates the seven-step page generation pipeline:
// research, brand, strategy, copy, design, factcheck, assembly. Jobs are
// persisted between steps so a pipeline can be resumed, inspected, or
// re-driven one step at a time.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/unicornmarketers/pageforge/internal/database"
	"github.com/unicornmarketers/pageforge/internal/domain"
	"github.com/unicornmarketers/pageforge/internal/fetcher"
	"github.com/unicornmarketers/pageforge/internal/generator"
	"github.com/unicornmarketers/pageforge/internal/logger"
)

// costPerMillionTokens is the blended USD price used for cost estimates.
const costPerMillionTokens = 9.0

// JobStore is the persistence interface for generation jobs.
type JobStore interface {
	Create(ctx context.Context, job *domain.GenerationJob) error
	GetByID(ctx context.Context, id string) (*domain.GenerationJob, error)
	MarkRunning(ctx context.Context, id string, step domain.Step) error
	MarkFailed(ctx context.Context, id, message string) error
	SetClientID(ctx context.Context, id, clientID string) error
	RecordStepSuccess(ctx context.Context, job *domain.GenerationJob) error
}

// ClientStore is the persistence interface for clients.
type ClientStore interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	SaveResearch(ctx context.Context, clientID string, research *domain.BusinessResearch, sourceContent map[string]string) error
	SaveBrandGuide(ctx context.Context, clientID string, guide json.RawMessage) error
}

// ClaimStore is the persistence interface for verified claims.
type ClaimStore interface {
	Insert(ctx context.Context, claim *domain.VerifiedClaim) error
	ListVerified(ctx context.Context, clientID string, limit int) ([]domain.VerifiedClaim, error)
}

// PageStore is the persistence interface for generated pages.
type PageStore interface {
	Insert(ctx context.Context, page *domain.GeneratedPage) error
	ListSlugsWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

// TemplateStore is the persistence interface for page templates.
type TemplateStore interface {
	GetByID(ctx context.Context, id string) (*domain.PageTemplate, error)
	IncrementUsage(ctx context.Context, id string) error
}

// SiteFetcher retrieves external web pages.
type SiteFetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Page, error)
}

// Deps bundles the service's collaborators.
type Deps struct {
	Jobs      JobStore
	Clients   ClientStore
	Claims    ClaimStore
	Pages     PageStore
	Templates TemplateStore
	Generator generator.Generator
	Fetcher   SiteFetcher
	Logger    logger.Logger
}

// Service runs the page generation pipeline.
type Service struct {
	jobs      JobStore
	clients   ClientStore
	claims    ClaimStore
	pages     PageStore
	templates TemplateStore
	generator generator.Generator
	fetcher   SiteFetcher
	logger    logger.Logger
}

// NewService creates a pipeline service.
func NewService(deps Deps) *Service {
	return &Service{
		jobs:      deps.Jobs,
		clients:   deps.Clients,
		claims:    deps.Claims,
		pages:     deps.Pages,
		templates: deps.Templates,
		generator: deps.Generator,
		fetcher:   deps.Fetcher,
		logger:    deps.Logger,
	}
}

// CreateJobRequest is the input for starting a new generation job.
type CreateJobRequest struct {
	ClientID       string `json:"client_id"`
	PageType       string `json:"page_type" binding:"required"`
	TemplateID     string `json:"template_id"`
	TargetAudience string `json:"target_audience"`
	OfferDetails   string `json:"offer_details"`
}

// CreateJobResponse is returned after a job is created.
type CreateJobResponse struct {
	Job           *domain.GenerationJob `json:"job"`
	NextStep      domain.Step           `json:"next_step"`
	PipelineSteps []domain.Step         `json:"pipeline_steps"`
}

// CreateJob validates references, picks the initial step and persists a new
// pending job. When the client already carries completed research, the
// pipeline starts at strategy instead of research.
func (s *Service) CreateJob(ctx context.Context, req *CreateJobRequest) (*CreateJobResponse, error) {
	if req.PageType == "" {
		return nil, fmt.Errorf("%w: page_type is required", ErrValidation)
	}

	initialStep := domain.StepResearch

	if req.ClientID != "" {
		client, loadErr := s.clients.GetByID(ctx, req.ClientID)
		if loadErr != nil {
			return nil, fmt.Errorf("load client %s: %w", req.ClientID, loadErr)
		}
		if client.ResearchStatus == domain.ResearchCompleted {
			initialStep = domain.StepStrategy
		}
	}

	if req.TemplateID != "" {
		if _, loadErr := s.templates.GetByID(ctx, req.TemplateID); loadErr != nil {
			return nil, fmt.Errorf("load template %s: %w", req.TemplateID, loadErr)
		}
	}

	job := &domain.GenerationJob{
		ID:             uuid.New().String(),
		ClientID:       req.ClientID,
		PageType:       req.PageType,
		TemplateID:     req.TemplateID,
		TargetAudience: req.TargetAudience,
		OfferDetails:   req.OfferDetails,
		Status:         domain.JobPending,
		CurrentStep:    initialStep,
		StepOutputs:    domain.NewStepOutputs(),
	}

	if createErr := s.jobs.Create(ctx, job); createErr != nil {
		return nil, fmt.Errorf("create job: %w", createErr)
	}

	s.logger.Info("Generation job created",
		logger.String("job_id", job.ID),
		logger.String("page_type", job.PageType),
		logger.String("initial_step", string(initialStep)),
	)

	return &CreateJobResponse{
		Job:           job,
		NextStep:      initialStep,
		PipelineSteps: domain.AllSteps(),
	}, nil
}

// AdvanceInput carries optional per-step overrides from the request body.
type AdvanceInput struct {
	// URL overrides the website to scrape for research and brand.
	URL string `json:"url"`
	// SkipClientCreate stops the research step from creating a client record
	// when the job has none.
	SkipClientCreate bool `json:"skip_client_create"`
	// Force allows re-running a step that already has output.
	Force bool `json:"force"`
}

// Progress describes how far through the pipeline a job is.
type Progress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// AdvanceResponse is returned after a step executes successfully.
type AdvanceResponse struct {
	Step       domain.Step `json:"step"`
	Result     any         `json:"result"`
	TokensUsed int         `json:"tokens_used"`
	DurationMS int64       `json:"duration_ms"`
	NextStep   domain.Step `json:"next_step,omitempty"`
	IsComplete bool        `json:"is_complete"`
	Progress   Progress    `json:"progress"`
}

// stepResult is what a step executor hands back to the orchestrator.
type stepResult struct {
	data       any
	tokensUsed int
	pageID     string
}

// Advance executes one named step of a job. The job is marked running for the
// duration; on success the step record, token total, cost, next step and
// status are committed in one transaction. On any error or panic a deferred
// finalizer marks the job failed, so a job can never be left in the running
// state without a recorded error.
func (s *Service) Advance(ctx context.Context, jobID string, step domain.Step, input *AdvanceInput) (resp *AdvanceResponse, retErr error) {
	if input == nil {
		input = &AdvanceInput{}
	}

	if !step.IsValid() {
		return nil, fmt.Errorf("%w: unknown step %q", ErrInvalidStep, step)
	}

	job, loadErr := s.jobs.GetByID(ctx, jobID)
	if loadErr != nil {
		return nil, fmt.Errorf("load job %s: %w", jobID, loadErr)
	}

	if job.Status.Terminal() {
		return nil, fmt.Errorf("%w: job %s is %s", ErrAlreadyTerminal, jobID, job.Status)
	}

	if job.StepOutputs[step] != nil && !input.Force {
		return nil, fmt.Errorf("%w: step %s already completed, set force to re-run", ErrInvalidStep, step)
	}

	if runErr := s.jobs.MarkRunning(ctx, job.ID, step); runErr != nil {
		return nil, fmt.Errorf("mark job running: %w", runErr)
	}

	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("step %s panicked: %v", step, r)
			resp = nil
		}
		if retErr != nil {
			s.failJob(ctx, job.ID, step, retErr)
		}
	}()

	start := time.Now()

	result, execErr := s.execute(ctx, job, step, input)
	if execErr != nil {
		return nil, fmt.Errorf("step %s: %w", step, execErr)
	}

	duration := time.Since(start)

	resultJSON, marshalErr := json.Marshal(result.data)
	if marshalErr != nil {
		return nil, fmt.Errorf("marshal step %s result: %w", step, marshalErr)
	}

	now := time.Now().UTC()
	job.StepOutputs[step] = &domain.StepRecord{
		Result:      resultJSON,
		TokensUsed:  result.tokensUsed,
		DurationMS:  duration.Milliseconds(),
		CompletedAt: now,
	}
	job.TokensUsed = job.StepOutputs.TotalTokens()
	job.EstimatedCost = estimateCost(job.TokensUsed)

	isComplete := step == domain.StepAssembly
	nextStep, _ := step.Successor()

	if isComplete {
		job.Status = domain.JobCompleted
		job.CurrentStep = step
		job.CompletedAt = &now
		job.PageID = result.pageID
	} else {
		job.Status = domain.JobPending
		job.CurrentStep = nextStep
	}

	if recordErr := s.jobs.RecordStepSuccess(ctx, job); recordErr != nil {
		return nil, fmt.Errorf("record step %s success: %w", step, recordErr)
	}

	s.logger.Info("Pipeline step completed",
		logger.String("job_id", job.ID),
		logger.String("step", string(step)),
		logger.Int("tokens_used", result.tokensUsed),
		logger.Duration("duration", duration),
	)

	return &AdvanceResponse{
		Step:       step,
		Result:     result.data,
		TokensUsed: result.tokensUsed,
		DurationMS: duration.Milliseconds(),
		NextStep:   nextStep,
		IsComplete: isComplete,
		Progress:   s.progress(job),
	}, nil
}

// StatusResponse reports a job's state and derived progress.
type StatusResponse struct {
	Job        *domain.GenerationJob `json:"job"`
	Progress   Progress              `json:"progress"`
	NextStep   domain.Step           `json:"next_step,omitempty"`
	IsComplete bool                  `json:"is_complete"`
}

// Status returns the job with derived progress. Progress is always computed
// from the step outputs, never stored.
func (s *Service) Status(ctx context.Context, jobID string) (*StatusResponse, error) {
	job, loadErr := s.jobs.GetByID(ctx, jobID)
	if loadErr != nil {
		return nil, fmt.Errorf("load job %s: %w", jobID, loadErr)
	}

	resp := &StatusResponse{
		Job:        job,
		Progress:   s.progress(job),
		IsComplete: job.Status == domain.JobCompleted,
	}
	// CurrentStep is moved to the successor when a step is recorded, so for a
	// live job it already names the next step to run.
	if !job.Status.Terminal() {
		resp.NextStep = job.CurrentStep
	}

	return resp, nil
}

func (s *Service) execute(ctx context.Context, job *domain.GenerationJob, step domain.Step, input *AdvanceInput) (*stepResult, error) {
	switch step {
	case domain.StepResearch:
		return s.runResearch(ctx, job, input)
	case domain.StepBrand:
		return s.runBrand(ctx, job, input)
	case domain.StepStrategy:
		return s.runStrategy(ctx, job)
	case domain.StepCopy:
		return s.runCopy(ctx, job)
	case domain.StepDesign:
		return s.runDesign(ctx, job)
	case domain.StepFactcheck:
		return s.runFactcheck(ctx, job)
	case domain.StepAssembly:
		return s.runAssembly(ctx, job)
	default:
		return nil, fmt.Errorf("%w: unknown step %q", ErrInvalidStep, step)
	}
}

// failJob records the error and marks the job failed. It runs on a detached
// context so a canceled request still leaves the job in a terminal state.
func (s *Service) failJob(ctx context.Context, jobID string, step domain.Step, cause error) {
	failCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	message := fmt.Sprintf("step %s failed: %v", step, cause)
	if markErr := s.jobs.MarkFailed(failCtx, jobID, message); markErr != nil {
		s.logger.Error("Failed to mark job as failed",
			logger.String("job_id", jobID),
			logger.Error(markErr),
		)
		return
	}

	s.logger.Warn("Pipeline step failed",
		logger.String("job_id", jobID),
		logger.String("step", string(step)),
		logger.Error(cause),
	)
}

func (s *Service) progress(job *domain.GenerationJob) Progress {
	completed := len(job.StepOutputs.CompletedSteps())
	total := len(domain.AllSteps())

	return Progress{
		Completed:  completed,
		Total:      total,
		Percentage: completed * 100 / total,
	}
}

// loadClient returns the job's client, or nil when the job has none yet.
func (s *Service) loadClient(ctx context.Context, job *domain.GenerationJob) (*domain.Client, error) {
	if job.ClientID == "" {
		return nil, nil
	}

	client, loadErr := s.clients.GetByID(ctx, job.ClientID)
	if loadErr != nil {
		if errors.Is(loadErr, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load client %s: %w", job.ClientID, loadErr)
	}
	return client, nil
}

// decodeRecord unmarshals a prior step's stored result into v. It reports
// false when the step has not run.
func decodeRecord(outputs domain.StepOutputs, step domain.Step, v any) (bool, error) {
	record := outputs[step]
	if record == nil || len(record.Result) == 0 {
		return false, nil
	}
	if unmarshalErr := json.Unmarshal(record.Result, v); unmarshalErr != nil {
		return false, fmt.Errorf("decode %s output: %w", step, unmarshalErr)
	}
	return true, nil
}

// decodeGeneratedObject extracts the first JSON object from generator text,
// degrading to a raw_response wrapper when nothing parses.
func decodeGeneratedObject(text string) json.RawMessage {
	if raw, ok := generator.ExtractJSONObject(text); ok {
		return raw
	}
	wrapped, _ := json.Marshal(map[string]string{"raw_response": text})
	return wrapped
}

func estimateCost(tokens int) float64 {
	return float64(tokens) / 1_000_000 * costPerMillionTokens
}
