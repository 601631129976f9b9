//nolint:testpackage // Testing internal orchestration requires same package access
package pipeline

import (
	"context"
	"encoding/json"

	"github.com/unicornmarketers/pageforge/internal/database"
	"github.com/unicornmarketers/pageforge/internal/domain"
	"github.com/unicornmarketers/pageforge/internal/fetcher"
	"github.com/unicornmarketers/pageforge/internal/generator"
	"github.com/unicornmarketers/pageforge/internal/logger"
)

type mockJobStore struct {
	createFunc            func(ctx context.Context, job *domain.GenerationJob) error
	getByIDFunc           func(ctx context.Context, id string) (*domain.GenerationJob, error)
	markRunningFunc       func(ctx context.Context, id string, step domain.Step) error
	markFailedFunc        func(ctx context.Context, id, message string) error
	setClientIDFunc       func(ctx context.Context, id, clientID string) error
	recordStepSuccessFunc func(ctx context.Context, job *domain.GenerationJob) error
}

func (m *mockJobStore) Create(ctx context.Context, job *domain.GenerationJob) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, job)
	}
	return nil
}

func (m *mockJobStore) GetByID(ctx context.Context, id string) (*domain.GenerationJob, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, database.ErrNotFound
}

func (m *mockJobStore) MarkRunning(ctx context.Context, id string, step domain.Step) error {
	if m.markRunningFunc != nil {
		return m.markRunningFunc(ctx, id, step)
	}
	return nil
}

func (m *mockJobStore) MarkFailed(ctx context.Context, id, message string) error {
	if m.markFailedFunc != nil {
		return m.markFailedFunc(ctx, id, message)
	}
	return nil
}

func (m *mockJobStore) SetClientID(ctx context.Context, id, clientID string) error {
	if m.setClientIDFunc != nil {
		return m.setClientIDFunc(ctx, id, clientID)
	}
	return nil
}

func (m *mockJobStore) RecordStepSuccess(ctx context.Context, job *domain.GenerationJob) error {
	if m.recordStepSuccessFunc != nil {
		return m.recordStepSuccessFunc(ctx, job)
	}
	return nil
}

type mockClientStore struct {
	createFunc         func(ctx context.Context, client *domain.Client) error
	getByIDFunc        func(ctx context.Context, id string) (*domain.Client, error)
	saveResearchFunc   func(ctx context.Context, clientID string, research *domain.BusinessResearch, sourceContent map[string]string) error
	saveBrandGuideFunc func(ctx context.Context, clientID string, guide json.RawMessage) error
}

func (m *mockClientStore) Create(ctx context.Context, client *domain.Client) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, client)
	}
	if client.ID == "" {
		client.ID = "client-generated"
	}
	return nil
}

func (m *mockClientStore) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, database.ErrNotFound
}

func (m *mockClientStore) SaveResearch(ctx context.Context, clientID string, research *domain.BusinessResearch, sourceContent map[string]string) error {
	if m.saveResearchFunc != nil {
		return m.saveResearchFunc(ctx, clientID, research, sourceContent)
	}
	return nil
}

func (m *mockClientStore) SaveBrandGuide(ctx context.Context, clientID string, guide json.RawMessage) error {
	if m.saveBrandGuideFunc != nil {
		return m.saveBrandGuideFunc(ctx, clientID, guide)
	}
	return nil
}

type mockClaimStore struct {
	insertFunc       func(ctx context.Context, claim *domain.VerifiedClaim) error
	listVerifiedFunc func(ctx context.Context, clientID string, limit int) ([]domain.VerifiedClaim, error)
}

func (m *mockClaimStore) Insert(ctx context.Context, claim *domain.VerifiedClaim) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, claim)
	}
	return nil
}

func (m *mockClaimStore) ListVerified(ctx context.Context, clientID string, limit int) ([]domain.VerifiedClaim, error) {
	if m.listVerifiedFunc != nil {
		return m.listVerifiedFunc(ctx, clientID, limit)
	}
	return nil, nil
}

type mockPageStore struct {
	insertFunc              func(ctx context.Context, page *domain.GeneratedPage) error
	listSlugsWithPrefixFunc func(ctx context.Context, prefix string) ([]string, error)
}

func (m *mockPageStore) Insert(ctx context.Context, page *domain.GeneratedPage) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, page)
	}
	return nil
}

func (m *mockPageStore) ListSlugsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	if m.listSlugsWithPrefixFunc != nil {
		return m.listSlugsWithPrefixFunc(ctx, prefix)
	}
	return nil, nil
}

type mockTemplateStore struct {
	getByIDFunc        func(ctx context.Context, id string) (*domain.PageTemplate, error)
	incrementUsageFunc func(ctx context.Context, id string) error
}

func (m *mockTemplateStore) GetByID(ctx context.Context, id string) (*domain.PageTemplate, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, database.ErrNotFound
}

func (m *mockTemplateStore) IncrementUsage(ctx context.Context, id string) error {
	if m.incrementUsageFunc != nil {
		return m.incrementUsageFunc(ctx, id)
	}
	return nil
}

type mockGenerator struct {
	generateFunc func(ctx context.Context, prompt string, maxTokens int) (*generator.Result, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (*generator.Result, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, prompt, maxTokens)
	}
	return &generator.Result{Text: "{}", TokensUsed: 100}, nil
}

type mockFetcher struct {
	fetchFunc func(ctx context.Context, url string) (*fetcher.Page, error)
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (*fetcher.Page, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url)
	}
	return &fetcher.Page{URL: url, HTML: "<html><body></body></html>", Text: ""}, nil
}

type testDeps struct {
	jobs      *mockJobStore
	clients   *mockClientStore
	claims    *mockClaimStore
	pages     *mockPageStore
	templates *mockTemplateStore
	generator *mockGenerator
	fetcher   *mockFetcher
}

func newTestService() (*Service, *testDeps) {
	deps := &testDeps{
		jobs:      &mockJobStore{},
		clients:   &mockClientStore{},
		claims:    &mockClaimStore{},
		pages:     &mockPageStore{},
		templates: &mockTemplateStore{},
		generator: &mockGenerator{},
		fetcher:   &mockFetcher{},
	}

	svc := NewService(Deps{
		Jobs:      deps.jobs,
		Clients:   deps.clients,
		Claims:    deps.claims,
		Pages:     deps.pages,
		Templates: deps.templates,
		Generator: deps.generator,
		Fetcher:   deps.fetcher,
		Logger:    logger.NewNop(),
	})

	return svc, deps
}

func newTestJob(step domain.Step) *domain.GenerationJob {
	return &domain.GenerationJob{
		ID:          "job-1",
		PageType:    "advertorial",
		Status:      domain.JobPending,
		CurrentStep: step,
		StepOutputs: domain.NewStepOutputs(),
	}
}

func withRecord(job *domain.GenerationJob, step domain.Step, data any) *domain.GenerationJob {
	raw, marshalErr := json.Marshal(data)
	if marshalErr != nil {
		panic(marshalErr)
	}
	job.StepOutputs[step] = &domain.StepRecord{Result: raw, TokensUsed: 100}
	return job
}
