package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/unicornmarketers/pageforge/internal/domain"
)

const copyMaxTokens = 6000

// copyResult is the persisted output of the copy step.
type copyResult struct {
	Copy             json.RawMessage `json:"copy"`
	SectionsWritten  int             `json:"sections_written"`
	UnverifiedClaims []string        `json:"unverified_claims"`
	NeedsFactCheck   bool            `json:"needs_fact_check"`
}

// runCopy writes the full page copy from the strategy document under a strict
// no-fabrication rule: only verified claims and testimonials may be quoted,
// and anything the generator wants but cannot support is surfaced in
// unverified_claims for the factcheck step.
func (s *Service) runCopy(ctx context.Context, job *domain.GenerationJob) (*stepResult, error) {
	client, clientErr := s.loadClient(ctx, job)
	if clientErr != nil {
		return nil, clientErr
	}

	research := s.researchContext(job, client)
	brandGuide := s.brandContext(job, client)
	strategy := s.strategyContext(job)

	var claims []domain.VerifiedClaim
	if job.ClientID != "" {
		listed, listErr := s.claims.ListVerified(ctx, job.ClientID, 0)
		if listErr != nil {
			return nil, fmt.Errorf("list verified claims: %w", listErr)
		}
		claims = listed
	}

	prompt := copyPrompt(job, research, brandGuide, strategy, claims)

	generated, genErr := s.generator.Generate(ctx, prompt, copyMaxTokens)
	if genErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, genErr)
	}

	pageCopy := decodeGeneratedObject(generated.Text)

	var probe struct {
		Sections         []json.RawMessage `json:"sections"`
		UnverifiedClaims []string          `json:"unverified_claims"`
	}
	// Best effort: a raw_response fallback simply has no sections.
	_ = json.Unmarshal(pageCopy, &probe)

	unverified := probe.UnverifiedClaims
	if unverified == nil {
		unverified = []string{}
	}

	return &stepResult{
		data: copyResult{
			Copy:             pageCopy,
			SectionsWritten:  len(probe.Sections),
			UnverifiedClaims: unverified,
			NeedsFactCheck:   len(unverified) > 0,
		},
		tokensUsed: generated.TokensUsed,
	}, nil
}

// strategyContext returns the strategy step's document, or nil when strategy
// has not run.
func (s *Service) strategyContext(job *domain.GenerationJob) json.RawMessage {
	var result strategyResult
	if ok, _ := decodeRecord(job.StepOutputs, domain.StepStrategy, &result); ok {
		return result.Strategy
	}
	return nil
}
