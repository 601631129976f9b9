package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/unicornmarketers/pageforge/internal/domain"
)

const (
	strategyMaxTokens = 3000
	// maxStrategyClaims bounds the verified claims quoted in the strategy prompt.
	maxStrategyClaims = 20
)

// strategyResult is the persisted output of the strategy step.
type strategyResult struct {
	Strategy                json.RawMessage `json:"strategy"`
	SectionsPlanned         int             `json:"sections_planned"`
	VerifiedClaimsAvailable int             `json:"verified_claims_available"`
}

// runStrategy turns business research, the brand guide and the strongest
// verified claims into a messaging strategy document for the requested page
// type. When the job references a template, its section structure constrains
// the plan.
func (s *Service) runStrategy(ctx context.Context, job *domain.GenerationJob) (*stepResult, error) {
	client, clientErr := s.loadClient(ctx, job)
	if clientErr != nil {
		return nil, clientErr
	}

	research := s.researchContext(job, client)
	brandGuide := s.brandContext(job, client)

	var template *domain.PageTemplate
	if job.TemplateID != "" {
		loaded, loadErr := s.templates.GetByID(ctx, job.TemplateID)
		if loadErr != nil {
			return nil, fmt.Errorf("load template %s: %w", job.TemplateID, loadErr)
		}
		template = loaded
	}

	var claims []domain.VerifiedClaim
	if job.ClientID != "" {
		listed, listErr := s.claims.ListVerified(ctx, job.ClientID, maxStrategyClaims)
		if listErr != nil {
			return nil, fmt.Errorf("list verified claims: %w", listErr)
		}
		claims = listed
	}

	prompt := strategyPrompt(job, research, brandGuide, claims, template)

	generated, genErr := s.generator.Generate(ctx, prompt, strategyMaxTokens)
	if genErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, genErr)
	}

	strategy := decodeGeneratedObject(generated.Text)

	return &stepResult{
		data: strategyResult{
			Strategy:                strategy,
			SectionsPlanned:         countSections(strategy),
			VerifiedClaimsAvailable: len(claims),
		},
		tokensUsed: generated.TokensUsed,
	}, nil
}

// brandContext returns the best available brand guide: the brand step's
// output first, then what is stored on the client.
func (s *Service) brandContext(job *domain.GenerationJob, client *domain.Client) json.RawMessage {
	var result brandResult
	if ok, _ := decodeRecord(job.StepOutputs, domain.StepBrand, &result); ok && len(result.BrandGuide) > 0 {
		return result.BrandGuide
	}
	if client != nil && len(client.BrandGuide) > 0 {
		return client.BrandGuide
	}
	return nil
}

func countSections(doc json.RawMessage) int {
	var probe struct {
		Sections []json.RawMessage `json:"sections"`
	}
	if unmarshalErr := json.Unmarshal(doc, &probe); unmarshalErr != nil {
		return 0
	}
	return len(probe.Sections)
}
