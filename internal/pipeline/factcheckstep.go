package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/unicornmarketers/pageforge/internal/domain"
	"github.com/unicornmarketers/pageforge/internal/factcheck"
)

// factcheckResult is the persisted output of the factcheck step.
type factcheckResult struct {
	Report             factcheck.Report `json:"fact_check_report"`
	TotalClaimsChecked int              `json:"total_claims_checked"`
	VerifiedCount      int              `json:"verified_count"`
	NewlyVerifiedCount int              `json:"newly_verified_count"`
	FlaggedCount       int              `json:"flagged_count"`
	ChangesApplied     []string         `json:"changes_applied"`
	CleanedHTML        string           `json:"cleaned_html"`
	HTMLChanged        bool             `json:"html_changed"`
}

// runFactcheck verifies every claim in the designed HTML against the claim
// store and the client's scraped site content, redacts what cannot be
// supported, and promotes confident source-backed claims into the store. The
// step makes no generator calls and never fails on transient grounds.
func (s *Service) runFactcheck(ctx context.Context, job *domain.GenerationJob) (*stepResult, error) {
	var design designResult
	designRan, decodeErr := decodeRecord(job.StepOutputs, domain.StepDesign, &design)
	if decodeErr != nil {
		return nil, decodeErr
	}
	if !designRan {
		return nil, fmt.Errorf("%w: design has not produced HTML to fact-check", ErrInvalidStep)
	}

	var pageCopy copyResult
	if _, copyErr := decodeRecord(job.StepOutputs, domain.StepCopy, &pageCopy); copyErr != nil {
		return nil, copyErr
	}

	var stored []domain.VerifiedClaim
	var sourceText string

	if job.ClientID != "" {
		listed, listErr := s.claims.ListVerified(ctx, job.ClientID, 0)
		if listErr != nil {
			return nil, fmt.Errorf("list verified claims: %w", listErr)
		}
		stored = listed

		client, clientErr := s.loadClient(ctx, job)
		if clientErr != nil {
			return nil, clientErr
		}
		if client != nil {
			sourceText = flattenSourceContent(client.SourceContent)
		}
	}

	result := factcheck.Check(factcheck.Input{
		HTML:        design.HTML,
		CopyFlagged: pageCopy.UnverifiedClaims,
		Stored:      stored,
		SourceText:  sourceText,
	})

	if job.ClientID != "" {
		if promoteErr := s.promoteClaims(ctx, job.ClientID, result.Report); promoteErr != nil {
			return nil, promoteErr
		}
	}

	return &stepResult{
		data: factcheckResult{
			Report:             result.Report,
			TotalClaimsChecked: result.ClaimsChecked,
			VerifiedCount:      len(result.Report.Verified),
			NewlyVerifiedCount: len(result.Report.NewlyVerified),
			FlaggedCount:       len(result.Report.Flagged),
			ChangesApplied:     result.ChangesApplied,
			CleanedHTML:        result.CleanedHTML,
			HTMLChanged:        result.HTMLChanged,
		},
	}, nil
}

// promoteClaims writes source-backed claims above the confidence threshold
// into the verified claim store.
func (s *Service) promoteClaims(ctx context.Context, clientID string, report factcheck.Report) error {
	now := time.Now().UTC()

	for _, promoted := range factcheck.Promotable(report) {
		confidence := promoted.Confidence
		claim := &domain.VerifiedClaim{
			ClientID:           clientID,
			ClaimText:          promoted.Claim,
			ClaimType:          promoted.Type,
			SourceURL:          promoted.Source,
			VerificationStatus: domain.ClaimVerified,
			ConfidenceScore:    &confidence,
			VerifiedAt:         &now,
		}
		if insertErr := s.claims.Insert(ctx, claim); insertErr != nil {
			return fmt.Errorf("promote claim: %w", insertErr)
		}
	}

	return nil
}

func flattenSourceContent(sourceContent map[string]string) string {
	var combined strings.Builder
	for _, text := range sourceContent {
		combined.WriteString(text)
		combined.WriteString("\n")
	}
	return combined.String()
}
