package factcheck

import "github.com/unicornmarketers/pageforge/internal/domain"

// PromotionThreshold is the minimum confidence at which a claim found in
// source content is written back into the verified claim store.
const PromotionThreshold = 0.7

// Input bundles everything a fact-check run needs.
type Input struct {
	// HTML is the generated page markup to check.
	HTML string
	// CopyFlagged lists claims the copy step itself marked as needing
	// verification. They are flagged unconditionally, without extraction.
	CopyFlagged []string
	// Stored holds the client's verified claims.
	Stored []domain.VerifiedClaim
	// SourceText is the concatenated scraped content of the client's site.
	SourceText string
}

// Result is the outcome of one fact-check run.
type Result struct {
	Report         Report
	CleanedHTML    string
	HTMLChanged    bool
	ChangesApplied []string
	ClaimsChecked  int
}

// Check runs the full fact-check pass: extract claims from the HTML, verify
// each one, redact what failed, and fold in claims the copy step pre-flagged.
func Check(input Input) Result {
	report := Report{
		Verified:      []VerifiedResult{},
		NewlyVerified: []NewlyVerifiedResult{},
		Flagged:       []FlaggedClaim{},
		Removed:       []string{},
	}

	claims := ExtractClaims(input.HTML)

	for _, claim := range claims {
		verification := Verify(claim, input.Stored, input.SourceText)

		switch verification.Status {
		case StatusVerified:
			report.Verified = append(report.Verified, VerifiedResult{
				Claim:  claim.Text,
				Type:   claim.Type,
				Source: verification.Source,
			})
		case StatusFoundInSource:
			report.NewlyVerified = append(report.NewlyVerified, NewlyVerifiedResult{
				Claim:      claim.Text,
				Type:       claim.Type,
				Source:     verification.Source,
				Confidence: verification.Confidence,
			})
		default:
			report.Flagged = append(report.Flagged, FlaggedClaim{
				Claim:      claim.Text,
				Type:       claim.Type,
				Reason:     verification.Reason,
				Suggestion: verification.Suggestion,
			})
		}
	}

	for _, flagged := range input.CopyFlagged {
		report.Flagged = append(report.Flagged, FlaggedClaim{
			Claim:      flagged,
			Type:       ClaimTypeCopyFlagged,
			Reason:     "flagged during copywriting as needing verification",
			Suggestion: "Verify with the client before publishing",
		})
	}

	cleaned, changes, removed := Redact(input.HTML, report.Flagged)
	report.Removed = append(report.Removed, removed...)
	if changes == nil {
		changes = []string{}
	}

	return Result{
		Report:         report,
		CleanedHTML:    cleaned,
		HTMLChanged:    cleaned != input.HTML,
		ChangesApplied: changes,
		ClaimsChecked:  len(claims) + len(input.CopyFlagged),
	}
}

// Promotable filters newly verified claims down to the ones confident enough
// to persist into the claim store.
func Promotable(report Report) []NewlyVerifiedResult {
	var promotable []NewlyVerifiedResult
	for _, claim := range report.NewlyVerified {
		if claim.Confidence > PromotionThreshold {
			promotable = append(promotable, claim)
		}
	}
	return promotable
}
