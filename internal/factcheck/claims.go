// Package factcheck extracts factual claims from generated page artifacts,
// verifies them against the claim store and scraped source content, and
// redacts what cannot be supported. Everything in this package is pure and
// stateless: no network, no storage, no shared state.
package factcheck

import "github.com/unicornmarketers/pageforge/internal/domain"

// Claim is a factual assertion extracted from generated HTML.
type Claim struct {
	Text string           `json:"text"`
	Type domain.ClaimType `json:"type"`
}

// Status is the outcome class of verifying one claim.
type Status string

const (
	// StatusVerified means the claim matched the verified claim store.
	StatusVerified Status = "verified"
	// StatusFoundInSource means the claim appeared in scraped site content
	// and is a candidate for promotion into the claim store.
	StatusFoundInSource Status = "found_in_source"
	// StatusUnverified means no supporting evidence was found.
	StatusUnverified Status = "unverified"
)

// Verification is the result of checking a single claim.
type Verification struct {
	Status     Status
	Source     string
	Confidence float64
	Reason     string
	Suggestion string
}

// VerifiedResult is a claim confirmed against the claim store.
type VerifiedResult struct {
	Claim  string           `json:"claim"`
	Type   domain.ClaimType `json:"type"`
	Source string           `json:"source"`
}

// NewlyVerifiedResult is a claim found in scraped source content. The
// factcheck step persists these into the claim store when confidence clears
// the promotion threshold.
type NewlyVerifiedResult struct {
	Claim      string           `json:"claim"`
	Type       domain.ClaimType `json:"type"`
	Source     string           `json:"source"`
	Confidence float64          `json:"confidence"`
}

// FlaggedClaim is a claim with no supporting evidence, queued for redaction.
type FlaggedClaim struct {
	Claim      string           `json:"claim"`
	Type       domain.ClaimType `json:"type"`
	Reason     string           `json:"reason"`
	Suggestion string           `json:"suggestion"`
}

// Report is the full fact-check outcome for one artifact. It is always
// produced, even when zero claims were extracted.
type Report struct {
	Verified      []VerifiedResult      `json:"verified"`
	NewlyVerified []NewlyVerifiedResult `json:"newly_verified"`
	Flagged       []FlaggedClaim        `json:"flagged"`
	Removed       []string              `json:"removed"`
}

// ClaimTypeCopyFlagged marks claims the copy step itself tagged as needing
// verification; they bypass extraction and verification entirely.
const ClaimTypeCopyFlagged domain.ClaimType = "copy_flagged"
