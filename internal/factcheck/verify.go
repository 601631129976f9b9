package factcheck

import (
	"regexp"
	"strings"

	"github.com/unicornmarketers/pageforge/internal/domain"
)

const (
	exactMatchConfidence   = 0.9
	numericMatchConfidence = 0.8
	sourceTextConfidence   = 0.8
	sourceNumberConfidence = 0.6

	storeSourceLabel = "verified claims database"
)

var numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

// Verify checks one extracted claim against the stored verified claims and
// the concatenated scraped source text. Match tiers, strongest first: text
// containment against the store, shared numbers with a same-type stored
// claim, text containment in source content, shared numbers with source
// content. Anything below that is unverified.
func Verify(claim Claim, stored []domain.VerifiedClaim, sourceText string) Verification {
	claimLower := strings.ToLower(claim.Text)

	for _, entry := range stored {
		storedLower := strings.ToLower(entry.ClaimText)
		if strings.Contains(storedLower, claimLower) || strings.Contains(claimLower, storedLower) {
			return Verification{
				Status:     StatusVerified,
				Source:     storedSource(entry),
				Confidence: exactMatchConfidence,
			}
		}
	}

	claimNumbers := numberPattern.FindAllString(claimLower, -1)
	if len(claimNumbers) > 0 {
		for _, entry := range stored {
			if entry.ClaimType != claim.Type {
				continue
			}
			storedNumbers := numberPattern.FindAllString(strings.ToLower(entry.ClaimText), -1)
			if sharesNumberToken(claimNumbers, storedNumbers) {
				return Verification{
					Status:     StatusVerified,
					Source:     storedSource(entry),
					Confidence: numericMatchConfidence,
				}
			}
		}
	}

	sourceLower := strings.ToLower(sourceText)
	if sourceLower != "" {
		if strings.Contains(sourceLower, claimLower) {
			return Verification{
				Status:     StatusFoundInSource,
				Source:     "client website content",
				Confidence: sourceTextConfidence,
			}
		}
		if sharesNumber(claimNumbers, sourceLower) {
			return Verification{
				Status:     StatusFoundInSource,
				Source:     "client website content",
				Confidence: sourceNumberConfidence,
			}
		}
	}

	return Verification{
		Status:     StatusUnverified,
		Reason:     "no supporting evidence in verified claims or site content",
		Suggestion: suggestionFor(claim.Type),
	}
}

func storedSource(entry domain.VerifiedClaim) string {
	if entry.SourceURL != "" {
		return entry.SourceURL
	}
	return storeSourceLabel
}

// sharesNumberToken requires whole-token equality so "10" never matches the
// "100" inside a stored claim. Source content uses looser containment.
func sharesNumberToken(claimNumbers, storedNumbers []string) bool {
	for _, number := range claimNumbers {
		for _, storedNumber := range storedNumbers {
			if number == storedNumber {
				return true
			}
		}
	}
	return false
}

func sharesNumber(numbers []string, haystack string) bool {
	for _, number := range numbers {
		if strings.Contains(haystack, number) {
			return true
		}
	}
	return false
}

func suggestionFor(claimType domain.ClaimType) string {
	switch claimType {
	case domain.ClaimStatistic:
		return "Replace with benefit-focused language or obtain the verified number from the client"
	case domain.ClaimTestimonial:
		return "Use only testimonials the client has provided with attribution"
	default:
		return "Remove the claim or have the client verify it"
	}
}
