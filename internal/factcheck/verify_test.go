package factcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/unicornmarketers/pageforge/internal/domain"
)

func TestVerify_ExactStoreMatch(t *testing.T) {
	claim := Claim{Text: "10,000+ customers", Type: domain.ClaimStatistic}
	stored := []domain.VerifiedClaim{
		{ClaimText: "Trusted by 10,000+ customers worldwide", ClaimType: domain.ClaimStatistic, SourceURL: "https://acme.test/about"},
	}

	verification := Verify(claim, stored, "")

	assert.Equal(t, StatusVerified, verification.Status)
	assert.Equal(t, "https://acme.test/about", verification.Source)
	assert.Equal(t, exactMatchConfidence, verification.Confidence)
}

func TestVerify_StoreMatchWithoutSourceUsesLabel(t *testing.T) {
	claim := Claim{Text: "award-winning", Type: domain.ClaimGeneric}
	stored := []domain.VerifiedClaim{
		{ClaimText: "award-winning support team", ClaimType: domain.ClaimGeneric},
	}

	verification := Verify(claim, stored, "")

	assert.Equal(t, StatusVerified, verification.Status)
	assert.Equal(t, storeSourceLabel, verification.Source)
}

func TestVerify_NumericMatchRequiresSameType(t *testing.T) {
	claim := Claim{Text: "47% faster onboarding", Type: domain.ClaimStatistic}

	sameType := []domain.VerifiedClaim{
		{ClaimText: "onboarding improved by 47% in 2024", ClaimType: domain.ClaimStatistic},
	}
	verification := Verify(claim, sameType, "")
	assert.Equal(t, StatusVerified, verification.Status)
	assert.Equal(t, numericMatchConfidence, verification.Confidence)

	otherType := []domain.VerifiedClaim{
		{ClaimText: "onboarding improved by 47% in 2024", ClaimType: domain.ClaimTestimonial},
	}
	verification = Verify(claim, otherType, "")
	assert.Equal(t, StatusUnverified, verification.Status)
}

func TestVerify_NumericStoreMatchRequiresWholeToken(t *testing.T) {
	claim := Claim{Text: "10x growth guaranteed", Type: domain.ClaimStatistic}
	stored := []domain.VerifiedClaim{
		{ClaimText: "Trusted by over 100 companies", ClaimType: domain.ClaimStatistic},
	}

	verification := Verify(claim, stored, "")
	assert.Equal(t, StatusUnverified, verification.Status)

	stored = append(stored, domain.VerifiedClaim{
		ClaimText: "grew client revenue 10x over two years", ClaimType: domain.ClaimStatistic,
	})
	verification = Verify(claim, stored, "")
	assert.Equal(t, StatusVerified, verification.Status)
	assert.Equal(t, numericMatchConfidence, verification.Confidence)
}

func TestVerify_FoundInSourceText(t *testing.T) {
	claim := Claim{Text: "3x faster results", Type: domain.ClaimStatistic}

	verification := Verify(claim, nil, "Customers report 3x faster results after switching.")

	assert.Equal(t, StatusFoundInSource, verification.Status)
	assert.Equal(t, sourceTextConfidence, verification.Confidence)
}

func TestVerify_SourceNumberOnlyLowersConfidence(t *testing.T) {
	claim := Claim{Text: "3x faster onboarding", Type: domain.ClaimStatistic}

	verification := Verify(claim, nil, "We deliver results 3x quicker than the competition.")

	assert.Equal(t, StatusFoundInSource, verification.Status)
	assert.Equal(t, sourceNumberConfidence, verification.Confidence)
}

func TestVerify_UnverifiedSuggestions(t *testing.T) {
	tests := []struct {
		name      string
		claimType domain.ClaimType
		wantWord  string
	}{
		{name: "statistic", claimType: domain.ClaimStatistic, wantWord: "benefit-focused"},
		{name: "testimonial", claimType: domain.ClaimTestimonial, wantWord: "attribution"},
		{name: "generic claim", claimType: domain.ClaimGeneric, wantWord: "verify"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verification := Verify(Claim{Text: "unsupported assertion 999", Type: tt.claimType}, nil, "")

			assert.Equal(t, StatusUnverified, verification.Status)
			assert.Contains(t, verification.Suggestion, tt.wantWord)
			assert.NotEmpty(t, verification.Reason)
		})
	}
}
