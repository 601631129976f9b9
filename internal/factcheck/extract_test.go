package factcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unicornmarketers/pageforge/internal/domain"
)

func TestExtractClaims_Statistics(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "percentage",
			html: "<p>Our clients see 47% faster onboarding with us</p>",
			want: "47% faster onboarding with us",
		},
		{
			name: "customer count",
			html: "<h2>Trusted by 10,000+ customers</h2>",
			want: "10,000+ customers",
		},
		{
			name: "savings amount",
			html: "<p>Teams saved $4,500 on average last year.</p>",
			want: "saved $4,500",
		},
		{
			name: "multiplier",
			html: "<p>Get 3x faster results than manual work</p>",
			want: "3x faster results than manual work",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := ExtractClaims(tt.html)

			require.NotEmpty(t, claims)
			assert.Equal(t, tt.want, claims[0].Text)
			assert.Equal(t, domain.ClaimStatistic, claims[0].Type)
		})
	}
}

func TestExtractClaims_Testimonials(t *testing.T) {
	html := `<blockquote>"I love this product and recommend it to everyone"</blockquote>`

	claims := ExtractClaims(html)

	require.Len(t, claims, 1)
	assert.Equal(t, "I love this product and recommend it to everyone", claims[0].Text)
	assert.Equal(t, domain.ClaimTestimonial, claims[0].Type)
}

func TestExtractClaims_QuoteWithoutTestimonialMarkersIgnored(t *testing.T) {
	html := `<p>"the quick brown fox jumped over the hedge"</p>`

	assert.Empty(t, ExtractClaims(html))
}

func TestExtractClaims_QuotedMarkupIgnored(t *testing.T) {
	html := `<script>var s = "we parse {json} with love in here";</script>`

	assert.Empty(t, ExtractClaims(html))
}

func TestExtractClaims_Superlatives(t *testing.T) {
	html := "<p>An award-winning, top-rated platform featured in TechCrunch</p>"

	claims := ExtractClaims(html)

	var texts []string
	for _, claim := range claims {
		assert.Equal(t, domain.ClaimGeneric, claim.Type)
		texts = append(texts, claim.Text)
	}
	assert.Contains(t, texts, "award-winning")
	assert.Contains(t, texts, "top-rated")
}

func TestExtractClaims_DeduplicatesCaseInsensitively(t *testing.T) {
	html := "<p>Award-Winning service.</p><p>award-winning service.</p>"

	claims := ExtractClaims(html)

	require.Len(t, claims, 1)
	assert.Equal(t, "Award-Winning", claims[0].Text)
}

func TestExtractClaims_EmptyHTML(t *testing.T) {
	assert.Empty(t, ExtractClaims(""))
}
