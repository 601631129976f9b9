package factcheck

import (
	"regexp"
	"strings"

	"github.com/unicornmarketers/pageforge/internal/domain"
)

// Redaction markers left in the HTML for unverified claims. The assembly
// step strips them (and any element left empty by the removal) before the
// page is persisted.
const (
	StatRemovedMarker        = "[STAT REMOVED - UNVERIFIED]"
	TestimonialRemovedMarker = "[TESTIMONIAL REMOVED - UNVERIFIED]"
)

// Redact replaces every flagged claim in html with a removal marker and
// returns the cleaned HTML, a human-readable change log and the claims that
// were actually substituted. Statistics and generic claims are replaced in
// place; testimonials are removed together with their surrounding quote
// characters. Flagged claims not present in the markup (copy-flagged items
// usually are not) produce no change-log or removal entry.
func Redact(html string, flagged []FlaggedClaim) (string, []string, []string) {
	var changes []string
	var removed []string

	for _, claim := range flagged {
		quoted := regexp.QuoteMeta(claim.Claim)

		var pattern *regexp.Regexp
		var marker string
		if claim.Type == domain.ClaimTestimonial {
			pattern = regexp.MustCompile(`["'“”]` + quoted + `["'“”]`)
			marker = TestimonialRemovedMarker
		} else {
			pattern = regexp.MustCompile(`(?i)` + quoted)
			marker = StatRemovedMarker
		}

		cleaned := pattern.ReplaceAllString(html, marker)
		if cleaned != html {
			html = cleaned
			changes = append(changes, "removed unverified "+string(claim.Type)+": "+truncateClaim(claim.Claim))
			removed = append(removed, claim.Claim)
		}
	}

	return html, changes, removed
}

// StripMarkers removes redaction markers from html, used by assembly after
// the report has been recorded.
func StripMarkers(html string) string {
	html = strings.ReplaceAll(html, StatRemovedMarker, "")
	html = strings.ReplaceAll(html, TestimonialRemovedMarker, "")
	return html
}

func truncateClaim(claim string) string {
	const max = 60
	if len(claim) <= max {
		return claim
	}
	return claim[:max] + "..."
}
