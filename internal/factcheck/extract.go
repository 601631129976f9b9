package factcheck

import (
	"regexp"
	"strings"

	"github.com/unicornmarketers/pageforge/internal/domain"
)

const (
	minQuoteLen = 20
	maxQuoteLen = 300
)

// statPatterns match numeric marketing assertions: percentages, customer
// counts, dollar amounts, multipliers, rankings.
var statPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d+(?:\.\d+)?%\s+[^<.]+`),
	regexp.MustCompile(`(?i)\d+(?:,\d{3})*\+?\s+(?:customers?|users?|people|clients?|reviews?|sales?|orders?)`),
	regexp.MustCompile(`(?i)saved?\s+\$?\d+(?:,\d{3})*(?:\.\d{2})?`),
	regexp.MustCompile(`(?i)\d+x\s+[^<.]+`),
	regexp.MustCompile(`#\d+\s+[^<.]+`),
	regexp.MustCompile(`(?i)\$\d+(?:,\d{3})*(?:\.\d{2})?\s+(?:saved?|earned?|made|revenue|sales?)`),
}

// quotePatterns match quoted passages that might be testimonials.
var quotePatterns = []*regexp.Regexp{
	regexp.MustCompile(`"([^"]{20,300})"`),
	regexp.MustCompile(`'([^']{20,300})'`),
	regexp.MustCompile("“([^“”]{20,300})”"),
}

// testimonialMarkers distinguish a customer voice from ordinary quoted text.
var testimonialMarkers = []string{
	"i ", "my ", "we ", "our ", "best", "love", "recommend", "amazing",
	"great", "excellent", "changed", "helped",
}

// claimPatterns match superlative and endorsement language.
var claimPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)award[- ]?winning`),
	regexp.MustCompile(`(?i)#1\b`),
	regexp.MustCompile(`(?i)best[- ]?selling`),
	regexp.MustCompile(`(?i)top[- ]?rated`),
	regexp.MustCompile(`(?i)\bcertified\b`),
	regexp.MustCompile(`(?i)\bproven\b`),
	regexp.MustCompile(`(?i)as seen (?:on|in)\s+[^<.]+`),
	regexp.MustCompile(`(?i)featured (?:on|in|by)\s+[^<.]+`),
}

// ExtractClaims pulls statistics, testimonials, and superlative claims out of
// html. Duplicates are collapsed case-insensitively, first occurrence wins.
func ExtractClaims(html string) []Claim {
	var claims []Claim
	seen := make(map[string]bool)

	add := func(text string, claimType domain.ClaimType) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		key := strings.ToLower(text)
		if seen[key] {
			return
		}
		seen[key] = true
		claims = append(claims, Claim{Text: text, Type: claimType})
	}

	for _, pattern := range statPatterns {
		for _, match := range pattern.FindAllString(html, -1) {
			add(match, domain.ClaimStatistic)
		}
	}

	for _, pattern := range quotePatterns {
		for _, match := range pattern.FindAllStringSubmatch(html, -1) {
			quote := match[1]
			if looksLikeTestimonial(quote) {
				add(quote, domain.ClaimTestimonial)
			}
		}
	}

	for _, pattern := range claimPatterns {
		for _, match := range pattern.FindAllString(html, -1) {
			add(match, domain.ClaimGeneric)
		}
	}

	return claims
}

// looksLikeTestimonial filters quoted text down to plausible customer quotes.
// Markup and templating fragments get quoted too, so anything containing
// braces or tags is rejected outright.
func looksLikeTestimonial(quote string) bool {
	if len(quote) < minQuoteLen || len(quote) > maxQuoteLen {
		return false
	}
	if strings.ContainsAny(quote, "{<>}") {
		return false
	}

	lower := strings.ToLower(quote)
	for _, marker := range testimonialMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
