package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/unicornmarketers/pageforge/internal/domain"
)

// Prompt builders for the generator-backed steps. Prompts demand a single
// JSON object (or raw HTML for design) so the defensive JSON extraction in
// the generator package can recover from chatty responses.

func researchPrompt(websiteContent, targetAudience, offerDetails string) string {
	var b strings.Builder

	b.WriteString("Analyze this business website content and extract structured information.\n\n")
	b.WriteString("WEBSITE CONTENT:\n")
	b.WriteString(websiteContent)
	b.WriteString("\n\n")

	if targetAudience != "" {
		fmt.Fprintf(&b, "TARGET AUDIENCE HINT: %s\n", targetAudience)
	}
	if offerDetails != "" {
		fmt.Fprintf(&b, "OFFER DETAILS HINT: %s\n", offerDetails)
	}

	b.WriteString(`
Extract and return a JSON object with this structure:
{
  "company_name": "string",
  "industry": "string (e.g., health, beauty, finance, tech, ecommerce)",
  "tagline": "string or null",
  "value_propositions": ["list of key value props"],
  "products": [
    {"name": "string", "description": "string", "price": "string or null", "key_features": ["list"], "benefits": ["list"]}
  ],
  "target_audiences": [
    {"segment": "string", "pain_points": ["list"], "desires": ["list"]}
  ],
  "testimonials": [
    {"quote": "exact quote", "author": "name", "role_or_context": "string or null", "source_url": "url where found"}
  ],
  "statistics": [
    {"claim": "the statistic or number", "context": "what it refers to", "source_url": "url where found"}
  ],
  "trust_signals": ["awards, certifications, media mentions, etc."],
  "brand_voice": "description of writing style and tone",
  "unique_differentiators": ["what sets them apart"]
}

Return ONLY valid JSON.`)

	return b.String()
}

func brandPrompt(css cssData, htmlSample string, research *domain.BusinessResearch) string {
	cssJSON, _ := json.MarshalIndent(css, "", "  ")

	var b strings.Builder

	b.WriteString("Analyze this website's HTML and CSS to create a precise brand style guide.\n\n")
	fmt.Fprintf(&b, "EXTRACTED CSS DATA:\n%s\n\n", cssJSON)
	fmt.Fprintf(&b, "HTML SAMPLE:\n%s\n\n", htmlSample)
	b.WriteString("BUSINESS CONTEXT:\n")
	fmt.Fprintf(&b, "Company: %s\n", orUnknown(research.CompanyName))
	fmt.Fprintf(&b, "Industry: %s\n", orUnknown(research.Industry))
	fmt.Fprintf(&b, "Brand Voice: %s\n", orUnknown(research.BrandVoice))

	b.WriteString(`
Create a comprehensive brand style guide as a JSON object with these keys:
- "colors": primary, secondary, accent, background, text, text_muted, success, error (hex codes)
- "typography": heading_font, body_font, font_weights, font_sizes, line_heights
- "spacing": border_radius, spacing_unit, max_width, section_padding
- "buttons": primary and secondary button styles (background, text, border_radius, padding, font_weight)
- "cards": background, border, border_radius, shadow
- "brand_voice": tone, style, keywords

Be PRECISE with hex codes - extract them from the actual CSS when possible.
If you can't determine a value, use industry-standard defaults.
Return ONLY valid JSON.`)

	return b.String()
}

func strategyPrompt(
	job *domain.GenerationJob,
	research *domain.BusinessResearch,
	brandGuide json.RawMessage,
	claims []domain.VerifiedClaim,
	template *domain.PageTemplate,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a detailed page strategy for a %s landing page.\n\n", job.PageType)

	b.WriteString("BUSINESS RESEARCH:\n")
	fmt.Fprintf(&b, "Company: %s\n", orUnknown(research.CompanyName))
	fmt.Fprintf(&b, "Industry: %s\n", orUnknown(research.Industry))
	fmt.Fprintf(&b, "Value Props: %s\n", marshalList(research.ValuePropositions))
	fmt.Fprintf(&b, "Products: %s\n", marshalAny(firstN(research.Products, 3)))
	fmt.Fprintf(&b, "Target Audiences: %s\n", marshalAny(research.TargetAudiences))
	fmt.Fprintf(&b, "Unique Differentiators: %s\n", marshalList(research.Differentiators))
	fmt.Fprintf(&b, "Brand Voice: %s\n", orUnknown(research.BrandVoice))

	if len(brandGuide) > 0 {
		fmt.Fprintf(&b, "\nBRAND GUIDE:\n%s\n", brandGuide)
	}
	if job.TargetAudience != "" {
		fmt.Fprintf(&b, "\nSPECIFIC TARGET AUDIENCE: %s\n", job.TargetAudience)
	}
	if job.OfferDetails != "" {
		fmt.Fprintf(&b, "OFFER DETAILS: %s\n", job.OfferDetails)
	}

	b.WriteString("\nVERIFIED CLAIMS AVAILABLE (use these, don't make up statistics):\n")
	b.WriteString(claimsList(claims))

	b.WriteString("\nTESTIMONIALS AVAILABLE:\n")
	b.WriteString(testimonialsList(firstN(research.Testimonials, 3)))

	if template != nil && len(template.SectionStructure) > 0 {
		fmt.Fprintf(&b, "\nTEMPLATE STRUCTURE TO FOLLOW:\n%s\n", template.SectionStructure)
	}

	fmt.Fprintf(&b, "\nPAGE TYPE REQUIREMENTS:\n%s\n", pageTypeRequirements(job.PageType))

	b.WriteString(`
Create a comprehensive strategy document as a JSON object with these keys:
- "page_goal": the primary conversion goal
- "target_persona": description, pain_points, desires, objections
- "hook": headline, subheadline, angle (the psychological angle)
- "sections": array of {name, purpose, key_message, elements, claims_to_use}
- "cta_strategy": primary_cta, secondary_cta, cta_placement, urgency_element
- "objection_handling": array of {objection, counter, where}
- "social_proof_strategy": testimonials_to_highlight, trust_signals, placement
- "tone_guidelines": voice, words_to_use, words_to_avoid

Return ONLY valid JSON.`)

	return b.String()
}

func copyPrompt(
	job *domain.GenerationJob,
	research *domain.BusinessResearch,
	brandGuide json.RawMessage,
	strategy json.RawMessage,
	claims []domain.VerifiedClaim,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write compelling copy for a %s landing page following this strategy.\n\n", job.PageType)

	fmt.Fprintf(&b, "STRATEGY DOCUMENT:\n%s\n\n", orEmptyObject(strategy))

	b.WriteString("BUSINESS INFORMATION:\n")
	fmt.Fprintf(&b, "Company: %s\n", orUnknown(research.CompanyName))
	fmt.Fprintf(&b, "Products: %s\n", marshalAny(firstN(research.Products, 2)))
	fmt.Fprintf(&b, "Value Props: %s\n", marshalList(research.ValuePropositions))

	if len(brandGuide) > 0 {
		fmt.Fprintf(&b, "\nBRAND GUIDE:\n%s\n", brandGuide)
	}

	b.WriteString("\nVERIFIED CLAIMS (ONLY use these - do not invent statistics or quotes):\n")
	if len(claims) == 0 {
		b.WriteString("IMPORTANT: No verified claims available. Do NOT include any statistics, percentages, or specific numbers. Do NOT invent testimonial quotes.\n")
	} else {
		b.WriteString(claimsList(claims))
	}

	b.WriteString("\nVERIFIED TESTIMONIALS:\n")
	if len(research.Testimonials) == 0 {
		b.WriteString("No verified testimonials - do not invent quotes\n")
	} else {
		b.WriteString(testimonialsList(research.Testimonials))
	}

	b.WriteString(`
CRITICAL RULES:
1. NEVER invent statistics, percentages, or numbers that aren't in the verified claims
2. NEVER create fake testimonial quotes
3. If you need a statistic that isn't verified, mark it as [NEEDS VERIFICATION: describe what stat would go here]
4. Use benefit-focused language instead of unverified claims
5. Write in the brand voice consistently

Write the complete copy as a JSON object with these keys:
- "meta": {"title": "SEO page title (60 chars max)", "description": "Meta description (160 chars max)"}
- "hero": headline, subheadline, cta_text, cta_subtext
- "sections": array of {id, type, headline, subheadline, content, items, cta, testimonials}
- "footer_cta": headline, subheadline, cta_text
- "unverified_claims": list any claims marked as NEEDS VERIFICATION
`)

	fmt.Fprintf(&b, "\n%s\n", pageTypeCopyGuidelines(job.PageType))
	b.WriteString("\nReturn ONLY valid JSON.")

	return b.String()
}

func designPrompt(
	job *domain.GenerationJob,
	research *domain.BusinessResearch,
	brandGuide json.RawMessage,
	strategy json.RawMessage,
	pageCopy json.RawMessage,
	template *domain.PageTemplate,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a stunning, conversion-optimized %s landing page using this copy and brand guide.\n\n", job.PageType)

	fmt.Fprintf(&b, "BRAND STYLE GUIDE:\n%s\n\n", orEmptyObject(brandGuide))
	fmt.Fprintf(&b, "PAGE COPY:\n%s\n\n", orEmptyObject(pageCopy))
	fmt.Fprintf(&b, "STRATEGY CONTEXT:\n%s\n\n", orEmptyObject(strategy))
	fmt.Fprintf(&b, "COMPANY: %s\n", orUnknown(research.CompanyName))

	if template != nil {
		if template.HTMLSkeleton != "" {
			fmt.Fprintf(&b, "\nBASE TEMPLATE HTML (adapt this structure):\n%s\n", template.HTMLSkeleton)
		}
		if template.CSSBase != "" {
			fmt.Fprintf(&b, "\nBASE TEMPLATE CSS (extend this):\n%s\n", template.CSSBase)
		}
	}

	b.WriteString(`
DESIGN REQUIREMENTS:
1. Apply EXACT brand colors from the style guide
2. Use specified fonts with proper weights
3. Follow spacing guidelines (border-radius, padding, max-width)
4. Button styles must match brand guide exactly
5. Mobile-responsive (use CSS Grid/Flexbox)
6. Smooth scroll behavior
7. Accessible (proper contrast, alt tags)
`)

	fmt.Fprintf(&b, "\n%s\n", pageTypeDesignGuidelines(job.PageType))

	fmt.Fprintf(&b, `
Generate a complete, production-ready HTML page with embedded CSS.

Structure:
- <!DOCTYPE html> with proper meta tags
- <style> block with all CSS (no external stylesheets)
- Semantic HTML structure
- Form with action="%s" method="POST"
- Include hidden input: <input type="hidden" name="page_id" value="%s">

Return ONLY the complete HTML code, no markdown code blocks or explanations.`, trackingEndpoint, PageIDPlaceholder)

	return b.String()
}

func claimsList(claims []domain.VerifiedClaim) string {
	if len(claims) == 0 {
		return "No verified claims available - avoid statistics\n"
	}

	var b strings.Builder
	for _, claim := range claims {
		fmt.Fprintf(&b, "- [%s] %s\n", claim.ClaimType, claim.ClaimText)
	}
	return b.String()
}

func testimonialsList(testimonials []domain.Testimonial) string {
	if len(testimonials) == 0 {
		return "None\n"
	}

	var b strings.Builder
	for _, testimonial := range testimonials {
		fmt.Fprintf(&b, "- %q - %s\n", testimonial.Quote, testimonial.Author)
	}
	return b.String()
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func marshalList(items []string) string {
	return marshalAny(items)
}

func marshalAny(v any) string {
	out, marshalErr := json.Marshal(v)
	if marshalErr != nil || string(out) == "null" {
		return "[]"
	}
	return string(out)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func orEmptyObject(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}

func pageTypeRequirements(pageType string) string {
	requirements := map[string]string{
		"advertorial": `ADVERTORIAL REQUIREMENTS:
- Must read like editorial content, not an ad
- Use a story/discovery narrative structure
- Include "expert" or "journalist" voice
- Problem, discovery, solution, results flow
- Native ad styling (looks like news article)
- Social proof interwoven throughout
- Soft CTAs building to harder CTA at end
- 1500-2500 words typical length`,

		"listicle": `LISTICLE REQUIREMENTS:
- Numbered list format (5-10 items)
- Each item has hook headline + explanation
- Mix of tips, with product as one item (native integration)
- Engaging subheadings for each item
- Easy to scan/skim
- CTA after revealing product item
- 800-1500 words typical length`,

		"quiz": `QUIZ REQUIREMENTS:
- 5-10 engaging questions
- Questions reveal pain points and desires
- Personalized result based on answers
- Result leads to product recommendation
- Email capture before/after results
- Share-worthy results
- Mobile-optimized question flow`,

		"vip": `VIP PAGE REQUIREMENTS:
- Exclusive/luxury feel
- Limited availability messaging
- Premium benefits highlighted
- Social proof from similar customers
- Clear value proposition for "elite" offer
- Urgency elements (limited spots, deadline)
- Single focused CTA
- 500-1000 words typical length`,

		"calculator": `CALCULATOR REQUIREMENTS:
- Interactive input fields
- Real-time calculation display
- Personalized results based on inputs
- Before/after or savings comparison
- Visual representation of results
- CTA based on calculated value
- Mobile-friendly inputs`,
	}

	if req, ok := requirements[pageType]; ok {
		return req
	}
	return requirements["advertorial"]
}

func pageTypeCopyGuidelines(pageType string) string {
	guidelines := map[string]string{
		"advertorial": `ADVERTORIAL COPY GUIDELINES:
- Write in third-person journalistic style
- Start with a compelling story or hook
- Build credibility with expert positioning
- Weave product naturally into the narrative
- Include "discovery" moment
- Build to emotional climax
- End with soft-then-hard CTA sequence
- 1500-2500 words total`,

		"listicle": `LISTICLE COPY GUIDELINES:
- Create curiosity-inducing numbered headlines
- Each item should stand alone but build momentum
- Mix of actionable tips and insights
- Product appears naturally as one item (not first or last)
- Conversational, helpful tone
- Quick wins early, bigger value later
- 100-200 words per item`,

		"quiz": `QUIZ COPY GUIDELINES:
- Questions should feel insightful, not salesy
- Use "you" language throughout
- Questions reveal pain points subtly
- Result copy should feel personalized
- Include share-worthy insights
- Result leads naturally to product fit
- Keep questions concise (under 100 chars)`,

		"vip": `VIP COPY GUIDELINES:
- Exclusive, premium language
- "You've been selected" framing
- Emphasize scarcity and urgency
- Highlight VIP-only benefits
- Use aspirational language
- Social proof from similar successful people
- Single, clear value proposition
- 500-800 words total`,

		"calculator": `CALCULATOR COPY GUIDELINES:
- Clear input field labels
- Helpful placeholder text
- Results framed as savings/gains
- Before/after comparison language
- Personalized recommendation copy
- Clear next step CTA
- Mobile-friendly short labels`,
	}

	if guide, ok := guidelines[pageType]; ok {
		return guide
	}
	return guidelines["advertorial"]
}

func pageTypeDesignGuidelines(pageType string) string {
	guidelines := map[string]string{
		"advertorial": `ADVERTORIAL DESIGN GUIDELINES:
- News/editorial layout (clean, readable)
- Large feature image at top
- Narrow content column (max 700px) for readability
- Pull quotes styled prominently
- Expert/author byline with photo
- Native ad disclosure at top
- Sticky CTA that appears after scrolling`,

		"listicle": `LISTICLE DESIGN GUIDELINES:
- Clear numbered sections with visual dividers
- Eye-catching number graphics
- Card-based layout for each item
- Alternating image positions
- Quick-scan headlines
- Inline CTAs after key items
- Mobile: stack vertically`,

		"quiz": `QUIZ DESIGN GUIDELINES:
- Full-width question cards
- Large, tappable answer buttons
- Progress bar showing question number
- Results page with visual scoring
- Email capture form before/after results
- Single question per screen on mobile`,

		"vip": `VIP PAGE DESIGN GUIDELINES:
- Premium, luxurious feel (subtle gradients, gold accents)
- Large hero with exclusive messaging
- Limited spots counter/indicator
- VIP benefits in elegant grid
- Urgency elements (countdown timer styling)
- Single prominent CTA
- Dark or sophisticated color scheme option`,

		"calculator": `CALCULATOR DESIGN GUIDELINES:
- Clean input form design
- Sliders or number inputs
- Real-time calculation display
- Before/after comparison visual
- Results prominently displayed
- Savings highlighted with color
- CTA based on calculated result
- Clear reset/recalculate option`,
	}

	if guide, ok := guidelines[pageType]; ok {
		return guide
	}
	return guidelines["advertorial"]
}
