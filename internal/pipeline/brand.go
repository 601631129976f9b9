package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/unicornmarketers/pageforge/internal/domain"
	"github.com/unicornmarketers/pageforge/internal/generator"
	"github.com/unicornmarketers/pageforge/internal/logger"
)

const (
	brandMaxTokens = 2000
	// maxBrandHTMLSample bounds the raw HTML handed to the generator.
	maxBrandHTMLSample = 15000

	maxCSSColors = 50
	maxCSSFonts  = 10
)

var (
	cssVarPattern = regexp.MustCompile(`--([a-zA-Z0-9-]+)\s*:\s*([^;]+)`)
	colorPattern  = regexp.MustCompile(`#[0-9a-fA-F]{3,8}\b|rgba?\([^)]+\)|hsla?\([^)]+\)`)
	fontPattern   = regexp.MustCompile(`(?i)font-family\s*:\s*([^;}"]+)`)
)

// cssData is the mechanically extracted styling evidence fed to the generator
// alongside the raw HTML.
type cssData struct {
	Variables map[string]string `json:"variables"`
	Colors    []string          `json:"colors"`
	Fonts     []string          `json:"fonts"`
}

// brandResult is the persisted output of the brand step.
type brandResult struct {
	BrandGuide        json.RawMessage `json:"brand_guide"`
	CSSVariablesFound int             `json:"css_variables_found"`
	FontsFound        int             `json:"fonts_found"`
}

// runBrand fetches the client site, pulls styling evidence out of the raw
// HTML with regexes, and has the generator synthesize a structured brand
// guide, which is stored on the client. A failed fetch is non-fatal: the
// generator falls back to business context and industry defaults.
func (s *Service) runBrand(ctx context.Context, job *domain.GenerationJob, input *AdvanceInput) (*stepResult, error) {
	client, clientErr := s.loadClient(ctx, job)
	if clientErr != nil {
		return nil, clientErr
	}

	url := resolveResearchURL(input.URL, client, job.OfferDetails)
	if url == "" {
		return nil, fmt.Errorf("%w: website URL is required for brand extraction", ErrValidation)
	}

	research := s.researchContext(job, client)

	var pageHTML string
	css := cssData{Variables: map[string]string{}, Colors: []string{}, Fonts: []string{}}

	page, fetchErr := s.fetcher.Fetch(ctx, url)
	if fetchErr != nil {
		s.logger.Warn("Brand extraction proceeding without site HTML",
			logger.String("url", url),
			logger.Error(fetchErr),
		)
	} else {
		pageHTML = page.HTML
		css = extractCSS(pageHTML)
	}

	prompt := brandPrompt(css, truncate(pageHTML, maxBrandHTMLSample), research)

	generated, genErr := s.generator.Generate(ctx, prompt, brandMaxTokens)
	if genErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, genErr)
	}

	guide, ok := generator.ExtractJSONObject(generated.Text)
	if !ok {
		guide = defaultBrandGuide()
	}

	if client != nil {
		if saveErr := s.clients.SaveBrandGuide(ctx, client.ID, guide); saveErr != nil {
			return nil, fmt.Errorf("save brand guide: %w", saveErr)
		}
	}

	return &stepResult{
		data: brandResult{
			BrandGuide:        guide,
			CSSVariablesFound: len(css.Variables),
			FontsFound:        len(css.Fonts),
		},
		tokensUsed: generated.TokensUsed,
	}, nil
}

// researchContext returns the best available business research: the research
// step's output first, then what is stored on the client.
func (s *Service) researchContext(job *domain.GenerationJob, client *domain.Client) *domain.BusinessResearch {
	var result researchResult
	if ok, _ := decodeRecord(job.StepOutputs, domain.StepResearch, &result); ok && result.BusinessResearch != nil {
		return result.BusinessResearch
	}
	if client != nil && client.BusinessResearch != nil {
		return client.BusinessResearch
	}
	return &domain.BusinessResearch{}
}

// extractCSS pulls custom properties, color literals and font families out of
// raw HTML. It does not parse CSS properly; the generator interprets the
// evidence.
func extractCSS(html string) cssData {
	css := cssData{Variables: map[string]string{}, Colors: []string{}, Fonts: []string{}}

	for _, match := range cssVarPattern.FindAllStringSubmatch(html, -1) {
		css.Variables[match[1]] = strings.TrimSpace(match[2])
	}

	seenColors := make(map[string]bool)
	for _, color := range colorPattern.FindAllString(html, -1) {
		if seenColors[color] {
			continue
		}
		seenColors[color] = true
		css.Colors = append(css.Colors, color)
		if len(css.Colors) == maxCSSColors {
			break
		}
	}

	seenFonts := make(map[string]bool)
	for _, match := range fontPattern.FindAllStringSubmatch(html, -1) {
		font := strings.TrimSpace(match[1])
		if seenFonts[font] {
			continue
		}
		seenFonts[font] = true
		css.Fonts = append(css.Fonts, font)
		if len(css.Fonts) == maxCSSFonts {
			break
		}
	}

	return css
}

// defaultBrandGuide is the fallback when the generator response has no
// parseable JSON.
func defaultBrandGuide() json.RawMessage {
	return json.RawMessage(`{
		"colors": {
			"primary": "#2563eb",
			"secondary": "#1e40af",
			"accent": "#f59e0b",
			"background": "#ffffff",
			"text": "#1f2937",
			"text_muted": "#6b7280"
		},
		"typography": {
			"heading_font": "system-ui, -apple-system, sans-serif",
			"body_font": "system-ui, -apple-system, sans-serif",
			"font_weights": {"normal": "400", "medium": "500", "semibold": "600", "bold": "700"},
			"font_sizes": {"base": "16px", "lg": "18px", "xl": "20px", "2xl": "24px", "3xl": "30px"}
		},
		"spacing": {
			"border_radius": "8px",
			"spacing_unit": "4px",
			"max_width": "1200px"
		},
		"buttons": {
			"primary": {"background": "#2563eb", "text": "#ffffff", "border_radius": "8px"}
		},
		"brand_voice": {
			"tone": "professional",
			"keywords": ["trusted", "quality", "reliable"]
		}
	}`)
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
