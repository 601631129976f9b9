package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/unicornmarketers/pageforge/internal/domain"
)

const designMaxTokens = 8000

// PageIDPlaceholder is embedded in generated HTML and replaced with the real
// page id during assembly.
const PageIDPlaceholder = "{{PAGE_ID}}"

var (
	markdownFenceOpen  = regexp.MustCompile("(?i)^```html?\\s*")
	markdownFenceClose = regexp.MustCompile("```\\s*$")
)

// designResult is the persisted output of the design step.
type designResult struct {
	HTML        string `json:"html"`
	HTMLLength  int    `json:"html_length"`
	HasForm     bool   `json:"has_form"`
	HasTracking bool   `json:"has_tracking"`
}

// runDesign renders the page copy into a complete standalone HTML document
// styled per the brand guide. The generator's output is normalized: markdown
// fences are stripped and a DOCTYPE is guaranteed.
func (s *Service) runDesign(ctx context.Context, job *domain.GenerationJob) (*stepResult, error) {
	client, clientErr := s.loadClient(ctx, job)
	if clientErr != nil {
		return nil, clientErr
	}

	research := s.researchContext(job, client)
	brandGuide := s.brandContext(job, client)
	strategy := s.strategyContext(job)
	pageCopy := s.copyContext(job)

	var template *domain.PageTemplate
	if job.TemplateID != "" {
		loaded, loadErr := s.templates.GetByID(ctx, job.TemplateID)
		if loadErr != nil {
			return nil, fmt.Errorf("load template %s: %w", job.TemplateID, loadErr)
		}
		template = loaded
	}

	prompt := designPrompt(job, research, brandGuide, strategy, pageCopy, template)

	generated, genErr := s.generator.Generate(ctx, prompt, designMaxTokens)
	if genErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, genErr)
	}

	html := normalizeHTML(generated.Text)

	return &stepResult{
		data: designResult{
			HTML:        html,
			HTMLLength:  len(html),
			HasForm:     strings.Contains(html, "<form"),
			HasTracking: strings.Contains(html, PageIDPlaceholder),
		},
		tokensUsed: generated.TokensUsed,
	}, nil
}

// copyContext returns the copy step's document, or nil when copy has not run.
func (s *Service) copyContext(job *domain.GenerationJob) json.RawMessage {
	var result copyResult
	if ok, _ := decodeRecord(job.StepOutputs, domain.StepCopy, &result); ok {
		return result.Copy
	}
	return nil
}

func normalizeHTML(text string) string {
	html := strings.TrimSpace(text)
	html = markdownFenceOpen.ReplaceAllString(html, "")
	html = markdownFenceClose.ReplaceAllString(html, "")
	html = strings.TrimSpace(html)

	if !strings.HasPrefix(strings.ToLower(html), "<!doctype") {
		html = "<!DOCTYPE html>\n" + html
	}

	return html
}
