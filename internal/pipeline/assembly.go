package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/unicornmarketers/pageforge/internal/domain"
)

const trackingEndpoint = "https://pages.unicornmarketers.com/api/track"

// trackingMarker identifies an already-injected tracking script.
const trackingMarker = "pageforge-tracking"

var (
	imgWithAlt      = regexp.MustCompile(`(?i)<img[^>]*\salt=`)
	imgTag          = regexp.MustCompile(`(?i)<img[^>]*>`)
	removedMarkers  = regexp.MustCompile(`\[(?:STAT|TESTIMONIAL) REMOVED[^\]]*\]`)
	blankLineRuns   = regexp.MustCompile(`\n\s*\n`)
	pageIDPattern   = regexp.MustCompile(regexp.QuoteMeta(PageIDPlaceholder))
	viewportMetaTag = `<meta name="viewport" content="width=device-width, initial-scale=1.0">`
)

// qaResults is the quality report produced during assembly.
type qaResults struct {
	Passed   []string `json:"passed"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// factCheckSummary condenses the factcheck output for the assembly report.
type factCheckSummary struct {
	Verified       int `json:"verified"`
	NewlyVerified  int `json:"newly_verified"`
	Flagged        int `json:"flagged"`
	ChangesApplied int `json:"changes_applied"`
}

// assemblyResult is the persisted output of the assembly step.
type assemblyResult struct {
	PageID           string            `json:"page_id"`
	Slug             string            `json:"slug"`
	Status           domain.PageStatus `json:"status"`
	QAResults        qaResults         `json:"qa_results"`
	HTMLLength       int               `json:"html_length"`
	ReadyToDeploy    bool              `json:"ready_to_deploy"`
	FactCheckSummary factCheckSummary  `json:"fact_check_summary"`
}

// runAssembly runs deterministic QA over the fact-checked HTML, injects the
// tracking script, resolves a unique slug and creates the landing page
// record. It is the only step that produces a page, and it makes no
// generator calls.
func (s *Service) runAssembly(ctx context.Context, job *domain.GenerationJob) (*stepResult, error) {
	var design designResult
	if _, decodeErr := decodeRecord(job.StepOutputs, domain.StepDesign, &design); decodeErr != nil {
		return nil, decodeErr
	}

	var checked factcheckResult
	if _, decodeErr := decodeRecord(job.StepOutputs, domain.StepFactcheck, &checked); decodeErr != nil {
		return nil, decodeErr
	}

	html := checked.CleanedHTML
	if html == "" {
		html = design.HTML
	}
	if html == "" {
		return nil, fmt.Errorf("%w: no generated HTML to assemble, run the design step first", ErrInvalidStep)
	}

	var pageCopy copyResult
	if _, decodeErr := decodeRecord(job.StepOutputs, domain.StepCopy, &pageCopy); decodeErr != nil {
		return nil, decodeErr
	}

	client, clientErr := s.loadClient(ctx, job)
	if clientErr != nil {
		return nil, clientErr
	}
	research := s.researchContext(job, client)

	html, qa := runQAChecks(html)

	pageID := uuid.New().String()
	html = pageIDPattern.ReplaceAllString(html, pageID)

	slug, slugErr := s.uniqueSlug(ctx, research.CompanyName, job.PageType)
	if slugErr != nil {
		return nil, slugErr
	}

	metaTitle, metaDescription := pageMeta(pageCopy.Copy, research.CompanyName, job.PageType)

	summary := factCheckSummary{
		Verified:       checked.VerifiedCount,
		NewlyVerified:  checked.NewlyVerifiedCount,
		Flagged:        checked.FlaggedCount,
		ChangesApplied: len(checked.ChangesApplied),
	}

	page := &domain.GeneratedPage{
		ID:              pageID,
		Name:            metaTitle,
		Slug:            slug,
		ClientID:        job.ClientID,
		JobID:           job.ID,
		TemplateID:      job.TemplateID,
		HTMLContent:     html,
		Status:          domain.PageDraft,
		MetaTitle:       metaTitle,
		MetaDescription: metaDescription,
		Metadata: domain.GenerationMetadata{
			PageType:       job.PageType,
			TokensUsed:     job.StepOutputs.TotalTokens(),
			StepsCompleted: len(job.StepOutputs.CompletedSteps()),
			FactCheck: domain.FactCheckSummary{
				Verified:      summary.Verified,
				NewlyVerified: summary.NewlyVerified,
				Flagged:       summary.Flagged,
			},
		},
	}

	if insertErr := s.pages.Insert(ctx, page); insertErr != nil {
		return nil, fmt.Errorf("create landing page: %w", insertErr)
	}

	if job.TemplateID != "" {
		if bumpErr := s.templates.IncrementUsage(ctx, job.TemplateID); bumpErr != nil {
			return nil, fmt.Errorf("bump template usage: %w", bumpErr)
		}
	}

	return &stepResult{
		data: assemblyResult{
			PageID:           pageID,
			Slug:             slug,
			Status:           domain.PageDraft,
			QAResults:        qa,
			HTMLLength:       len(html),
			ReadyToDeploy:    len(qa.Errors) == 0,
			FactCheckSummary: summary,
		},
		pageID: pageID,
	}, nil
}

// runQAChecks applies the deterministic quality checks, repairing what it
// safely can (viewport tag, redaction markers, tracking script) and reporting
// the rest as warnings.
func runQAChecks(html string) (string, qaResults) {
	qa := qaResults{Passed: []string{}, Warnings: []string{}, Errors: []string{}}

	if strings.Contains(html, "<title>") && !strings.Contains(html, "<title></title>") {
		qa.Passed = append(qa.Passed, "Page title present")
	} else {
		qa.Warnings = append(qa.Warnings, "Missing or empty page title")
	}

	if strings.Contains(html, `meta name="description"`) {
		qa.Passed = append(qa.Passed, "Meta description present")
	} else {
		qa.Warnings = append(qa.Warnings, "Missing meta description")
	}

	if strings.Contains(html, "viewport") {
		qa.Passed = append(qa.Passed, "Viewport meta tag present")
	} else {
		html = strings.Replace(html, "<head>", "<head>\n"+viewportMetaTag, 1)
		qa.Passed = append(qa.Passed, "Viewport meta tag added")
	}

	switch {
	case strings.Contains(html, PageIDPlaceholder):
		qa.Passed = append(qa.Passed, "Form tracking placeholder present")
	case strings.Contains(html, "<form"):
		qa.Warnings = append(qa.Warnings, "Form present but no tracking placeholder")
	}

	if strings.Contains(html, "button") || strings.Contains(html, "btn") || strings.Contains(html, "cta") {
		qa.Passed = append(qa.Passed, "CTA elements present")
	} else {
		qa.Warnings = append(qa.Warnings, "No obvious CTA elements found")
	}

	missingAlt := countImagesWithoutAlt(html)
	if missingAlt > 0 {
		qa.Warnings = append(qa.Warnings, fmt.Sprintf("%d images missing alt tags", missingAlt))
	} else {
		qa.Passed = append(qa.Passed, "All images have alt tags")
	}

	if removedMarkers.MatchString(html) {
		qa.Errors = append(qa.Errors, "Unverified content markers need to be resolved")
		html = removedMarkers.ReplaceAllString(html, "")
	}

	if strings.Contains(html, "@media") || strings.Contains(html, "flex") || strings.Contains(html, "grid") {
		qa.Passed = append(qa.Passed, "Responsive CSS patterns detected")
	} else {
		qa.Warnings = append(qa.Warnings, "No responsive CSS patterns detected")
	}

	if !strings.Contains(html, trackingMarker) {
		html = strings.Replace(html, "</body>", trackingScript()+"\n</body>", 1)
		qa.Passed = append(qa.Passed, "Tracking script added")
	}

	html = blankLineRuns.ReplaceAllString(html, "\n")
	html = strings.TrimSpace(html)

	return html, qa
}

func countImagesWithoutAlt(html string) int {
	count := 0
	for _, tag := range imgTag.FindAllString(html, -1) {
		if !imgWithAlt.MatchString(tag) {
			count++
		}
	}
	return count
}

// uniqueSlug builds a slug from the company name and page type and appends a
// numeric suffix until it does not collide with an existing page.
func (s *Service) uniqueSlug(ctx context.Context, companyName, pageType string) (string, error) {
	base := domain.Slugify(companyName, pageType)

	existing, listErr := s.pages.ListSlugsWithPrefix(ctx, base)
	if listErr != nil {
		return "", fmt.Errorf("list slugs: %w", listErr)
	}

	taken := make(map[string]bool, len(existing))
	for _, slug := range existing {
		taken[slug] = true
	}

	slug := base
	for counter := 1; taken[slug]; counter++ {
		slug = fmt.Sprintf("%s-%d", base, counter)
	}

	return slug, nil
}

// pageMeta pulls the title and description from the copy document, with a
// company-derived fallback.
func pageMeta(pageCopy json.RawMessage, companyName, pageType string) (string, string) {
	var probe struct {
		Meta struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"meta"`
	}
	_ = json.Unmarshal(pageCopy, &probe)

	title := probe.Meta.Title
	if title == "" {
		if companyName == "" {
			companyName = "Generated"
		}
		title = companyName + " - " + pageType
	}

	return title, probe.Meta.Description
}

// trackingScript returns the analytics snippet injected into every page:
// page views, form submissions and CTA clicks posted to the tracking
// endpoint.
func trackingScript() string {
	return `
<script data-` + trackingMarker + `="1">
(function() {
  const pageId = '` + PageIDPlaceholder + `';
  const sessionId = Math.random().toString(36).substring(7);

  const post = (payload) => {
    fetch('` + trackingEndpoint + `', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify(Object.assign({ page_id: pageId, session_id: sessionId }, payload))
    }).catch(() => {});
  };

  post({ type: 'view', referrer: document.referrer, url: window.location.href });

  document.querySelectorAll('form').forEach(form => {
    form.addEventListener('submit', function() {
      const formData = new FormData(form);
      post({ type: 'lead', form_data: Object.fromEntries(formData) });
    });
  });

  document.querySelectorAll('a[href], button').forEach(el => {
    el.addEventListener('click', function() {
      post({ type: 'click', element: (el.textContent || '').substring(0, 50) });
    });
  });
})();
</script>`
}
