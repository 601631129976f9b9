package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/unicornmarketers/pageforge/internal/domain"
	"github.com/unicornmarketers/pageforge/internal/fetcher"
	"github.com/unicornmarketers/pageforge/internal/generator"
	"github.com/unicornmarketers/pageforge/internal/logger"
)

const (
	// maxExtraPages caps the additional same-domain pages scraped per run.
	maxExtraPages = 4
	// maxResearchText caps the combined scraped text handed to the generator.
	maxResearchText = 50000

	researchMaxTokens = 4096

	testimonialConfidence = 0.9
	statisticConfidence   = 0.8
)

var urlInText = regexp.MustCompile(`https?://[^\s,]+`)

// researchResult is the persisted output of the research step.
type researchResult struct {
	BusinessResearch  *domain.BusinessResearch `json:"business_research"`
	PagesScraped      int                      `json:"pages_scraped"`
	TestimonialsFound int                      `json:"testimonials_found"`
	StatisticsFound   int                      `json:"statistics_found"`
}

// runResearch scrapes the client site plus a handful of relevant subpages,
// extracts structured business research via the generator, and persists it on
// the client together with the raw source content. Testimonials and
// statistics found during research are seeded into the verified claim store.
func (s *Service) runResearch(ctx context.Context, job *domain.GenerationJob, input *AdvanceInput) (*stepResult, error) {
	client, clientErr := s.loadClient(ctx, job)
	if clientErr != nil {
		return nil, clientErr
	}

	url := resolveResearchURL(input.URL, client, job.OfferDetails)
	if url == "" {
		return nil, fmt.Errorf("%w: website URL is required for research", ErrValidation)
	}

	mainPage, fetchErr := s.fetcher.Fetch(ctx, url)
	if fetchErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, fetchErr)
	}

	sourceContent := map[string]string{url: mainPage.Text}

	for _, link := range fetcher.RelevantLinks(mainPage.HTML, url, maxExtraPages) {
		page, pageErr := s.fetcher.Fetch(ctx, link)
		if pageErr != nil {
			s.logger.Warn("Skipping unreachable research page",
				logger.String("url", link),
				logger.Error(pageErr),
			)
			continue
		}
		sourceContent[link] = page.Text
	}

	prompt := researchPrompt(combineSourceContent(sourceContent, url), job.TargetAudience, job.OfferDetails)

	generated, genErr := s.generator.Generate(ctx, prompt, researchMaxTokens)
	if genErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, genErr)
	}

	research := decodeResearch(generated.Text)

	clientID, persistErr := s.persistResearch(ctx, job, client, research, sourceContent, url, input)
	if persistErr != nil {
		return nil, persistErr
	}

	if clientID != "" {
		if claimErr := s.seedClaims(ctx, clientID, research, url); claimErr != nil {
			return nil, claimErr
		}
	}

	return &stepResult{
		data: researchResult{
			BusinessResearch:  research,
			PagesScraped:      len(sourceContent),
			TestimonialsFound: len(research.Testimonials),
			StatisticsFound:   len(research.Statistics),
		},
		tokensUsed: generated.TokensUsed,
	}, nil
}

// resolveResearchURL picks the research target: explicit override, then the
// client's website, then the first URL buried in the offer details.
func resolveResearchURL(override string, client *domain.Client, offerDetails string) string {
	if override != "" {
		return override
	}
	if client != nil && client.WebsiteURL != "" {
		return client.WebsiteURL
	}
	return urlInText.FindString(offerDetails)
}

func combineSourceContent(sourceContent map[string]string, mainURL string) string {
	var combined strings.Builder

	// Main page first, so truncation drops subpages instead.
	writePage := func(url string) {
		combined.WriteString("=== PAGE: " + url + " ===\n")
		combined.WriteString(sourceContent[url])
		combined.WriteString("\n\n")
	}

	writePage(mainURL)
	for url := range sourceContent {
		if url != mainURL {
			writePage(url)
		}
	}

	text := combined.String()
	if len(text) > maxResearchText {
		text = text[:maxResearchText]
	}
	return text
}

func decodeResearch(text string) *domain.BusinessResearch {
	var research domain.BusinessResearch
	if !generator.DecodeObject(text, &research) {
		return &domain.BusinessResearch{RawResponse: text}
	}
	return &research
}

// persistResearch writes research onto the existing client, or creates one
// when the job has none. Returns the client id the claims should attach to.
func (s *Service) persistResearch(
	ctx context.Context,
	job *domain.GenerationJob,
	client *domain.Client,
	research *domain.BusinessResearch,
	sourceContent map[string]string,
	url string,
	input *AdvanceInput,
) (string, error) {
	if client != nil {
		if saveErr := s.clients.SaveResearch(ctx, client.ID, research, sourceContent); saveErr != nil {
			return "", fmt.Errorf("save research: %w", saveErr)
		}
		return client.ID, nil
	}

	if input.SkipClientCreate {
		return "", nil
	}

	name := research.CompanyName
	if name == "" {
		name = "New Client"
	}

	created := &domain.Client{
		Name:       name,
		WebsiteURL: url,
		Industry:   research.Industry,
	}
	if createErr := s.clients.Create(ctx, created); createErr != nil {
		return "", fmt.Errorf("create client: %w", createErr)
	}

	if saveErr := s.clients.SaveResearch(ctx, created.ID, research, sourceContent); saveErr != nil {
		return "", fmt.Errorf("save research: %w", saveErr)
	}

	if linkErr := s.jobs.SetClientID(ctx, job.ID, created.ID); linkErr != nil {
		return "", fmt.Errorf("link client to job: %w", linkErr)
	}
	job.ClientID = created.ID

	return created.ID, nil
}

// seedClaims stores research testimonials and statistics as verified claims.
func (s *Service) seedClaims(ctx context.Context, clientID string, research *domain.BusinessResearch, url string) error {
	now := time.Now().UTC()

	for _, testimonial := range research.Testimonials {
		sourceURL := testimonial.SourceURL
		if sourceURL == "" {
			sourceURL = url
		}

		confidence := testimonialConfidence
		claim := &domain.VerifiedClaim{
			ClientID:           clientID,
			ClaimText:          testimonial.Quote,
			ClaimType:          domain.ClaimTestimonial,
			SourceURL:          sourceURL,
			SourceText:         testimonial.Author,
			VerificationStatus: domain.ClaimVerified,
			ConfidenceScore:    &confidence,
			VerifiedAt:         &now,
		}
		if insertErr := s.claims.Insert(ctx, claim); insertErr != nil {
			return fmt.Errorf("store testimonial claim: %w", insertErr)
		}
	}

	for _, stat := range research.Statistics {
		sourceURL := stat.SourceURL
		if sourceURL == "" {
			sourceURL = url
		}

		confidence := statisticConfidence
		claim := &domain.VerifiedClaim{
			ClientID:           clientID,
			ClaimText:          stat.Claim,
			ClaimType:          domain.ClaimStatistic,
			SourceURL:          sourceURL,
			SourceText:         stat.Context,
			VerificationStatus: domain.ClaimVerified,
			ConfidenceScore:    &confidence,
			VerifiedAt:         &now,
		}
		if insertErr := s.claims.Insert(ctx, claim); insertErr != nil {
			return fmt.Errorf("store statistic claim: %w", insertErr)
		}
	}

	return nil
}
