// Package domain contains the core domain models for the page generation service.
package domain

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

// Step represents a named stage of the page generation pipeline.
type Step string

const (
	// StepResearch scrapes the client site and extracts business research.
	StepResearch Step = "research"
	// StepBrand extracts a brand style guide from the client site.
	StepBrand Step = "brand"
	// StepStrategy produces the messaging strategy for the page.
	StepStrategy Step = "strategy"
	// StepCopy writes the full page copy.
	StepCopy Step = "copy"
	// StepDesign renders the styled HTML artifact.
	StepDesign Step = "design"
	// StepFactcheck verifies claims in the artifact and redacts unverifiable ones.
	StepFactcheck Step = "factcheck"
	// StepAssembly runs QA and creates the final landing page record.
	StepAssembly Step = "assembly"
)

// stepCount is the number of pipeline steps (used for pre-allocation).
const stepCount = 7

// stepOrder maps each step to its position in the canonical order.
var stepOrder = map[Step]int{
	StepResearch:  0,
	StepBrand:     1,
	StepStrategy:  2,
	StepCopy:      3,
	StepDesign:    4,
	StepFactcheck: 5,
	StepAssembly:  6,
}

// AllSteps returns the pipeline steps in canonical order.
func AllSteps() []Step {
	steps := make([]Step, 0, stepCount)
	steps = append(steps,
		StepResearch, StepBrand, StepStrategy, StepCopy,
		StepDesign, StepFactcheck, StepAssembly,
	)
	return steps
}

// IsValid reports whether s is a recognised pipeline step.
func (s Step) IsValid() bool {
	_, ok := stepOrder[s]
	return ok
}

// Successor returns the step after s in canonical order.
// It returns ("", false) for the final step or an unknown step.
func (s Step) Successor() (Step, bool) {
	idx, ok := stepOrder[s]
	if !ok || idx == stepCount-1 {
		return "", false
	}
	return AllSteps()[idx+1], true
}

// Before reports whether s runs before other in canonical order.
func (s Step) Before(other Step) bool {
	return stepOrder[s] < stepOrder[other]
}

// JobStatus represents the lifecycle state of a generation job.
type JobStatus string

const (
	// JobPending means the job is waiting for its next step to be invoked.
	JobPending JobStatus = "pending"
	// JobRunning means a step is currently executing.
	JobRunning JobStatus = "running"
	// JobCompleted means the assembly step finished. Terminal.
	JobCompleted JobStatus = "completed"
	// JobFailed means a step executor raised an error. Terminal.
	JobFailed JobStatus = "failed"
)

// Terminal reports whether the status permits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// ResearchStatus tracks whether a client's business research has been run.
type ResearchStatus string

const (
	ResearchPending   ResearchStatus = "pending"
	ResearchCompleted ResearchStatus = "completed"
)

// ClaimType classifies a factual assertion.
type ClaimType string

const (
	// ClaimTestimonial is a customer quote.
	ClaimTestimonial ClaimType = "testimonial"
	// ClaimStatistic is a number, percentage or dollar amount.
	ClaimStatistic ClaimType = "statistic"
	// ClaimGeneric is an authority or superlative trust claim.
	ClaimGeneric ClaimType = "claim"
)

// VerificationStatus is the stored state of a VerifiedClaim.
type VerificationStatus string

const (
	ClaimUnverified VerificationStatus = "unverified"
	ClaimVerified   VerificationStatus = "verified"
)

// Product is a product or service discovered during research.
type Product struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price,omitempty"`
	KeyFeatures []string `json:"key_features,omitempty"`
	Benefits    []string `json:"benefits,omitempty"`
}

// Audience is a target audience segment discovered during research.
type Audience struct {
	Segment    string   `json:"segment"`
	PainPoints []string `json:"pain_points,omitempty"`
	Desires    []string `json:"desires,omitempty"`
}

// Testimonial is a customer quote discovered during research.
type Testimonial struct {
	Quote         string `json:"quote"`
	Author        string `json:"author"`
	RoleOrContext string `json:"role_or_context,omitempty"`
	SourceURL     string `json:"source_url,omitempty"`
}

// Statistic is a numeric claim discovered during research.
type Statistic struct {
	Claim     string `json:"claim"`
	Context   string `json:"context,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

// BusinessResearch is the structured extraction produced by the research step.
type BusinessResearch struct {
	CompanyName        string        `json:"company_name"`
	Industry           string        `json:"industry,omitempty"`
	Tagline            string        `json:"tagline,omitempty"`
	ValuePropositions  []string      `json:"value_propositions,omitempty"`
	Products           []Product     `json:"products,omitempty"`
	TargetAudiences    []Audience    `json:"target_audiences,omitempty"`
	Testimonials       []Testimonial `json:"testimonials,omitempty"`
	Statistics         []Statistic   `json:"statistics,omitempty"`
	TrustSignals       []string      `json:"trust_signals,omitempty"`
	BrandVoice         string        `json:"brand_voice,omitempty"`
	Differentiators    []string      `json:"unique_differentiators,omitempty"`
	RawResponse        string        `json:"raw_response,omitempty"`
}

// Client represents a business entity whose site is researched and reused
// across generation jobs.
type Client struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	WebsiteURL       string            `json:"website_url"`
	Industry         string            `json:"industry,omitempty"`
	BusinessResearch *BusinessResearch `json:"business_research,omitempty"`
	SourceContent    map[string]string `json:"source_content,omitempty"`
	BrandGuide       json.RawMessage   `json:"brand_guide,omitempty"`
	ResearchStatus   ResearchStatus    `json:"research_status"`
	LastResearchedAt *time.Time        `json:"last_researched_at,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// VerifiedClaim is a factual assertion with trusted provenance, stored per
// client and independent of any single job. Claim text is immutable after
// creation.
type VerifiedClaim struct {
	ID                 string             `json:"id"`
	ClientID           string             `json:"client_id"`
	ClaimText          string             `json:"claim_text"`
	ClaimType          ClaimType          `json:"claim_type"`
	SourceURL          string             `json:"source_url,omitempty"`
	SourceText         string             `json:"source_text,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	ConfidenceScore    *float64           `json:"confidence_score,omitempty"`
	VerifiedAt         *time.Time         `json:"verified_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
}

// StepRecord is the persisted output of one completed step.
type StepRecord struct {
	Result      json.RawMessage `json:"result"`
	TokensUsed  int             `json:"tokens_used"`
	DurationMS  int64           `json:"duration_ms"`
	CompletedAt time.Time       `json:"completed_at"`
}

// StepOutputs maps every canonical step to its record, nil until the step has
// run. Keys are exactly the seven step names for the life of the job.
type StepOutputs map[Step]*StepRecord

// NewStepOutputs returns a StepOutputs with all seven steps initialised to nil.
func NewStepOutputs() StepOutputs {
	outputs := make(StepOutputs, stepCount)
	for _, step := range AllSteps() {
		outputs[step] = nil
	}
	return outputs
}

// CompletedSteps returns the steps with a non-nil record, in canonical order.
func (o StepOutputs) CompletedSteps() []Step {
	completed := make([]Step, 0, stepCount)
	for _, step := range AllSteps() {
		if o[step] != nil {
			completed = append(completed, step)
		}
	}
	return completed
}

// TotalTokens sums tokens used across all completed steps.
func (o StepOutputs) TotalTokens() int {
	total := 0
	for _, record := range o {
		if record != nil {
			total += record.TokensUsed
		}
	}
	return total
}

// GenerationJob is one resumable run of the pipeline, producing at most one
// generated page.
type GenerationJob struct {
	ID             string      `json:"id"`
	ClientID       string      `json:"client_id,omitempty"`
	PageType       string      `json:"page_type"`
	TemplateID     string      `json:"template_id,omitempty"`
	TargetAudience string      `json:"target_audience,omitempty"`
	OfferDetails   string      `json:"offer_details,omitempty"`
	Status         JobStatus   `json:"status"`
	CurrentStep    Step        `json:"current_step"`
	StepOutputs    StepOutputs `json:"step_outputs"`
	ErrorMessage   string      `json:"error_message,omitempty"`
	TokensUsed     int         `json:"tokens_used"`
	EstimatedCost  float64     `json:"estimated_cost"`
	PageID         string      `json:"page_id,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	CompletedAt    *time.Time  `json:"completed_at,omitempty"`
}

// PageStatus is the publish state of a generated page.
type PageStatus string

const (
	PageDraft PageStatus = "draft"
	PageLive  PageStatus = "live"
)

// FactCheckSummary is embedded in page generation metadata.
type FactCheckSummary struct {
	Verified      int `json:"verified"`
	NewlyVerified int `json:"newly_verified"`
	Flagged       int `json:"flagged"`
}

// GenerationMetadata records how a page was produced.
type GenerationMetadata struct {
	PageType       string           `json:"page_type"`
	TokensUsed     int              `json:"tokens_used"`
	StepsCompleted int              `json:"steps_completed"`
	FactCheck      FactCheckSummary `json:"fact_check_summary"`
}

// GeneratedPage is the final artifact, created exactly once by the assembly step.
type GeneratedPage struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Slug            string             `json:"slug"`
	ClientID        string             `json:"client_id,omitempty"`
	JobID           string             `json:"job_id"`
	TemplateID      string             `json:"template_id,omitempty"`
	HTMLContent     string             `json:"html_content"`
	Status          PageStatus         `json:"status"`
	MetaTitle       string             `json:"meta_title,omitempty"`
	MetaDescription string             `json:"meta_description,omitempty"`
	Metadata        GenerationMetadata `json:"generation_metadata"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// PageTemplate is an optional page skeleton a job can build on.
type PageTemplate struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	PageType         string          `json:"page_type"`
	SectionStructure json.RawMessage `json:"section_structure,omitempty"`
	HTMLSkeleton     string          `json:"html_skeleton,omitempty"`
	CSSBase          string          `json:"css_base,omitempty"`
	TimesUsed        int             `json:"times_used"`
}

// maxSlugLen bounds the base slug before a uniqueness suffix is appended.
const maxSlugLen = 50

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)
	slugDashRuns     = regexp.MustCompile(`-+`)
)

// Slugify builds a URL slug from a company name and page type.
func Slugify(companyName, pageType string) string {
	if companyName == "" {
		companyName = "page"
	}
	if pageType == "" {
		pageType = "landing"
	}

	slug := strings.ToLower(companyName + "-" + pageType)
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	slug = slugDashRuns.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}

	return slug
}
