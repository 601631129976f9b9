package domain_test

import (
	"testing"

	"github.com/unicornmarketers/pageforge/internal/domain"
)

func TestStep_Successor(t *testing.T) {
	tests := []struct {
		step     domain.Step
		want     domain.Step
		wantMore bool
	}{
		{domain.StepResearch, domain.StepBrand, true},
		{domain.StepBrand, domain.StepStrategy, true},
		{domain.StepStrategy, domain.StepCopy, true},
		{domain.StepCopy, domain.StepDesign, true},
		{domain.StepDesign, domain.StepFactcheck, true},
		{domain.StepFactcheck, domain.StepAssembly, true},
		{domain.StepAssembly, "", false},
		{domain.Step("review"), "", false},
	}

	for _, tc := range tests {
		got, more := tc.step.Successor()
		if got != tc.want || more != tc.wantMore {
			t.Errorf("Successor(%s) = (%s, %v), want (%s, %v)", tc.step, got, more, tc.want, tc.wantMore)
		}
	}
}

func TestStep_IsValid(t *testing.T) {
	for _, step := range domain.AllSteps() {
		if !step.IsValid() {
			t.Errorf("IsValid(%s) = false, want true", step)
		}
	}

	if domain.Step("review").IsValid() {
		t.Error("IsValid(review) = true, want false")
	}
}

func TestStep_Before(t *testing.T) {
	if !domain.StepResearch.Before(domain.StepAssembly) {
		t.Error("research should run before assembly")
	}
	if domain.StepFactcheck.Before(domain.StepCopy) {
		t.Error("factcheck should not run before copy")
	}
}

func TestJobStatus_Terminal(t *testing.T) {
	tests := []struct {
		status domain.JobStatus
		want   bool
	}{
		{domain.JobPending, false},
		{domain.JobRunning, false},
		{domain.JobCompleted, true},
		{domain.JobFailed, true},
	}

	for _, tc := range tests {
		if got := tc.status.Terminal(); got != tc.want {
			t.Errorf("Terminal(%s) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestNewStepOutputs(t *testing.T) {
	outputs := domain.NewStepOutputs()

	if len(outputs) != 7 {
		t.Fatalf("len = %d, want 7", len(outputs))
	}
	for _, step := range domain.AllSteps() {
		record, exists := outputs[step]
		if !exists {
			t.Errorf("step %s missing from outputs", step)
		}
		if record != nil {
			t.Errorf("step %s should start nil", step)
		}
	}
}

func TestStepOutputs_CompletedSteps(t *testing.T) {
	outputs := domain.NewStepOutputs()
	outputs[domain.StepStrategy] = &domain.StepRecord{TokensUsed: 100}
	outputs[domain.StepResearch] = &domain.StepRecord{TokensUsed: 200}

	completed := outputs.CompletedSteps()

	if len(completed) != 2 {
		t.Fatalf("completed = %d steps, want 2", len(completed))
	}
	// Canonical order, not completion order.
	if completed[0] != domain.StepResearch || completed[1] != domain.StepStrategy {
		t.Errorf("completed = %v, want [research strategy]", completed)
	}
}

func TestStepOutputs_TotalTokens(t *testing.T) {
	outputs := domain.NewStepOutputs()
	outputs[domain.StepResearch] = &domain.StepRecord{TokensUsed: 1200}
	outputs[domain.StepBrand] = &domain.StepRecord{TokensUsed: 800}

	if total := outputs.TotalTokens(); total != 2000 {
		t.Errorf("TotalTokens() = %d, want 2000", total)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name        string
		companyName string
		pageType    string
		want        string
	}{
		{"simple", "Acme Widgets", "advertorial", "acme-widgets-advertorial"},
		{"special chars", "Dr. Bob's Clinic!", "quiz", "dr-bob-s-clinic-quiz"},
		{"empty company", "", "listicle", "page-listicle"},
		{"empty page type", "Acme", "", "acme-landing"},
		{"unicode stripped", "Café Olé", "vip", "caf-ol-vip"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := domain.Slugify(tc.companyName, tc.pageType); got != tc.want {
				t.Errorf("Slugify(%q, %q) = %q, want %q", tc.companyName, tc.pageType, got, tc.want)
			}
		})
	}
}

func TestSlugify_LengthCap(t *testing.T) {
	long := "An Extremely Long Company Name That Goes On And On Forever"
	slug := domain.Slugify(long, "advertorial")

	if len(slug) > 50 {
		t.Errorf("slug length = %d, want <= 50", len(slug))
	}
	if slug[len(slug)-1] == '-' {
		t.Errorf("slug %q ends with a dash", slug)
	}
}
