package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

// stubLLM returns a canned response per pass, matched on the system
// prompt's pass-specific content.
type stubLLM struct {
	responses map[string]string
	errs      map[string]error
}

func (s *stubLLM) GenerateJSON(_ context.Context, system, _ string, _ int32, _ float32) (string, error) {
	for name, resp := range s.responses {
		if strings.Contains(system, markerFor(name)) {
			return resp, nil
		}
	}
	for name, err := range s.errs {
		if strings.Contains(system, markerFor(name)) {
			return "", err
		}
	}
	return "", fmt.Errorf("no stubbed response")
}

// markerFor keys on a JSON field unique to each pass's prompt.
func markerFor(name string) string {
	switch name {
	case "personal_info":
		return `"first_name"`
	case "experience":
		return `"company"`
	case "projects":
		return `"project_name"`
	case "skills":
		return `"category_name"`
	}
	return name
}

func newTestOrchestrator(llm LLMService) *orchestratorService {
	return &orchestratorService{
		llmService:  llm,
		passes:      SchemaPasses(),
		passTimeout: time.Second,
	}
}

func TestExtractCVMergesAllPasses(t *testing.T) {
	llm := &stubLLM{responses: map[string]string{
		"personal_info": `{"first_name": "Ada", "last_name": "Lovelace", "summary": "Engineer"}`,
		"experience":    `{"experience": [{"title": "Analyst", "company": "Babbage & Co"}]}`,
		"projects":      `{"projects": [{"project_name": "Engine"}]}`,
		"skills":        `{"skills": {"category": "Languages", "skills": ["Go"], "level": "Expert"}}`,
	}}

	record := newTestOrchestrator(llm).ExtractCV(context.Background(), "payload")

	if record["first_name"] != "Ada" {
		t.Errorf("first_name = %v, want Ada", record["first_name"])
	}
	exp, ok := record["experience"].([]any)
	if !ok || len(exp) != 1 {
		t.Fatalf("experience = %v, want one entry", record["experience"])
	}
	proj, ok := record["projects"].([]any)
	if !ok || len(proj) != 1 {
		t.Fatalf("projects = %v, want one entry", record["projects"])
	}
	skills, ok := record["skills"].(map[string]any)
	if !ok || skills["category"] != "Languages" {
		t.Fatalf("skills = %v, want Languages grouping", record["skills"])
	}
}

func TestExtractCVUnwrapsFencedResponses(t *testing.T) {
	llm := &stubLLM{responses: map[string]string{
		"personal_info": "```json\n{\"first_name\": \"Ada\"}\n```",
		"experience":    "```json\n{\"experience\":[]}\n```",
		"projects":      `{"projects": []}`,
		"skills":        `{"skills": {}}`,
	}}

	record := newTestOrchestrator(llm).ExtractCV(context.Background(), "payload")

	if record["first_name"] != "Ada" {
		t.Errorf("first_name = %v, want Ada", record["first_name"])
	}
	exp, ok := record["experience"].([]any)
	if !ok || len(exp) != 0 {
		t.Errorf("experience = %v, want empty list", record["experience"])
	}
}

func TestExtractCVParseFailureDoesNotAbortSiblings(t *testing.T) {
	llm := &stubLLM{responses: map[string]string{
		"personal_info": `{"first_name": "Ada"}`,
		"experience":    "this is not JSON at all",
		"projects":      `{"projects": [{"project_name": "Engine"}]}`,
		"skills":        `{"skills": {}}`,
	}}

	record := newTestOrchestrator(llm).ExtractCV(context.Background(), "payload")

	// The failed pass contributes its empty default.
	exp, ok := record["experience"].([]any)
	if !ok || len(exp) != 0 {
		t.Errorf("experience = %v, want empty default", record["experience"])
	}

	// Siblings are unaffected.
	if record["first_name"] != "Ada" {
		t.Errorf("first_name = %v, want Ada", record["first_name"])
	}
	proj, ok := record["projects"].([]any)
	if !ok || len(proj) != 1 {
		t.Errorf("projects = %v, want one entry", record["projects"])
	}
}

func TestExtractCVLLMErrorYieldsDefaults(t *testing.T) {
	llm := &stubLLM{
		responses: map[string]string{
			"personal_info": `{"first_name": "Ada"}`,
			"experience":    `{"experience": []}`,
			"projects":      `{"projects": []}`,
		},
		errs: map[string]error{
			"skills": fmt.Errorf("model unavailable"),
		},
	}

	record := newTestOrchestrator(llm).ExtractCV(context.Background(), "payload")

	skills, ok := record["skills"].(map[string]any)
	if !ok || len(skills) != 0 {
		t.Errorf("skills = %v, want empty object default", record["skills"])
	}
}

func TestExtractCVNullPassValueYieldsDefault(t *testing.T) {
	llm := &stubLLM{responses: map[string]string{
		"personal_info": `{"first_name": "Ada"}`,
		"experience":    `{"experience": null}`,
		"projects":      `{}`,
		"skills":        `{"skills": {}}`,
	}}

	record := newTestOrchestrator(llm).ExtractCV(context.Background(), "payload")

	exp, ok := record["experience"].([]any)
	if !ok || len(exp) != 0 {
		t.Errorf("experience = %v, want empty default for null", record["experience"])
	}
	proj, ok := record["projects"].([]any)
	if !ok || len(proj) != 0 {
		t.Errorf("projects = %v, want empty default for omitted key", record["projects"])
	}
}

func TestUnwrapFence(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"experience\":[]}\n```", `{"experience":[]}`},
		{"```\n{}\n```", "{}"},
		{"  {\"a\": 1}  ", `{"a": 1}`},
		{"{}", "{}"},
	}

	for _, tc := range cases {
		if got := unwrapFence(tc.in); got != tc.want {
			t.Errorf("unwrapFence(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
