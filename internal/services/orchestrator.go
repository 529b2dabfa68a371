package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"alfredoptarigan/cv-parser/internal/models"
)

// OrchestratorService issues the schema passes against the LLM and
// merges their results into one CV record. A failed pass degrades to
// its empty default instead of failing the request.
type OrchestratorService interface {
	ExtractCV(ctx context.Context, payload string) models.CVRecord
}

type orchestratorService struct {
	llmService  LLMService
	passes      []SchemaPass
	passTimeout time.Duration
}

func NewOrchestratorService(llmService LLMService, passTimeout time.Duration) OrchestratorService {
	return &orchestratorService{
		llmService:  llmService,
		passes:      SchemaPasses(),
		passTimeout: passTimeout,
	}
}

// ExtractCV implements OrchestratorService. The passes have no data
// dependency on each other, so they run concurrently; overall latency
// is bounded by the slowest pass, not the sum.
func (o *orchestratorService) ExtractCV(ctx context.Context, payload string) models.CVRecord {
	user := BuildUserMessage(payload)
	results := make(map[string]models.PassResult, len(o.passes))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, pass := range o.passes {
		wg.Add(1)
		go func(pass SchemaPass) {
			defer wg.Done()
			result := o.runPass(ctx, pass, user)
			mu.Lock()
			results[pass.Name] = result
			mu.Unlock()
		}(pass)
	}
	wg.Wait()

	return mergeRecord(results)
}

func (o *orchestratorService) runPass(ctx context.Context, pass SchemaPass, user string) models.PassResult {
	passCtx, cancel := context.WithTimeout(ctx, o.passTimeout)
	defer cancel()

	raw, err := o.llmService.GenerateJSON(passCtx, pass.System, user, pass.MaxTokens, pass.Temperature)
	if err != nil {
		log.Printf("❌ Pass %s failed: %v\n", pass.Name, err)
		return models.PassResult{Name: pass.Name, Err: err}
	}

	value := map[string]any{}
	jsonStr := unwrapFence(raw)
	if err := json.Unmarshal([]byte(jsonStr), &value); err != nil {
		log.Printf("⚠️  Pass %s returned unparsable JSON: %v\n", pass.Name, err)
		return models.PassResult{
			Name: pass.Name,
			Raw:  raw,
			Err:  fmt.Errorf("failed to parse pass response as JSON: %w", err),
		}
	}

	return models.PassResult{Name: pass.Name, Value: value, Raw: raw}
}

// unwrapFence trims the response and strips a fenced code block
// wrapper if the model added one.
func unwrapFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// mergeRecord shallow-combines personal_info's top-level fields with
// the experience, projects and skills keys from the other passes.
// Failed or incomplete passes contribute empty defaults, never null.
func mergeRecord(results map[string]models.PassResult) models.CVRecord {
	record := models.CVRecord{}

	if personal := results["personal_info"]; !personal.Failed() {
		for key, value := range personal.Value {
			record[key] = value
		}
	}

	record["experience"] = passField(results["experience"], "experience", []any{})
	record["projects"] = passField(results["projects"], "projects", []any{})
	record["skills"] = passField(results["skills"], "skills", map[string]any{})

	return record
}

func passField(result models.PassResult, key string, fallback any) any {
	if result.Failed() {
		return fallback
	}
	if value, ok := result.Value[key]; ok && value != nil {
		return value
	}
	return fallback
}
