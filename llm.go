package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

// LLMResult carries one model response with its billing metadata
type LLMResult struct {
	Text         string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	Duration     time.Duration
	Model        string
	Provider     string
}

// Invoker dispatches one prompt to the model-inference layer. Pipeline stages
// depend on this interface so tests can substitute canned responses.
type Invoker interface {
	Invoke(buildID, role, phase, systemPrompt, userMessage string) (*LLMResult, error)
}

// modelRates maps model name prefixes to USD per million input/output tokens
var modelRates = []struct {
	prefix  string
	in, out float64
}{
	{"claude-opus", 15.0, 75.0},
	{"claude-sonnet", 3.0, 15.0},
	{"claude-haiku", 0.80, 4.0},
}

// LLMClient invokes the Anthropic API and records per-phase cost against the
// build. The store is optional; without it invocations are not billed.
type LLMClient struct {
	apiKey   string
	settings *Settings
	store    *Store
}

// NewLLMClient creates a model-inference client
func NewLLMClient(apiKey string, settings *Settings, store *Store) (*LLMClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	return &LLMClient{apiKey: apiKey, settings: settings, store: store}, nil
}

// Invoke dispatches a single prompt using the agent settings configured for
// role and books the cost against the build's phase. Model errors propagate
// unchanged; cost-recording failures are logged but never fail an invocation.
func (lc *LLMClient) Invoke(buildID, role, phase, systemPrompt, userMessage string) (*LLMResult, error) {
	agent := lc.settings.AgentFor(role)

	settings := types.RequestSettings{
		Model:       agent.Model,
		MaxTokens:   agent.MaxTokens,
		Temperature: agent.Temperature,
	}

	started := time.Now()
	response, err := anthropic.PromptWithSettings(systemPrompt, userMessage, "", lc.apiKey, settings)
	if err != nil {
		return nil, fmt.Errorf("%s agent failed: %w", role, err)
	}
	duration := time.Since(started)

	if len(response.Content) == 0 {
		return nil, fmt.Errorf("no content in %s response", role)
	}

	result := &LLMResult{
		Text:         response.Content[0].Text,
		InputTokens:  response.Usage.InputTokens,
		OutputTokens: response.Usage.OutputTokens,
		Duration:     duration,
		Model:        response.Model,
		Provider:     "anthropic",
	}
	result.CostUSD = estimateCost(result.Model, result.InputTokens, result.OutputTokens)

	if lc.store != nil && buildID != "" {
		if err := lc.store.AddCost(buildID, phase, result.CostUSD); err != nil {
			log.Printf("Warning: recording cost for build %s: %v", buildID, err)
		}
	}

	debugLog("%s/%s: %d in, %d out, $%.4f, %s", role, phase,
		result.InputTokens, result.OutputTokens, result.CostUSD, duration.Round(time.Millisecond))

	return result, nil
}

// estimateCost converts token counts to USD using the model rate table.
// Unknown models cost zero rather than guessing a rate.
func estimateCost(model string, inputTokens, outputTokens int) float64 {
	for _, rate := range modelRates {
		if strings.HasPrefix(model, rate.prefix) {
			return float64(inputTokens)/1e6*rate.in + float64(outputTokens)/1e6*rate.out
		}
	}
	return 0
}
