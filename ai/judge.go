package ai

import (
	"context"
	"fmt"
	"log"
	"time"

	"tribunal/domain/core"
	"tribunal/domain/verdict"
	"tribunal/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

// defaultOracleTimeout bounds oracle calls when no LLM_TIMEOUT is configured.
const defaultOracleTimeout = 120 * time.Second

// Judge invokes the external judgment oracle and returns a validated
// structured verdict. It is constructed explicitly and passed to the
// services that need it; there is no shared process-global client, so tests
// substitute a fake by pointing BaseURL at a local server.
//
// The client never retries: transport failures surface as
// core.ErrOracleUnavailable and the caller decides what to do.
type Judge struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

// NewJudge creates an oracle client from AI configuration.
func NewJudge(cfg *config.AIConfig) *Judge {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultOracleTimeout
	}

	log.Printf("[Judge] Initialized oracle client - model=%s, temp=%.2f, maxTokens=%d, timeout=%v",
		cfg.Model, cfg.Temperature, cfg.MaxVerdictTokens, timeout)

	return &Judge{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxVerdictTokens,
		timeout:     timeout,
	}
}

// WithMaxTokens returns a copy of the judge with a different response cap.
// Argument-round verdicts carry more context and get a larger budget.
func (j *Judge) WithMaxTokens(maxTokens int) *Judge {
	clone := *j
	clone.maxTokens = maxTokens
	return &clone
}

// Judge sends the assembled briefing to the oracle and validates the
// structured response. Only a fully parsed, fully validated response is
// returned; everything else is a typed failure with nothing persisted.
func (j *Judge) Judge(ctx context.Context, systemRole, briefing string) (*verdict.Judgment, error) {
	log.Printf("[Judge] Requesting verdict - model=%s, briefingLength=%d", j.model, len(briefing))

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: j.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemRole},
			{Role: openai.ChatMessageRoleUser, Content: briefing},
		},
		Temperature: j.temperature,
		MaxTokens:   j.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		log.Printf("[Judge] ERROR: oracle call failed: %v", err)
		return nil, fmt.Errorf("%w: %v", core.ErrOracleUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", core.ErrOracleResponseInvalid)
	}

	payload, err := verdict.ParsePayload(resp.Choices[0].Message.Content)
	if err != nil {
		log.Printf("[Judge] ERROR: response validation failed: %v", err)
		return nil, err
	}

	judgment := &verdict.Judgment{
		Payload:   *payload,
		ModelUsed: j.model,
	}
	if resp.Usage.TotalTokens > 0 {
		tokens := resp.Usage.TotalTokens
		judgment.TokensUsed = &tokens
	}

	log.Printf("[Judge] Verdict received - winner=%s, confidence=%.2f, tokens=%d",
		payload.Winner, payload.ConfidenceScore, resp.Usage.TotalTokens)

	return judgment, nil
}
