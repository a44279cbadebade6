package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tribunal/domain/core"
	"tribunal/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

const extractorSystem = "You are a precise document text extraction assistant. Extract only the text content without any additional commentary."

// extractionContentCap bounds how much raw content is sent per extraction
// call to avoid token overflow.
const extractionContentCap = 5000

// Extractor pulls plain text out of binary document content through the
// oracle. Plain-text files never reach it; the document pipeline reads
// those directly.
type Extractor struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewExtractor creates a text extractor from AI configuration.
func NewExtractor(cfg *config.AIConfig) *Extractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultOracleTimeout
	}

	return &Extractor{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxExtractionTokens,
		timeout:   timeout,
	}
}

// Extract returns the text content of a document.
func (e *Extractor) Extract(ctx context.Context, content, fileType string) (string, error) {
	prompt := buildExtractionPrompt(content, fileType)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractorSystem},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.1,
		MaxTokens:   e.maxTokens,
	})
	if err != nil {
		log.Printf("[Extractor] ERROR: extraction call failed: %v", err)
		return "", fmt.Errorf("%w: %v", core.ErrOracleUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in extraction response", core.ErrOracleResponseInvalid)
	}

	return resp.Choices[0].Message.Content, nil
}

func buildExtractionPrompt(content, fileType string) string {
	if len(content) > extractionContentCap {
		content = content[:extractionContentCap]
	}
	return fmt.Sprintf(`You are a document text extraction assistant.
Extract all text content from this %s document.

Instructions:
- Extract ALL text content, maintaining structure where possible
- Remove formatting artifacts and metadata
- Keep paragraphs separated by newlines
- Do not add any commentary or explanation
- Return only the extracted text

Document content:
%s
`, strings.ToUpper(fileType), content)
}

// CountWords reports the number of whitespace-separated words in text.
func CountWords(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return len(strings.Fields(text))
}
