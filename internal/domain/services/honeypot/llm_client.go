package honeypot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fraudshield-lab/internal/config"
	"fraudshield-lab/pkg/logger"
)

// ErrLLMUnavailable marks a recoverable failure of the generative
// backend: timeout, non-2xx status or a malformed payload. Callers retry
// or fall back to the rule-based provider; it never ends a session.
var ErrLLMUnavailable = errors.New("llm backend unavailable")

// TextCompleter is the narrow prompt-in/text-out contract the generative
// reply provider needs from a language-model backend.
type TextCompleter interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

const (
	claudeMessagesURL     = "https://api.anthropic.com/v1/messages"
	openAICompletionsURL  = "https://api.openai.com/v1/chat/completions"
	defaultClaudeModel    = "claude-3-5-haiku-20241022"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultLLMTemperature = 0.7
	defaultLLMMaxTokens   = 256
)

// LLMClient provides text completion against Claude or OpenAI APIs.
type LLMClient struct {
	httpClient *http.Client
	config     config.LLMConfig
	logger     *logger.Logger

	// endpoint overrides for testing
	claudeURL string
	openAIURL string
}

// NewLLMClient creates a new LLM client from configuration.
func NewLLMClient(cfg config.LLMConfig, log *logger.Logger) *LLMClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultLLMTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultLLMMaxTokens
	}
	if cfg.Model == "" {
		if cfg.Provider == "claude" {
			cfg.Model = defaultClaudeModel
		} else {
			cfg.Model = defaultOpenAIModel
		}
	}

	return &LLMClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     log.WithComponent("llm-client"),
		claudeURL:  claudeMessagesURL,
		openAIURL:  openAICompletionsURL,
	}
}

// Complete sends the prompt to the configured provider and returns the
// trimmed response text. All transport and payload failures are wrapped
// in ErrLLMUnavailable.
func (c *LLMClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	var (
		text string
		err  error
	)

	switch c.config.Provider {
	case "claude":
		text, err = c.callClaude(ctx, system, prompt)
	case "openai":
		text, err = c.callOpenAI(ctx, system, prompt)
	default:
		return "", fmt.Errorf("unsupported llm provider: %s", c.config.Provider)
	}

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLLMUnavailable, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", ErrLLMUnavailable)
	}
	return text, nil
}

// callClaude makes a request to the Claude messages API.
func (c *LLMClient) callClaude(ctx context.Context, system, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":       c.config.Model,
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
		"system":      system,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}

	body, err := c.post(ctx, c.claudeURL, reqBody, map[string]string{
		"x-api-key":         c.config.ClaudeAPIKey,
		"anthropic-version": "2023-06-01",
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("malformed response: %v", err)
	}

	var text string
	for _, part := range resp.Content {
		if part.Type == "text" {
			text += part.Text
		}
	}
	return text, nil
}

// callOpenAI makes a request to the OpenAI chat completions API.
func (c *LLMClient) callOpenAI(ctx context.Context, system, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":       c.config.Model,
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
		"messages": []map[string]any{
			{"role": "system", "content": system},
			{"role": "user", "content": prompt},
		},
	}

	body, err := c.post(ctx, c.openAIURL, reqBody, map[string]string{
		"Authorization": "Bearer " + c.config.OpenAIAPIKey,
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("malformed response: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *LLMClient) post(ctx context.Context, url string, reqBody any, headers map[string]string) ([]byte, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
