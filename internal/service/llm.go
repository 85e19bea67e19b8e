package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultFireworksURL   = "https://api.fireworks.ai/inference/v1/chat/completions"
	defaultFireworksModel = "accounts/fireworks/models/llama-v3p3-70b-instruct"

	// One initial attempt plus this many retries, timeout errors only.
	llmMaxRetries   = 2
	llmRetryBackoff = 500 * time.Millisecond
)

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest represents a request to the chat-completions API
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

// LLMService handles interactions with the Fireworks chat-completions API
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewLLMService creates a new LLMService instance
func NewLLMService() (*LLMService, error) {
	apiKey := os.Getenv("FIREWORKS_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("FIREWORKS_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, fmt.Errorf("FIREWORKS_API_KEY or FIREWORKS_API_KEY_FILE must be set")
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, fmt.Errorf("API key file is empty")
		}
	}

	apiURL := os.Getenv("FIREWORKS_API_URL")
	if apiURL == "" {
		apiURL = defaultFireworksURL
	}

	model := os.Getenv("FIREWORKS_MODEL")
	if model == "" {
		model = defaultFireworksModel
	}

	return &LLMService{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Complete sends a system+user prompt pair to the model and returns the raw
// response text. Connect/read timeouts are retried a bounded number of times
// with a fixed backoff; error statuses from the provider are not retried.
func (s *LLMService) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error) {
	reqBody := CompletionRequest{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= llmMaxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("[LLMService] retrying after timeout (attempt %d/%d)", attempt, llmMaxRetries)
			select {
			case <-time.After(llmRetryBackoff):
			case <-ctx.Done():
				return "", &TransportError{Provider: "fireworks", Err: ctx.Err()}
			}
		}

		text, err := s.completeOnce(ctx, jsonData)
		if err == nil {
			return text, nil
		}

		var transportErr *TransportError
		if errors.As(err, &transportErr) && isTimeout(err) {
			lastErr = err
			continue
		}
		return "", err
	}

	return "", lastErr
}

func (s *LLMService) completeOnce(ctx context.Context, jsonData []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &TransportError{Provider: "fireworks", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Provider: "fireworks", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", newUpstreamError("fireworks", resp.StatusCode, body)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			Text string `json:"text"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	// Chat models answer under message.content; older completion models
	// use a bare text field.
	text := result.Choices[0].Message.Content
	if text == "" {
		text = result.Choices[0].Text
	}
	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}
