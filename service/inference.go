package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Joseph3331/Layman-law/config"
)

// DefaultSystemMessage is used when a handler does not supply its own.
const DefaultSystemMessage = "You are a helpful AI assistant that simplifies legal documents."

// Completer is the outbound chat-completion contract handlers depend on.
type Completer interface {
	Complete(ctx context.Context, systemMessage, userPrompt string) (string, error)
}

// InferenceService sends one system message and one user message per call to
// a hosted chat-completion endpoint. Failures come back as errors; a
// successful response with no usable choice comes back as an empty string.
// How a failure is rendered to the caller is the handler's decision.
type InferenceService struct {
	config     *config.InferenceConfig
	httpClient *http.Client
}

func NewInferenceService(cfg *config.InferenceConfig) *InferenceService {
	return &InferenceService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete performs a single chat-completion round trip and returns the
// content of the first choice.
func (s *InferenceService) Complete(ctx context.Context, systemMessage, userPrompt string) (string, error) {
	if systemMessage == "" {
		systemMessage = DefaultSystemMessage
	}

	reqBody := chatRequest{
		Model: s.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: userPrompt},
		},
		Temperature: s.config.Temperature,
		TopP:        s.config.TopP,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := strings.TrimRight(s.config.Endpoint, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.config.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("inference API status %d: %s", resp.StatusCode, string(body))
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", nil
	}
	return result.Choices[0].Message.Content, nil
}
