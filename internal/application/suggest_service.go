package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const openAIChatURL = "https://api.openai.com/v1/chat/completions"

// SuggestService asks the OpenAI chat-completions API for short task-title
// ideas. It is an optional helper: without an API key every call returns
// ErrSuggestionsDisabled.
type SuggestService struct {
	APIKey string
	Model  string
	Client *http.Client
	Logger *logrus.Logger
}

func NewSuggestService(apiKey, model string, logger *logrus.Logger) *SuggestService {
	return &SuggestService{
		APIKey: apiKey,
		Model:  model,
		Client: &http.Client{Timeout: 15 * time.Second},
		Logger: logger,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// SuggestTitles returns up to five short task titles for the given topic.
// Non-JSON model output degrades to line-split ideas.
func (s *SuggestService) SuggestTitles(ctx context.Context, topic string) ([]string, error) {
	if s.APIKey == "" {
		return nil, ErrSuggestionsDisabled
	}

	prompt := fmt.Sprintf(`Generate 5 short task titles about: %s. Reply with JSON {"ideas":[...]}.`, topic)
	payload := chatRequest{
		Model: s.Model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIChatURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if s.Logger != nil {
			s.Logger.WithField("status", resp.StatusCode).WithField("body", string(raw)).Warn("openai request failed")
		}
		return nil, fmt.Errorf("suggestion request failed with status %d", resp.StatusCode)
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no suggestions generated")
	}

	return parseIdeas(result.Choices[0].Message.Content), nil
}

// parseIdeas prefers the requested JSON shape and falls back to splitting
// the raw text into lines.
func parseIdeas(content string) []string {
	var wrapped struct {
		Ideas []string `json:"ideas"`
	}
	if err := json.Unmarshal([]byte(content), &wrapped); err == nil && len(wrapped.Ideas) > 0 {
		return capIdeas(wrapped.Ideas)
	}

	var ideas []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line != "" {
			ideas = append(ideas, line)
		}
	}
	return capIdeas(ideas)
}

func capIdeas(ideas []string) []string {
	if len(ideas) > 5 {
		return ideas[:5]
	}
	return ideas
}
