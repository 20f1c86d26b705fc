// Package ai calls the chat-completion service that renders the final
// confidence verdict over a scored assessment.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/errors"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/internal/scoring"
	"github.com/meganfung38/SFDC-Shell-Account-Assessment/pkg/config"
)

// systemPrompt pins the judge to its one job and to a machine-readable
// answer. The response contract is re-validated in parseJudgment.
const systemPrompt = `You are a corporate account relationship validator. ` +
	`You receive a customer account, optionally its parent shell account, and a set of ` +
	`precomputed consistency flags. Judge whether the customer account truly belongs ` +
	`under its shell account and whether its own identity fields are coherent. ` +
	`Respond with STRICT JSON only, no prose, in exactly this shape: ` +
	`{"confidence_score": <integer 0-100>, "explanation_bullets": ["<bullet>", ...]}. ` +
	`Every bullet must start with ✅, ⚠️ or ❌ and reference concrete field values.`

// Client is the chat-completion judge.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

// NewClient builds the judge from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		apiKey:     cfg.OpenAIAPIKey,
		baseURL:    strings.TrimRight(cfg.OpenAIBaseURL, "/"),
		model:      cfg.OpenAIModel,
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
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Assess sends the flags and account summaries to the judge and validates
// its verdict. Verdicts are deterministic per input: temperature is pinned
// to zero.
func (c *Client) Assess(ctx context.Context, input scoring.JudgmentInput) (*scoring.Judgment, error) {
	payload, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal judgment input: %w", err)
	}

	content, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: "Assess this account:\n\n" + string(payload)},
	})
	if err != nil {
		return nil, err
	}

	return parseJudgment(content)
}

// complete performs one chat-completion round trip and returns the first
// choice's content.
func (c *Client) complete(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.ServiceError("AI completion request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.ServiceError(
			fmt.Sprintf("AI completion returned status %d", resp.StatusCode),
			fmt.Errorf("%s", string(raw)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse chat response: %w", err)
	}
	if parsed.Error != nil {
		return "", errors.ServiceError("AI completion failed: "+parsed.Error.Message, nil)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.ServiceError("AI completion returned no choices", nil)
	}

	return parsed.Choices[0].Message.Content, nil
}

// parseJudgment extracts and validates the strict-JSON verdict. Models
// sometimes wrap the JSON in code fences or prose despite the contract, so
// the outermost object is carved out before decoding.
func parseJudgment(content string) (*scoring.Judgment, error) {
	jsonText := extractJSON(content)
	if jsonText == "" {
		return nil, errors.ServiceError("AI response contained no JSON object", nil)
	}

	var verdict struct {
		ConfidenceScore    *int     `json:"confidence_score"`
		ExplanationBullets []string `json:"explanation_bullets"`
	}
	if err := json.Unmarshal([]byte(jsonText), &verdict); err != nil {
		return nil, errors.ServiceError("AI response was not valid JSON", err)
	}

	if verdict.ConfidenceScore == nil {
		return nil, errors.ServiceError("AI response missing confidence_score", nil)
	}
	if *verdict.ConfidenceScore < 0 || *verdict.ConfidenceScore > 100 {
		return nil, errors.ServiceError(
			fmt.Sprintf("AI confidence_score out of range: %d", *verdict.ConfidenceScore), nil)
	}
	if len(verdict.ExplanationBullets) == 0 {
		return nil, errors.ServiceError("AI response missing explanation_bullets", nil)
	}

	return &scoring.Judgment{
		ConfidenceScore:    *verdict.ConfidenceScore,
		ExplanationBullets: verdict.ExplanationBullets,
	}, nil
}

// extractJSON returns the outermost {...} object in a string, or "".
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}

// TestConnection verifies credentials against the models endpoint.
func (c *Client) TestConnection(ctx context.Context) (bool, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return false, fmt.Sprintf("Connection failed: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Sprintf("Connection failed: %v", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Sprintf("Connection failed with status %d", resp.StatusCode)
	}
	return true, "OpenAI connection successful"
}

// TestCompletion runs a trivial round trip through the chat endpoint.
func (c *Client) TestCompletion(ctx context.Context) (string, error) {
	return c.complete(ctx, []chatMessage{
		{Role: "user", Content: "Reply with the single word: ok"},
	})
}
