// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm is a client for OpenAI-compatible chat-completion services.
// Generation failures degrade to deterministic fallbacks so the answer
// pipeline keeps working without a reachable model.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/econsearch/internal/httputil"
	"github.com/pdiddy/econsearch/pkg/types"
)

// DefaultProvider is used when the config names no provider.
const DefaultProvider = "shubiaobiao"

// providerPresets maps provider names to their endpoint and default model.
var providerPresets = map[string]struct {
	baseURL string
	model   string
}{
	"shubiaobiao": {baseURL: "https://api.shubiaobiao.cn/v1/", model: "gpt-4o-mini"},
	"deepseek":    {baseURL: "https://api.deepseek.com/v1/", model: "deepseek-chat"},
}

const defaultTimeout = 60 * time.Second

// Client calls a chat-completions endpoint.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	maxRetries int
	http       *http.Client
}

// New resolves provider presets against cfg and returns a client. Explicit
// BaseURL and Model values override the preset. An unknown provider with no
// BaseURL override is an error.
func New(cfg types.AIConfig) (*Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = DefaultProvider
	}

	preset, ok := providerPresets[provider]
	if !ok && cfg.BaseURL == "" {
		return nil, fmt.Errorf("unsupported AI provider %q", provider)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = preset.baseURL
	}
	model := cfg.Model
	if model == "" {
		model = preset.model
	}
	if model == "" {
		return nil, fmt.Errorf("no model configured for provider %q", provider)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/",
		model:      model,
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		http:       &http.Client{Timeout: timeout},
	}, nil
}

// Model returns the configured chat model identifier.
func (c *Client) Model() string { return c.model }

// Chat-completions wire structures.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// chat runs one chat-completion round trip and returns the trimmed content
// of the first choice.
func (c *Client) chat(ctx context.Context, messages []chatMessage, temperature float64, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("no API key configured")
	}

	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.maxRetries)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("parsing chat response (HTTP %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if cr.Error != nil && cr.Error.Message != "" {
			return "", fmt.Errorf("chat completion returned HTTP %d: %s", resp.StatusCode, cr.Error.Message)
		}
		return "", fmt.Errorf("chat completion returned HTTP %d", resp.StatusCode)
	}

	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}

// GenerateKeywords asks the model for n short search phrases for the
// question, one per line. On any failure it falls back to FallbackKeywords.
func (c *Client) GenerateKeywords(ctx context.Context, question string, n int) []string {
	if n <= 0 {
		n = 6
	}

	prompt := fmt.Sprintf(
		"You act as an academic search assistant. Given the user's question, generate "+
			"%d short English keyword phrases suitable for searching finance and economics papers. "+
			"Return one keyword phrase per line. Avoid numbering or extra commentary.", n)

	text, err := c.chat(ctx, []chatMessage{
		{Role: "system", Content: "You craft terse English keywords for literature search."},
		{Role: "user", Content: prompt + "\n\nUser question:\n" + question},
	}, 0.1, 200)
	if err != nil {
		return FallbackKeywords(question, n)
	}

	var keywords []string
	for _, line := range strings.Split(text, "\n") {
		kw := strings.Trim(line, " -\t")
		if kw == "" {
			continue
		}
		keywords = append(keywords, strings.TrimRight(kw, "."))
	}
	if len(keywords) == 0 {
		return FallbackKeywords(question, n)
	}
	if len(keywords) > n {
		keywords = keywords[:n]
	}
	return keywords
}

// FallbackKeywords derives search phrases from the question itself: lowercase
// tokens longer than two characters, deduplicated in order, padded with the
// full question to reach n.
func FallbackKeywords(question string, n int) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, token := range strings.Fields(strings.ReplaceAll(question, ",", " ")) {
		token = strings.ToLower(token)
		if len(token) <= 2 || seen[token] {
			continue
		}
		seen[token] = true
		tokens = append(tokens, token)
		if len(tokens) >= n {
			break
		}
	}
	if len(tokens) == 0 {
		return []string{question}
	}
	for len(tokens) < n {
		tokens = append(tokens, question)
	}
	return tokens
}

// AnswerWithContext answers a question from the given source texts, citing
// them inline as [Source N]. Empty contexts short-circuit; generation errors
// return an explanatory string rather than failing the request.
func (c *Client) AnswerWithContext(ctx context.Context, question string, contexts []string) string {
	var blocks []string
	for i, text := range contexts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("[Source %d]\n%s", i+1, text))
	}
	if len(blocks) == 0 {
		return "No relevant documents were found for the question."
	}

	answer, err := c.chat(ctx, []chatMessage{
		{Role: "system", Content: "You are an academic assistant. Answer with concise, well-structured paragraphs."},
		{Role: "user", Content: "Use only the information in the sources to answer the user's question. " +
			"Cite sources inline using [Source X].\n\n" +
			"Sources:\n" + strings.Join(blocks, "\n\n") + "\n\nQuestion:\n" + question},
	}, 0.3, 800)
	if err != nil {
		return fmt.Sprintf("(LLM unavailable) Unable to answer due to: %v", err)
	}
	return answer
}

// SummarizeDocument produces a structured summary of a full paper.
func (c *Client) SummarizeDocument(ctx context.Context, title, text string) string {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return "No content available to summarize."
	}

	summary, err := c.chat(ctx, []chatMessage{
		{Role: "system", Content: "You summarize academic papers clearly and accurately."},
		{Role: "user", Content: "You are an expert academic summarizer. Provide a concise, structured summary for the paper below. " +
			"Highlight the research question, methodology, key findings, and any notable limitations. " +
			"Use short paragraphs and bullet points when appropriate.\n\n" +
			"Title: " + title + "\n\nFull Text:\n" + cleaned},
	}, 0.35, 700)
	if err != nil {
		return fmt.Sprintf("(LLM unavailable) Unable to summarize due to: %v", err)
	}
	return summary
}
