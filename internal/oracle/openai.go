package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/FranksOps/sift/internal/candidate"
	"github.com/FranksOps/sift/internal/metrics"
	"github.com/FranksOps/sift/pkg/httpclient"
	"github.com/FranksOps/sift/pkg/ratelimit"
)

// Service names used for rate limiting and metrics labels.
const (
	ServiceScore     = "score"
	ServiceEmbed     = "embed"
	ServiceTranslate = "translate"
)

// Client calls an OpenAI-compatible API for chat completions and embeddings,
// implementing all three oracle contracts. Calls to the same service are
// throttled through the shared limiter registry.
type Client struct {
	BaseURL    string
	APIKey     string
	ChatModel  string
	EmbedModel string

	HTTPClient *httpclient.Client
	Limiters   *ratelimit.Registry
}

var (
	_ Scorer     = (*Client)(nil)
	_ Embedder   = (*Client)(nil)
	_ Translator = (*Client)(nil)
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// practicalityPrompt renders the scoring rubric. A 10 names the product and
// asks a common, complete user question; a 1 is unrelated.
func practicalityPrompt(question, topic string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rate how practical the following question is for the product %q on a scale of 1-10.\n\n", topic)
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	b.WriteString(`Scoring rubric (strict):
- 10: names the product and asks a common, complete, user-relevant question (how to choose, clean, operate)
- 8: uses product-related terminology in a complete, professional but practical question (calibration, troubleshooting, inspection)
- 5: highly technical but semantically complete
- 2: incomplete phrasing or too generic to tie to the product
- 1: unrelated to the product

Checklist: is the question complete, does it mention the product or its terminology, would a typical user care, is it directly about the product?

Output only the number (1-10), nothing else.`)
	return b.String()
}

// Practicality asks the chat model to rate a question and parses the reply
// as a float, clamped to [1,10].
func (c *Client) Practicality(ctx context.Context, question, topic string) (float64, error) {
	if err := c.wait(ctx, ServiceScore); err != nil {
		return 0, err
	}

	start := time.Now()
	reply, err := c.chat(ctx, chatRequest{
		Model:       c.ChatModel,
		Messages:    []chatMessage{{Role: "user", Content: practicalityPrompt(question, topic)}},
		Temperature: 0.3,
		MaxTokens:   5,
	})
	metrics.RecordOracleCall(ServiceScore, err, time.Since(start))
	if err != nil {
		return 0, err
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(reply), 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric practicality reply %q: %w", reply, err)
	}
	return clampScore(score), nil
}

func clampScore(s float64) float64 {
	if s < 1 {
		return 1
	}
	if s > 10 {
		return 10
	}
	return s
}

// Embed requests embeddings for all texts in a single batched call.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := c.wait(ctx, ServiceEmbed); err != nil {
		return nil, err
	}

	start := time.Now()
	vectors, err := c.embed(ctx, texts)
	metrics.RecordOracleCall(ServiceEmbed, err, time.Since(start))
	return vectors, err
}

// Translate renders the text in the target language via the chat model.
func (c *Client) Translate(ctx context.Context, text string, target candidate.Language) (string, error) {
	if err := c.wait(ctx, ServiceTranslate); err != nil {
		return "", err
	}

	system := fmt.Sprintf("You are a professional translator. Translate the user's question into %s. Output only the translation, no commentary.", languageName(target))

	start := time.Now()
	reply, err := c.chat(ctx, chatRequest{
		Model: c.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: text},
		},
		Temperature: 0.3,
		MaxTokens:   100,
	})
	metrics.RecordOracleCall(ServiceTranslate, err, time.Since(start))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func languageName(l candidate.Language) string {
	switch l {
	case candidate.LangZhTW:
		return "Traditional Chinese (Taiwan usage)"
	case candidate.LangEN:
		return "English"
	default:
		return string(l)
	}
}

func (c *Client) wait(ctx context.Context, service string) error {
	if c.Limiters == nil {
		return nil
	}
	if err := c.Limiters.For(service).Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

func (c *Client) chat(ctx context.Context, payload chatRequest) (string, error) {
	if c.BaseURL == "" || payload.Model == "" {
		return "", fmt.Errorf("oracle: base URL and model required")
	}

	var resp chatResponse
	if err := c.post(ctx, "/chat/completions", payload, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("oracle: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("oracle: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) embed(ctx context.Context, texts []string) ([][]float64, error) {
	if c.BaseURL == "" || c.EmbedModel == "" {
		return nil, fmt.Errorf("oracle: base URL and embedding model required")
	}

	var resp embedResponse
	if err := c.post(ctx, "/embeddings", embedRequest{Model: c.EmbedModel, Input: texts}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("oracle: %s", resp.Error.Message)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("oracle: got %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([][]float64, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(c.BaseURL, "/")+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient().Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) httpClient() *httpclient.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	cl, err := httpclient.New(httpclient.Config{Timeout: 30 * time.Second, MaxRedirects: 3})
	if err != nil {
		// Config above cannot fail; keep the zero-value client as a guard.
		return &httpclient.Client{Client: http.DefaultClient}
	}
	c.HTTPClient = cl
	return cl
}
