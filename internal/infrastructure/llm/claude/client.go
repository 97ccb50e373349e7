package claude

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// Sampling temperatures: summarization stays near-deterministic so mocked
// backends reproduce; question answering is allowed slightly more freedom.
const (
	temperatureAnalysis = 0.1
	temperatureQuestion = 0.3
)

// Client talks to the generative messages backend. No client-side retry:
// callers decide whether to re-invoke.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

func New(baseURL, apiKey, model string, maxTokens int) *Client {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Client) SummarizeText(ctx context.Context, text string) (string, error) {
	prompt := BuildPrompt(PromptTextAnalysis, PromptParams{Text: text})
	return c.complete(ctx, "summarize text", prompt, temperatureAnalysis)
}

func (c *Client) SummarizeReference(ctx context.Context, reference, mimeType string) (string, error) {
	prompt := BuildPrompt(PromptDocumentAnalysis, PromptParams{Reference: reference, MimeType: mimeType})
	return c.complete(ctx, "summarize reference", prompt, temperatureAnalysis)
}

func (c *Client) AnswerQuestion(ctx context.Context, question, contextText string) (string, error) {
	prompt := BuildPrompt(PromptQuestion, PromptParams{Question: question, Context: contextText})
	return c.complete(ctx, "answer question", prompt, temperatureQuestion)
}

func (c *Client) complete(ctx context.Context, operation, prompt string, temperature float64) (string, error) {
	request := messagesRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: temperature,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
	}

	var response messagesResponse
	if err := c.postJSON(ctx, "/v1/messages", request, &response, operation); err != nil {
		return "", domain.WrapError(domain.ErrSummarization, operation, err)
	}
	if len(response.Content) == 0 {
		return "", domain.WrapError(domain.ErrSummarization, operation, errEmptyCompletion)
	}
	// Index 0 carries the completion; further blocks are ignored. A blank
	// completion is an error so an analyzed document always has text.
	text := strings.TrimSpace(response.Content[0].Text)
	if text == "" {
		return "", domain.WrapError(domain.ErrSummarization, operation, errEmptyCompletion)
	}
	return text, nil
}
