package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

type capturedRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestBackend(t *testing.T, status int, completion string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") == "" {
			t.Errorf("missing api key header")
		}
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.WriteHeader(status)
		if status < 300 {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"content": []map[string]string{{"text": completion}},
			})
		}
	}))
}

func TestSummarizeTextSendsAnalysisPrompt(t *testing.T) {
	var captured capturedRequest
	server := newTestBackend(t, http.StatusOK, "Summary: fine.\n", &captured)
	defer server.Close()

	client := New(server.URL, "key", "claude-test", 2048)
	got, err := client.SummarizeText(context.Background(), "the document body")
	if err != nil {
		t.Fatalf("SummarizeText() error = %v", err)
	}
	if got != "Summary: fine." {
		t.Fatalf("expected trimmed completion, got %q", got)
	}
	if captured.Model != "claude-test" || captured.MaxTokens != 2048 {
		t.Fatalf("unexpected request envelope: %+v", captured)
	}
	if captured.Temperature != temperatureAnalysis {
		t.Fatalf("expected analysis temperature %v, got %v", temperatureAnalysis, captured.Temperature)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" {
		t.Fatalf("expected single user message, got %+v", captured.Messages)
	}
	if !strings.Contains(captured.Messages[0].Content, "the document body") {
		t.Fatalf("prompt must embed the input text")
	}
	if !strings.Contains(captured.Messages[0].Content, "Recommendations:") {
		t.Fatalf("prompt must request the four sections")
	}
}

func TestAnswerQuestionUsesHigherTemperature(t *testing.T) {
	var captured capturedRequest
	server := newTestBackend(t, http.StatusOK, "the answer", &captured)
	defer server.Close()

	client := New(server.URL, "key", "claude-test", 0)
	got, err := client.AnswerQuestion(context.Background(), "what?", "context text")
	if err != nil {
		t.Fatalf("AnswerQuestion() error = %v", err)
	}
	if got != "the answer" {
		t.Fatalf("answer = %q", got)
	}
	if captured.Temperature != temperatureQuestion {
		t.Fatalf("expected question temperature %v, got %v", temperatureQuestion, captured.Temperature)
	}
	if !strings.Contains(captured.Messages[0].Content, "context text") {
		t.Fatalf("prompt must embed the context")
	}
}

func TestSummarizeReferenceEmbedsReferenceAndType(t *testing.T) {
	var captured capturedRequest
	server := newTestBackend(t, http.StatusOK, "ok", &captured)
	defer server.Close()

	client := New(server.URL, "key", "claude-test", 512)
	if _, err := client.SummarizeReference(context.Background(), "bucket/doc.pdf", "application/pdf"); err != nil {
		t.Fatalf("SummarizeReference() error = %v", err)
	}
	prompt := captured.Messages[0].Content
	if !strings.Contains(prompt, "bucket/doc.pdf") || !strings.Contains(prompt, "application/pdf") {
		t.Fatalf("prompt must embed reference and mime type, got %q", prompt)
	}
}

func TestNon2xxResponseIsSummarizationError(t *testing.T) {
	server := newTestBackend(t, http.StatusInternalServerError, "", nil)
	defer server.Close()

	client := New(server.URL, "key", "claude-test", 512)
	_, err := client.SummarizeText(context.Background(), "text")
	if !domain.IsKind(err, domain.ErrSummarization) {
		t.Fatalf("expected ErrSummarization, got %v", err)
	}
}

func TestEmptyContentIsSummarizationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"content": []any{}})
	}))
	defer server.Close()

	client := New(server.URL, "key", "claude-test", 512)
	_, err := client.SummarizeText(context.Background(), "text")
	if !domain.IsKind(err, domain.ErrSummarization) {
		t.Fatalf("expected ErrSummarization, got %v", err)
	}
}

func TestBlankCompletionTextIsSummarizationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []any{map[string]any{"text": "  \n\t "}},
		})
	}))
	defer server.Close()

	client := New(server.URL, "key", "claude-test", 512)
	out, err := client.SummarizeText(context.Background(), "text")
	if !domain.IsKind(err, domain.ErrSummarization) {
		t.Fatalf("expected ErrSummarization for blank completion, got %v", err)
	}
	if out != "" {
		t.Fatalf("no text must be returned, got %q", out)
	}
}
