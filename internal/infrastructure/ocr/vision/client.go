package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// noTextPlaceholder keeps the success contract non-empty: a readable image
// with no text is not a failure.
const noTextPlaceholder = "No text detected."

// Client calls the recognition backend over HTTP. Only transport and backend
// failures surface as errors.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) Recognize(ctx context.Context, imageReference string) (string, error) {
	request := map[string]string{"image_url": imageReference}
	body, err := json.Marshal(request)
	if err != nil {
		return "", domain.WrapError(domain.ErrRecognition, "recognize", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/recognize", bytes.NewReader(body))
	if err != nil {
		return "", domain.WrapError(domain.ErrRecognition, "recognize", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.WrapError(domain.ErrRecognition, "recognize", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", domain.WrapError(domain.ErrRecognition, "recognize",
			fmt.Errorf("backend status %s: %s", resp.Status, strings.TrimSpace(string(raw))))
	}

	var response struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", domain.WrapError(domain.ErrRecognition, "recognize", err)
	}

	text := strings.TrimSpace(response.Text)
	if text == "" {
		return noTextPlaceholder, nil
	}
	return text, nil
}
