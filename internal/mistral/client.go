package mistral

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the Mistral OCR API. One request carries the whole
// document as a base64 data URL and the response returns per-page markdown.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

type Document struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

type OCRRequest struct {
	Model              string   `json:"model"`
	Document           Document `json:"document"`
	IncludeImageBase64 bool     `json:"include_image_base64"`
}

type OCRPage struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

type OCRResponse struct {
	Model     string    `json:"model"`
	Pages     []OCRPage `json:"pages"`
	UsageInfo struct {
		PagesProcessed int `json:"pages_processed"`
	} `json:"usage_info"`
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   "mistral-ocr-latest",
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// ProcessDocument runs OCR over the document bytes and returns the page
// markdown in order.
func (c *Client) ProcessDocument(ctx context.Context, data []byte, mimeType string) (*OCRResponse, error) {
	if mimeType == "" {
		mimeType = "application/pdf"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	payload, err := json.Marshal(OCRRequest{
		Model:    c.model,
		Document: Document{Type: "document_url", DocumentURL: dataURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/ocr"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ocr request failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result OCRResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("ocr response contained no pages")
	}

	return &result, nil
}

// RetryWithBackoff executes fn with exponential backoff between attempts.
func (c *Client) RetryWithBackoff(fn func() error, maxRetries int) error {
	backoffs := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if i < len(backoffs) {
			time.Sleep(backoffs[i])
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
