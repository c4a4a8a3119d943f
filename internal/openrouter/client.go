package openrouter

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

// Client talks to an OpenRouter-compatible chat completions API. The native
// engine hands the whole document to a model and asks it to return the
// structured content directly.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

type fileAttachment struct {
	Filename string `json:"filename"`
	FileData string `json:"file_data"`
}

type contentPart struct {
	Type string          `json:"type"`
	Text string          `json:"text,omitempty"`
	File *fileAttachment `json:"file,omitempty"`
}

type message struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 180 * time.Second,
		},
	}
}

const extractionPrompt = `Extract the full content of the attached document as JSON with this shape:
{"title": string, "pages": number, "content": [{"type": "text|heading|code|table", "content": string, "level": number, "language": string, "headers": [string], "rows": [[string]]}]}
Use "heading" with a level for section titles, "code" with a language for code blocks, "table" with headers and rows for tabular data, and "text" for everything else. Respond with the JSON object only.`

// IngestDocument sends the document to the model and returns the raw model
// output, which the native engine parses into structured content.
func (c *Client) IngestDocument(ctx context.Context, filename string, data []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "application/pdf"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	payload, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []message{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: extractionPrompt},
				{Type: "file", File: &fileAttachment{Filename: filename, FileData: dataURL}},
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion request failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result completionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}

	return result.Choices[0].Message.Content, nil
}
