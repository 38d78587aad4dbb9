package tool

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hupe1980/agentcore/core"
)

const (
	webFetchTimeout  = 30 * time.Second
	maxWebFetchBytes = 100 * 1024
)

// WebFetchTool retrieves the content of a URL over HTTP(S).
type WebFetchTool struct {
	client *http.Client
}

// NewWebFetchTool creates the URL fetching tool with a default client.
func NewWebFetchTool() *WebFetchTool {
	return &WebFetchTool{client: &http.Client{Timeout: webFetchTimeout}}
}

// NewWebFetchToolWithClient creates the URL fetching tool with a custom HTTP
// client, mainly for tests.
func NewWebFetchToolWithClient(client *http.Client) *WebFetchTool {
	return &WebFetchTool{client: client}
}

// Name implements Tool.
func (t *WebFetchTool) Name() string { return "WebFetch" }

// Description implements Tool.
func (t *WebFetchTool) Description() string {
	return "Fetch the content of an HTTP or HTTPS URL. Responses are truncated to 100KB."
}

// Parameters implements Tool.
func (t *WebFetchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "URL to fetch.",
			},
		},
		"required": []string{"url"},
	}
}

// Call implements Tool.
func (t *WebFetchTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	url, _ := args["url"].(string)
	if url == "" {
		return nil, NewToolError(t.Name(), "url is required", CodeValidation)
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, NewToolError(t.Name(), "url must use the http or https scheme", CodeValidation)
	}

	req, err := http.NewRequestWithContext(tc.Context(), http.MethodGet, url, nil)
	if err != nil {
		return nil, NewToolError(t.Name(), fmt.Sprintf("build request: %v", err), CodeValidation)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, NewToolError(t.Name(), fmt.Sprintf("fetch %s: %v", url, err), CodeExecution)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWebFetchBytes+1))
	if err != nil {
		return nil, NewToolError(t.Name(), fmt.Sprintf("read response: %v", err), CodeExecution)
	}

	truncated := false
	if len(body) > maxWebFetchBytes {
		body = body[:maxWebFetchBytes]
		truncated = true
	}

	if resp.StatusCode >= 400 {
		return nil, NewToolError(t.Name(), fmt.Sprintf("fetch %s: status %d", url, resp.StatusCode), CodeExecution)
	}

	content := string(body)
	if truncated {
		content += "\n... (response truncated)"
	}

	return map[string]any{
		"url":          url,
		"status":       resp.StatusCode,
		"content_type": resp.Header.Get("Content-Type"),
		"content":      content,
	}, nil
}
