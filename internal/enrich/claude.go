// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/template"

	"github.com/pdiddy/prd-engine/internal/httputil"
	"github.com/pdiddy/prd-engine/pkg/types"
)

// enhancePromptTmpl is the prompt template sent to the Claude API for each
// document section. It instructs the model to tighten the prose while
// preserving every fact the interview captured.
var enhancePromptTmpl = template.Must(template.New("enhance").Parse(`You are a product requirements editor. Improve the following section of a PRD for a {{.Complexity}} {{.ProductType}} product in the {{.Industry}} industry.

Rules:
- Preserve every fact, number, and named feature exactly; never invent requirements.
- Rewrite for clarity and concision; use the same Markdown conventions as the input.
- Where a requirement is vague, add a short parenthetical question flagging what needs clarification.
- Respond with the improved section body only, no heading and no commentary.

Section: {{.Heading}}

{{.Body}}
`))

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeBackend calls the Claude API to enhance one document section at
// a time. Retries on rate limiting are handled by httputil.DoWithRetry.
type ClaudeBackend struct {
	APIKey     string
	Model      string
	MaxRetries int
	Client     *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Enhance calls the Claude API with the enhancement prompt for one section.
func (c *ClaudeBackend) Enhance(ctx context.Context, pc types.ProductContext, heading, body string) (string, error) {
	prompt, err := renderPrompt(pc, heading, body)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	reqBody := claudeRequest{
		Model:     c.Model,
		MaxTokens: 4096,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(raw))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("no text content in Claude API response")
}

// renderPrompt executes the enhancement prompt template.
func renderPrompt(pc types.ProductContext, heading, body string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		ProductType string
		Industry    string
		Complexity  string
		Heading     string
		Body        string
	}{
		ProductType: string(pc.ProductType),
		Industry:    string(pc.Industry),
		Complexity:  string(pc.Complexity),
		Heading:     heading,
		Body:        body,
	}
	if err := enhancePromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
