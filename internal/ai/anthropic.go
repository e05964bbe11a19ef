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
)

// anthropicClient is the concrete Valuer backed by the Anthropic Messages API.
type anthropicClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewAnthropicClient returns a Valuer that calls the Anthropic API.
//   - apiKey: your ANTHROPIC_API_KEY
//   - model:  e.g. "claude-sonnet-4-5"
func NewAnthropicClient(apiKey, model string) Valuer {
	return &anthropicClient{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// ─── ANTHROPIC API SHAPES ─────────────────────────────────────────────────────

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ─── ESTIMATE JSON ────────────────────────────────────────────────────────────
// The model is prompted to respond in this exact JSON shape so we can parse
// it without regex heuristics.

type estimateJSON struct {
	MarketLowAud  int64  `json:"market_low_aud"`
	MarketHighAud int64  `json:"market_high_aud"`
	Rationale     string `json:"rationale"`
}

// ─── IMPLEMENTATION ───────────────────────────────────────────────────────────

const systemPrompt = `You are a used-car pricing analyst for the Australian private-sale market.
You will receive a vehicle (make, model, year, odometer) together with the outcome of an in-person inspection: a verdict and a list of condition findings.

Your job is to produce a realistic private-sale price range in whole Australian dollars for the vehicle AS INSPECTED:
1. market_low_aud: the low end of a fair private-sale range, discounted for the listed findings.
2. market_high_aud: the high end of the range. Must be greater than market_low_aud.
3. rationale: 1-3 plain-English sentences explaining the range, referencing the most significant finding if any.

If the findings include serious mechanical or structural issues, discount aggressively. Never exceed typical market value for a clean example of the same vehicle.

Respond ONLY with valid JSON matching this exact schema, no markdown fences, no preamble:
{
  "market_low_aud": 0,
  "market_high_aud": 0,
  "rationale": "..."
}`

// EstimateMarketValue calls the Anthropic API and returns a price range for
// the inspected vehicle.
func (c *anthropicClient) EstimateMarketValue(ctx context.Context, facts VehicleFacts) (Estimate, error) {
	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: 1024,
		System:    systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: buildPrompt(facts)},
		},
	}

	raw, err := c.call(ctx, reqBody)
	if err != nil {
		return Estimate{}, err
	}

	return parseEstimate(raw, "ai")
}

// parseEstimate strips any accidental markdown fences, decodes the JSON and
// sanity-checks the range. Shared by both backends.
func parseEstimate(raw, prefix string) (Estimate, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var parsed estimateJSON
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Estimate{}, fmt.Errorf("%s: parse response JSON: %w (raw: %.200s)", prefix, err, raw)
	}
	if parsed.MarketLowAud <= 0 || parsed.MarketHighAud <= parsed.MarketLowAud {
		return Estimate{}, fmt.Errorf("%s: implausible range %d–%d", prefix, parsed.MarketLowAud, parsed.MarketHighAud)
	}

	return Estimate{
		LowAud:    parsed.MarketLowAud,
		HighAud:   parsed.MarketHighAud,
		Rationale: parsed.Rationale,
	}, nil
}

// call sends one request to the Anthropic Messages API and returns the
// text content of the first content block.
func (c *anthropicClient) call(ctx context.Context, reqBody anthropicRequest) (string, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("ai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.anthropic.com/v1/messages",
		bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return "", fmt.Errorf("ai: build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB cap
	if err != nil {
		return "", fmt.Errorf("ai: read response body: %w", err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("ai: unmarshal response: %w", err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("ai: API error %s: %s", parsed.Error.Type, parsed.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai: unexpected status %d: %.200s", resp.StatusCode, string(respBytes))
	}

	for _, block := range parsed.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("ai: no text content in response")
}

// buildPrompt serialises the vehicle and findings into a compact prompt string.
func buildPrompt(facts VehicleFacts) string {
	var sb strings.Builder
	sb.WriteString("Vehicle to price:\n\n")

	fmt.Fprintf(&sb, "make: %s\n", facts.Make)
	fmt.Fprintf(&sb, "model: %s\n", facts.Model)
	fmt.Fprintf(&sb, "year: %d\n", facts.Year)
	fmt.Fprintf(&sb, "odometer_km: %d\n", facts.OdometerKm)
	if facts.AskingPriceAud > 0 {
		fmt.Fprintf(&sb, "seller_asking_price_aud: %d\n", facts.AskingPriceAud)
	}
	fmt.Fprintf(&sb, "inspection_verdict: %s\n", facts.Verdict)

	if len(facts.Findings) == 0 {
		sb.WriteString("findings: none recorded\n")
	} else {
		sb.WriteString("findings:\n")
		for _, f := range facts.Findings {
			fmt.Fprintf(&sb, "- %s\n", f)
		}
	}

	return sb.String()
}
