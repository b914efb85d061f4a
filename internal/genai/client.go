// Package genai classifies free-text complaints into a department and
// produces a professional rephrasing, by calling an OpenAI-compatible
// chat-completions endpoint (Gemini by default). The model output is
// untrusted free text; everything it returns is re-validated against the
// department taxonomy before use.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"

	"railcrm/backend/internal/config"
	"railcrm/backend/internal/taxonomy"
)

var ErrNoAPIKey = errors.New("genai client disabled (missing API key)")

// Result is a parsed classification: the routed department and the
// rephrased complaint text.
type Result struct {
	Department taxonomy.Department
	Rephrased  string
}

// Classifier is the minimal interface the submission pipeline depends on.
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}

// Client is an OpenAI-compatible chat-completions HTTP client.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	HTTP    *http.Client
}

type chatReq struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResp struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type,omitempty"`
	} `json:"error,omitempty"`
}

// NewFromEnv creates a client from environment variables.
// Key precedence: GENAI_API_KEY > GEMINI_API_KEY > GOOGLE_API_KEY.
// GENAI_BASE_URL and GENAI_MODEL override the config defaults.
func NewFromEnv() (*Client, error) {
	key := firstNonEmpty(
		os.Getenv("GENAI_API_KEY"),
		os.Getenv("GEMINI_API_KEY"),
		os.Getenv("GOOGLE_API_KEY"),
	)
	if key == "" {
		return nil, ErrNoAPIKey
	}

	base := os.Getenv("GENAI_BASE_URL")
	if base == "" {
		base = config.ClassifyBaseURL
	}

	model := os.Getenv("GENAI_MODEL")
	if model == "" {
		model = config.ClassifyModel
	}

	return &Client{
		BaseURL: strings.TrimRight(base, "/"),
		APIKey:  key,
		Model:   model,
		HTTP:    &http.Client{Timeout: config.ClassifyTimeout},
	}, nil
}

// buildPrompt asks for a strict two-line answer so parsing stays a narrow
// text-matching problem.
func buildPrompt(text string) string {
	codes := make([]string, 0, len(taxonomy.Departments))
	for _, d := range taxonomy.Departments {
		codes = append(codes, string(d))
	}

	var b strings.Builder
	b.WriteString("Classify this railway complaint into EXACTLY ONE department:\n")
	b.WriteString(strings.Join(codes, ","))
	b.WriteString("\n\nThen rephrase it professionally and concisely in english.\n\n")
	b.WriteString("Output format strictly:\nDepartment: <DEPT>\nRephrased: <text>\n\n")
	b.WriteString("Complaint: ")
	b.WriteString(text)
	return b.String()
}

// Classify sends the complaint text to the model and parses the two-line
// answer. Any network, HTTP, or decode failure is returned as an error; the
// caller is expected to fall back to an unclassified submission.
func (c *Client) Classify(ctx context.Context, text string) (Result, error) {
	reqBody := chatReq{
		Model:       c.Model,
		Messages:    []chatMessage{{Role: "user", Content: buildPrompt(text)}},
		MaxTokens:   config.ClassifyMaxToken,
		Temperature: 0.2,
	}
	b, _ := json.Marshal(reqBody)

	endpoint := c.BaseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return Result{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return Result{}, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	var out chatResp
	if err := json.Unmarshal(body, &out); err != nil {
		return Result{}, fmt.Errorf("genai decode failed: %w; raw=%s", err, strings.TrimSpace(string(body)))
	}
	if out.Error != nil {
		return Result{}, fmt.Errorf("genai api error: %s", out.Error.Message)
	}
	if res.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("genai http %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	if len(out.Choices) == 0 {
		return Result{}, errors.New("genai response has no choices")
	}

	return parseResponse(out.Choices[0].Message.Content, text), nil
}

var departmentRe = regexp.MustCompile(`(?i)Department:\s*([A-Za-z_]+)`)

const rephrasedPrefix = "Rephrased:"

// parseResponse extracts the department and rephrased text from the model
// output. An out-of-taxonomy or missing department falls back to OTHER; a
// missing or blank rephrase falls back to the original complaint text.
func parseResponse(output, original string) Result {
	department := taxonomy.Other
	if m := departmentRe.FindStringSubmatch(output); m != nil {
		department = taxonomy.NormalizeDepartment(m[1])
	}

	rephrased := original
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < len(rephrasedPrefix) {
			continue
		}
		if !strings.EqualFold(trimmed[:len(rephrasedPrefix)], rephrasedPrefix) {
			continue
		}
		if v := strings.TrimSpace(trimmed[len(rephrasedPrefix):]); v != "" {
			rephrased = v
		}
		break
	}

	return Result{Department: department, Rephrased: rephrased}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
