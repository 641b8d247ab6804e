package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matheuskafuri/newsvoice/internal/analysis"
	"github.com/matheuskafuri/newsvoice/internal/config"
)

const (
	claudeURL = "https://api.anthropic.com/v1/messages"
	openaiURL = "https://api.openai.com/v1/chat/completions"
)

const annotatePrompt = `Classify the sentiment of this news article about a company as Positive, Negative or Neutral, and give up to 3 short topics (1-3 words each, like: Electric Vehicles, Regulation, Earnings).

Format your response EXACTLY like this:
SENTIMENT: <Positive|Negative|Neutral>
TOPICS: topic1, topic2, topic3

Title: %s
Summary: %s`

type completer interface {
	complete(ctx context.Context, prompt string) (string, error)
}

// LLM annotates articles with a hosted language model.
type LLM struct {
	provider completer
}

// NewLLM creates an LLM annotator from the given AI config. endpoint
// overrides the provider's API URL when non-empty.
func NewLLM(cfg *config.AIConfig, apiKey, endpoint string) (*LLM, error) {
	if cfg == nil || apiKey == "" {
		return nil, fmt.Errorf("AI not configured")
	}

	client := &http.Client{Timeout: 30 * time.Second}

	switch cfg.Provider {
	case "claude":
		model := cfg.Model
		if model == "" {
			model = "claude-haiku-4-5-20251001"
		}
		if endpoint == "" {
			endpoint = claudeURL
		}
		return &LLM{provider: &claudeProvider{apiKey: apiKey, model: model, url: endpoint, client: client}}, nil
	case "openai":
		model := cfg.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		if endpoint == "" {
			endpoint = openaiURL
		}
		return &LLM{provider: &openaiProvider{apiKey: apiKey, model: model, url: endpoint, client: client}}, nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %q (valid: claude, openai)", cfg.Provider)
	}
}

func (l *LLM) Annotate(ctx context.Context, title, summary string) (Annotation, error) {
	text, err := l.provider.complete(ctx, fmt.Sprintf(annotatePrompt, title, summary))
	if err != nil {
		return Annotation{}, err
	}
	return parseAnnotation(text)
}

func parseAnnotation(text string) (Annotation, error) {
	var (
		a        Annotation
		gotLabel bool
	)
	a.Topics = []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "SENTIMENT:") {
			s, err := analysis.ParseSentiment(strings.TrimPrefix(line, "SENTIMENT:"))
			if err != nil {
				return Annotation{}, err
			}
			a.Sentiment = s
			gotLabel = true
		} else if strings.HasPrefix(line, "TOPICS:") {
			seen := make(map[string]bool)
			for _, t := range strings.Split(strings.TrimPrefix(line, "TOPICS:"), ",") {
				t = titleCase(strings.TrimSpace(t))
				if t == "" || seen[strings.ToLower(t)] {
					continue
				}
				seen[strings.ToLower(t)] = true
				a.Topics = append(a.Topics, t)
			}
			if len(a.Topics) > 3 {
				a.Topics = a.Topics[:3]
			}
		}
	}
	if !gotLabel {
		return Annotation{}, fmt.Errorf("no SENTIMENT line in model response")
	}
	return a, nil
}

// --- Claude provider ---

type claudeProvider struct {
	apiKey string
	model  string
	url    string
	client *http.Client
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (c *claudeProvider) complete(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(claudeRequest{
		Model:     c.model,
		MaxTokens: 128,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("claude API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("claude API %d: %s", resp.StatusCode, string(b))
	}

	var cr claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Content) == 0 {
		return "", fmt.Errorf("empty claude response")
	}
	return cr.Content[0].Text, nil
}

// --- OpenAI provider ---

type openaiProvider struct {
	apiKey string
	model  string
	url    string
	client *http.Client
}

type openaiRequest struct {
	Model    string          `json:"model"`
	Messages []openaiMessage `json:"messages"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *openaiProvider) complete(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(openaiRequest{
		Model:    o.model,
		Messages: []openaiMessage{{Role: "user", Content: prompt}},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("openai API %d: %s", resp.StatusCode, string(b))
	}

	var or openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return "", err
	}
	if len(or.Choices) == 0 {
		return "", fmt.Errorf("empty openai response")
	}
	return or.Choices[0].Message.Content, nil
}
