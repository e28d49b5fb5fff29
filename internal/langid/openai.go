package langid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const openAIPrompt = `Identify the language of the text below.
Answer with a JSON object {"language": "<ISO 639-3 code>", "confidence": <0..1>}.
Use "und" when the language cannot be determined.

Text:
%s`

// OpenAIIdentifier asks a chat model for the language of a text
type OpenAIIdentifier struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

type openAIVerdict struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// OpenAIConfig holds the settings of an OpenAIIdentifier
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPProxy  string
	HTTPSProxy string
}

// NewOpenAIIdentifier creates a new OpenAI identifier
func NewOpenAIIdentifier(config OpenAIConfig) (*OpenAIIdentifier, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: &http.Transport{
			Proxy: newProxyFunc(config.HTTPProxy, config.HTTPSProxy),
		},
	}

	model := config.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIIdentifier{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		timeout: timeout,
	}, nil
}

// Name returns the identifier name
func (p *OpenAIIdentifier) Name() string {
	return "openai"
}

// Identify asks the model for a verdict. "und" or an empty code abstains.
func (p *OpenAIIdentifier) Identify(ctx context.Context, text string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a language identification model. Reply with JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(openAIPrompt, text),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens:   50,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	var verdict openAIVerdict
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &verdict); err != nil {
		return nil, fmt.Errorf("unmarshal verdict %q: %w", content, err)
	}

	label := strings.ToLower(strings.TrimSpace(verdict.Language))
	if label == "" || label == "und" {
		return nil, nil
	}

	return &Result{
		Label:  label,
		Score:  verdict.Confidence,
		Source: "openai:" + p.model,
		Voting: "single",
	}, nil
}
