package clients

import (
	"context"
	"fmt"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// AIClient inoltra un prompt singolo all'endpoint chat completions di
// OpenRouter (compatibile OpenAI) e restituisce il testo della prima scelta
type AIClient struct {
	client    openaigo.Client
	model     string
	maxTokens int64
}

// NewAIClient crea il client verso OpenRouter
func NewAIClient(apiKey, model string, maxTokens int) *AIClient {
	return NewAIClientWithBaseURL(openRouterBaseURL, apiKey, model, maxTokens)
}

// NewAIClientWithBaseURL è usato nei test per puntare a un server fittizio
func NewAIClientWithBaseURL(baseURL, apiKey, model string, maxTokens int) *AIClient {
	if model == "" {
		model = "openai/gpt-3.5-turbo"
	}
	if maxTokens <= 0 {
		maxTokens = 800
	}
	client := openaigo.NewClient(
		option.WithBaseURL(strings.TrimRight(baseURL, "/")),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(30*time.Second),
	)
	return &AIClient{
		client:    client,
		model:     model,
		maxTokens: int64(maxTokens),
	}
}

// Ask invia il prompt e restituisce la risposta ripulita dagli spazi
func (a *AIClient) Ask(ctx context.Context, prompt string) (string, error) {
	completion, err := a.client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(a.model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.UserMessage(prompt),
		},
		MaxTokens: openaigo.Int(a.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("errore nella chiamata al modello: %v", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("risposta del modello senza scelte")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
