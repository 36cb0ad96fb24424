package recipes

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"restodash/internal/config"
)

// ErrGeneration wraps failures of the generative model backend
var ErrGeneration = errors.New("recipe generation failed")

// Generator turns a prompt into model text
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Sampling holds the decoding parameters sent with every prompt
type Sampling struct {
	Temperature float64
	TopP        float64
	TopK        int
	MaxTokens   int
}

// LLMGenerator generates text through a langchaingo model
type LLMGenerator struct {
	model    llms.Model
	sampling Sampling
}

// NewLLMGenerator creates a generator over an existing model
func NewLLMGenerator(model llms.Model, sampling Sampling) *LLMGenerator {
	return &LLMGenerator{model: model, sampling: sampling}
}

// NewOpenAIGenerator creates a generator for an OpenAI compatible endpoint.
// An empty baseURL uses the public OpenAI API.
func NewOpenAIGenerator(token, baseURL, model string, sampling Sampling) (*LLMGenerator, error) {
	if token == "" {
		return nil, errors.New("OPENAI_API_KEY is required for the openai recipe provider")
	}

	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create OpenAI client")
	}
	return NewLLMGenerator(client, sampling), nil
}

// Generate implements Generator
func (g *LLMGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithTemperature(g.sampling.Temperature),
		llms.WithTopP(g.sampling.TopP),
		llms.WithTopK(g.sampling.TopK),
		llms.WithMaxTokens(g.sampling.MaxTokens),
	)
	if err != nil {
		return "", errors.Wrap(ErrGeneration, err.Error())
	}
	return text, nil
}

// AzureGenerator generates text through an Azure OpenAI deployment
type AzureGenerator struct {
	client     *azopenai.Client
	deployment string
	sampling   Sampling
}

// NewAzureGenerator creates a generator for an Azure OpenAI deployment
func NewAzureGenerator(endpoint, key, deployment string, sampling Sampling) (*AzureGenerator, error) {
	if endpoint == "" || key == "" || deployment == "" {
		return nil, errors.New("Azure OpenAI configuration missing: ensure AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY, and AZURE_OPENAI_DEPLOYMENT_NAME are set")
	}

	client, err := azopenai.NewClientWithKeyCredential(endpoint, azcore.NewKeyCredential(key), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Azure OpenAI client")
	}

	return &AzureGenerator{
		client:     client,
		deployment: deployment,
		sampling:   sampling,
	}, nil
}

// Generate implements Generator
func (g *AzureGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.GetChatCompletions(ctx, azopenai.ChatCompletionsOptions{
		Messages: []azopenai.ChatRequestMessageClassification{
			&azopenai.ChatRequestUserMessage{
				Content: azopenai.NewChatRequestUserMessageContent(prompt),
			},
		},
		MaxTokens:      to.Ptr(int32(g.sampling.MaxTokens)),
		Temperature:    to.Ptr(float32(g.sampling.Temperature)),
		TopP:           to.Ptr(float32(g.sampling.TopP)),
		DeploymentName: to.Ptr(g.deployment),
	}, nil)
	if err != nil {
		return "", errors.Wrap(ErrGeneration, err.Error())
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == nil {
		return "", errors.Wrap(ErrGeneration, "empty response from Azure OpenAI")
	}
	return *resp.Choices[0].Message.Content, nil
}

// NewGenerator builds the generator selected by cfg.Provider
func NewGenerator(cfg config.RecipesConfig) (Generator, error) {
	sampling := Sampling{
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		TopK:        cfg.TopK,
		MaxTokens:   cfg.MaxTokens,
	}

	switch cfg.Provider {
	case "openai":
		return NewOpenAIGenerator(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.Model, sampling)
	case "azure":
		return NewAzureGenerator(cfg.AzureEndpoint, cfg.AzureKey, cfg.AzureDeployment, sampling)
	default:
		return nil, errors.Errorf("unsupported recipe provider: %s", cfg.Provider)
	}
}
