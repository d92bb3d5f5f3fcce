package review

import (
	"context"
	"fmt"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"
	"go.uber.org/zap"
)

// sdkClient reviews through go.jetify.com/ai on top of the vendor SDKs.
type sdkClient struct {
	prov  Provider
	opts  Options
	model jetapi.LanguageModel
}

func newSDKClient(prov Provider, opts Options) (*sdkClient, error) {
	model, err := buildLanguageModel(prov, opts)
	if err != nil {
		return nil, err
	}
	return &sdkClient{prov: prov, opts: opts, model: model}, nil
}

func buildLanguageModel(prov Provider, opts Options) (jetapi.LanguageModel, error) {
	apiKey := strings.TrimSpace(prov.APIKey)
	endpoint := strings.TrimRight(strings.TrimSpace(prov.BaseURL), "/")
	client := makeHTTPClient(prov.Proxy, prov.effectiveTimeout())

	switch prov.ID {
	case ProviderAnthropic:
		reqOpts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(opts.effectiveMaxRetries()),
			anthropicoption.WithHTTPClient(client),
		}
		if endpoint != "" {
			reqOpts = append(reqOpts, anthropicoption.WithBaseURL(endpoint))
		}
		c := anthropicclient.NewClient(reqOpts...)
		return jetanthropic.NewLanguageModel(prov.Model, jetanthropic.WithClient(c)), nil

	case ProviderOpenAI:
		reqOpts := []openaioption.RequestOption{
			openaioption.WithAPIKey(apiKey),
			openaioption.WithMaxRetries(opts.effectiveMaxRetries()),
			openaioption.WithHTTPClient(client),
		}
		if endpoint != "" {
			reqOpts = append(reqOpts, openaioption.WithBaseURL(endpoint))
		}
		c := openaiclient.NewClient(reqOpts...)
		return jetopenai.NewLanguageModel(prov.Model, jetopenai.WithClient(c)), nil
	}
	return nil, fmt.Errorf("provider %q has no SDK transport", prov.ID)
}

func (c *sdkClient) Review(ctx context.Context, req Request) (string, error) {
	c.opts.logger().Debug("review request",
		zap.String("provider", c.prov.ID), zap.String("model", c.prov.Model))

	resp, err := jetai.GenerateText(
		ctx,
		buildMessages(req.systemPrompt(), req.userPrompt()),
		jetai.WithModel(c.model),
		jetai.WithMaxOutputTokens(c.opts.effectiveMaxOutputTokens()),
	)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", c.prov.Name, err)
	}
	return extractSDKText(resp)
}

func buildMessages(systemPrompt, prompt string) []jetapi.Message {
	messages := make([]jetapi.Message, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, &jetapi.SystemMessage{Content: systemPrompt})
	}
	messages = append(messages, &jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)})
	return messages
}

func extractSDKText(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", ErrEmptyResponse
	}
	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}
	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
