package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/echoself/backend/internal/config"
)

// einoRemote runs the remote call through a compiled prompt and model chain. The
// chain carries no history placeholder: each call is stateless, one system
// prompt plus the current user message.
type einoRemote struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

func newEinoRemote(ctx context.Context, cfg config.AIConfig, apiKey string) (Remote, error) {
	chatModel, err := cfg.NewChatModel(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &einoRemote{chain: runnable}, nil
}

func (r *einoRemote) Generate(ctx context.Context, systemPrompt, userMessage string, trollMode bool) (string, error) {
	temperature := seriousTemperature
	if trollMode {
		temperature = trollTemperature
	}

	response, err := r.chain.Invoke(ctx, map[string]any{
		"system": systemPrompt,
		"query":  userMessage,
	}, compose.WithChatModelOption(model.WithTemperature(temperature)))
	if err != nil {
		return "", fmt.Errorf("failed to run generation chain: %w", err)
	}

	return response.Content, nil
}
