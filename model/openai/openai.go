// Package openai provides a backend adapter using the OpenAI Chat
// Completions API (including function/tool calling). It adapts agentcore's
// normalized Request/Response structures into the SDK's message format and
// back.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/model"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Options configure the OpenAI backend adapter. Fields mirror a subset of
// Chat Completion parameters intentionally kept minimal; extend via
// functional options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	APIKey              string
}

// Backend wraps the OpenAI Chat Completions API behind the generic
// model.Backend interface.
type Backend struct {
	client *openai.Client
	opts   Options
}

// New creates a new OpenAI backend using the official client.
func New(optFns ...func(o *Options)) *Backend {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := openai.NewClient(clientOpts...)
	return &Backend{client: &client, opts: opts}
}

// NewFromClient creates a new OpenAI backend from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Backend {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Backend{client: client, opts: opts}
}

// Name implements model.Backend.
func (b *Backend) Name() string { return "openai" }

// CheckAvailability performs a minimal one-token round trip.
func (b *Backend) CheckAvailability(ctx context.Context) bool {
	_, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               b.opts.Model,
		MaxCompletionTokens: openai.Int(1),
		Messages:            []openai.ChatCompletionMessageParamUnion{openai.UserMessage("ping")},
	})
	return err == nil
}

// Generate implements model.Backend performing one blocking turn.
func (b *Backend) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	params := b.buildParams(req)

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai api: no choices returned")
	}

	ch0 := resp.Choices[0]
	out := &model.Response{
		Text:         ch0.Message.Content,
		FinishReason: ch0.FinishReason,
	}
	for _, tc := range ch0.Message.ToolCalls {
		args := json.RawMessage(tc.Function.Arguments)
		if len(args) == 0 {
			args = json.RawMessage("{}")
		}
		out.ToolCalls = append(out.ToolCalls, core.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}
	out.Usage = &model.TokenUsage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}

	return out, nil
}

// buildParams assembles the Chat Completion parameters including tool
// definitions.
func (b *Backend) buildParams(req model.Request) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req.Messages),
		Model:               b.opts.Model,
		Temperature:         openai.Float(b.opts.Temperature),
		MaxCompletionTokens: openai.Int(b.opts.MaxCompletionTokens),
	}
	if len(req.Tools) == 0 {
		return params
	}
	tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
	for i, t := range req.Tools {
		tools[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  t.InputSchema,
			},
		}
	}
	params.Tools = tools
	return params
}

// buildMessages converts conversation messages into OpenAI chat messages.
// Assistant turns carrying native tool calls are replayed textually in the
// inline grammar since outcome digests travel as ordinary user messages.
func buildMessages(msgs []core.Message) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion
	for _, m := range msgs {
		switch m.Role {
		case core.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		case core.RoleAssistant:
			if text := flattenAssistant(m); text != "" {
				messages = append(messages, openai.AssistantMessage(text))
			}
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}
	return messages
}

// flattenAssistant folds an assistant message's native tool calls into its
// text using the inline call grammar.
func flattenAssistant(m core.Message) string {
	if len(m.ToolCalls) == 0 {
		return m.Content
	}
	var sb strings.Builder
	sb.WriteString(m.Content)
	for _, tc := range m.ToolCalls {
		args := string(tc.Arguments)
		if args == "" {
			args = "{}"
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "<%s>%s</%s>", tc.Name, args, tc.Name)
	}
	return sb.String()
}
