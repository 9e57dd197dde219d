package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation handed to the model.
type Message struct {
	Role    string
	Content string
}

// SearchFunc runs a web search and returns formatted results for the model.
type SearchFunc func(ctx context.Context, query string) (string, error)

// Client is the chat-completion surface the services depend on.
type Client interface {
	Complete(ctx context.Context, system string, messages []Message) (string, error)
}

// OpenAIClient talks to OpenAI or any OpenAI-compatible endpoint. When a
// search function is configured it is exposed to the model as a tool and
// tool calls are resolved in a loop before the final answer is returned.
type OpenAIClient struct {
	client *openai.Client
	model  string
	search SearchFunc
}

const maxToolRounds = 5

func NewOpenAIClient(apiKey, baseURL, model string, search SearchFunc) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		search: search,
	}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, system string, messages []Message) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	if system != "" {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: chatMessages,
	}
	if c.search != nil {
		req.Tools = []openai.Tool{searchTool()}
	}

	for round := 0; round <= maxToolRounds; round++ {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("chat completion failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no choices in chat completion response")
		}

		choice := resp.Choices[0]
		if len(choice.Message.ToolCalls) == 0 {
			return choice.Message.Content, nil
		}

		req.Messages = append(req.Messages, choice.Message)
		for _, call := range choice.Message.ToolCalls {
			result := c.runToolCall(ctx, call)
			req.Messages = append(req.Messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: call.ID,
				Content:    result,
			})
		}
	}

	return "", fmt.Errorf("model did not produce an answer after %d tool rounds", maxToolRounds)
}

func (c *OpenAIClient) runToolCall(ctx context.Context, call openai.ToolCall) string {
	if call.Function.Name != searchToolName {
		return fmt.Sprintf("unknown tool: %s", call.Function.Name)
	}

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return fmt.Sprintf("invalid tool arguments: %v", err)
	}

	result, err := c.search(ctx, args.Query)
	if err != nil {
		log.Printf("Web search failed for query %q: %v", args.Query, err)
		return "search is currently unavailable"
	}
	return result
}

const searchToolName = "search_web"

func searchTool() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        searchToolName,
			Description: "Search the web for current information, market trends, or specific data points.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"query": {"type": "string", "description": "The search query."}
				},
				"required": ["query"]
			}`),
		},
	}
}
