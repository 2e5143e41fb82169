// Package assistant implements the dashboard's chat assistant on AWS Bedrock.
// The model invocation is isolated behind ModelInvoker so tests never touch
// the network, and follow-up suggestions are derived from the user's message
// only, never from model output.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/marketscout/intel-monitor/internal/config"
	"github.com/marketscout/intel-monitor/internal/pkg/logger"
)

// ModelInvoker is the subset of the Bedrock runtime client the assistant
// uses.
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// ContextSource supplies current dashboard state for the system prompt.
// Errors degrade to a prompt without live context.
type ContextSource interface {
	DashboardContext(ctx context.Context, ownerID string) (string, error)
}

// Message is one turn in the conversation, in the anthropic messages format.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// ContentBlock is a single content element of a message.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type invokeRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	System           string    `json:"system,omitempty"`
	Messages         []Message `json:"messages"`
	Temperature      float64   `json:"temperature,omitempty"`
}

type invokeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// ChatResult is what the chat endpoint returns to the dashboard.
type ChatResult struct {
	Reply       string   `json:"reply"`
	Suggestions []string `json:"suggestions"`
}

// Service is the Bedrock-backed chat assistant.
type Service struct {
	client  ModelInvoker
	modelID string
	context ContextSource
}

// NewService builds an assistant from configuration, loading the default AWS
// credential chain. contextSource may be nil.
func NewService(ctx context.Context, cfg config.AssistantConfig, contextSource ContextSource) (*Service, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	modelID := cfg.ModelID
	if modelID == "" {
		modelID = "anthropic.claude-3-sonnet-20240229-v1:0"
	}

	return &Service{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: modelID,
		context: contextSource,
	}, nil
}

// NewServiceWithClient wires an explicit invoker, used by tests.
func NewServiceWithClient(client ModelInvoker, modelID string, contextSource ContextSource) *Service {
	return &Service{client: client, modelID: modelID, context: contextSource}
}

// Chat sends the user's message plus history to the model and returns the
// reply with follow-up suggestions.
func (s *Service) Chat(ctx context.Context, ownerID, userMessage string, history []Message) (*ChatResult, error) {
	if strings.TrimSpace(userMessage) == "" {
		return nil, fmt.Errorf("empty message")
	}

	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, Message{
		Role:    "user",
		Content: []ContentBlock{{Type: "text", Text: userMessage}},
	})

	req := invokeRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        4000,
		System:           s.buildSystemPrompt(ctx, ownerID),
		Messages:         messages,
		Temperature:      0.7,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	output, err := s.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(s.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("invoke model: %w", err)
	}

	var resp invokeResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	var reply strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			reply.WriteString(c.Text)
		}
	}

	logger.Debug("assistant chat",
		"owner_id", ownerID,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens)

	return &ChatResult{
		Reply:       reply.String(),
		Suggestions: SuggestionsFor(userMessage),
	}, nil
}

func (s *Service) buildSystemPrompt(ctx context.Context, ownerID string) string {
	prompt := `You are a competitive intelligence strategist for MarketScout, a marketing dashboard that tracks competitors, campaigns, and market trends.

## Your Expertise
- Competitor positioning and threat assessment
- SEO and content gap analysis
- Paid media spend benchmarking
- Brand sentiment interpretation
- Counter-campaign planning

## Response Guidelines
1. Be direct and actionable - give specific recommendations
2. Quantify impact when possible
3. Prioritize by threat level (critical > high > medium > low)
4. Reference the user's tracked competitors when relevant`

	if s.context != nil {
		dashCtx, err := s.context.DashboardContext(ctx, ownerID)
		if err != nil {
			logger.Warn("assistant context unavailable", "owner_id", ownerID, "error", err.Error())
		} else if dashCtx != "" {
			prompt += "\n\n## Current Dashboard State\n" + dashCtx
		}
	}
	return prompt
}

// SuggestionsFor returns canned follow-up prompts keyed off the user's
// message. Model output is deliberately not consulted.
func SuggestionsFor(userMessage string) []string {
	lower := strings.ToLower(userMessage)
	var suggestions []string

	if strings.Contains(lower, "seo") || strings.Contains(lower, "keyword") {
		suggestions = append(suggestions,
			"Which competitor has the weakest SEO right now?",
			"What keyword gaps can I exploit?")
	}
	if strings.Contains(lower, "spend") || strings.Contains(lower, "ads") || strings.Contains(lower, "budget") {
		suggestions = append(suggestions,
			"Who increased ad spend the most this month?",
			"What budget should I set to compete?")
	}
	if strings.Contains(lower, "sentiment") || strings.Contains(lower, "review") {
		suggestions = append(suggestions,
			"Which competitor has the worst sentiment?",
			"What complaints can my campaigns target?")
	}
	if strings.Contains(lower, "campaign") || strings.Contains(lower, "recommend") {
		suggestions = append(suggestions,
			"Which recommendation should I deploy first?",
			"Draft a counter-campaign for my top threat")
	}

	if len(suggestions) == 0 {
		suggestions = []string{
			"What's my intelligence score?",
			"Show me my biggest competitive threat",
			"What should I prioritize this week?",
		}
	}
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}
