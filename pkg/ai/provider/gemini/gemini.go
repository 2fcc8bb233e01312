package gemini

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/nalssi/nalssi/pkg/ai/provider"
	"github.com/nalssi/nalssi/pkg/ai/types"
)

// Provider implements the LanguageModel interface for Google Gemini.
type Provider struct {
	client *genai.Client

	RequestSettings RequestSettings
}

type RequestSettings struct {
	Model           string
	MaxOutputTokens int32
	Temperature     float32
}

// New creates a new Gemini provider against the public Gemini API backend.
func New(ctx context.Context, apiKey, model string) (*Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Provider{
		client: client,
		RequestSettings: RequestSettings{
			Model:           model,
			MaxOutputTokens: 4096,
		},
	}, nil
}

// ID returns the model identifier.
func (p *Provider) ID() string {
	return fmt.Sprintf("gemini:%s", p.RequestSettings.Model)
}

// Stream issues a streaming generation request. Text fragments are emitted
// as TextDeltaEvents in arrival order; function calls are emitted as
// ToolCallEvents once their arguments are complete.
func (p *Provider) Stream(ctx context.Context, req provider.GenerateRequest) (*provider.Stream, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: p.RequestSettings.MaxOutputTokens,
	}

	if p.RequestSettings.Temperature > 0 {
		config.Temperature = genai.Ptr(p.RequestSettings.Temperature)
	}

	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(req.System)},
		}
	}

	tools := convertTools(req.Tools)
	if len(tools) > 0 {
		config.Tools = tools
	}

	contents := convertMessages(req.Messages)

	eventChan := make(chan types.StreamEvent, 100)
	stream := provider.NewStream(eventChan)

	go func() {
		defer close(eventChan)

		var fullText string
		var totalUsage types.Usage
		var streamErr error
		streamStarted := false
		toolCallIndex := 0

		for resp, err := range p.client.Models.GenerateContentStream(ctx, p.RequestSettings.Model, contents, config) {
			if err != nil {
				streamErr = fmt.Errorf("gemini stream error: %w", err)
				break
			}

			if !streamStarted {
				eventChan <- types.NewStreamStartEvent(p.RequestSettings.Model)
				streamStarted = true
			}

			if resp.UsageMetadata != nil {
				totalUsage = types.Usage{
					PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
					CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
					TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
				}
			}

			for _, candidate := range resp.Candidates {
				if candidate.Content == nil {
					continue
				}

				for _, part := range candidate.Content.Parts {
					if part.Text != "" {
						fullText += part.Text
						eventChan <- types.NewTextDeltaEvent(part.Text)
					}

					if part.FunctionCall != nil {
						// Gemini does not assign call IDs, generate one.
						toolCall := types.ToolCall{
							ID:        uuid.New().String(),
							Name:      part.FunctionCall.Name,
							Arguments: part.FunctionCall.Args,
						}

						eventChan <- types.NewToolCallEvent(toolCall, toolCallIndex)
						toolCallIndex++
					}
				}
			}
		}

		if !streamStarted {
			eventChan <- types.NewStreamStartEvent(p.RequestSettings.Model)
		}

		if streamErr != nil {
			stream.SetError(streamErr)
		}

		if fullText != "" {
			eventChan <- types.NewTextCompleteEvent(fullText)
		}

		eventChan <- types.NewUsageEvent(totalUsage)

		finishReason := types.FinishReasonStop
		if streamErr != nil {
			finishReason = types.FinishReasonError
		} else if toolCallIndex > 0 {
			finishReason = types.FinishReasonToolCalls
		}

		eventChan <- types.NewStreamEndEvent(finishReason, totalUsage)
	}()

	return stream, nil
}

// convertMessages converts conversation messages to Gemini content format.
func convertMessages(messages []types.Message) []*genai.Content {
	var result []*genai.Content

	for _, msg := range messages {
		var parts []*genai.Part

		// Gemini only knows "user" and "model" roles; tool results travel
		// as FunctionResponse parts in a user-role content.
		role := "user"
		if msg.Role == types.RoleAssistant {
			role = "model"
		}

		if msg.Content != "" && msg.Role != types.RoleTool {
			parts = append(parts, genai.NewPartFromText(msg.Content))
		}

		for _, tc := range msg.ToolCalls {
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					Name: tc.Name,
					Args: tc.Arguments,
				},
			})
		}

		for _, tr := range msg.ToolResults {
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					Name:     tr.Name,
					Response: tr.Response,
				},
			})
		}

		if len(parts) > 0 {
			result = append(result, &genai.Content{
				Role:  role,
				Parts: parts,
			})
		}
	}

	return result
}

// convertTools converts tool declarations to Gemini tool format.
func convertTools(tools []types.Tool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}

	var functionDeclarations []*genai.FunctionDeclaration
	for _, tool := range tools {
		functionDeclarations = append(functionDeclarations, &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  convertParametersToSchema(tool.Parameters),
		})
	}

	return []*genai.Tool{{
		FunctionDeclarations: functionDeclarations,
	}}
}

// convertParametersToSchema converts a JSON schema map to genai.Schema.
func convertParametersToSchema(params map[string]any) *genai.Schema {
	if params == nil {
		return nil
	}

	schema := &genai.Schema{
		Type: genai.TypeObject,
	}

	if typeVal, ok := params["type"].(string); ok {
		schema.Type = mapSchemaType(typeVal)
	}

	if desc, ok := params["description"].(string); ok {
		schema.Description = desc
	}

	if props, ok := params["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema)
		for name, propVal := range props {
			if propMap, ok := propVal.(map[string]any); ok {
				schema.Properties[name] = convertParametersToSchema(propMap)
			}
		}
	}

	if required, ok := params["required"].([]any); ok {
		for _, r := range required {
			if str, ok := r.(string); ok {
				schema.Required = append(schema.Required, str)
			}
		}
	}

	if required, ok := params["required"].([]string); ok {
		schema.Required = append(schema.Required, required...)
	}

	if items, ok := params["items"].(map[string]any); ok {
		schema.Items = convertParametersToSchema(items)
	}

	if enumVals, ok := params["enum"].([]any); ok {
		for _, e := range enumVals {
			if str, ok := e.(string); ok {
				schema.Enum = append(schema.Enum, str)
			}
		}
	}

	return schema
}

// mapSchemaType converts a JSON schema type name to genai.Type.
func mapSchemaType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}
