package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/nalssi/nalssi/pkg/ai/types"
)

func TestConvertMessages(t *testing.T) {
	messages := []types.Message{
		{Role: types.RoleUser, Content: "Seoul weather"},
		{
			Role: types.RoleAssistant,
			ToolCalls: []types.ToolCall{{
				ID:        "call-1",
				Name:      "getWeather",
				Arguments: map[string]any{"city": "Seoul"},
			}},
		},
		{
			Role: types.RoleTool,
			ToolResults: []types.ToolResult{{
				ToolCallID: "call-1",
				Name:       "getWeather",
				Response:   map[string]any{"temperature": "12.3°C"},
			}},
		},
	}

	contents := convertMessages(messages)
	require.Len(t, contents, 3)

	assert.Equal(t, "user", contents[0].Role)
	require.Len(t, contents[0].Parts, 1)
	assert.Equal(t, "Seoul weather", contents[0].Parts[0].Text)

	assert.Equal(t, "model", contents[1].Role)
	require.Len(t, contents[1].Parts, 1)
	require.NotNil(t, contents[1].Parts[0].FunctionCall)
	assert.Equal(t, "getWeather", contents[1].Parts[0].FunctionCall.Name)

	// Tool results travel back as user-role function responses.
	assert.Equal(t, "user", contents[2].Role)
	require.Len(t, contents[2].Parts, 1)
	require.NotNil(t, contents[2].Parts[0].FunctionResponse)
	assert.Equal(t, "getWeather", contents[2].Parts[0].FunctionResponse.Name)
	assert.Equal(t, "12.3°C", contents[2].Parts[0].FunctionResponse.Response["temperature"])
}

func TestConvertMessagesSkipsEmpty(t *testing.T) {
	contents := convertMessages([]types.Message{
		{Role: types.RoleAssistant, Content: ""},
		{Role: types.RoleUser, Content: "hello"},
	})

	require.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].Role)
}

func TestConvertTools(t *testing.T) {
	tools := convertTools([]types.Tool{{
		Name:        "getWeather",
		Description: "look up weather",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city": map[string]any{
					"type":        "string",
					"description": "city name",
				},
			},
			"required": []string{"city"},
		},
	}})

	require.Len(t, tools, 1)
	require.Len(t, tools[0].FunctionDeclarations, 1)

	decl := tools[0].FunctionDeclarations[0]
	assert.Equal(t, "getWeather", decl.Name)
	assert.Equal(t, "look up weather", decl.Description)

	require.NotNil(t, decl.Parameters)
	assert.Equal(t, genai.TypeObject, decl.Parameters.Type)
	require.Contains(t, decl.Parameters.Properties, "city")
	assert.Equal(t, genai.TypeString, decl.Parameters.Properties["city"].Type)
	assert.Equal(t, []string{"city"}, decl.Parameters.Required)
}

func TestConvertToolsEmpty(t *testing.T) {
	assert.Nil(t, convertTools(nil))
}

func TestConvertParametersToSchemaRequiredVariants(t *testing.T) {
	// JSON-decoded schemas carry required as []any.
	schema := convertParametersToSchema(map[string]any{
		"type":     "object",
		"required": []any{"a", "b"},
	})
	assert.Equal(t, []string{"a", "b"}, schema.Required)

	// Hand-built schemas carry required as []string.
	schema = convertParametersToSchema(map[string]any{
		"type":     "object",
		"required": []string{"c"},
	})
	assert.Equal(t, []string{"c"}, schema.Required)
}

func TestMapSchemaType(t *testing.T) {
	assert.Equal(t, genai.TypeString, mapSchemaType("string"))
	assert.Equal(t, genai.TypeNumber, mapSchemaType("number"))
	assert.Equal(t, genai.TypeInteger, mapSchemaType("integer"))
	assert.Equal(t, genai.TypeBoolean, mapSchemaType("boolean"))
	assert.Equal(t, genai.TypeArray, mapSchemaType("array"))
	assert.Equal(t, genai.TypeObject, mapSchemaType("object"))
	assert.Equal(t, genai.TypeUnspecified, mapSchemaType("mystery"))
}
