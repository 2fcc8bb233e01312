package tool

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaFor reflects a typed argument struct into the JSON schema map
// advertised to the model. Field descriptions come from
// `jsonschema:"description=..."` tags; fields without omitempty are required.
func SchemaFor(v any) map[string]any {
	reflector := jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}

	schema := reflector.Reflect(v)

	data, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("tool: failed to marshal schema for %T: %v", v, err))
	}

	var schemaMap map[string]any
	if err := json.Unmarshal(data, &schemaMap); err != nil {
		panic(fmt.Sprintf("tool: failed to decode schema for %T: %v", v, err))
	}

	// The model only cares about the object shape.
	delete(schemaMap, "$schema")
	delete(schemaMap, "$id")
	delete(schemaMap, "additionalProperties")

	return schemaMap
}
