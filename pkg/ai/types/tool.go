package types

// Tool describes a callable function to the model. Parameters is a JSON
// schema object; the model treats it as advisory metadata.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}
