package agent

import (
	"github.com/nalssi/nalssi/pkg/ai/tool"
)

// Tool names form a closed set; the dispatcher routes on them and rejects
// anything outside it.
const (
	ToolGetWeather       = "getWeather"
	ToolSaveUserLocation = "saveUserLocation"
	ToolGetUserLocation  = "getUserLocation"
	ToolListAllUsers     = "listAllUsers"
	ToolGetUserWeather   = "getUserWeather"
)

type getWeatherArgs struct {
	City string `json:"city" jsonschema:"description=City name in Korean or English; e.g. 서울 / Seoul / 부산 / Busan"`
}

type saveUserLocationArgs struct {
	Name     string `json:"name" jsonschema:"description=User name to store the location under"`
	Location string `json:"location" jsonschema:"description=Free-text home location; e.g. 대전 동구 or Seoul Gangnam"`
}

type getUserLocationArgs struct {
	Name string `json:"name" jsonschema:"description=User name to look up"`
}

type listAllUsersArgs struct{}

type getUserWeatherArgs struct {
	Name string `json:"name" jsonschema:"description=User name whose stored location should drive the weather lookup"`
}

// NewToolRegistry declares the agent's capability catalog. Registration
// order is the order the declarations are presented to the model.
func NewToolRegistry() *tool.Registry {
	registry := tool.NewRegistry()

	registry.Register(tool.Declaration{
		Name:        ToolGetWeather,
		Description: "Get the current weather for a supported Korean city (서울, 부산, 대구, 인천, 광주, 대전, 울산, 세종, 수원, 제주; English names work too)",
		Parameters:  tool.SchemaFor(&getWeatherArgs{}),
	})

	registry.Register(tool.Declaration{
		Name:        ToolSaveUserLocation,
		Description: "Save a user's name and home location to the database",
		Parameters:  tool.SchemaFor(&saveUserLocationArgs{}),
	})

	registry.Register(tool.Declaration{
		Name:        ToolGetUserLocation,
		Description: "Look up a user's saved home location",
		Parameters:  tool.SchemaFor(&getUserLocationArgs{}),
	})

	registry.Register(tool.Declaration{
		Name:        ToolListAllUsers,
		Description: "List every registered user and their saved location",
		Parameters:  tool.SchemaFor(&listAllUsersArgs{}),
	})

	registry.Register(tool.Declaration{
		Name:        ToolGetUserWeather,
		Description: "Get the current weather at a registered user's saved location",
		Parameters:  tool.SchemaFor(&getUserWeatherArgs{}),
	})

	return registry
}
