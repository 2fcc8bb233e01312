package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"

	"github.com/nalssi/nalssi/internal/store"
	"github.com/nalssi/nalssi/internal/userweather"
	"github.com/nalssi/nalssi/internal/weather"
	"github.com/nalssi/nalssi/pkg/ai/types"
)

// LocationStore is the slice of the store the dispatcher's executors need.
type LocationStore interface {
	Save(ctx context.Context, name, location string) error
	Get(ctx context.Context, name string) (string, error)
	List(ctx context.Context) ([]store.User, error)
}

// WeatherService fetches a city's current observation.
type WeatherService interface {
	Fetch(ctx context.Context, city string) (*weather.Observation, error)
}

// UserWeatherService resolves a user's stored location to an observation.
type UserWeatherService interface {
	Resolve(ctx context.Context, name string) (*userweather.Result, error)
}

// Dispatcher routes a model-requested tool call to its executor. It is the
// single point where a call becomes a concrete invocation, and the last
// point a failure can escape as anything other than data.
type Dispatcher struct {
	store    LocationStore
	weather  WeatherService
	resolver UserWeatherService
}

func NewDispatcher(locations LocationStore, service WeatherService, resolver UserWeatherService) *Dispatcher {
	return &Dispatcher{
		store:    locations,
		weather:  service,
		resolver: resolver,
	}
}

// Execute runs one tool call and returns its result as data. Unknown names
// and executor failures are encoded in the result map; Execute never
// returns an error and never panics past this boundary.
func (d *Dispatcher) Execute(ctx context.Context, call types.ToolCall) (result map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("tool", call.Name).Any("panic", r).Msg("tool executor panicked")
			result = map[string]any{"error": fmt.Sprintf("internal error executing %s", call.Name)}
		}
	}()

	log.Debug().Str("tool", call.Name).Any("arguments", call.Arguments).Msg("dispatching tool call")

	switch call.Name {
	case ToolGetWeather:
		return d.getWeather(ctx, call.Arguments)
	case ToolSaveUserLocation:
		return d.saveUserLocation(ctx, call.Arguments)
	case ToolGetUserLocation:
		return d.getUserLocation(ctx, call.Arguments)
	case ToolListAllUsers:
		return d.listAllUsers(ctx)
	case ToolGetUserWeather:
		return d.getUserWeather(ctx, call.Arguments)
	default:
		return map[string]any{"error": "unknown function"}
	}
}

func (d *Dispatcher) getWeather(ctx context.Context, arguments map[string]any) map[string]any {
	var args getWeatherArgs
	if err := mapstructure.Decode(arguments, &args); err != nil {
		return map[string]any{"error": fmt.Sprintf("invalid arguments: %v", err)}
	}
	if args.City == "" {
		return map[string]any{"error": "city is required"}
	}

	observation, err := d.weather.Fetch(ctx, args.City)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}

	return observationPayload(observation)
}

func (d *Dispatcher) saveUserLocation(ctx context.Context, arguments map[string]any) map[string]any {
	var args saveUserLocationArgs
	if err := mapstructure.Decode(arguments, &args); err != nil {
		return map[string]any{"success": false, "error": fmt.Sprintf("invalid arguments: %v", err)}
	}
	if args.Name == "" || args.Location == "" {
		return map[string]any{"success": false, "error": "name and location are required"}
	}

	if err := d.store.Save(ctx, args.Name, args.Location); err != nil {
		return map[string]any{"success": false, "error": err.Error()}
	}

	return map[string]any{
		"success": true,
		"message": fmt.Sprintf("saved %s's location as %s", args.Name, args.Location),
	}
}

func (d *Dispatcher) getUserLocation(ctx context.Context, arguments map[string]any) map[string]any {
	var args getUserLocationArgs
	if err := mapstructure.Decode(arguments, &args); err != nil {
		return map[string]any{"success": false, "error": fmt.Sprintf("invalid arguments: %v", err)}
	}
	if args.Name == "" {
		return map[string]any{"success": false, "error": "name is required"}
	}

	location, err := d.store.Get(ctx, args.Name)
	if errors.Is(err, store.ErrNotFound) {
		// A miss is a normal outcome, not a storage fault.
		return map[string]any{
			"success": false,
			"message": fmt.Sprintf("no location registered for %s", args.Name),
		}
	}
	if err != nil {
		return map[string]any{"success": false, "error": err.Error()}
	}

	return map[string]any{
		"success":  true,
		"name":     args.Name,
		"location": location,
	}
}

func (d *Dispatcher) listAllUsers(ctx context.Context) map[string]any {
	users, err := d.store.List(ctx)
	if err != nil {
		return map[string]any{"success": false, "error": err.Error()}
	}

	entries := make([]map[string]any, 0, len(users))
	for _, u := range users {
		entries = append(entries, map[string]any{
			"name":     u.Name,
			"location": u.Location,
		})
	}

	return map[string]any{
		"success": true,
		"users":   entries,
	}
}

func (d *Dispatcher) getUserWeather(ctx context.Context, arguments map[string]any) map[string]any {
	var args getUserWeatherArgs
	if err := mapstructure.Decode(arguments, &args); err != nil {
		return map[string]any{"error": fmt.Sprintf("invalid arguments: %v", err)}
	}
	if args.Name == "" {
		return map[string]any{"error": "name is required"}
	}

	result, err := d.resolver.Resolve(ctx, args.Name)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}

	payload := observationPayload(result.Observation)
	payload["success"] = true
	payload["name"] = result.Name
	payload["location"] = result.Location

	return payload
}

// observationPayload formats an observation the way the model narrates it.
func observationPayload(obs *weather.Observation) map[string]any {
	return map[string]any{
		"city":          obs.City,
		"temperature":   obs.TemperatureC + "°C",
		"humidity":      obs.HumidityPct + "%",
		"rainfall":      obs.RainfallMM + "mm",
		"precipitation": string(obs.Precipitation),
		"wind_speed":    obs.WindSpeedMS + "m/s",
		"base_time":     obs.BaseDate + " " + obs.BaseTime,
	}
}
