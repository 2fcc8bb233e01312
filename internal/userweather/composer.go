// Package userweather composes the location store and the weather adapter:
// it resolves a user's stored free-text location to a supported city and
// fetches that city's nowcast.
package userweather

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nalssi/nalssi/internal/store"
	"github.com/nalssi/nalssi/internal/weather"
)

// LocationStore is the slice of the store the composer needs.
type LocationStore interface {
	Get(ctx context.Context, name string) (string, error)
}

// WeatherService is the slice of the weather adapter the composer needs.
type WeatherService interface {
	Fetch(ctx context.Context, city string) (*weather.Observation, error)
}

// NoLocationError means the user has never registered a location.
type NoLocationError struct {
	Name string
}

func (e *NoLocationError) Error() string {
	return fmt.Sprintf("no location registered for %s; save a location first", e.Name)
}

// UnsupportedLocationError means a location is registered but no supported
// city could be extracted from it.
type UnsupportedLocationError struct {
	Name     string
	Location string
}

func (e *UnsupportedLocationError) Error() string {
	return fmt.Sprintf("no supported city found in %q (supported: %s)", e.Location, weather.SupportedCities())
}

// Result is a weather observation merged with the user context it was
// resolved from.
type Result struct {
	Name        string
	Location    string
	Observation *weather.Observation
}

type Composer struct {
	store   LocationStore
	weather WeatherService
}

func NewComposer(locations LocationStore, service WeatherService) *Composer {
	return &Composer{
		store:   locations,
		weather: service,
	}
}

// Resolve looks up the user's stored location, extracts a supported city
// from it, and fetches that city's observation. Each step exits early with
// a distinct error.
func (c *Composer) Resolve(ctx context.Context, name string) (*Result, error) {
	location, err := c.store.Get(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &NoLocationError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load location for %s: %w", name, err)
	}

	city, ok := ExtractCity(location)
	if !ok {
		return nil, &UnsupportedLocationError{Name: name, Location: location}
	}

	observation, err := c.weather.Fetch(ctx, city)
	if err != nil {
		return nil, err
	}

	return &Result{
		Name:        name,
		Location:    location,
		Observation: observation,
	}, nil
}

// ExtractCity pulls a supported city alias out of free location text.
// Rules are tried in order and the first hit wins: exact alias match, first
// declared alias contained in the text, then the first whitespace-delimited
// token as an exact alias.
func ExtractCity(location string) (string, bool) {
	if _, ok := weather.ResolveCity(location); ok {
		return location, true
	}

	// Ties between multiple contained aliases go to grid-table declaration
	// order.
	for _, alias := range weather.CityAliases() {
		if strings.Contains(location, alias) {
			return alias, true
		}
	}

	if fields := strings.Fields(location); len(fields) > 0 {
		if _, ok := weather.ResolveCity(fields[0]); ok {
			return fields[0], true
		}
	}

	return "", false
}
