package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the KMA village forecast service endpoint.
const DefaultBaseURL = "http://apis.data.go.kr/1360000/VilageFcstInfoService_2.0"

// ErrNoData means the provider returned an empty result set for the
// requested window. It is a distinct outcome from a transport fault.
var ErrNoData = errors.New("no weather data available for this window")

// UnsupportedCityError is returned when a city cannot be resolved against
// the grid table.
type UnsupportedCityError struct {
	City string
}

func (e *UnsupportedCityError) Error() string {
	return fmt.Sprintf("%s is not a supported city (supported: %s)", e.City, SupportedCities())
}

// Precipitation is the normalized precipitation kind reported by the
// nowcast PTY category.
type Precipitation string

const (
	PrecipitationNone        Precipitation = "none"
	PrecipitationRain        Precipitation = "rain"
	PrecipitationRainAndSnow Precipitation = "rain_and_snow"
	PrecipitationSnow        Precipitation = "snow"
	PrecipitationShower      Precipitation = "shower"
)

// notAvailable is the sentinel for continuous quantities the provider did
// not report.
const notAvailable = "N/A"

// Observation is a normalized nowcast for one city. Values keep the
// provider's string encoding; missing categories fall back to sentinels
// instead of failing the whole observation.
type Observation struct {
	City          string
	TemperatureC  string
	HumidityPct   string
	RainfallMM    string
	Precipitation Precipitation
	WindSpeedMS   string
	BaseDate      string
	BaseTime      string
}

// Client fetches nowcast observations from the KMA open API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	now        func() time.Time
}

type Option func(*Client)

// WithBaseURL overrides the provider endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithNow overrides the clock used to compute the observation window.
func WithNow(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ncstResponse mirrors the provider's envelope. Only the fields the
// normalizer needs are mapped; unknown fields are ignored.
type ncstResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items struct {
				Item []ncstItem `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

type ncstItem struct {
	Category string `json:"category"`
	ObsValue string `json:"obsrValue"`
}

// Fetch resolves the city, requests the newest published nowcast for its
// grid cell, and normalizes the flat category records into an Observation.
// Transport faults are wrapped and returned, never propagated as panics.
func (c *Client) Fetch(ctx context.Context, city string) (*Observation, error) {
	point, ok := ResolveCity(city)
	if !ok {
		return nil, &UnsupportedCityError{City: city}
	}

	window := ObservationWindow(c.now())

	log.Debug().
		Str("city", point.Name).
		Str("base_date", window.BaseDate).
		Str("base_time", window.BaseTime).
		Int("nx", point.NX).
		Int("ny", point.NY).
		Msg("fetching nowcast")

	query := url.Values{}
	query.Set("serviceKey", c.apiKey)
	query.Set("numOfRows", "10")
	query.Set("pageNo", "1")
	query.Set("dataType", "JSON")
	query.Set("base_date", window.BaseDate)
	query.Set("base_time", window.BaseTime)
	query.Set("nx", strconv.Itoa(point.NX))
	query.Set("ny", strconv.Itoa(point.NY))

	requestURL := c.baseURL + "/getUltraSrtNcst?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build nowcast request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach weather provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather provider returned status %d", resp.StatusCode)
	}

	var payload ncstResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode nowcast response: %w", err)
	}

	items := payload.Response.Body.Items.Item
	if len(items) == 0 {
		return nil, ErrNoData
	}

	return normalize(point.Name, window, items), nil
}

// normalize flattens {category, value} records into named fields. The
// nowcast categories are T1H (temperature), REH (humidity), RN1 (hourly
// rainfall), PTY (precipitation kind) and WSD (wind speed).
func normalize(city string, window Window, items []ncstItem) *Observation {
	values := make(map[string]string, len(items))
	for _, item := range items {
		values[item.Category] = item.ObsValue
	}

	obs := &Observation{
		City:          city,
		TemperatureC:  valueOr(values, "T1H", notAvailable),
		HumidityPct:   valueOr(values, "REH", notAvailable),
		RainfallMM:    valueOr(values, "RN1", "0"),
		Precipitation: precipitationKind(values["PTY"]),
		WindSpeedMS:   valueOr(values, "WSD", notAvailable),
		BaseDate:      window.BaseDate,
		BaseTime:      window.BaseTime,
	}

	return obs
}

func valueOr(values map[string]string, category, fallback string) string {
	if v, ok := values[category]; ok && v != "" {
		return v
	}
	return fallback
}

func precipitationKind(code string) Precipitation {
	switch code {
	case "1":
		return PrecipitationRain
	case "2":
		return PrecipitationRainAndSnow
	case "3":
		return PrecipitationSnow
	case "4":
		return PrecipitationShower
	default:
		return PrecipitationNone
	}
}
