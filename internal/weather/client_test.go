package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, 1, 15, 14, 45, 0, 0, time.UTC)
}

func ncstBody(items string) string {
	return fmt.Sprintf(`{
		"response": {
			"header": {"resultCode": "00", "resultMsg": "NORMAL_SERVICE"},
			"body": {"items": {"item": [%s]}}
		}
	}`, items)
}

func TestFetchNormalizesCategories(t *testing.T) {
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}

		fmt.Fprint(w, ncstBody(`
			{"category": "T1H", "obsrValue": "12.3"},
			{"category": "REH", "obsrValue": "45"},
			{"category": "RN1", "obsrValue": "1.5"},
			{"category": "PTY", "obsrValue": "1"},
			{"category": "WSD", "obsrValue": "2.5"},
			{"category": "VEC", "obsrValue": "180"}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithNow(fixedClock))

	obs, err := client.Fetch(context.Background(), "Seoul")
	require.NoError(t, err)

	assert.Equal(t, "서울", obs.City)
	assert.Equal(t, "12.3", obs.TemperatureC)
	assert.Equal(t, "45", obs.HumidityPct)
	assert.Equal(t, "1.5", obs.RainfallMM)
	assert.Equal(t, PrecipitationRain, obs.Precipitation)
	assert.Equal(t, "2.5", obs.WindSpeedMS)
	assert.Equal(t, "20250115", obs.BaseDate)
	assert.Equal(t, "1400", obs.BaseTime)

	// Request parameters: Seoul's grid cell and the 14:45 window.
	assert.Equal(t, "test-key", gotQuery["serviceKey"])
	assert.Equal(t, "JSON", gotQuery["dataType"])
	assert.Equal(t, "20250115", gotQuery["base_date"])
	assert.Equal(t, "1400", gotQuery["base_time"])
	assert.Equal(t, "60", gotQuery["nx"])
	assert.Equal(t, "127", gotQuery["ny"])
}

func TestFetchMissingCategoriesDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, ncstBody(`{"category": "T1H", "obsrValue": "3.0"}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithNow(fixedClock))

	obs, err := client.Fetch(context.Background(), "부산")
	require.NoError(t, err)

	assert.Equal(t, "3.0", obs.TemperatureC)
	assert.Equal(t, "N/A", obs.HumidityPct)
	assert.Equal(t, "0", obs.RainfallMM)
	assert.Equal(t, PrecipitationNone, obs.Precipitation)
	assert.Equal(t, "N/A", obs.WindSpeedMS)
}

func TestFetchPrecipitationKinds(t *testing.T) {
	tests := []struct {
		code string
		want Precipitation
	}{
		{"0", PrecipitationNone},
		{"1", PrecipitationRain},
		{"2", PrecipitationRainAndSnow},
		{"3", PrecipitationSnow},
		{"4", PrecipitationShower},
		{"9", PrecipitationNone}, // unknown codes degrade to none
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, precipitationKind(tt.code), "PTY code %s", tt.code)
	}
}

func TestFetchEmptyResultSet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response": {"header": {"resultCode": "03", "resultMsg": "NO_DATA"}, "body": {"items": {}}}}`)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithNow(fixedClock))

	_, err := client.Fetch(context.Background(), "제주")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestFetchUnsupportedCity(t *testing.T) {
	client := NewClient("test-key", WithBaseURL("http://unused.invalid"))

	_, err := client.Fetch(context.Background(), "파리")

	var unsupported *UnsupportedCityError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "파리", unsupported.City)
	assert.Contains(t, unsupported.Error(), "서울")
}

func TestFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithNow(fixedClock))

	_, err := client.Fetch(context.Background(), "Seoul")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestFetchTransportFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient("test-key", WithBaseURL(server.URL), WithNow(fixedClock))

	_, err := client.Fetch(context.Background(), "Seoul")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reach weather provider")
}
