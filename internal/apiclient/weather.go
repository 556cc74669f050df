package apiclient

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"storefront-bridge/internal/httpclient"
)

const defaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// Weather wraps the OpenWeather API with metric units.
type Weather struct {
	rest   *REST
	apiKey string
}

// NewWeather constructs a weather client. baseURL may be empty to use the
// public API.
func NewWeather(baseURL, apiKey string, http *httpclient.Client) *Weather {
	if baseURL == "" {
		baseURL = defaultWeatherBaseURL
	}
	return &Weather{
		rest:   NewREST(RESTOptions{BaseURL: baseURL}, http),
		apiKey: apiKey,
	}
}

// CurrentWeather retrieves current conditions for a city.
func (w *Weather) CurrentWeather(ctx context.Context, city string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", w.apiKey)
	params.Set("units", "metric")
	return w.rest.Get(ctx, "/weather", params, nil)
}

// Forecast retrieves a multi-day forecast. The API returns eight data points
// per day, one per three hours.
func (w *Weather) Forecast(ctx context.Context, city string, days int) (json.RawMessage, error) {
	if days <= 0 {
		days = 5
	}
	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", w.apiKey)
	params.Set("cnt", strconv.Itoa(days*8))
	params.Set("units", "metric")
	return w.rest.Get(ctx, "/forecast", params, nil)
}
