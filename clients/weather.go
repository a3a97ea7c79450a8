package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// WeatherClient interroga OpenWeatherMap per il meteo corrente
type WeatherClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewWeatherClient crea il client; con chiave vuota il servizio risulta
// non configurato ma il bot resta operativo
func NewWeatherClient(apiKey string) *WeatherClient {
	return NewWeatherClientWithBaseURL("https://api.openweathermap.org", apiKey)
}

// NewWeatherClientWithBaseURL è usato nei test per puntare a un server fittizio
func NewWeatherClientWithBaseURL(baseURL, apiKey string) *WeatherClient {
	return &WeatherClient{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// Configured indica se la chiave API è stata fornita
func (w *WeatherClient) Configured() bool {
	return w.apiKey != ""
}

type weatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Name string `json:"name"`
}

// Current restituisce temperatura, umidità e descrizione per una città
func (w *WeatherClient) Current(ctx context.Context, city string) (string, error) {
	if !w.Configured() {
		return "", ErrNotConfigured
	}

	apiURL := fmt.Sprintf("%s/data/2.5/weather?q=%s&appid=%s&units=metric",
		w.baseURL, url.QueryEscape(city), url.QueryEscape(w.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := w.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openweathermap http %d", resp.StatusCode)
	}

	var out weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("errore nella decodifica della risposta meteo: %v", err)
	}

	description := ""
	if len(out.Weather) > 0 {
		description = out.Weather[0].Description
	}
	return fmt.Sprintf("🌤 Meteo a %s:\n🌡 %.1f°C\n💧 Umidità: %d%%\n%s",
		city, out.Main.Temp, out.Main.Humidity, description), nil
}
