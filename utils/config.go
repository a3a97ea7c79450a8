package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Configurazione di Telegram
type TelegramConfig struct {
	Token string `json:"token"`
}

// Configurazione di OpenRouter (endpoint compatibile OpenAI)
type OpenRouterConfig struct {
	APIKey    string `json:"api_key"`
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
}

// Configurazione di OpenWeatherMap (opzionale)
type WeatherConfig struct {
	APIKey string `json:"api_key"`
}

// Configurazione del server web
type ServerConfig struct {
	Port          int    `json:"port"`
	PublicBaseURL string `json:"public_base_url"`
}

// Configurazione dell'archivio delle conversazioni
type ArchiveConfig struct {
	Driver   string `json:"driver"` // "sqlite" o "mysql"
	Path     string `json:"path"`   // file sqlite
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
}

// Configurazione completa
type Config struct {
	Telegram   TelegramConfig   `json:"telegram"`
	OpenRouter OpenRouterConfig `json:"openrouter"`
	Weather    WeatherConfig    `json:"weather"`
	Server     ServerConfig     `json:"server"`
	Archive    ArchiveConfig    `json:"archive"`
	DataDir    string           `json:"data_dir"`
	// "bolt" (predefinito) oppure "file" per il vecchio notes.json
	NotesBackend string `json:"notes_backend"`
}

// Valori predefiniti usati quando il file di configurazione non è disponibile
func DefaultConfig() *Config {
	return &Config{
		OpenRouter: OpenRouterConfig{
			Model:     "openai/gpt-3.5-turbo",
			MaxTokens: 800,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Archive: ArchiveConfig{
			Driver: "sqlite",
			Path:   "data/archive.db",
		},
		DataDir: "data",
	}
}

// Carica la configurazione dal file
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.Open(filePath)
	if err != nil {
		// Il file è opzionale: le credenziali possono arrivare dall'ambiente
		config.ApplyEnv()
		return config, nil
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("errore nella decodifica del file di configurazione: %v", err)
	}

	config.ApplyEnv()
	return config, nil
}

// Le variabili d'ambiente hanno la precedenza sul file
func (c *Config) ApplyEnv() {
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		c.OpenRouter.APIKey = v
	}
	if v := os.Getenv("OPENWEATHER_API_KEY"); v != "" {
		c.Weather.APIKey = v
	}
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		c.Server.PublicBaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if c.OpenRouter.Model == "" {
		c.OpenRouter.Model = "openai/gpt-3.5-turbo"
	}
	if c.OpenRouter.MaxTokens <= 0 {
		c.OpenRouter.MaxTokens = 800
	}
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.Archive.Driver == "" {
		c.Archive.Driver = "sqlite"
	}
	if c.Archive.Path == "" {
		c.Archive.Path = "data/archive.db"
	}
	if c.NotesBackend == "" {
		c.NotesBackend = "bolt"
	}
}

// Verifica che le credenziali obbligatorie siano presenti
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_TOKEN mancante: impostalo nell'ambiente o in config.json")
	}
	if c.OpenRouter.APIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY mancante: impostalo nell'ambiente o in config.json")
	}
	return nil
}

// Ottieni la stringa di connessione al database MySQL
func (a *ArchiveConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		a.User, a.Password, a.Host, a.Port, a.DBName)
}
