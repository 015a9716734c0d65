package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	App       AppConfig       `envPrefix:"APP_"`
	Binance   BinanceConfig   `envPrefix:"BINANCE_"`
	Book      BookConfig      `envPrefix:"BOOK_"`
	Publisher PublisherConfig `envPrefix:"PUBLISHER_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"binance-orderbook"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// BinanceConfig holds the venue endpoints.
type BinanceConfig struct {
	RestBaseURL      string `env:"REST_BASE_URL" envDefault:"https://api.binance.com/api/v3"`
	WebsocketBaseURL string `env:"WEBSOCKET_BASE_URL" envDefault:"wss://stream.binance.com:9443/ws"`
}

// BookConfig holds the local orderbook parameters.
type BookConfig struct {
	Symbol string `env:"SYMBOL" envDefault:"BTCUSDT"`
	// DepthLimit is the number of levels requested on the snapshot endpoint.
	// Binance accepts 5, 10, 20, 50, 100, 500, 1000 or 5000.
	DepthLimit int `env:"DEPTH_LIMIT" envDefault:"100"`
	// UpdateSpeedMs is the diff stream interval, 100 or 1000 milliseconds.
	UpdateSpeedMs int `env:"UPDATE_SPEED_MS" envDefault:"1000"`
	// QueueCapacity bounds the inbound update queue. When full, the oldest
	// queued update is dropped and reported.
	QueueCapacity int `env:"QUEUE_CAPACITY" envDefault:"1024"`
}

// PublisherConfig represents the Kafka configuration for the optional
// book event publisher.
type PublisherConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"book-events"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
