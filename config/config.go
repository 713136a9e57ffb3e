package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment
// variables or a .env file.
//
// It is composed of smaller structs that represent different concerns of the
// system: the HTTP server, the default exchange selection, per-exchange
// credentials and base URLs, and HTTP timeout budgets.
//
// Example YAML/ENV equivalent:
//
//	SERVER_PORT=8080
//	EXCHANGE=binance
//	BINANCE_API_KEY=...
//	BINANCE_API_SECRET=...
//	KUCOIN_API_KEY=...
//	KUCOIN_API_SECRET=...
//	KUCOIN_API_PASSPHRASE=...
//	HTTP_TIMEOUT_SECONDS=30
//	EXPORT_TIMEOUT_SECONDS=900
type Config struct {
	Server   ServerConfig  // HTTP server configuration
	Exchange string        // default exchange when a request does not name one ("binance" or "kucoin")
	Binance  BinanceConfig // Binance REST API settings
	Kucoin   KucoinConfig  // KuCoin REST API settings
	HTTP     HTTPConfig    // timeout budgets
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// BinanceConfig defines optional credentials and endpoint settings for the
// Binance klines API.
//
// Fields:
//   - APIKey, APISecret: optional; public k-line history needs no key, but a
//     key raises the request-weight allowance.
//   - Testnet: when true, requests go to the Binance testnet endpoint.
//   - BaseURL: overrides the endpoint entirely (tests, proxies).
type BinanceConfig struct {
	APIKey    string
	APISecret string
	Testnet   bool
	BaseURL   string
}

// KucoinConfig defines optional credentials and endpoint settings for the
// KuCoin klines API.
//
// Requests are signed only when APIKey, APISecret, and APIPassphrase are all
// present; public history works without any of them.
type KucoinConfig struct {
	APIKey        string
	APISecret     string
	APIPassphrase string
	BaseURL       string
}

// HTTPConfig holds timeout budgets for outbound and inbound work.
//
// Fields:
//   - RequestTimeout: per-request timeout of the outbound exchange client.
//   - ExportTimeout: total budget for one export request (a long range takes
//     many sequential paginated calls).
type HTTPConfig struct {
	RequestTimeout time.Duration
	ExportTimeout  time.Duration
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
// All services should import this package and read from AppConfig instead of
// reloading environment variables directly.
var AppConfig Config

// knownExchanges are the names validateConfig accepts for EXCHANGE.
var knownExchanges = map[string]bool{
	"binance": true,
	"kucoin":  true,
}

// LoadConfig initializes the global AppConfig by reading from a .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Behavior:
//   - Sets defaults for all required fields.
//   - Reads environment variables automatically with viper.AutomaticEnv().
//   - Calls validateConfig() to ensure required fields are sane.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig() will
//     terminate the app with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("EXCHANGE", "binance")

	viper.SetDefault("BINANCE_API_KEY", "")
	viper.SetDefault("BINANCE_API_SECRET", "")
	viper.SetDefault("BINANCE_TESTNET", false)
	viper.SetDefault("BINANCE_BASE_URL", "")

	viper.SetDefault("KUCOIN_API_KEY", "")
	viper.SetDefault("KUCOIN_API_SECRET", "")
	viper.SetDefault("KUCOIN_API_PASSPHRASE", "")
	viper.SetDefault("KUCOIN_BASE_URL", "")

	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 30)
	viper.SetDefault("EXPORT_TIMEOUT_SECONDS", 900)

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Exchange: strings.ToLower(strings.TrimSpace(viper.GetString("EXCHANGE"))),
		Binance: BinanceConfig{
			APIKey:    viper.GetString("BINANCE_API_KEY"),
			APISecret: viper.GetString("BINANCE_API_SECRET"),
			Testnet:   viper.GetBool("BINANCE_TESTNET"),
			BaseURL:   viper.GetString("BINANCE_BASE_URL"),
		},
		Kucoin: KucoinConfig{
			APIKey:        viper.GetString("KUCOIN_API_KEY"),
			APISecret:     viper.GetString("KUCOIN_API_SECRET"),
			APIPassphrase: viper.GetString("KUCOIN_API_PASSPHRASE"),
			BaseURL:       viper.GetString("KUCOIN_BASE_URL"),
		},
		HTTP: HTTPConfig{
			RequestTimeout: time.Duration(viper.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second,
			ExportTimeout:  time.Duration(viper.GetInt("EXPORT_TIMEOUT_SECONDS")) * time.Second,
		},
	}

	// Validate critical fields
	validateConfig()
}

// validateConfig ensures required variables are present and sane, and
// terminates the application if they are not.
//
// This avoids unexpected runtime failures due to incomplete configuration.
//
// Behavior:
//   - Checks each critical field of AppConfig.
//   - Collects offending ones in a slice.
//   - If any are invalid, logs them and terminates the app with log.Fatalf().
func validateConfig() {
	var invalid []string

	if AppConfig.Server.Port == "" {
		invalid = append(invalid, "SERVER_PORT")
	}
	if !knownExchanges[AppConfig.Exchange] {
		invalid = append(invalid, "EXCHANGE")
	}
	if AppConfig.HTTP.RequestTimeout <= 0 {
		invalid = append(invalid, "HTTP_TIMEOUT_SECONDS")
	}
	if AppConfig.HTTP.ExportTimeout <= 0 {
		invalid = append(invalid, "EXPORT_TIMEOUT_SECONDS")
	}

	if len(invalid) > 0 {
		log.Fatalf("Missing or invalid environment variables: %v\n", invalid)
	}
}
