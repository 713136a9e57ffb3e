package config

import (
	"os"
	"os/exec"
	"testing"
	"time"
)

// TestLoadConfig_Defaults verifies that defaults are loaded when no
// environment variables are set.
func TestLoadConfig_Defaults(t *testing.T) {
	// Clear relevant env vars to ensure defaults are used
	for _, k := range []string{
		"SERVER_PORT", "EXCHANGE",
		"BINANCE_API_KEY", "BINANCE_API_SECRET", "BINANCE_TESTNET", "BINANCE_BASE_URL",
		"KUCOIN_API_KEY", "KUCOIN_API_SECRET", "KUCOIN_API_PASSPHRASE", "KUCOIN_BASE_URL",
		"HTTP_TIMEOUT_SECONDS", "EXPORT_TIMEOUT_SECONDS",
	} {
		_ = os.Unsetenv(k)
	}

	LoadConfig()

	if AppConfig.Server.Port != "8080" {
		t.Fatalf("expected default SERVER_PORT=8080, got %q", AppConfig.Server.Port)
	}
	if AppConfig.Exchange != "binance" {
		t.Fatalf("expected default EXCHANGE=binance, got %q", AppConfig.Exchange)
	}
	if AppConfig.Binance.APIKey != "" || AppConfig.Kucoin.APIKey != "" {
		t.Fatalf("expected empty credentials by default: %+v", AppConfig)
	}
	if AppConfig.HTTP.RequestTimeout != 30*time.Second || AppConfig.HTTP.ExportTimeout != 900*time.Second {
		t.Fatalf("unexpected timeout defaults: %+v", AppConfig.HTTP)
	}
}

// TestLoadConfig_EnvOverrides verifies environment variables win over defaults.
func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("EXCHANGE", "KuCoin")
	t.Setenv("KUCOIN_API_KEY", "k")
	t.Setenv("KUCOIN_API_SECRET", "s")
	t.Setenv("KUCOIN_API_PASSPHRASE", "p")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")

	LoadConfig()

	if AppConfig.Exchange != "kucoin" {
		t.Fatalf("EXCHANGE not normalized: %q", AppConfig.Exchange)
	}
	if AppConfig.Kucoin.APIKey != "k" || AppConfig.Kucoin.APISecret != "s" || AppConfig.Kucoin.APIPassphrase != "p" {
		t.Fatalf("kucoin credentials not loaded: %+v", AppConfig.Kucoin)
	}
	if AppConfig.HTTP.RequestTimeout != 5*time.Second {
		t.Fatalf("HTTP_TIMEOUT_SECONDS not applied: %v", AppConfig.HTTP.RequestTimeout)
	}
}

// TestValidateConfig_Fatal uses a subprocess to assert that validateConfig
// triggers a fatal exit when required fields are missing or invalid.
func TestValidateConfig_Fatal(t *testing.T) {
	if os.Getenv("RUN_VALIDATE_FATAL") == "1" {
		// In child process: set a broken AppConfig and call validateConfig()
		// to trigger log.Fatalf (os.Exit)
		AppConfig = Config{Exchange: "bitfinex"}
		validateConfig()
		t.Fatalf("validateConfig should have exited the process")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run", "TestValidateConfig_Fatal")
	cmd.Env = append(os.Environ(), "RUN_VALIDATE_FATAL=1")
	err := cmd.Run()
	if err == nil {
		t.Fatalf("expected process to exit with error, got nil")
	}
}
