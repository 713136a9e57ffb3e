package app

import (
	"github.com/ekremrn/crypto-excel-export/config"
	"github.com/ekremrn/crypto-excel-export/internal/exchange"
	"github.com/ekremrn/crypto-excel-export/internal/exchange/binance"
	"github.com/ekremrn/crypto-excel-export/internal/exchange/kucoin"
)

// BuildDrivers constructs one driver per supported exchange from the
// provided configuration.
//
// Parameters:
//   - cfg (config.Config): credentials, base URL overrides, and the
//     per-request HTTP timeout.
//
// Returns:
//   - map[string]exchange.Driver: drivers keyed by exchange name; the keys
//     match what config accepts for EXCHANGE.
func BuildDrivers(cfg config.Config) map[string]exchange.Driver {
	return map[string]exchange.Driver{
		"binance": binance.New(cfg.Binance, cfg.HTTP.RequestTimeout),
		"kucoin":  kucoin.New(cfg.Kucoin, cfg.HTTP.RequestTimeout),
	}
}

// driversCtor is an indirection used by InitializeApp; overridden in tests
// to avoid building real HTTP clients.
var driversCtor = BuildDrivers
