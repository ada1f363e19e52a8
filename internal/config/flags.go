package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-d database file path of the record store
//	-legacy path of the legacy flat-key storage file
//	-a server address in format [host]:[port]
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-poll-interval delivery worker poll interval
//	-tolerance delivery due-check tolerance window
func ParseFlags() *Config {
	var (
		databaseDSN    string
		legacyPath     string
		serverAddress  string
		jsonConfigPath string
		tokenSignKey   string
		tokenIssuer    string
		tokenDuration  time.Duration
		requestTimeout time.Duration
		pollInterval   time.Duration
		tolerance      time.Duration
	)

	flag.StringVar(&databaseDSN, "d", "", "Record store file path")
	flag.StringVar(&legacyPath, "legacy", "", "Legacy flat-key storage file path")
	flag.StringVar(&serverAddress, "a", "", "Net address host:port")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&pollInterval, "poll-interval", 0, "Delivery worker poll interval")
	flag.DurationVar(&tolerance, "tolerance", 0, "Delivery due-check tolerance window")

	flag.Parse()

	return &Config{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
		},
		Storage: Storage{
			DB:     DB{DSN: databaseDSN},
			Legacy: Legacy{Path: legacyPath},
		},
		Server: Server{
			HTTPAddress:    serverAddress,
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			PollInterval: pollInterval,
			Tolerance:    tolerance,
		},
		JSONFilePath: jsonConfigPath,
	}
}
