// Package config provides centralized configuration management for the
// VAHAN Pulse dashboard service. It handles loading configuration from
// multiple sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration files (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern VAHAN_* for namespacing:
//
//	VAHAN_SERVER_PORT=8080
//	VAHAN_LOGGING_LEVEL=info
//	VAHAN_CACHE_TTL=1h
//	VAHAN_SOURCES_DATA_DIR=data
//	VAHAN_SOURCES_YEARLY_FILE=vahan_yearly.csv
//
// # Source Files
//
// SourcesConfig points at the two registration source tables. The yearly
// source is a row-oriented table with maker-level detail; the monthly source
// is a wide table with one column per vehicle category. Relative file names
// are resolved against the data directory:
//
//	cfg.Sources.YearlyPath()  // data/vahan_yearly.csv
//	cfg.Sources.MonthlyPath() // data/vahan_monthly.csv
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
