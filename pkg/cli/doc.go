// Package cli provides the restaurant-service command-line interface.
//
// # Commands
//
// serve: run the API server plus the health/metrics server
//
//	restaurant-service serve --config ./config.yaml
//
// migrate: manage the PostgreSQL schema
//
//	restaurant-service migrate up
//	restaurant-service migrate down --steps 1
//	restaurant-service migrate version
//
// # Configuration
//
// Settings come from defaults, an optional .env file, the YAML file named by
// --config or RESTAURANT_CONFIG_FILE and finally RESTAURANT_* environment
// variables. See pkg/config.
package cli
