// Package config loads the service configuration.
//
// Sources, later ones winning: built-in defaults, a .env file in the working
// directory, the YAML file named by RESTAURANT_CONFIG_FILE, and RESTAURANT_*
// environment variables.
//
// Server settings:
//
//	RESTAURANT_HOST="0.0.0.0"
//	RESTAURANT_PORT="8080"
//	RESTAURANT_HEALTH_PORT="9090"
//	RESTAURANT_SHUTDOWN_TIMEOUT="30s"
//
// Storage settings:
//
//	RESTAURANT_STORAGE_TYPE="postgres"  # memory, postgres
//	RESTAURANT_POSTGRES_URL="postgres://localhost/restaurants?sslmode=disable"
//	RESTAURANT_POSTGRES_REPLICA_URLS="postgres://replica1/restaurants,postgres://replica2/restaurants"
//	RESTAURANT_MIGRATE_ON_START="true"
//
// Observability settings:
//
//	RESTAURANT_LOG_LEVEL="info"  # debug, info, warn, error
//	RESTAURANT_METRICS_ENABLED="true"
//	RESTAURANT_OTEL_ENABLED="true"
//	RESTAURANT_OTEL_ENDPOINT="otel-collector:4317"
//
// The same settings in YAML:
//
//	server:
//	  port: "8080"
//	  read_timeout: 10s
//	storage:
//	  type: postgres
//	  postgres_url: postgres://localhost/restaurants
//	observability:
//	  log_level: debug
//
// Validate reports every problem at once as a multierror.
package config
