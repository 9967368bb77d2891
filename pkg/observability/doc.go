// Package observability provides structured logging, Prometheus metrics, and OpenTelemetry tracing.
//
// # Structured Logging
//
//	logger := observability.NewLogger(observability.ParseLogLevel("info"), os.Stdout)
//	logger.WithField("restaurant_id", id).Info("restaurant created")
//
// Request scoped loggers carry request_id and user_id:
//
//	observability.FromContext(r.Context()).Warn("owner lookup slow")
//
// # Prometheus Metrics
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	router.Use(observability.HTTPMetricsMiddleware(metrics))
//	_ = metrics.RegisterDBStats("primary", db)
//
// Metrics also records authorization gate denials; pass it to
// middleware.Authorizer.WithDenialRecorder.
//
// # Health Checks
//
//	checker := observability.NewHealthChecker(version)
//	checker.AddCheck("postgres", conns.HealthCheck)
//	observability.RegisterHealthRoutes(opsMux, checker)
//
// # OpenTelemetry
//
//	providers, err := observability.InitOTel(ctx, observability.OTelConfig{
//		Enabled:     true,
//		Endpoint:    "otel-collector:4317",
//		ServiceName: "restaurant-service",
//	}, logger)
//	defer observability.ShutdownOTel(ctx, providers, logger)
//
// # Shutdown
//
// ShutdownManager serves the API and operational servers together and stops
// them when the context is cancelled.
package observability
