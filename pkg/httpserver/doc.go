// Package httpserver provides a small net/http wrapper with graceful
// shutdown, configurable timeouts, and health-check handlers for the
// worker's ops surface.
//
// Run blocks until the context is canceled or an interrupt/TERM signal is
// received, then shuts the server down with a configurable deadline. Listen
// errors are wrapped with ErrStart and shutdown errors with ErrShutdown so
// callers can distinguish them with errors.Is.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//
//	r := chi.NewRouter()
//	r.Get("/health/live", httpserver.HealthCheckHandler(ctx, log))
//	r.Get("/health/ready", httpserver.HealthCheckHandler(ctx, log, redis.Healthcheck(client)))
//
//	err := srv.Run(ctx, r)
package httpserver
