// Package logger provides a factory for configured slog.Logger instances
// plus attribute helpers that keep log field names consistent across the
// worker, handlers, and ops surface.
//
// Typical production setup:
//
//	log := logger.New(logger.WithProduction("relay"))
//	logger.SetAsDefault(log)
//
// Attribute helpers guard against nil values so call sites stay clean:
//
//	log.Info("task admitted",
//		logger.Kind("webhook"),
//		logger.WebhookID(id),
//		logger.InFlight(gate.InFlight()),
//	)
package logger
