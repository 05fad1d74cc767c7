// Package logger builds the zap logger shared by the CLI and the HTTP server.
//
// A debug level selects zap's development configuration; any other level uses the
// production one. Format "console" switches to a colored console encoder, otherwise
// entries are JSON.
//
// WithRayID scopes a logger to the request id set by the rayid middleware so every
// entry of one comparison request can be correlated.
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Comparison finished", zap.Int("new", plan.Summary.New))
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Compare failed", zap.Error(err))
package logger
