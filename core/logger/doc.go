// Package logger builds the application's zap logger.
//
// Level "debug" selects zap's development preset; every other level uses the
// production preset at that level. Format "console" switches to a coloured
// console encoder, otherwise entries are JSON.
//
// WithRayID attaches the request's ray id (set by the rayid middleware) so all
// entries for one HTTP request can be correlated.
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	l := logger.WithRayID(log, c)
//	l.Error("Comparison failed", zap.Error(err))
package logger
