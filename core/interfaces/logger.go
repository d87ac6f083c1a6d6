package interfaces

// Logger is the structured logging contract of the core packages. Fields may
// be nil. Infrastructure provides a logrus implementation; Dependencies.Log
// falls back to a discarding one.
//
//	logger.Warn("Discovery source failed, treating as empty", map[string]interface{}{
//		"source": "hotel_fofa",
//		"error":  err.Error(),
//	})
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}
