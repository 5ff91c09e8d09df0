package middleware

// HTTPMetrics сборщик метрик HTTP запросов
type HTTPMetrics interface {
	RecordHTTPRequest(method, path, status string, seconds float64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
