package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CorrelationIDHeader carries the request correlation id in both directions.
const CorrelationIDHeader = "X-Correlation-ID"

const (
	correlationIDKey = "storeitCorrelationID"
	loggerKey        = "storeitLogger"
)

// Init builds a logger from LOG_LEVEL and LOG_FORMAT and installs it as the
// zap global.
func Init() (*zap.Logger, error) {
	return Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Setup builds a logger with the given level ("debug", "info", ...) and
// format ("json" or "console") and installs it as the zap global. Empty
// values default to info and json.
func Setup(level, format string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
	}

	cfg := zap.NewProductionConfig()
	if strings.EqualFold(format, "console") {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	zap.ReplaceGlobals(l)
	return l, nil
}

// Middleware assigns or propagates the correlation id and logs one line per
// request.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(correlationIDKey, id)
		c.Header(CorrelationIDHeader, id)

		reqLogger := zap.L().With(zap.String("correlation_id", id))
		c.Set(loggerKey, reqLogger)

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			reqLogger.Error("request", fields...)
		case status >= 400:
			reqLogger.Warn("request", fields...)
		default:
			reqLogger.Info("request", fields...)
		}
	}
}

// CorrelationID returns the id assigned by Middleware, or "" outside it.
func CorrelationID(c *gin.Context) string {
	return c.GetString(correlationIDKey)
}

// FromContext returns the request-scoped logger, falling back to the global.
func FromContext(c *gin.Context) *zap.Logger {
	if value, ok := c.Get(loggerKey); ok {
		if l, ok := value.(*zap.Logger); ok {
			return l
		}
	}
	return zap.L()
}
