package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/omondi/sokocart/internal/pkg/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "sokocart"

// ZapLogger is our application logger that supports multiple outputs and
// New Relic log forwarding
type ZapLogger struct {
	*zap.Logger
	sugar    *zap.SugaredLogger
	nrApp    *newrelic.Application
	filePath string
	file     *os.File
}

// newRelicCore is a zapcore.Core that forwards log entries to New Relic
type newRelicCore struct {
	level zapcore.Level
	nrApp *newrelic.Application
}

func (c *newRelicCore) Enabled(level zapcore.Level) bool {
	return c.level.Enabled(level)
}

func (c *newRelicCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	return &clone
}

func (c *newRelicCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *newRelicCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if c.nrApp == nil {
		return nil
	}

	encoder := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(encoder)
	}

	logData := newrelic.LogData{
		Timestamp:  entry.Time.UnixMilli(),
		Message:    entry.Message,
		Severity:   entry.Level.String(),
		Attributes: encoder.Fields,
	}
	if logData.Attributes == nil {
		logData.Attributes = make(map[string]any)
	}
	logData.Attributes["service"] = serviceName
	logData.Attributes["caller"] = entry.Caller.TrimmedPath()

	c.nrApp.RecordLog(logData)
	return nil
}

func (c *newRelicCore) Sync() error {
	return nil
}

// ZapConfig holds logger configuration
type ZapConfig struct {
	Level    string `json:"level"`
	FilePath string `json:"file_path"`
}

// NewZapLogger creates a new application logger
func NewZapLogger(config ZapConfig, nrApp *newrelic.Application) (*ZapLogger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(config.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	var cores []zapcore.Core
	cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))

	zapLogger := &ZapLogger{
		nrApp:    nrApp,
		filePath: config.FilePath,
	}

	if config.FilePath != "" {
		if err := zapLogger.setupFileOutput(config.FilePath); err != nil {
			return nil, fmt.Errorf("failed to setup file output: %w", err)
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(zapLogger.file), level))
	}

	if nrApp != nil {
		cores = append(cores, &newRelicCore{level: level, nrApp: nrApp})
	}

	core := zapcore.NewTee(cores...)
	log := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	zapLogger.Logger = log
	zapLogger.sugar = log.Sugar()

	return zapLogger, nil
}

// setupFileOutput configures file output for the logger
func (zl *ZapLogger) setupFileOutput(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	zl.file = file
	return nil
}

// Close closes the log file and syncs the logger
func (zl *ZapLogger) Close() error {
	_ = zl.Logger.Sync()
	_ = zl.sugar.Sync()

	if zl.file != nil {
		return zl.file.Close()
	}
	return nil
}

// WithNewRelicContext adds New Relic trace correlation fields
func (zl *ZapLogger) WithNewRelicContext(txn *newrelic.Transaction) *zap.Logger {
	fields := []zap.Field{}

	if txn != nil {
		if mdw := txn.GetLinkingMetadata(); mdw.TraceID != "" {
			fields = append(fields,
				zap.String("trace.id", mdw.TraceID),
				zap.String("span.id", mdw.SpanID),
			)
		}
	}

	return zl.Logger.With(fields...)
}

// WithFields adds custom fields to the log entry
func (zl *ZapLogger) WithFields(fields map[string]interface{}) *zap.Logger {
	zapFields := make([]zap.Field, 0, len(fields)+1)
	zapFields = append(zapFields, zap.String("service", serviceName))
	for key, value := range fields {
		zapFields = append(zapFields, zap.Any(key, value))
	}

	return zl.Logger.With(zapFields...)
}

// LogHTTPRequest logs an HTTP request with all relevant context
func (zl *ZapLogger) LogHTTPRequest(txn *newrelic.Transaction, method, path, clientIP, requestID string, statusCode int, latency time.Duration, err error) {
	log := zl.WithFields(map[string]interface{}{
		"status":     statusCode,
		"latency":    latency.String(),
		"latency_ms": latency.Milliseconds(),
		"client_ip":  clientIP,
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})

	if txn != nil {
		log = zl.WithNewRelicContext(txn)
		log = log.With(
			zap.Int("status", statusCode),
			zap.String("latency", latency.String()),
			zap.Int64("latency_ms", latency.Milliseconds()),
			zap.String("client_ip", clientIP),
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
		)
	}

	if statusCode >= 500 {
		if err != nil {
			log.Error("Server error", zap.Error(err))
		} else {
			log.Error("Server error")
		}
	} else if statusCode >= 400 {
		log.Warn("Client error")
	} else {
		log.Info("Request processed")
	}
}

// Sugar returns the sugared logger for easier use
func (zl *ZapLogger) Sugar() *zap.SugaredLogger {
	return zl.sugar
}

// InitZapLoggerFromConfig initializes the logger directly from config models
func InitZapLoggerFromConfig(configs *models.Config, nrApp *newrelic.Application) (*ZapLogger, error) {
	zapConfig := ZapConfig{
		Level:    configs.Logger.Level,
		FilePath: configs.Logger.FilePath,
	}

	return NewZapLogger(zapConfig, nrApp)
}

// Info logs an info message with optional fields
func (zl *ZapLogger) Info(msg string, fields ...zap.Field) {
	zl.Logger.Info(msg, fields...)
}

// Error logs an error message with optional fields
func (zl *ZapLogger) Error(msg string, fields ...zap.Field) {
	zl.Logger.Error(msg, fields...)
}

// Warn logs a warning message with optional fields
func (zl *ZapLogger) Warn(msg string, fields ...zap.Field) {
	zl.Logger.Warn(msg, fields...)
}

// Debug logs a debug message with optional fields
func (zl *ZapLogger) Debug(msg string, fields ...zap.Field) {
	zl.Logger.Debug(msg, fields...)
}
