package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	c "ticketing-marketplace-backend/context"
	"time"

	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger

const CorrelationId = "correlation_id"

var newlines = regexp.MustCompile(`(\n)|(\r\n)`)

func init() {
	logger = logrus.New()
	logger.SetOutput(os.Stdout)
}

// Configure sets the level and format from configuration. Unknown levels
// keep the current one.
func Configure(level string, json bool) error {
	if json {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{})
	}
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("configure: invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)
	return nil
}

func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func entry(ctx context.Context) *logrus.Entry {
	return logger.WithField(CorrelationId, c.GetContextValue(ctx, c.ContextKeyCorrelationID))
}

func Fatalf(ctx context.Context, format string, args ...interface{}) {
	entry(ctx).Fatalf(format, args...)
}

func Infof(ctx context.Context, format string, args ...interface{}) {
	entry(ctx).Infof(format, args...)
}

func Info(ctx context.Context, msg string) {
	entry(ctx).Info(msg)
}

func Debugf(ctx context.Context, format string, args ...interface{}) {
	entry(ctx).Debug(escapeString(format, args...))
}

func Warnf(ctx context.Context, format string, args ...interface{}) {
	entry(ctx).Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...interface{}) {
	entry(ctx).Error(escapeString(format, args...))
}

// LogExecutionTime logs the time elapsed since start. Use with defer.
func LogExecutionTime(ctx context.Context, start time.Time, msg string) {
	entry(ctx).WithField("took_ms", time.Since(start).Milliseconds()).Info(msg)
}

func escapeString(format string, args ...interface{}) string {
	return newlines.ReplaceAllString(fmt.Sprintf(format, args...), "\\n ")
}
