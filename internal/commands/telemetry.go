package commands

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-docsite/internal/logging"
	"github.com/goliatone/go-docsite/pkg/interfaces"
)

// TelemetryStatus classifies how a command execution ended.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// statusFor reports the status for an execution that returned err while ctx
// was in the given state.
func statusFor(ctx context.Context, err error) TelemetryStatus {
	switch {
	case err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		return TelemetryStatusContextError
	case err != nil:
		return TelemetryStatusFailed
	case ctx.Err() != nil:
		return TelemetryStatusContextError
	default:
		return TelemetryStatusSuccess
	}
}

// TelemetryInfo is passed to Telemetry callbacks once a static command returns.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry is invoked after every execution, successful or not.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs one "command.execute.<status>" entry per execution.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	logger = EnsureLogger(logger)
	return func(ctx context.Context, _ T, info TelemetryInfo) {
		entry := logging.WithFields(logger.WithContext(ctx), info.Fields)
		msg := "command.execute." + string(info.Status)
		if info.Status == TelemetryStatusSuccess {
			entry.Info(msg, "duration_ms", info.Duration.Milliseconds())
			return
		}
		entry.Error(msg, "duration_ms", info.Duration.Milliseconds(), "error", info.Error)
	}
}
