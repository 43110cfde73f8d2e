package logger_test

import (
	"context"
	"testing"

	"ojarena/pkg/utils/contextkey"
	"ojarena/pkg/utils/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextFieldsAreAttached(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger.SetLogger(logger.NewWithZap(zap.New(core)))
	defer logger.SetLogger(nil)

	ctx := context.WithValue(context.Background(), contextkey.TraceID, "trace-1")
	ctx = context.WithValue(ctx, contextkey.RequestID, "req-1")
	logger.Warn(ctx, "patch run list failed", zap.String("contest", "c1"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != "trace-1" || fields["request_id"] != "req-1" || fields["contest"] != "c1" {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if _, ok := fields["user_id"]; ok {
		t.Fatalf("user_id should be absent")
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	logger.SetLogger(nil)
	logger.Info(context.Background(), "dropped")
	if err := logger.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	if _, err := logger.NewLogger(logger.Config{Level: "loud"}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
	if _, err := logger.NewLogger(logger.Config{Level: "debug", Format: "json", OutputPath: "stderr"}); err != nil {
		t.Fatalf("new logger: %v", err)
	}
}
