package zapmod

import (
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/msto63/modlevel/pkg/core/log"
	"github.com/msto63/modlevel/pkg/core/modlevel"
)

func newObserved() (*zap.Logger, *observer.ObservedLogs) {
	next, logs := observer.New(TraceLevel)
	core := New(next, "module", log.LevelWarning, modlevel.ModLevelMap{
		"foo": log.LevelDebug,
		"bar": log.LevelError,
	})
	return zap.New(core), logs
}

func TestCoreVModule(t *testing.T) {
	root, logs := newObserved()

	for _, l := range []*zap.Logger{
		root,
		root.With(zap.String("module", "foo")),
		root.With(zap.String("module", "bar")),
		root.With(zap.String("module", "foobar")),
	} {
		l.Debug("debug")
		l.Info("info")
		l.Warn("warn")
		l.Error("error")
	}

	var got []string
	for _, entry := range logs.All() {
		got = append(got, entry.Message)
	}
	want := "warn,error,debug,info,warn,error,error,warn,error"
	if strings.Join(got, ",") != want {
		t.Errorf("forwarded %v, want %s", got, want)
	}
}

func TestCoreEnabled(t *testing.T) {
	root, _ := newObserved()

	tests := []struct {
		name   string
		logger *zap.Logger
		level  zapcore.Level
		want   bool
	}{
		{"root info", root, zapcore.InfoLevel, false},
		{"root warn", root, zapcore.WarnLevel, true},
		{"foo debug", root.With(zap.String("module", "foo")), zapcore.DebugLevel, true},
		{"foo trace", root.With(zap.String("module", "foo")), TraceLevel, false},
		{"bar warn", root.With(zap.String("module", "bar")), zapcore.WarnLevel, false},
		{"last field wins", root.With(zap.String("module", "bar"), zap.String("module", "foo")), zapcore.DebugLevel, true},
		{"untracked resets", root.With(zap.String("module", "foo")).With(zap.String("module", "x")), zapcore.InfoLevel, false},
		{"non string ignored", root.With(zap.Int("module", 1)), zapcore.WarnLevel, true},
		{"other key ignored", root.With(zap.String("component", "foo")), zapcore.DebugLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.logger.Core().Enabled(tt.level); got != tt.want {
				t.Errorf("Enabled(%v) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestCoreEntryFieldsIgnored(t *testing.T) {
	root, logs := newObserved()

	root.Debug("call site", zap.String("module", "foo"))
	if logs.Len() != 0 {
		t.Errorf("entry fields should not select a module level, got %d entries", logs.Len())
	}
}

func TestCoreKeepsContext(t *testing.T) {
	root, logs := newObserved()

	root.With(zap.String("module", "foo"), zap.Int("shard", 3)).Debug("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["module"] != "foo" || ctx["shard"] != int64(3) {
		t.Errorf("context = %v", ctx)
	}
}

type failingCore struct {
	zapcore.Core
	err error
}

func (c failingCore) Write(zapcore.Entry, []zapcore.Field) error {
	return c.err
}

func TestCoreWrite(t *testing.T) {
	boom := errors.New("boom")
	next, _ := observer.New(TraceLevel)
	core := New(failingCore{Core: next, err: boom}, "module", log.LevelInfo, nil)

	if err := core.Write(zapcore.Entry{Level: zapcore.ErrorLevel, Time: time.Now()}, nil); err != boom {
		t.Errorf("Write() error = %v, want %v", err, boom)
	}
	if err := core.Write(zapcore.Entry{Level: zapcore.DebugLevel, Time: time.Now()}, nil); err != nil {
		t.Errorf("dropped entry returned %v", err)
	}
	if err := core.Sync(); err != nil {
		t.Errorf("Sync() error = %v", err)
	}
}

func TestToZapLevel(t *testing.T) {
	tests := []struct {
		level log.Level
		want  zapcore.Level
	}{
		{log.LevelTrace, TraceLevel},
		{log.LevelDebug, zapcore.DebugLevel},
		{log.LevelInfo, zapcore.InfoLevel},
		{log.LevelWarning, zapcore.WarnLevel},
		{log.LevelError, zapcore.ErrorLevel},
		{log.LevelCritical, zapcore.DPanicLevel},
	}
	for _, tt := range tests {
		if got := ToZapLevel(tt.level); got != tt.want {
			t.Errorf("ToZapLevel(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
