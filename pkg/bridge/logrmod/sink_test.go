package logrmod

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"github.com/msto63/modlevel/pkg/core/log"
	"github.com/msto63/modlevel/pkg/core/modlevel"
)

type lineRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *lineRecorder) write(prefix, args string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, args)
}

func (r *lineRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lines)
}

func newTestLogger(rec *lineRecorder) logr.Logger {
	base := funcr.New(rec.write, funcr.Options{Verbosity: 10})
	return NewLogger(base.GetSink(), "module", log.LevelWarning, modlevel.ModLevelMap{
		"foo": log.LevelDebug,
		"bar": log.LevelError,
		"baz": log.LevelCritical,
	})
}

func TestSinkVModule(t *testing.T) {
	rec := &lineRecorder{}
	root := newTestLogger(rec)

	loggers := []logr.Logger{
		root,
		root.WithValues("module", "foo"),
		root.WithValues("module", "bar"),
		root.WithValues("module", "foobar"),
	}
	for _, l := range loggers {
		l.V(DebugVerbosity).Info("debug")
		l.Info("info")
		l.Error(errors.New("boom"), "error")
	}

	// root: error; foo: debug, info, error; bar: error; foobar: error
	if got := rec.count(); got != 6 {
		t.Errorf("forwarded %d lines, want 6: %v", got, rec.lines)
	}
}

func TestSinkEnabled(t *testing.T) {
	rec := &lineRecorder{}
	root := newTestLogger(rec)

	tests := []struct {
		name   string
		logger logr.Logger
		want   bool
	}{
		{"root info", root, false},
		{"foo debug", root.WithValues("module", "foo").V(DebugVerbosity), true},
		{"foo trace", root.WithValues("module", "foo").V(TraceVerbosity), false},
		{"foo info", root.WithValues("module", "foo"), true},
		{"bar info", root.WithValues("module", "bar"), false},
		{"last value wins", root.WithValues("module", "bar", "module", "foo"), true},
		{"non string ignored", root.WithValues("module", 3), false},
		{"name is not a module", root.WithName("foo"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.logger.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSinkErrorAboveErrorLevel(t *testing.T) {
	rec := &lineRecorder{}
	root := newTestLogger(rec)

	root.WithValues("module", "baz").Error(errors.New("boom"), "suppressed")
	if rec.count() != 0 {
		t.Errorf("module at critical should drop errors: %v", rec.lines)
	}
}

func TestSinkCallSiteValuesIgnored(t *testing.T) {
	rec := &lineRecorder{}
	root := newTestLogger(rec)

	root.Info("call site", "module", "foo")
	if rec.count() != 0 {
		t.Errorf("call-site values should not select a module level: %v", rec.lines)
	}
}

func TestSinkKeepsValues(t *testing.T) {
	rec := &lineRecorder{}
	root := newTestLogger(rec)

	root.WithName("api").WithValues("module", "foo", "shard", 2).Info("hello")
	if rec.count() != 1 || !strings.Contains(rec.lines[0], `"shard"=2`) {
		t.Errorf("values not forwarded: %v", rec.lines)
	}
}

func TestSinkWithCallDepth(t *testing.T) {
	rec := &lineRecorder{}
	root := newTestLogger(rec).WithValues("module", "foo")

	root.WithCallDepth(1).Info("deeper")
	if rec.count() != 1 {
		t.Errorf("WithCallDepth lost the line: %v", rec.lines)
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		v    int
		want log.Level
	}{
		{-1, log.LevelInfo},
		{0, log.LevelInfo},
		{1, log.LevelDebug},
		{2, log.LevelTrace},
		{7, log.LevelTrace},
	}
	for _, tt := range tests {
		if got := LevelFromVerbosity(tt.v); got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
