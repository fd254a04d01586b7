package ingest

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	mdwerror "github.com/msto63/modlevel/pkg/core/error"
	"github.com/msto63/modlevel/pkg/core/log"
	"github.com/msto63/modlevel/pkg/core/modlevel"
)

const sampleInput = `{"level":"debug","msg":"a","module":"foo"}
{"level":"info","msg":"b"}
not json
[1,2]

{"level":"error","message":"c","module":"bar","n":3}
{"lvl":"wrn","msg":"d","module":"foo","ctx":{"a":1}}`

type recorder struct {
	mu       sync.Mutex
	messages []string
	values   []*log.Values
	err      error
	failOn   string
}

func (r *recorder) Log(rec *log.Record, values *log.Values) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn != "" && rec.Message == r.failOn {
		return 0, r.err
	}
	r.messages = append(r.messages, rec.Message)
	r.values = append(r.values, values)
	return len(rec.Message), nil
}

func newFilter(rec *recorder) *modlevel.Filter[int] {
	return modlevel.New[int](rec, "module", log.LevelWarning, modlevel.ModLevelMap{"foo": log.LevelDebug})
}

func TestRun(t *testing.T) {
	rec := &recorder{}

	stats, err := Run[int](context.Background(), strings.NewReader(sampleInput), newFilter(rec), Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := Stats{Read: 6, Forwarded: 3, Dropped: 1, Malformed: 2}
	if stats != want {
		t.Errorf("Run() stats = %+v, want %+v", stats, want)
	}
	if got := strings.Join(rec.messages, ","); got != "a,c,d" {
		t.Errorf("forwarded %q, want a,c,d", got)
	}
}

func TestRunCompressed(t *testing.T) {
	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	if _, err := gw.Write([]byte(sampleInput)); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}

	var zs bytes.Buffer
	zw, err := zstd.NewWriter(&zs)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := zw.Write([]byte(sampleInput)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		input       []byte
		compression Compression
	}{
		{"gzip detected", gz.Bytes(), CompressionAuto},
		{"gzip explicit", gz.Bytes(), CompressionGzip},
		{"zstd detected", zs.Bytes(), CompressionAuto},
		{"zstd explicit", zs.Bytes(), CompressionZstd},
		{"plain detected", []byte(sampleInput), CompressionAuto},
		{"plain explicit", []byte(sampleInput), CompressionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			stats, err := Run[int](context.Background(), bytes.NewReader(tt.input), newFilter(rec), Options{Compression: tt.compression})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if stats.Forwarded != 3 || stats.Malformed != 2 {
				t.Errorf("Run() stats = %+v", stats)
			}
		})
	}
}

func TestRunWrongCompression(t *testing.T) {
	rec := &recorder{}
	_, err := Run[int](context.Background(), strings.NewReader(sampleInput), newFilter(rec), Options{Compression: CompressionGzip})
	if err == nil {
		t.Fatal("Run() should fail for plain input read as gzip")
	}
	if !mdwerror.HasCode(err, mdwerror.CodeIOError) {
		t.Errorf("Run() error code = %v, want %v", mdwerror.GetCode(err), mdwerror.CodeIOError)
	}
}

func TestRunDrainError(t *testing.T) {
	boom := errors.New("disk full")
	rec := &recorder{err: boom, failOn: "c"}

	stats, err := Run[int](context.Background(), strings.NewReader(sampleInput), newFilter(rec), Options{})
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}

	var mErr *mdwerror.Error
	if !errors.As(err, &mErr) {
		t.Fatalf("Run() error %T is not *mdwerror.Error", err)
	}
	if line := mErr.Details()["line"]; line != 6 {
		t.Errorf("line detail = %v, want 6", line)
	}
	if stats.Forwarded != 1 {
		t.Errorf("stats = %+v, want one forwarded line before the failure", stats)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run[int](ctx, strings.NewReader(sampleInput), newFilter(&recorder{}), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunRootLayer(t *testing.T) {
	rec := &recorder{}
	root := log.NewValues(nil, log.String("run_id", "r-1"), log.Module("bar"))
	input := `{"level":"debug","msg":"own module","module":"foo"}
{"level":"debug","msg":"root module"}`

	stats, err := Run[int](context.Background(), strings.NewReader(input), newFilter(rec), Options{Root: root})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// The line's own module overrides the root layer's
	if stats.Forwarded != 1 || stats.Dropped != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if v, ok := rec.values[0].Lookup("run_id"); !ok || v != "r-1" {
		t.Errorf("run_id = %v, %v", v, ok)
	}
}

func TestParserParse(t *testing.T) {
	var p Parser
	line := `{"ts":"2026-10-17T09:30:00Z","level":"warning","msg":"slow","module":"db","took":1.5,"rows":42,"ok":true,"tags":["a"],"none":null}`

	rec, values, err := p.Parse([]byte(line), nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if rec.Level != log.LevelWarning || rec.Message != "slow" {
		t.Errorf("record = %+v", rec)
	}
	if !rec.Time.Equal(time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("Time = %v", rec.Time)
	}

	fields := values.Fields()
	var keys []string
	for _, f := range fields {
		keys = append(keys, f.Key)
	}
	if got := strings.Join(keys, ","); got != "module,took,rows,ok,tags,none" {
		t.Errorf("field order = %s", got)
	}

	checks := map[string]interface{}{
		"module": "db",
		"took":   1.5,
		"rows":   int64(42),
		"ok":     true,
		"none":   nil,
	}
	for key, want := range checks {
		if got, _ := values.Lookup(key); got != want {
			t.Errorf("%s = %#v, want %#v", key, got, want)
		}
	}
	if tags, _ := values.Lookup("tags"); tags.(RawJSON).String() != `["a"]` {
		t.Errorf("tags = %v", tags)
	}
}

func TestParserDefaults(t *testing.T) {
	var p Parser

	tests := []struct {
		name  string
		line  string
		level log.Level
		msg   string
	}{
		{"no level", `{"msg":"x"}`, log.LevelInfo, "x"},
		{"unknown level", `{"level":"loud","msg":"x"}`, log.LevelInfo, "x"},
		{"numeric level", `{"level":3,"msg":"x"}`, log.LevelInfo, "x"},
		{"alias", `{"severity":"CRIT","message":"y"}`, log.LevelCritical, "y"},
		{"first message key wins", `{"msg":"a","message":"b"}`, log.LevelInfo, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, err := p.Parse([]byte(tt.line), nil)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if rec.Level != tt.level || rec.Message != tt.msg {
				t.Errorf("Parse() = %v %q, want %v %q", rec.Level, rec.Message, tt.level, tt.msg)
			}
			if rec.Time.IsZero() {
				t.Error("missing time should default to now")
			}
		})
	}
}

func TestParserTime(t *testing.T) {
	var p Parser
	want := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		line string
	}{
		{"rfc3339", `{"time":"2026-10-17T09:30:00Z"}`},
		{"seconds", `{"ts":1792229400}`},
		{"fractional seconds", `{"ts":1792229400.0}`},
		{"milliseconds", `{"timestamp":1792229400000}`},
		{"microseconds", `{"timestamp":1792229400000000}`},
		{"nanoseconds", `{"timestamp":1792229400000000000}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, err := p.Parse([]byte(tt.line), nil)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !rec.Time.Equal(want) {
				t.Errorf("Time = %v, want %v", rec.Time.UTC(), want)
			}
		})
	}
}

func TestParserRejects(t *testing.T) {
	var p Parser

	if _, _, err := p.Parse([]byte(`{"level":`), nil); err == nil {
		t.Error("Parse() should fail on truncated JSON")
	}
	if _, _, err := p.Parse([]byte(`"text"`), nil); !errors.Is(err, ErrNotObject) {
		t.Errorf("Parse() error = %v, want ErrNotObject", err)
	}
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		input   string
		want    Compression
		wantErr bool
	}{
		{"", CompressionAuto, false},
		{"auto", CompressionAuto, false},
		{"NONE", CompressionNone, false},
		{"gz", CompressionGzip, false},
		{"zstd", CompressionZstd, false},
		{"brotli", CompressionAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCompression(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCompression(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCompression(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
