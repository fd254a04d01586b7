// ============================================================================
// modlevel - per-module log level filtering
// ============================================================================
//
// Package:     ingest
// Description: JSON-lines log reader feeding records through a drain
// Author:      msto63
// Created:     2026-10-17
// License:     MIT
// ============================================================================

// Package ingest reads JSON log lines, turns each into a log record plus a
// context layer and hands them to a drain, usually a modlevel.Filter.
package ingest

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"time"

	"github.com/valyala/fastjson"

	mdwerror "github.com/msto63/modlevel/pkg/core/error"
	"github.com/msto63/modlevel/pkg/core/log"
	"github.com/msto63/modlevel/pkg/core/modlevel"
)

// Keys read into the record itself; the first present key of each group
// is used and all of them are kept out of the context fields
var (
	levelKeys   = []string{"level", "lvl", "severity"}
	messageKeys = []string{"msg", "message"}
	timeKeys    = []string{"time", "ts", "timestamp"}
)

// ErrNotObject is returned for lines that are valid JSON but not an object
var ErrNotObject = errors.New("log line is not a JSON object")

// Stats counts what happened to the lines of one run
type Stats struct {
	Read      int `json:"read"`
	Forwarded int `json:"forwarded"`
	Dropped   int `json:"dropped"`
	Malformed int `json:"malformed"`
}

// RawJSON holds a nested object or array from an ingested line. It is
// written back verbatim by JSON output and as text elsewhere.
type RawJSON []byte

func (r RawJSON) MarshalJSON() ([]byte, error) { return r, nil }

func (r RawJSON) String() string { return string(r) }

// Options controls a run
type Options struct {
	Compression Compression

	// Root is the parent layer of every line's context, e.g. a run id
	Root *log.Values
}

// Parser turns JSON lines into records. A Parser is not safe for
// concurrent use; records and values it returns do not reference its
// internal buffers.
type Parser struct {
	p fastjson.Parser
}

// Parse decodes one line. Fields other than level, message and time become
// a context layer on top of root, in document order; string values stay
// strings so they can name a module.
func (p *Parser) Parse(line []byte, root *log.Values) (*log.Record, *log.Values, error) {
	v, err := p.p.ParseBytes(line)
	if err != nil {
		return nil, nil, err
	}
	obj, err := v.Object()
	if err != nil {
		return nil, nil, ErrNotObject
	}

	rec := &log.Record{Level: log.LevelInfo}
	var fields []log.Field
	var haveLevel, haveMessage, haveTime bool

	obj.Visit(func(k []byte, val *fastjson.Value) {
		key := string(k)
		switch {
		case !haveLevel && contains(levelKeys, key):
			haveLevel = true
			if s, err := val.StringBytes(); err == nil {
				// ParseLevel falls back to info for unknown names
				rec.Level, _ = log.ParseLevel(string(s))
			}
		case !haveMessage && contains(messageKeys, key):
			haveMessage = true
			if s, err := val.StringBytes(); err == nil {
				rec.Message = string(s)
			} else {
				rec.Message = string(val.MarshalTo(nil))
			}
		case !haveTime && contains(timeKeys, key):
			haveTime = true
			rec.Time = parseTime(val)
		default:
			fields = append(fields, log.Field{Key: key, Value: fieldValue(val)})
		}
	})

	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}
	return rec, log.NewValues(root, fields...), nil
}

// Run reads lines from r until EOF and logs each through drain. Blank
// lines are skipped, malformed lines are counted and skipped. The first
// drain error stops the run and is returned with the line number.
func Run[T any](ctx context.Context, r io.Reader, drain log.Drain[modlevel.Result[T]], options Options) (Stats, error) {
	var stats Stats

	in, err := Decompress(r, options.Compression)
	if err != nil {
		return stats, err
	}
	defer in.Close()

	br := bufio.NewReader(in)
	var parser Parser
	lineNo := 0

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		line, readErr := br.ReadBytes('\n')
		if len(line) > 0 {
			lineNo++
			if err := handleLine(&parser, bytes.TrimSpace(line), lineNo, drain, options.Root, &stats); err != nil {
				return stats, err
			}
		}

		if readErr == io.EOF {
			return stats, nil
		}
		if readErr != nil {
			return stats, mdwerror.Wrap(readErr, "failed to read input").
				WithCode(mdwerror.CodeIOError).
				WithOperation("ingest.Run").
				WithDetail("line", lineNo)
		}
	}
}

func handleLine[T any](parser *Parser, line []byte, lineNo int, drain log.Drain[modlevel.Result[T]], root *log.Values, stats *Stats) error {
	if len(line) == 0 {
		return nil
	}
	stats.Read++

	rec, values, err := parser.Parse(line, root)
	if err != nil {
		stats.Malformed++
		return nil
	}

	res, err := drain.Log(rec, values)
	if err != nil {
		return mdwerror.Wrap(err, "drain failed").
			WithOperation("ingest.Run").
			WithDetail("line", lineNo)
	}
	if res.Forwarded {
		stats.Forwarded++
	} else {
		stats.Dropped++
	}
	return nil
}

func fieldValue(v *fastjson.Value) interface{} {
	switch v.Type() {
	case fastjson.TypeString:
		s, _ := v.StringBytes()
		return string(s)
	case fastjson.TypeNumber:
		if n, err := v.Int64(); err == nil {
			return n
		}
		f, _ := v.Float64()
		return f
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	case fastjson.TypeNull:
		return nil
	default:
		return RawJSON(v.MarshalTo(nil))
	}
}

// parseTime accepts RFC 3339 strings and unix timestamps in seconds,
// milliseconds, microseconds or nanoseconds, told apart by magnitude
func parseTime(v *fastjson.Value) time.Time {
	switch v.Type() {
	case fastjson.TypeString:
		s, _ := v.StringBytes()
		t, err := time.Parse(time.RFC3339Nano, string(s))
		if err != nil {
			return time.Time{}
		}
		return t
	case fastjson.TypeNumber:
		if n, err := v.Int64(); err == nil && n > 0 {
			switch {
			case n >= 1e17:
				return time.Unix(0, n)
			case n >= 1e14:
				return time.UnixMicro(n)
			case n >= 1e11:
				return time.UnixMilli(n)
			default:
				return time.Unix(n, 0)
			}
		}
		f, err := v.Float64()
		if err != nil || f <= 0 {
			return time.Time{}
		}
		sec, frac := math.Modf(f)
		return time.Unix(int64(sec), int64(frac*1e9))
	default:
		return time.Time{}
	}
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
