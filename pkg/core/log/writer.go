// File: writer.go
// Title: Writer Drain
// Description: Terminal drain that formats records and writes them to an
//              io.Writer.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

package log

import (
	"io"
	"sync"
)

// WriterDrain formats records and writes each one with a single Write
// call. Writes are serialized, so one WriterDrain may be shared by
// concurrent loggers.
type WriterDrain struct {
	mu        sync.Mutex
	out       io.Writer
	formatter Formatter
}

// NewWriterDrain creates a drain writing to out. A nil formatter selects
// JSON.
func NewWriterDrain(out io.Writer, formatter Formatter) *WriterDrain {
	if formatter == nil {
		formatter = NewJSONFormatter()
	}
	return &WriterDrain{out: out, formatter: formatter}
}

// Log formats and writes the record, returning the number of bytes written
func (d *WriterDrain) Log(rec *Record, values *Values) (int, error) {
	formatted, err := d.formatter.Format(rec, values)
	if err != nil {
		return 0, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.out.Write(formatted)
}
