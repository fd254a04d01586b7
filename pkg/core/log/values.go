// File: values.go
// Title: Logger Context Values
// Description: Immutable, layered key-value context accumulated while a
//              logger tree is enriched. Each child logger adds one layer
//              that points at its parent.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

package log

// Serializer visits key-value pairs. EmitString receives string values,
// EmitAny every other kind.
type Serializer interface {
	EmitString(key, val string) error
	EmitAny(key string, val interface{}) error
}

// Values is one layer of logger context plus a link to the enclosing
// layers. A nil *Values is the empty context.
type Values struct {
	fields []Field
	parent *Values
}

// NewValues returns a layer holding fields on top of parent. The fields
// slice is copied.
func NewValues(parent *Values, fields ...Field) *Values {
	if len(fields) == 0 {
		return parent
	}
	own := make([]Field, len(fields))
	copy(own, fields)
	return &Values{fields: own, parent: parent}
}

// Serialize emits every layer from the root down to v, so the most
// specific layer is emitted last. The record is accepted so callers can
// serialize record and context with one call site; it is not read.
func (v *Values) Serialize(_ *Record, s Serializer) error {
	if v == nil {
		return nil
	}
	if err := v.parent.Serialize(nil, s); err != nil {
		return err
	}
	for _, f := range v.fields {
		if err := f.emit(s); err != nil {
			return err
		}
	}
	return nil
}

// Fields flattens all layers root first
func (v *Values) Fields() []Field {
	var out []Field
	_ = v.Serialize(nil, &collector{fields: &out})
	return out
}

// Lookup returns the most specific value stored under key
func (v *Values) Lookup(key string) (interface{}, bool) {
	for cur := v; cur != nil; cur = cur.parent {
		for i := len(cur.fields) - 1; i >= 0; i-- {
			if cur.fields[i].Key == key {
				return cur.fields[i].Value, true
			}
		}
	}
	return nil, false
}

// Len returns the total number of fields across layers
func (v *Values) Len() int {
	n := 0
	for cur := v; cur != nil; cur = cur.parent {
		n += len(cur.fields)
	}
	return n
}

type collector struct {
	fields *[]Field
}

func (c *collector) EmitString(key, val string) error {
	*c.fields = append(*c.fields, Field{Key: key, Value: val})
	return nil
}

func (c *collector) EmitAny(key string, val interface{}) error {
	*c.fields = append(*c.fields, Field{Key: key, Value: val})
	return nil
}
