// Package models defines the schema-less document model profiled by docqual.
//
// A Document is an ordered list of fields whose values are tagged variants.
// Field presence varies per document; a field that is absent and a field that
// holds an explicit null are both "missing" to the profiler, but only the
// latter appears in Document.Fields.
package models

import (
	"math"
	"strconv"
	"time"
)

// Kind tags the runtime type of a document value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindTime
	KindObjectID
	KindBinary
	KindObject
	KindArray
	KindOther
)

// String returns the type label reported in DataTypes.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int64"
	case KindFloat:
		return "float64"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindTime:
		return "datetime"
	case KindObjectID:
		return "objectid"
	case KindBinary:
		return "binary"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	}
	return "other"
}

// IsNumeric reports whether values of this kind feed numeric calculators.
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindFloat
}

// MarshalText encodes the kind as its label.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Value is a tagged scalar. Only the member selected by Kind is meaningful.
// Objects, arrays, binaries and unknown types carry a canonical text form in
// Str so they can be compared.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Str   string
	Bool  bool
	Time  time.Time
}

// Null is the explicit null value.
var Null = Value{Kind: KindNull}

// Int returns an integer value.
func Int(v int64) Value { return Value{Kind: KindInt, Int: v} }

// Float returns a float value. NaN is treated as null, matching how tabular
// tools count NaN as missing.
func Float(v float64) Value {
	if math.IsNaN(v) {
		return Null
	}
	return Value{Kind: KindFloat, Float: v}
}

// String returns a text value.
func String(v string) Value { return Value{Kind: KindString, Str: v} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{Kind: KindBool, Bool: v} }

// Time returns a datetime value normalized to UTC.
func Time(v time.Time) Value { return Value{Kind: KindTime, Time: v.UTC()} }

// Opaque returns a value of a non-scalar kind identified by its canonical text.
func Opaque(kind Kind, canonical string) Value { return Value{Kind: kind, Str: canonical} }

// IsNull reports whether the value is an explicit null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Float64 returns the numeric value and whether the value is numeric.
func (v Value) Float64() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	}
	return 0, false
}

// Key returns an equality key that is sensitive to both kind and content, so
// Int(1) and Float(1) differ.
func (v Value) Key() string {
	switch v.Kind {
	case KindNull:
		return "n:"
	case KindInt:
		return "i:" + strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return "f:" + strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString:
		return "s:" + v.Str
	case KindBool:
		return "b:" + strconv.FormatBool(v.Bool)
	case KindTime:
		return "t:" + strconv.FormatInt(v.Time.UnixNano(), 10)
	}
	return strconv.Itoa(int(v.Kind)) + ":" + v.Str
}

// Interface returns the Go value carried by v, for JSON rendering.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindNull:
		return nil
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindBool:
		return v.Bool
	case KindTime:
		return v.Time
	}
	return v.Str
}
