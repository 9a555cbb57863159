package imprint

import (
	"bytes"
	"math"
)

// Value is one typed field value. The concrete types below form a closed
// set; codec paths switch over them exhaustively.
type Value interface {
	Code() TypeCode
}

// MapKey is the restricted subset of Value legal as a map key:
// Int32Value, Int64Value, BytesValue and StringValue.
type MapKey interface {
	Value
	mapKey()
}

type (
	// NullValue occupies zero payload bytes.
	NullValue struct{}

	BoolValue    bool
	Int32Value   int32
	Int64Value   int64
	Float32Value float32
	Float64Value float64

	// BytesValue decodes as a subslice of the record payload; callers must
	// copy before mutating.
	BytesValue []byte

	StringValue string

	// ArrayValue is homogeneous: every element carries the same TypeCode.
	// Enforced when encoding.
	ArrayValue []Value

	// MapValue keeps entries in wire order after decode. The encoder sorts
	// entries by encoded key bytes, so encoding is deterministic regardless
	// of the order entries were appended in.
	MapValue []MapEntry

	// RowValue nests a complete record.
	RowValue struct {
		Record *Record
	}
)

// MapEntry is one key/value pair of a MapValue.
type MapEntry struct {
	Key   MapKey
	Value Value
}

func (NullValue) Code() TypeCode    { return TypeNull }
func (BoolValue) Code() TypeCode    { return TypeBool }
func (Int32Value) Code() TypeCode   { return TypeInt32 }
func (Int64Value) Code() TypeCode   { return TypeInt64 }
func (Float32Value) Code() TypeCode { return TypeFloat32 }
func (Float64Value) Code() TypeCode { return TypeFloat64 }
func (BytesValue) Code() TypeCode   { return TypeBytes }
func (StringValue) Code() TypeCode  { return TypeString }
func (ArrayValue) Code() TypeCode   { return TypeArray }
func (MapValue) Code() TypeCode     { return TypeMap }
func (RowValue) Code() TypeCode     { return TypeRow }

func (Int32Value) mapKey()  {}
func (Int64Value) mapKey()  {}
func (BytesValue) mapKey()  {}
func (StringValue) mapKey() {}

// Get returns the value stored under key, if present.
func (m MapValue) Get(key MapKey) (Value, bool) {
	for _, e := range m {
		if Equal(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

// Equal reports deep equality of two values. Floats are compared by bit
// pattern, so NaN payloads compare equal to themselves. Maps compare as
// sets of pairs; entry order is not observable.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Code() != b.Code() {
		return false
	}
	switch av := a.(type) {
	case NullValue:
		return true
	case BoolValue:
		return av == b.(BoolValue)
	case Int32Value:
		return av == b.(Int32Value)
	case Int64Value:
		return av == b.(Int64Value)
	case Float32Value:
		return math.Float32bits(float32(av)) == math.Float32bits(float32(b.(Float32Value)))
	case Float64Value:
		return math.Float64bits(float64(av)) == math.Float64bits(float64(b.(Float64Value)))
	case BytesValue:
		return bytes.Equal(av, b.(BytesValue))
	case StringValue:
		return av == b.(StringValue)
	case ArrayValue:
		bv := b.(ArrayValue)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case MapValue:
		bv := b.(MapValue)
		if len(av) != len(bv) {
			return false
		}
		for _, e := range av {
			got, ok := bv.Get(e.Key)
			if !ok || !Equal(e.Value, got) {
				return false
			}
		}
		return true
	case RowValue:
		return recordEqual(av.Record, b.(RowValue).Record)
	}
	return false
}

// recordEqual compares two records structurally: header fields, directory
// shape and every field value.
func recordEqual(a, b *Record) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.header != b.header || len(a.directory) != len(b.directory) {
		return false
	}
	for i, e := range a.directory {
		if e.ID != b.directory[i].ID || e.TypeCode != b.directory[i].TypeCode {
			return false
		}
		va, err := a.GetValue(e.ID)
		if err != nil {
			return false
		}
		vb, err := b.GetValue(e.ID)
		if err != nil {
			return false
		}
		if !Equal(va, vb) {
			return false
		}
	}
	return true
}
