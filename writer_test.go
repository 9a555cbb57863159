package imprint

import (
	"bytes"
	"errors"
	"testing"
)

func TestLastWriteWins(t *testing.T) {
	w := NewWriter(testSchema)
	if err := w.AddField(1, Int32Value(42)); err != nil {
		t.Fatal(err)
	}
	if err := w.AddField(1, Int32Value(43)); err != nil {
		t.Fatal(err)
	}
	rec, err := w.Build()
	if err != nil {
		t.Fatal(err)
	}
	if got := rec.Ids(); len(got) != 1 {
		t.Fatalf("directory length = %d, want 1", len(got))
	}
	if v := mustGet(t, rec, 1); !Equal(v, Int32Value(43)) {
		t.Errorf("field 1 = %#v, want 43", v)
	}
}

func TestReplacementCompactsPayload(t *testing.T) {
	w := NewWriter(testSchema)
	if err := w.AddField(1, StringValue("a long value that will become garbage")); err != nil {
		t.Fatal(err)
	}
	if err := w.AddField(1, StringValue("x")); err != nil {
		t.Fatal(err)
	}
	if err := w.AddField(2, Int32Value(7)); err != nil {
		t.Fatal(err)
	}
	rec, err := w.Build()
	if err != nil {
		t.Fatal(err)
	}
	// varint(1) + "x" + int32 = 6 bytes; the replaced string must be gone
	if rec.PayloadSize() != 6 {
		t.Errorf("payload size = %d, want 6", rec.PayloadSize())
	}
	if v := mustGet(t, rec, 1); !Equal(v, StringValue("x")) {
		t.Errorf("field 1 = %#v, want \"x\"", v)
	}
	if v := mustGet(t, rec, 2); !Equal(v, Int32Value(7)) {
		t.Errorf("field 2 = %#v, want 7", v)
	}
}

func TestWriterConsumedAfterBuild(t *testing.T) {
	w := NewWriter(testSchema)
	if err := w.AddField(1, Int32Value(1)); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Build(); err != nil {
		t.Fatal(err)
	}
	if err := w.AddField(2, Int32Value(2)); !errors.Is(err, ErrWriterConsumed) {
		t.Errorf("AddField after Build = %v, want ErrWriterConsumed", err)
	}
	if _, err := w.Build(); !errors.Is(err, ErrWriterConsumed) {
		t.Errorf("second Build = %v, want ErrWriterConsumed", err)
	}
}

func TestEmptyRecord(t *testing.T) {
	w := NewWriter(testSchema)
	rec, err := w.Build()
	if err != nil {
		t.Fatal(err)
	}
	got := roundTrip(t, rec)
	if len(got.Ids()) != 0 || got.PayloadSize() != 0 {
		t.Errorf("empty record round-trip: %d fields, %d payload bytes", len(got.Ids()), got.PayloadSize())
	}
}

func TestAddFieldRejectsHeterogeneousArray(t *testing.T) {
	w := NewWriter(testSchema)
	err := w.AddField(1, ArrayValue{Int32Value(1), StringValue("x")})
	var sErr *SchemaError
	if !errors.As(err, &sErr) {
		t.Fatalf("error = %v, want SchemaError", err)
	}
}

func TestAddFieldRejectsHeterogeneousMap(t *testing.T) {
	w := NewWriter(testSchema)

	err := w.AddField(1, MapValue{
		{Key: StringValue("a"), Value: Int32Value(1)},
		{Key: Int32Value(2), Value: Int32Value(2)},
	})
	var sErr *SchemaError
	if !errors.As(err, &sErr) {
		t.Fatalf("mixed key kinds: error = %v, want SchemaError", err)
	}

	err = w.AddField(1, MapValue{
		{Key: StringValue("a"), Value: Int32Value(1)},
		{Key: StringValue("b"), Value: StringValue("2")},
	})
	if !errors.As(err, &sErr) {
		t.Fatalf("mixed value kinds: error = %v, want SchemaError", err)
	}
}

func TestAddFieldRejectsDuplicateMapKeys(t *testing.T) {
	w := NewWriter(testSchema)
	err := w.AddField(1, MapValue{
		{Key: StringValue("a"), Value: Int32Value(1)},
		{Key: StringValue("a"), Value: Int32Value(2)},
	})
	var sErr *SchemaError
	if !errors.As(err, &sErr) {
		t.Fatalf("error = %v, want SchemaError", err)
	}
}

func TestTwoNullsShareOffset(t *testing.T) {
	rec := buildRecord(t, testSchema, map[uint16]Value{
		1: NullValue{}, 2: NullValue{}, 3: Int32Value(1),
	})
	dir := rec.Directory()
	if dir[0].Offset != dir[1].Offset {
		t.Errorf("null offsets differ: %d vs %d", dir[0].Offset, dir[1].Offset)
	}
	got := roundTrip(t, rec)
	for id, want := range map[uint16]Value{1: NullValue{}, 2: NullValue{}, 3: Int32Value(1)} {
		if v := mustGet(t, got, id); !Equal(v, want) {
			t.Errorf("field %d = %#v, want %#v", id, v, want)
		}
	}
}

func TestWriteExactCapacity(t *testing.T) {
	rec := buildRecord(t, testSchema, map[uint16]Value{1: StringValue("payload")})
	var buf bytes.Buffer
	if err := rec.Write(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != rec.SerializedSize() {
		t.Errorf("wrote %d bytes, SerializedSize = %d", buf.Len(), rec.SerializedSize())
	}
}
