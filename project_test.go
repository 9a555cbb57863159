package imprint

import (
	"bytes"
	"testing"
)

func TestProject(t *testing.T) {
	src := buildRecord(t, testSchema, map[uint16]Value{
		1: StringValue("a"),
		3: Int64Value(33),
		6: BytesValue{6, 6, 6},
	})

	// unsorted request with a duplicate and an absent id
	got, err := src.Project([]uint16{3, 6, 9, 3})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	if ids := got.Ids(); len(ids) != 2 || ids[0] != 3 || ids[1] != 6 {
		t.Fatalf("projected ids = %v, want [3 6]", ids)
	}
	if v := mustGet(t, got, 3); !Equal(v, Int64Value(33)) {
		t.Errorf("field 3 = %#v, want 33", v)
	}
	if v := mustGet(t, got, 6); !Equal(v, BytesValue{6, 6, 6}) {
		t.Errorf("field 6 = %#v", v)
	}
	if v, err := got.GetValue(1); err != nil || v != nil {
		t.Errorf("GetValue(1) = (%v, %v), want (nil, nil)", v, err)
	}
	if got.SchemaID() != src.SchemaID() {
		t.Errorf("schema = %+v, want source schema", got.SchemaID())
	}
	if got.Flags() != src.Flags() {
		t.Errorf("flags = 0x%02X, want source flags", byte(got.Flags()))
	}
}

func TestProjectPreservesByteSpans(t *testing.T) {
	src := buildRecord(t, testSchema, map[uint16]Value{
		1: StringValue("first"),
		2: Int32Value(2),
		3: StringValue("third"),
	})
	got, err := src.Project([]uint16{1, 3})
	if err != nil {
		t.Fatal(err)
	}

	srcSpans, err := src.spans()
	if err != nil {
		t.Fatal(err)
	}
	gotSpans, err := got.spans()
	if err != nil {
		t.Fatal(err)
	}

	srcDir := src.Directory()
	gotDir := got.Directory()
	for gi, ge := range gotDir {
		for si, se := range srcDir {
			if se.ID != ge.ID {
				continue
			}
			want := src.payload[srcSpans[si].Start:srcSpans[si].End]
			have := got.payload[gotSpans[gi].Start:gotSpans[gi].End]
			if !bytes.Equal(want, have) {
				t.Errorf("field %d span bytes differ:\n% x\n% x", ge.ID, want, have)
			}
		}
	}
}

func TestProjectEmptySelection(t *testing.T) {
	src := buildRecord(t, testSchema, map[uint16]Value{1: Int32Value(1)})

	got, err := src.Project(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Ids()) != 0 || got.PayloadSize() != 0 {
		t.Errorf("empty projection: %d fields, %d payload bytes", len(got.Ids()), got.PayloadSize())
	}

	got, err = src.Project([]uint16{7, 8, 9})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Ids()) != 0 {
		t.Errorf("projection of absent ids has %d fields", len(got.Ids()))
	}
}

func TestProjectRoundTrips(t *testing.T) {
	src := buildRecord(t, testSchema, map[uint16]Value{
		1: NullValue{},
		2: ArrayValue{StringValue("x"), StringValue("y")},
		3: Int32Value(-1),
	})
	proj, err := src.Project([]uint16{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	got := roundTrip(t, proj)
	if v := mustGet(t, got, 1); !Equal(v, NullValue{}) {
		t.Errorf("field 1 = %#v, want null", v)
	}
	if v := mustGet(t, got, 2); !Equal(v, ArrayValue{StringValue("x"), StringValue("y")}) {
		t.Errorf("field 2 = %#v", v)
	}
}

func TestProjectNullSpans(t *testing.T) {
	// nulls interleaved with sized fields must not absorb neighbours' bytes
	src := buildRecord(t, testSchema, map[uint16]Value{
		1: NullValue{},
		2: StringValue("data"),
		3: NullValue{},
	})
	got, err := src.Project([]uint16{1, 3})
	if err != nil {
		t.Fatal(err)
	}
	if got.PayloadSize() != 0 {
		t.Errorf("projection of null fields has %d payload bytes, want 0", got.PayloadSize())
	}
}
