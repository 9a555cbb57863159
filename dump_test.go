package imprint

import (
	"strings"
	"testing"
)

func TestDump(t *testing.T) {
	inner := buildRecord(t, SchemaID{FieldspaceID: 2, SchemaHash: 2}, map[uint16]Value{
		1: Int32Value(42),
	})
	rec := buildRecord(t, testSchema, map[uint16]Value{
		1: NullValue{},
		2: StringValue("text"),
		3: BytesValue{0xDE, 0xAD},
		4: ArrayValue{BoolValue(true), BoolValue(false)},
		5: MapValue{{Key: StringValue("k"), Value: Int64Value(1)}},
		6: RowValue{Record: inner},
	})

	out, err := rec.Dump()
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}

	for _, want := range []string{
		"schema 1/0xDEADBEEF",
		"1 <null>: null",
		`2 <string>: "text"`,
		"3 <bytes>: [de ad]",
		"4 <array>: array, 2 element(s)",
		"[0]: true",
		"5 <map>: map, 1 entry(ies)",
		`"k": 1`,
		"6 <row>: row",
		"1 <int32>: 42",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}

func TestString(t *testing.T) {
	rec := buildRecord(t, testSchema, map[uint16]Value{1: Int32Value(1)})
	s := rec.String()
	if !strings.Contains(s, "fields 1") || !strings.Contains(s, "payload 4 bytes") {
		t.Errorf("String() = %q", s)
	}
}
