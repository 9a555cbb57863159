package imprint

import (
	"fmt"

	"imprint/utils/debug"
)

const dumpHexLimit = 32

// String returns a one-line summary of the record header and directory.
func (r *Record) String() string {
	return fmt.Sprintf("imprint record: schema %d/0x%08X flags 0x%02X fields %d payload %d bytes",
		r.header.SchemaID.FieldspaceID, r.header.SchemaID.SchemaHash,
		byte(r.header.Flags), len(r.directory), r.header.PayloadSize)
}

// Dump renders the record as an indented tree with every field decoded.
// Nested rows recurse. Intended for debug tooling, not for machine
// consumption.
func (r *Record) Dump() (string, error) {
	tw := debug.NewTreeWriter()
	if err := dumpRecord(tw, 0, r); err != nil {
		return "", err
	}
	return tw.String(), nil
}

func dumpRecord(tw *debug.TreeWriter, depth int, r *Record) error {
	tw.Line(depth, "%s", r.String())
	for _, e := range r.directory {
		v, err := r.GetValue(e.ID)
		if err != nil {
			return fmt.Errorf("field %d: %w", e.ID, err)
		}
		if err := dumpValue(tw, depth+1, fmt.Sprintf("%d <%s>", e.ID, e.TypeCode), v); err != nil {
			return err
		}
	}
	return nil
}

func dumpValue(tw *debug.TreeWriter, depth int, label string, v Value) error {
	switch vv := v.(type) {
	case NullValue:
		tw.Line(depth, "%s: null", label)
	case BoolValue:
		tw.Line(depth, "%s: %t", label, bool(vv))
	case Int32Value:
		tw.Line(depth, "%s: %d", label, int32(vv))
	case Int64Value:
		tw.Line(depth, "%s: %d", label, int64(vv))
	case Float32Value:
		tw.Line(depth, "%s: %g", label, float32(vv))
	case Float64Value:
		tw.Line(depth, "%s: %g", label, float64(vv))
	case BytesValue:
		tw.HexBlock(depth, label, vv, dumpHexLimit)
	case StringValue:
		tw.TextBlock(depth, label, string(vv))
	case ArrayValue:
		tw.Line(depth, "%s: array, %d element(s)", label, len(vv))
		for i, el := range vv {
			if err := dumpValue(tw, depth+1, fmt.Sprintf("[%d]", i), el); err != nil {
				return err
			}
		}
	case MapValue:
		tw.Line(depth, "%s: map, %d entry(ies)", label, len(vv))
		for _, e := range vv {
			if err := dumpValue(tw, depth+1, mapKeyLabel(e.Key), e.Value); err != nil {
				return err
			}
		}
	case RowValue:
		tw.Line(depth, "%s: row", label)
		return dumpRecord(tw, depth+1, vv.Record)
	default:
		return schemaErrorf("undumpable value %T", v)
	}
	return nil
}

func mapKeyLabel(k MapKey) string {
	switch kv := k.(type) {
	case Int32Value:
		return fmt.Sprintf("%d", int32(kv))
	case Int64Value:
		return fmt.Sprintf("%d", int64(kv))
	case BytesValue:
		return fmt.Sprintf("0x%x", []byte(kv))
	case StringValue:
		return fmt.Sprintf("%q", string(kv))
	}
	return fmt.Sprintf("%v", k)
}
