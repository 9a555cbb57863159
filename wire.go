package imprint

import (
	"bytes"
	"encoding/binary"
	"math"
	"sort"
	"unicode/utf8"

	"imprint/varint"
)

// Magic and Version are the fixed leading bytes of every record header.
// Changing Version is a breaking wire change.
const (
	Magic   byte = 0xA9
	Version byte = 0x01
)

const (
	headerBytes   = 15
	schemaIDBytes = 8
	dirEntryBytes = 7
)

// Flags is the per-record flag byte. No bits are assigned yet; unknown
// bits are preserved when a record read from the wire is written back.
type Flags byte

// SchemaID identifies the schema a record claims to conform to.
type SchemaID struct {
	FieldspaceID uint32
	SchemaHash   uint32
}

// Header is the fixed 15-byte record prefix.
type Header struct {
	Flags       Flags
	SchemaID    SchemaID
	PayloadSize uint32
}

// DirectoryEntry locates one field inside the payload region.
type DirectoryEntry struct {
	ID       uint16
	TypeCode TypeCode
	Offset   uint32
}

func appendSchemaID(dst []byte, s SchemaID) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, s.FieldspaceID)
	return binary.LittleEndian.AppendUint32(dst, s.SchemaHash)
}

func decodeSchemaID(b []byte) (SchemaID, int, error) {
	if len(b) < schemaIDBytes {
		return SchemaID{}, 0, underflow(schemaIDBytes, len(b))
	}
	return SchemaID{
		FieldspaceID: binary.LittleEndian.Uint32(b[0:4]),
		SchemaHash:   binary.LittleEndian.Uint32(b[4:8]),
	}, schemaIDBytes, nil
}

func appendHeader(dst []byte, h Header) []byte {
	dst = append(dst, Magic, Version, byte(h.Flags))
	dst = appendSchemaID(dst, h.SchemaID)
	return binary.LittleEndian.AppendUint32(dst, h.PayloadSize)
}

func decodeHeader(b []byte) (Header, int, error) {
	if len(b) < headerBytes {
		return Header{}, 0, underflow(headerBytes, len(b))
	}
	if b[0] != Magic {
		return Header{}, 0, &InvalidMagicError{Byte: b[0]}
	}
	if b[1] != Version {
		return Header{}, 0, &UnsupportedVersionError{Version: b[1]}
	}
	h := Header{Flags: Flags(b[2])}
	var err error
	if h.SchemaID, _, err = decodeSchemaID(b[3:]); err != nil {
		return Header{}, 0, err
	}
	h.PayloadSize = binary.LittleEndian.Uint32(b[11:15])
	return h, headerBytes, nil
}

func appendDirEntry(dst []byte, e DirectoryEntry) []byte {
	dst = binary.LittleEndian.AppendUint16(dst, e.ID)
	dst = append(dst, byte(e.TypeCode))
	return binary.LittleEndian.AppendUint32(dst, e.Offset)
}

func decodeDirEntry(b []byte) (DirectoryEntry, int, error) {
	if len(b) < dirEntryBytes {
		return DirectoryEntry{}, 0, underflow(dirEntryBytes, len(b))
	}
	tc, err := typeCodeFromByte(b[2])
	if err != nil {
		return DirectoryEntry{}, 0, err
	}
	return DirectoryEntry{
		ID:       binary.LittleEndian.Uint16(b[0:2]),
		TypeCode: tc,
		Offset:   binary.LittleEndian.Uint32(b[3:7]),
	}, dirEntryBytes, nil
}

func appendLenPrefixed(dst, b []byte) ([]byte, error) {
	if uint64(len(b)) > math.MaxUint32 {
		return nil, ErrSizeOverflow
	}
	dst = varint.Append(dst, uint32(len(b)))
	return append(dst, b...), nil
}

// appendValue appends the wire encoding of v to dst. Array and map
// homogeneity is verified here; a mismatch yields a SchemaError.
func appendValue(dst []byte, v Value) ([]byte, error) {
	switch vv := v.(type) {
	case NullValue:
		return dst, nil
	case BoolValue:
		if vv {
			return append(dst, 1), nil
		}
		return append(dst, 0), nil
	case Int32Value:
		return binary.LittleEndian.AppendUint32(dst, uint32(vv)), nil
	case Int64Value:
		return binary.LittleEndian.AppendUint64(dst, uint64(vv)), nil
	case Float32Value:
		return binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(vv))), nil
	case Float64Value:
		return binary.LittleEndian.AppendUint64(dst, math.Float64bits(float64(vv))), nil
	case BytesValue:
		return appendLenPrefixed(dst, vv)
	case StringValue:
		return appendLenPrefixed(dst, []byte(vv))
	case ArrayValue:
		return appendArray(dst, vv)
	case MapValue:
		return appendMap(dst, vv)
	case RowValue:
		if vv.Record == nil {
			return nil, schemaErrorf("row value without a record")
		}
		return vv.Record.appendTo(dst), nil
	}
	return nil, schemaErrorf("unencodable value %T", v)
}

func appendArray(dst []byte, a ArrayValue) ([]byte, error) {
	if uint64(len(a)) > math.MaxUint32 {
		return nil, ErrSizeOverflow
	}
	dst = varint.Append(dst, uint32(len(a)))
	if len(a) == 0 {
		return dst, nil
	}
	elemType := a[0].Code()
	dst = append(dst, byte(elemType))
	var err error
	for _, el := range a {
		if el.Code() != elemType {
			return nil, schemaErrorf("array elements must share one type code: %s != %s", el.Code(), elemType)
		}
		if dst, err = appendValue(dst, el); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// appendMap writes entries ordered by encoded key bytes so that the same
// logical map always encodes to the same bytes.
func appendMap(dst []byte, m MapValue) ([]byte, error) {
	if uint64(len(m)) > math.MaxUint32 {
		return nil, ErrSizeOverflow
	}
	dst = varint.Append(dst, uint32(len(m)))
	if len(m) == 0 {
		return dst, nil
	}

	keyType := m[0].Key.Code()
	valueType := m[0].Value.Code()

	type encodedEntry struct {
		key []byte
		idx int
	}
	encoded := make([]encodedEntry, 0, len(m))
	for i, e := range m {
		if e.Key == nil || e.Value == nil {
			return nil, schemaErrorf("map entry %d is incomplete", i)
		}
		if e.Key.Code() != keyType {
			return nil, schemaErrorf("map keys must share one type code: %s != %s", e.Key.Code(), keyType)
		}
		if e.Value.Code() != valueType {
			return nil, schemaErrorf("map values must share one type code: %s != %s", e.Value.Code(), valueType)
		}
		kb, err := appendValue(nil, e.Key)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, encodedEntry{key: kb, idx: i})
	}
	sort.SliceStable(encoded, func(i, j int) bool {
		return bytes.Compare(encoded[i].key, encoded[j].key) < 0
	})
	for i := 1; i < len(encoded); i++ {
		if bytes.Equal(encoded[i-1].key, encoded[i].key) {
			return nil, schemaErrorf("duplicate map key")
		}
	}

	dst = append(dst, byte(keyType), byte(valueType))
	var err error
	for _, e := range encoded {
		dst = append(dst, e.key...)
		if dst, err = appendValue(dst, m[e.idx].Value); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// decodeValue reads one value of the given type code from the start of b,
// returning the value and the number of bytes consumed.
func decodeValue(tc TypeCode, b []byte) (Value, int, error) {
	switch tc {
	case TypeNull:
		return NullValue{}, 0, nil
	case TypeBool:
		if len(b) < 1 {
			return nil, 0, underflow(1, len(b))
		}
		switch b[0] {
		case 0:
			return BoolValue(false), 1, nil
		case 1:
			return BoolValue(true), 1, nil
		}
		return nil, 0, &InvalidBoolError{Byte: b[0]}
	case TypeInt32:
		if len(b) < 4 {
			return nil, 0, underflow(4, len(b))
		}
		return Int32Value(binary.LittleEndian.Uint32(b)), 4, nil
	case TypeInt64:
		if len(b) < 8 {
			return nil, 0, underflow(8, len(b))
		}
		return Int64Value(binary.LittleEndian.Uint64(b)), 8, nil
	case TypeFloat32:
		if len(b) < 4 {
			return nil, 0, underflow(4, len(b))
		}
		return Float32Value(math.Float32frombits(binary.LittleEndian.Uint32(b))), 4, nil
	case TypeFloat64:
		if len(b) < 8 {
			return nil, 0, underflow(8, len(b))
		}
		return Float64Value(math.Float64frombits(binary.LittleEndian.Uint64(b))), 8, nil
	case TypeBytes:
		v, n, err := decodeLenPrefixed(b)
		if err != nil {
			return nil, 0, err
		}
		return BytesValue(v), n, nil
	case TypeString:
		v, n, err := decodeLenPrefixed(b)
		if err != nil {
			return nil, 0, err
		}
		if !utf8.Valid(v) {
			return nil, 0, ErrInvalidUTF8String
		}
		return StringValue(v), n, nil
	case TypeArray:
		return decodeArray(b)
	case TypeMap:
		return decodeMap(b)
	case TypeRow:
		rec, n, err := Read(b)
		if err != nil {
			return nil, 0, err
		}
		return RowValue{Record: rec}, n, nil
	}
	return nil, 0, &InvalidTypeCodeError{Byte: byte(tc)}
}

// decodeLenPrefixed returns a subslice of b, not a copy; the value shares
// storage with the enclosing payload.
func decodeLenPrefixed(b []byte) ([]byte, int, error) {
	length, n, err := varint.Decode(b)
	if err != nil {
		return nil, 0, err
	}
	if uint32(len(b)-n) < length {
		return nil, 0, underflow(int(length), len(b)-n)
	}
	return b[n : n+int(length)], n + int(length), nil
}

func decodeArray(b []byte) (Value, int, error) {
	count, read, err := varint.Decode(b)
	if err != nil {
		return nil, 0, err
	}
	if count == 0 {
		return ArrayValue{}, read, nil
	}
	if len(b) <= read {
		return nil, 0, underflow(1, 0)
	}
	elemType, err := typeCodeFromByte(b[read])
	if err != nil {
		return nil, 0, err
	}
	read++

	values := make(ArrayValue, 0, count)
	for i := uint32(0); i < count; i++ {
		v, n, err := decodeValue(elemType, b[read:])
		if err != nil {
			return nil, 0, err
		}
		read += n
		values = append(values, v)
	}
	return values, read, nil
}

func decodeMap(b []byte) (Value, int, error) {
	count, read, err := varint.Decode(b)
	if err != nil {
		return nil, 0, err
	}
	if count == 0 {
		return MapValue{}, read, nil
	}
	if len(b) < read+2 {
		return nil, 0, underflow(2, max(len(b)-read, 0))
	}
	keyType, err := typeCodeFromByte(b[read])
	if err != nil {
		return nil, 0, err
	}
	valueType, err := typeCodeFromByte(b[read+1])
	if err != nil {
		return nil, 0, err
	}
	read += 2

	entries := make(MapValue, 0, count)
	for i := uint32(0); i < count; i++ {
		k, n, err := decodeMapKey(keyType, b[read:])
		if err != nil {
			return nil, 0, err
		}
		read += n

		v, n, err := decodeValue(valueType, b[read:])
		if err != nil {
			return nil, 0, err
		}
		read += n

		entries = append(entries, MapEntry{Key: k, Value: v})
	}
	return entries, read, nil
}

func decodeMapKey(tc TypeCode, b []byte) (MapKey, int, error) {
	v, n, err := decodeValue(tc, b)
	if err != nil {
		return nil, 0, err
	}
	k, ok := v.(MapKey)
	if !ok {
		return nil, 0, schemaErrorf("%s is not a legal map key kind", tc)
	}
	return k, n, nil
}
