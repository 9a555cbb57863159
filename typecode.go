package imprint

import "fmt"

// TypeCode is the single-byte tag identifying a value kind on the wire.
// The assignments are fixed and must never be reordered.
type TypeCode byte

const (
	TypeNull    TypeCode = 0x00
	TypeBool    TypeCode = 0x01
	TypeInt32   TypeCode = 0x02
	TypeInt64   TypeCode = 0x03
	TypeFloat32 TypeCode = 0x04
	TypeFloat64 TypeCode = 0x05
	TypeBytes   TypeCode = 0x06
	TypeString  TypeCode = 0x07
	TypeArray   TypeCode = 0x08
	TypeMap     TypeCode = 0x09
	TypeRow     TypeCode = 0x0A
)

func typeCodeFromByte(b byte) (TypeCode, error) {
	if b > byte(TypeRow) {
		return 0, &InvalidTypeCodeError{Byte: b}
	}
	return TypeCode(b), nil
}

func (tc TypeCode) String() string {
	switch tc {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	case TypeBytes:
		return "bytes"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeMap:
		return "map"
	case TypeRow:
		return "row"
	}
	return fmt.Sprintf("typecode(0x%02X)", byte(tc))
}
