package imprint

import (
	"bytes"
	"slices"
	"sort"

	"go.uber.org/multierr"

	"imprint/varint"
)

// Record is a decoded or freshly built Imprint record. It is immutable;
// Project and Merge return new records. The payload region of a record
// produced by Read is a subslice of the input, so the record stays valid
// only as long as the input bytes do, and shares their storage.
type Record struct {
	header    Header
	directory []DirectoryEntry
	payload   []byte
}

// Read parses one record from the start of data and returns it together
// with the number of bytes consumed. Trailing bytes are left untouched,
// which is what lets records nest as row values.
//
// Read validates only the header and the directory framing; field offsets
// are checked lazily by GetValue. Use Validate for a strict pass.
func Read(data []byte) (*Record, int, error) {
	h, read, err := decodeHeader(data)
	if err != nil {
		return nil, 0, err
	}

	count, n, err := varint.Decode(data[read:])
	if err != nil {
		return nil, 0, err
	}
	read += n

	directory := make([]DirectoryEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		e, n, err := decodeDirEntry(data[read:])
		if err != nil {
			return nil, 0, err
		}
		read += n
		directory = append(directory, e)
	}

	if uint32(len(data)-read) < h.PayloadSize {
		return nil, 0, underflow(int(h.PayloadSize), len(data)-read)
	}
	payload := data[read : read+int(h.PayloadSize)]
	read += int(h.PayloadSize)

	return &Record{header: h, directory: directory, payload: payload}, read, nil
}

// SerializedSize reports the exact number of bytes Write will produce.
func (r *Record) SerializedSize() int {
	return headerBytes +
		varint.Len(uint32(len(r.directory))) +
		len(r.directory)*dirEntryBytes +
		len(r.payload)
}

func (r *Record) appendTo(dst []byte) []byte {
	dst = appendHeader(dst, r.header)
	dst = varint.Append(dst, uint32(len(r.directory)))
	for _, e := range r.directory {
		dst = appendDirEntry(dst, e)
	}
	return append(dst, r.payload...)
}

// Write appends the serialized record to buf, reserving exact capacity
// up front. The flags byte is written back exactly as it was read, so
// unknown flag bits survive a read-write pass.
func (r *Record) Write(buf *bytes.Buffer) error {
	buf.Grow(r.SerializedSize())
	_, err := buf.Write(r.appendTo(make([]byte, 0, r.SerializedSize())))
	return err
}

// SchemaID returns the schema identifier from the header.
func (r *Record) SchemaID() SchemaID {
	return r.header.SchemaID
}

// Flags returns the header flag byte.
func (r *Record) Flags() Flags {
	return r.header.Flags
}

// PayloadSize returns the size of the payload region in bytes.
func (r *Record) PayloadSize() uint32 {
	return r.header.PayloadSize
}

// Ids returns the field ids present in the record, ascending.
func (r *Record) Ids() []uint16 {
	ids := make([]uint16, len(r.directory))
	for i, e := range r.directory {
		ids[i] = e.ID
	}
	return ids
}

// Directory returns a copy of the record's directory entries.
func (r *Record) Directory() []DirectoryEntry {
	return slices.Clone(r.directory)
}

func (r *Record) findEntry(id uint16) (DirectoryEntry, bool) {
	i := sort.Search(len(r.directory), func(i int) bool {
		return r.directory[i].ID >= id
	})
	if i == len(r.directory) || r.directory[i].ID != id {
		return DirectoryEntry{}, false
	}
	return r.directory[i], true
}

// GetValue decodes the field with the given id. A missing id is not an
// error: the result is (nil, nil). A present field that fails to decode
// returns the decode error.
func (r *Record) GetValue(id uint16) (Value, error) {
	entry, ok := r.findEntry(id)
	if !ok {
		return nil, nil
	}
	if int(entry.Offset) > len(r.payload) {
		return nil, underflow(int(entry.Offset), len(r.payload))
	}
	v, _, err := decodeValue(entry.TypeCode, r.payload[entry.Offset:])
	return v, err
}

// fieldSpan is the byte range [Start,End) a directory entry's encoding
// occupies in the payload, indexed in parallel with the directory.
type fieldSpan struct {
	Start, End uint32
}

// spans computes field byte ranges without decoding values. The directory
// is ordered by id, not by offset, so an offset-ordered view is built and
// walked backwards: each non-null entry extends to the start of the next
// occupied offset, null entries always span zero bytes.
func (r *Record) spans() ([]fieldSpan, error) {
	out := make([]fieldSpan, len(r.directory))
	byOffset := make([]int, len(r.directory))
	for i := range byOffset {
		byOffset[i] = i
	}
	sort.SliceStable(byOffset, func(a, b int) bool {
		return r.directory[byOffset[a]].Offset < r.directory[byOffset[b]].Offset
	})

	end := uint32(len(r.payload))
	for k := len(byOffset) - 1; k >= 0; k-- {
		i := byOffset[k]
		e := r.directory[i]
		if e.Offset > uint32(len(r.payload)) {
			return nil, underflow(int(e.Offset), len(r.payload))
		}
		if e.TypeCode == TypeNull {
			out[i] = fieldSpan{Start: e.Offset, End: e.Offset}
			continue
		}
		if e.Offset > end {
			return nil, schemaErrorf("field %d overlaps the next field", e.ID)
		}
		out[i] = fieldSpan{Start: e.Offset, End: end}
		end = e.Offset
	}
	return out, nil
}

// Validate performs the strict pass Read skips: directory monotonicity,
// offset bounds and a full decode of every field. All failures are
// reported, not just the first.
func (r *Record) Validate() error {
	var err error
	if uint32(len(r.payload)) != r.header.PayloadSize {
		err = multierr.Append(err, schemaErrorf("payload size %d does not match header %d",
			len(r.payload), r.header.PayloadSize))
	}
	for i := 1; i < len(r.directory); i++ {
		if r.directory[i-1].ID >= r.directory[i].ID {
			err = multierr.Append(err, schemaErrorf("directory ids not strictly increasing at entry %d", i))
		}
	}
	for _, e := range r.directory {
		if int(e.Offset) > len(r.payload) {
			err = multierr.Append(err, schemaErrorf("field %d offset %d beyond payload size %d",
				e.ID, e.Offset, len(r.payload)))
			continue
		}
		if _, _, derr := decodeValue(e.TypeCode, r.payload[e.Offset:]); derr != nil {
			err = multierr.Append(err, schemaErrorf("field %d: %v", e.ID, derr))
		}
	}
	return err
}
