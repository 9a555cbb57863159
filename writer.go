package imprint

import (
	"math"
	"sort"
)

type writerEntry struct {
	id       uint16
	typeCode TypeCode
	offset   int
	length   int
}

// Writer accumulates (id, value) pairs and builds a record. Adding the
// same id twice replaces the earlier value; the stale payload bytes are
// dropped when Build compacts. A Writer belongs to a single goroutine.
type Writer struct {
	schema  SchemaID
	payload []byte
	entries []writerEntry // insertion order
	index   map[uint16]int
	done    bool
}

// NewWriter returns an empty Writer for the given schema.
func NewWriter(schema SchemaID) *Writer {
	return &Writer{
		schema: schema,
		index:  make(map[uint16]int),
	}
}

// AddField encodes v and stages it under id. If id was added before, the
// new value replaces the old one (last write wins).
func (w *Writer) AddField(id uint16, v Value) error {
	if w.done {
		return ErrWriterConsumed
	}
	if v == nil {
		return schemaErrorf("nil value for field %d", id)
	}

	offset := len(w.payload)
	encoded, err := appendValue(w.payload, v)
	if err != nil {
		return err
	}
	w.payload = encoded

	entry := writerEntry{
		id:       id,
		typeCode: v.Code(),
		offset:   offset,
		length:   len(w.payload) - offset,
	}
	if at, ok := w.index[id]; ok {
		w.entries[at] = entry
		return nil
	}
	w.index[id] = len(w.entries)
	w.entries = append(w.entries, entry)
	return nil
}

// Build compacts the staged values into a fresh payload, emits a
// directory sorted ascending by id and returns the finished record. The
// Writer is consumed; further use returns ErrWriterConsumed.
func (w *Writer) Build() (*Record, error) {
	if w.done {
		return nil, ErrWriterConsumed
	}
	w.done = true

	// Replaced fields leave garbage behind in the staging buffer, so the
	// final payload is rebuilt from live spans in insertion order.
	var live int
	for _, e := range w.entries {
		live += e.length
	}
	if uint64(live) > math.MaxUint32 {
		return nil, ErrSizeOverflow
	}

	payload := make([]byte, 0, live)
	directory := make([]DirectoryEntry, 0, len(w.entries))
	for _, e := range w.entries {
		directory = append(directory, DirectoryEntry{
			ID:       e.id,
			TypeCode: e.typeCode,
			Offset:   uint32(len(payload)),
		})
		payload = append(payload, w.payload[e.offset:e.offset+e.length]...)
	}
	sort.SliceStable(directory, func(i, j int) bool {
		return directory[i].ID < directory[j].ID
	})

	w.payload = nil
	w.entries = nil
	w.index = nil

	return &Record{
		header: Header{
			Flags:       0,
			SchemaID:    w.schema,
			PayloadSize: uint32(len(payload)),
		},
		directory: directory,
		payload:   payload,
	}, nil
}
