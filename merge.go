package imprint

import "math"

// Merge returns the field-level union of r and other. When both records
// carry the same id, r's value wins. The result takes r's SchemaID and
// flags; interpreting the widened schema is the caller's concern. Like
// Project, Merge moves byte spans and never decodes values.
//
// The walk is a single pass over both sorted directories.
func (r *Record) Merge(other *Record) (*Record, error) {
	rSpans, err := r.spans()
	if err != nil {
		return nil, err
	}
	oSpans, err := other.spans()
	if err != nil {
		return nil, err
	}

	type source struct {
		rec  *Record
		span fieldSpan
	}
	type pick struct {
		entry DirectoryEntry
		src   source
	}
	picked := make([]pick, 0, len(r.directory)+len(other.directory))

	i, j := 0, 0
	for i < len(r.directory) || j < len(other.directory) {
		takeSelf := j == len(other.directory) ||
			(i < len(r.directory) && r.directory[i].ID <= other.directory[j].ID)
		if takeSelf {
			if j < len(other.directory) && r.directory[i].ID == other.directory[j].ID {
				j++ // same id on both sides, receiver wins
			}
			picked = append(picked, pick{entry: r.directory[i], src: source{rec: r, span: rSpans[i]}})
			i++
		} else {
			picked = append(picked, pick{entry: other.directory[j], src: source{rec: other, span: oSpans[j]}})
			j++
		}
	}

	var payloadSize uint64
	for _, p := range picked {
		payloadSize += uint64(p.src.span.End - p.src.span.Start)
	}
	if payloadSize > math.MaxUint32 {
		return nil, ErrSizeOverflow
	}

	payload := make([]byte, 0, payloadSize)
	directory := make([]DirectoryEntry, 0, len(picked))
	for _, p := range picked {
		directory = append(directory, DirectoryEntry{
			ID:       p.entry.ID,
			TypeCode: p.entry.TypeCode,
			Offset:   uint32(len(payload)),
		})
		payload = append(payload, p.src.rec.payload[p.src.span.Start:p.src.span.End]...)
	}

	return &Record{
		header: Header{
			Flags:       r.header.Flags,
			SchemaID:    r.header.SchemaID,
			PayloadSize: uint32(len(payload)),
		},
		directory: directory,
		payload:   payload,
	}, nil
}
