package imprint

import "sort"

// Project returns a new record restricted to the requested field ids.
// The id list may be unsorted and may contain duplicates or ids the
// record does not have; duplicates collapse and unknown ids are dropped.
// The result keeps the source's SchemaID and flags, and its payload is
// assembled from the source's byte spans without decoding any value.
func (r *Record) Project(ids []uint16) (*Record, error) {
	want := make([]uint16, len(ids))
	copy(want, ids)
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })

	spans, err := r.spans()
	if err != nil {
		return nil, err
	}

	var payloadSize int
	type pick struct {
		entry DirectoryEntry
		span  fieldSpan
	}
	picked := make([]pick, 0, len(want))
	var prev uint16
	for i, id := range want {
		if i > 0 && id == prev {
			continue
		}
		prev = id
		di := sort.Search(len(r.directory), func(i int) bool {
			return r.directory[i].ID >= id
		})
		if di == len(r.directory) || r.directory[di].ID != id {
			continue
		}
		picked = append(picked, pick{entry: r.directory[di], span: spans[di]})
		payloadSize += int(spans[di].End - spans[di].Start)
	}

	payload := make([]byte, 0, payloadSize)
	directory := make([]DirectoryEntry, 0, len(picked))
	for _, p := range picked {
		directory = append(directory, DirectoryEntry{
			ID:       p.entry.ID,
			TypeCode: p.entry.TypeCode,
			Offset:   uint32(len(payload)),
		})
		payload = append(payload, r.payload[p.span.Start:p.span.End]...)
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
