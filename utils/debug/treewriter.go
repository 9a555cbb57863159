package debug

import (
	"fmt"
	"strconv"
	"strings"
)

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	for i := 0; i < depth; i++ {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

func (tw TreeWriter) TextBlock(depth int, label, value string) {
	for i := 0; i < depth; i++ {
		tw.w.WriteString("  ")
	}
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// HexBlock prints label with up to limit bytes of value as hex, eliding
// the rest. A limit of 0 prints everything.
func (tw TreeWriter) HexBlock(depth int, label string, value []byte, limit int) {
	shown := value
	elided := 0
	if limit > 0 && len(value) > limit {
		shown = value[:limit]
		elided = len(value) - limit
	}
	var b strings.Builder
	for i, c := range shown {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02x", c)
	}
	if elided > 0 {
		fmt.Fprintf(&b, " .. (%d more)", elided)
	}
	tw.Line(depth, "%s: [%s]", label, b.String())
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
