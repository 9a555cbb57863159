package debug

import (
	"strings"
	"testing"
)

func TestNewTreeWriter(t *testing.T) {
	tw := NewTreeWriter()
	if tw == nil {
		t.Fatal("NewTreeWriter() returned nil")
	}
	if tw.w == nil {
		t.Error("TreeWriter builder is nil")
	}
}

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{
			name:   "no depth",
			depth:  0,
			format: "root",
			want:   "root\n",
		},
		{
			name:   "indented with args",
			depth:  2,
			format: "field %d: %s",
			args:   []any{7, "x"},
			want:   "    field 7: x\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tc.depth, tc.format, tc.args...)
			if got := tw.String(); got != tc.want {
				t.Errorf("Line() produced %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tw := NewTreeWriter()
	tw.TextBlock(1, "label", "some text")
	want := "  label: \"some text\"\n"
	if got := tw.String(); got != want {
		t.Errorf("TextBlock() produced %q, want %q", got, want)
	}

	tw = NewTreeWriter()
	tw.TextBlock(0, "empty", "")
	if got := tw.String(); got != "empty: \n" {
		t.Errorf("TextBlock() with empty value produced %q", got)
	}
}

func TestTreeWriter_HexBlock(t *testing.T) {
	tw := NewTreeWriter()
	tw.HexBlock(0, "data", []byte{0xDE, 0xAD, 0xBE, 0xEF}, 0)
	if got := tw.String(); got != "data: [de ad be ef]\n" {
		t.Errorf("HexBlock() produced %q", got)
	}

	tw = NewTreeWriter()
	tw.HexBlock(1, "data", []byte{1, 2, 3, 4, 5}, 2)
	got := tw.String()
	if !strings.Contains(got, "01 02") || !strings.Contains(got, "(3 more)") {
		t.Errorf("HexBlock() with limit produced %q", got)
	}
}
