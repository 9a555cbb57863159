// Package imprint implements the Imprint compact binary record format:
// a self-describing record with a fixed header, a directory sorted by
// field id and a packed typed payload.
//
// Records are built with a Writer, serialized with Record.Write and
// parsed with Read. Reading is zero-copy: the record references the
// input bytes instead of copying the payload. Field access goes through
// GetValue by numeric id; Project and Merge restructure records at the
// byte level without decoding field values.
//
// The wire layout is documented in FORMAT.md at the repository root.
package imprint
