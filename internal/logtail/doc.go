// Package logtail reads the tail of camview's activity log for display.
//
// # Reading
//
// Read extracts the last N lines from a file with a ring buffer: one
// sequential pass, O(N) memory, lines returned in file order. A missing
// file is not an error and yields no lines.
//
// # Decoding
//
// The activity log is written by the logging package as zerolog JSON
// lines. ReadEntries and ParseLine decode the standard keys (time, level,
// message, error) and keep every other key as a string field:
//
//	{"level":"info","tool":"get_camera","time":"2026-03-01T12:00:00Z","message":"tool call ok"}
//
// Lines that are not JSON are kept verbatim in Message so foreign output in
// the file is still visible.
package logtail
