// Package chunk provides deterministic re-chunkers and sized-read scanners
// over byte and text streams.
//
// Rechunk and RechunkString move chunk boundaries without changing the data;
// they exist to stress boundary-spanning logic (a delimiter split across
// 1-byte chunks must parse identically to one delivered whole) and to
// simulate slow or irregular delivery in tests.
//
// Cursor and TextCursor adapt a chunk stream into a buffered scanner with
// sized reads, line reads and delimiter searches that carry partial matches
// across chunk boundaries. A cursor is the single owning handle over its
// source: the codec state machines funnel all scanning through one cursor so
// no two readers race on the same underlying stream.
package chunk
