// Package multipart provides a streaming MIME multipart parser and formatter
// built on the stream package.
//
// The parser turns a raw byte-chunk stream into a stream of Part values,
// each carrying its header block and a nested body reader. Bodies are served
// lazily from the same underlying cursor as the outer stream: boundary
// detection works for any chunking of the input, down to one-byte chunks,
// and the outer stream never advances past a part until that part's body has
// been drained. Advancing early discards the remainder on the consumer's
// behalf. Reading an exhausted body, or the exhausted outer stream, keeps
// returning the end marker.
//
// Two subtypes are supported, differing only in delimiter framing: "mixed"
// frames parts with bare boundary lines, "form-data" with "--boundary"
// lines; both close with a trailing "--".
//
// The formatter is the exact inverse: formatting the parts produced by the
// parser reproduces a conforming payload byte for byte.
//
// Nested multiparts and transfer encodings are out of scope; a part body is
// an opaque byte stream.
package multipart
