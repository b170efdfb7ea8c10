// Package xmlstream provides a streaming XML parser and formatter built on
// the stream package.
//
// The parser turns a text-chunk stream into a stream of records: one per
// occurrence of a target element named by a slash-separated path, each
// wrapped in its chain of ancestor elements so a record is a well-formed
// document shape on its own. Repeated sibling tags fold into an ordered
// group, a single occurrence stays scalar, and attribute and child order is
// preserved so that formatting a parsed document reproduces it.
//
// The formatter is the inverse: it emits the XML declaration once, opens the
// ancestor chain as records arrive, closing and reopening only the levels
// that changed, and closes whatever is still open at the end. Output is
// compact by default; an indent string switches to pretty-printed form.
//
// Supported XML: elements, attributes, text, CDATA sections, comments, the
// five predefined entities and numeric character references. Processing
// instructions and the document type declaration are skipped. Namespaces are
// not interpreted; prefixed names are plain names.
package xmlstream
