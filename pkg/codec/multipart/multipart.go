package multipart

import (
	"strings"

	fserrors "github.com/tchambard/f-streams-async/pkg/common/errors"
	"github.com/tchambard/f-streams-async/pkg/streaming/stream"
)

const codecName = "multipart"

// Subtypes with defined framing.
const (
	SubtypeMixed    = "mixed"
	SubtypeFormData = "form-data"
)

// ParseContentType extracts the multipart subtype and boundary from a
// content-type header value. Parameters are scanned case-insensitively;
// a missing boundary is a ProtocolError.
func ParseContentType(value string) (subtype, boundary string, err error) {
	fields := strings.Split(value, ";")
	mediatype := strings.ToLower(strings.TrimSpace(fields[0]))
	if !strings.HasPrefix(mediatype, "multipart/") {
		return "", "", fserrors.NewProtocolError(codecName, "not a multipart content type: %q", value)
	}
	subtype = strings.TrimPrefix(mediatype, "multipart/")
	for _, field := range fields[1:] {
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			continue
		}
		if strings.ToLower(strings.TrimSpace(kv[0])) == "boundary" {
			boundary = strings.Trim(strings.TrimSpace(kv[1]), `"`)
		}
	}
	if boundary == "" {
		return "", "", fserrors.NewProtocolError(codecName, "no boundary parameter in content type %q", value)
	}
	return subtype, boundary, nil
}

// delimiterPrefix returns the boundary line prefix for a subtype: mixed uses
// bare boundary lines, form-data uses dash-prefixed ones.
func delimiterPrefix(subtype, boundary string) (string, error) {
	switch subtype {
	case SubtypeMixed:
		return boundary, nil
	case SubtypeFormData:
		return "--" + boundary, nil
	default:
		return "", fserrors.NewProtocolError(codecName, "unsupported subtype %q", subtype)
	}
}

// Headers is an insertion-ordered header map with lowercased names.
type Headers struct {
	names  []string
	values map[string]string
}

// NewHeaders creates an empty header map.
func NewHeaders() *Headers {
	return &Headers{values: make(map[string]string)}
}

// Set stores a header, lowercasing the name. Setting an existing name
// replaces its value in place.
func (h *Headers) Set(name, value string) {
	name = strings.ToLower(name)
	if _, exists := h.values[name]; !exists {
		h.names = append(h.names, name)
	}
	h.values[name] = value
}

// Get returns the value for a name (case-insensitive), or "".
func (h *Headers) Get(name string) string {
	return h.values[strings.ToLower(name)]
}

// Names returns the header names in insertion order.
func (h *Headers) Names() []string {
	return h.names
}

// Len returns the number of headers.
func (h *Headers) Len() int {
	return len(h.names)
}

// Part is one multipart body segment: a header block plus a nested byte
// stream. The body must be drained (or the outer stream advanced, which
// discards the remainder) before the next part becomes available; reading an
// exhausted body keeps returning the end marker.
type Part struct {
	Headers *Headers
	Body    stream.Reader[[]byte]
}
