package xmlstream

import (
	"context"
	"strings"

	fserrors "github.com/tchambard/f-streams-async/pkg/common/errors"
	"github.com/tchambard/f-streams-async/pkg/common/validation"
	"github.com/tchambard/f-streams-async/pkg/streaming/stream"
)

// Config holds formatter options. The config is captured at construction
// and immutable for the lifetime of one format operation.
type Config struct {
	// Tags is the slash-separated target path; each incoming record is
	// expected to carry this ancestor chain and is emitted at its leaf
	// level. Required.
	Tags string

	// Indent is the per-level indentation string. When empty, the minimal
	// compact form is emitted with no newlines.
	Indent string
}

// NewWriter creates a streaming XML formatter over a text-chunk sink, the
// inverse of NewReader. The XML declaration is emitted once, the ancestor
// chain of the target path is opened as records arrive, reopening only the
// levels that changed since the previous record, and End closes whatever is
// still open.
func NewWriter(sink stream.Writer[string], cfg Config) (stream.Writer[*Element], error) {
	if err := validation.ValidateNotEmpty("xmlstream", "tags", cfg.Tags); err != nil {
		return nil, err
	}
	return &formatter{
		sink:   sink,
		path:   strings.Split(cfg.Tags, "/"),
		indent: cfg.Indent,
	}, nil
}

// openLevel is one currently-open ancestor tag.
type openLevel struct {
	name  string
	attrs *Attributes
}

type formatter struct {
	sink    stream.Writer[string]
	path    []string
	indent  string
	open    []openLevel
	started bool
	ended   bool
	err     error
}

// Write implements stream.Writer[*Element].
func (f *formatter) Write(ctx context.Context, record *Element) error {
	if f.err != nil {
		return f.err
	}
	if f.ended {
		return fserrors.ErrEnded
	}
	ancestors, targets, err := f.walk(record)
	if err != nil {
		f.err = err
		return err
	}

	var sb strings.Builder
	if !f.started {
		f.started = true
		sb.WriteString(`<?xml version="1.0"?>`)
		f.newline(&sb)
	}

	// Close only the levels that diverge from the previous record, then
	// open the missing ones.
	shared := 0
	for shared < len(f.open) && shared < len(ancestors) &&
		f.open[shared].name == ancestors[shared].name &&
		f.open[shared].attrs.Equal(ancestors[shared].attrs) {
		shared++
	}
	for i := len(f.open) - 1; i >= shared; i-- {
		f.writeIndent(&sb, i)
		sb.WriteString("</" + f.open[i].name + ">")
		f.newline(&sb)
	}
	f.open = f.open[:shared]
	for i := shared; i < len(ancestors); i++ {
		f.writeIndent(&sb, i)
		sb.WriteString("<" + ancestors[i].name + attrString(ancestors[i].attrs) + ">")
		f.newline(&sb)
		f.open = append(f.open, ancestors[i])
	}

	leaf := f.path[len(f.path)-1]
	for _, node := range targets {
		f.writeNode(&sb, leaf, node, len(ancestors))
	}
	if err := f.sink.Write(ctx, sb.String()); err != nil {
		f.err = err
		return err
	}
	return nil
}

// End implements stream.Writer[*Element]. It closes the open ancestor chain
// and ends the sink.
func (f *formatter) End(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	if f.ended {
		return nil
	}
	f.ended = true
	var sb strings.Builder
	if !f.started {
		sb.WriteString(`<?xml version="1.0"?>`)
		f.newline(&sb)
	}
	for i := len(f.open) - 1; i >= 0; i-- {
		f.writeIndent(&sb, i)
		sb.WriteString("</" + f.open[i].name + ">")
		f.newline(&sb)
	}
	f.open = nil
	if sb.Len() > 0 {
		if err := f.sink.Write(ctx, sb.String()); err != nil {
			f.err = err
			return err
		}
	}
	return f.sink.End(ctx)
}

// walk descends a record along the target path, returning the ancestor
// levels and the target node occurrences.
func (f *formatter) walk(record *Element) ([]openLevel, []Node, error) {
	ancestors := make([]openLevel, 0, len(f.path)-1)
	at := record
	for i, name := range f.path {
		if at.Kids == nil {
			return nil, nil, fserrors.NewMalformedDocumentError("record", "missing path element %q", name)
		}
		group, ok := at.Kids.Get(name)
		if !ok {
			return nil, nil, fserrors.NewMalformedDocumentError("record", "missing path element %q", name)
		}
		if i == len(f.path)-1 {
			return ancestors, group.Nodes(), nil
		}
		el, ok := group.First().(*Element)
		if !ok {
			return nil, nil, fserrors.NewMalformedDocumentError("record", "path element %q is not a structural element", name)
		}
		ancestors = append(ancestors, openLevel{name: name, attrs: el.Attrs})
		at = el
	}
	return ancestors, nil, nil
}

func (f *formatter) newline(sb *strings.Builder) {
	if f.indent != "" {
		sb.WriteByte('\n')
	}
}

func (f *formatter) writeIndent(sb *strings.Builder, depth int) {
	if f.indent == "" {
		return
	}
	for i := 0; i < depth; i++ {
		sb.WriteString(f.indent)
	}
}

// writeNode serializes one node. Self-closing output is used only for nodes
// with no attributes, text, CDATA or children.
func (f *formatter) writeNode(sb *strings.Builder, name string, n Node, depth int) {
	f.writeIndent(sb, depth)
	switch v := n.(type) {
	case Text:
		if v == "" {
			sb.WriteString("<" + name + "/>")
		} else {
			sb.WriteString("<" + name + ">" + escapeText(string(v)) + "</" + name + ">")
		}
	case *Element:
		attrs := attrString(v.Attrs)
		switch {
		case v.HasCData:
			sb.WriteString("<" + name + attrs + "><![CDATA[" + v.CData + "]]></" + name + ">")
		case v.Kids == nil:
			if v.Attrs.Len() == 0 && v.Value == "" {
				sb.WriteString("<" + name + "/>")
			} else {
				sb.WriteString("<" + name + attrs + ">" + escapeText(v.Value) + "</" + name + ">")
			}
		default:
			sb.WriteString("<" + name + attrs + ">")
			if v.Value != "" {
				sb.WriteString(escapeText(v.Value))
			}
			f.newline(sb)
			for _, childName := range v.Kids.Names() {
				group, _ := v.Kids.Get(childName)
				for _, child := range group.Nodes() {
					f.writeNode(sb, childName, child, depth+1)
				}
			}
			f.writeIndent(sb, depth)
			sb.WriteString("</" + name + ">")
		}
	}
	f.newline(sb)
}

func attrString(attrs *Attributes) string {
	if attrs.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	for _, name := range attrs.Names() {
		value, _ := attrs.Get(name)
		sb.WriteString(" " + name + `="` + escapeAttr(value) + `"`)
	}
	return sb.String()
}
