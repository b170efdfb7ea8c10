package xmlstream

import (
	"context"
	"strings"

	fserrors "github.com/tchambard/f-streams-async/pkg/common/errors"
	"github.com/tchambard/f-streams-async/pkg/streaming/chunk"
	"github.com/tchambard/f-streams-async/pkg/streaming/stream"
)

// NewReader creates a streaming XML parser over a text-chunk stream. path is
// a slash-separated chain of tag names, starting at the document root,
// identifying the nesting level that is emitted as one record per
// occurrence; the subtree's state is discarded after emission, so documents
// of unbounded length parse in bounded memory. Each record is a
// document-shaped Element containing the root-to-target ancestor chain (with
// the ancestors' attributes) down to one target node.
//
// An empty path emits the whole document as a single record.
//
// Structural defects (mismatched close tag, unterminated CDATA, comment or
// entity, invalid numeric reference) abort the stream with a
// MalformedDocumentError; no partial record is ever delivered.
func NewReader(src stream.Reader[string], path string) stream.Reader[*Element] {
	var target []string
	if path != "" {
		target = strings.Split(path, "/")
	}
	return stream.Transform(src, func(ctx context.Context, in stream.Reader[string], out stream.Writer[*Element]) error {
		p := &docParser{
			cur:    chunk.NewTextCursor(in),
			target: target,
			out:    out,
		}
		return p.run(ctx)
	})
}

// frame is the parse state of one currently-open element.
type frame struct {
	name     string
	attrs    *Attributes
	kids     *Children
	raw      strings.Builder // every text run, entity-decoded, untrimmed
	text     strings.Builder // trimmed non-whitespace runs, concatenated
	cdata    strings.Builder
	hasCData bool
}

func (f *frame) addChild(name string, n Node) {
	if f.kids == nil {
		f.kids = &Children{groups: make(map[string]*Group)}
	}
	f.kids.Add(name, n)
}

type docParser struct {
	cur      *chunk.TextCursor
	target   []string
	out      stream.Writer[*Element]
	stack    []*frame
	rootSeen bool
	rootName string
	rootNode Node
}

func (p *docParser) run(ctx context.Context) error {
	for {
		content, found, err := p.cur.ReadUntilByte(ctx, '<')
		if err != nil {
			return err
		}
		if content != "" {
			if err := p.addText(content); err != nil {
				return err
			}
		}
		if !found {
			return p.finish(ctx)
		}
		p.cur.Skip(1)
		b, ok, err := p.cur.Peek(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return fserrors.NewMalformedDocumentError("tag", "truncated tag at end of document")
		}
		switch b {
		case '/':
			p.cur.Skip(1)
			err = p.closeTag(ctx)
		case '!':
			p.cur.Skip(1)
			err = p.bangConstruct(ctx)
		case '?':
			_, found, perr := p.cur.ReadUntilSeq(ctx, "?>")
			if perr != nil {
				err = perr
			} else if !found {
				err = fserrors.NewMalformedDocumentError("processing instruction", "unterminated processing instruction")
			}
		default:
			err = p.openTag(ctx)
		}
		if err != nil {
			return err
		}
	}
}

func (p *docParser) finish(ctx context.Context) error {
	if len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		return fserrors.NewMalformedDocumentError("close tag", "unexpected end of document inside <%s>", top.name)
	}
	if !p.rootSeen {
		return fserrors.NewMalformedDocumentError("document", "no root element")
	}
	if len(p.target) == 0 {
		record := NewElement()
		record.Add(p.rootName, p.rootNode)
		return p.out.Write(ctx, record)
	}
	return nil
}

func (p *docParser) addText(raw string) error {
	decoded, err := decodeEntities(raw)
	if err != nil {
		return err
	}
	if len(p.stack) == 0 {
		if strings.TrimSpace(decoded) != "" {
			return fserrors.NewMalformedDocumentError("text", "content outside of root element")
		}
		return nil
	}
	if p.insideTargetAncestor() {
		// Interstitial text between records, not part of any record.
		return nil
	}
	f := p.stack[len(p.stack)-1]
	f.raw.WriteString(decoded)
	if trimmed := strings.TrimSpace(decoded); trimmed != "" {
		f.text.WriteString(trimmed)
	}
	return nil
}

func (p *docParser) openTag(ctx context.Context) error {
	name, err := p.readName(ctx)
	if err != nil {
		return err
	}
	if len(p.stack) == 0 && p.rootSeen {
		return fserrors.NewMalformedDocumentError("element", "multiple root elements")
	}
	attrs, selfClosing, err := p.readAttributes(ctx, name)
	if err != nil {
		return err
	}
	p.stack = append(p.stack, &frame{name: name, attrs: attrs})
	if selfClosing {
		return p.closeFrame(ctx)
	}
	return nil
}

func (p *docParser) closeTag(ctx context.Context) error {
	name, err := p.readName(ctx)
	if err != nil {
		return err
	}
	if err := p.skipWhitespace(ctx); err != nil {
		return err
	}
	b, ok, err := p.cur.Next(ctx)
	if err != nil {
		return err
	}
	if !ok || b != '>' {
		return fserrors.NewMalformedDocumentError("close tag", "malformed close tag </%s", name)
	}
	if len(p.stack) == 0 {
		return fserrors.NewMalformedDocumentError("close tag", "</%s> without matching open tag", name)
	}
	if top := p.stack[len(p.stack)-1]; top.name != name {
		return fserrors.NewMalformedDocumentError("close tag", "</%s> does not match <%s>", name, top.name)
	}
	return p.closeFrame(ctx)
}

func (p *docParser) bangConstruct(ctx context.Context) error {
	if isComment, err := p.cur.HasPrefix(ctx, "--"); err != nil {
		return err
	} else if isComment {
		p.cur.Skip(2)
		_, found, err := p.cur.ReadUntilSeq(ctx, "-->")
		if err != nil {
			return err
		}
		if !found {
			return fserrors.NewMalformedDocumentError("comment", "unterminated comment")
		}
		return nil
	}
	if isCData, err := p.cur.HasPrefix(ctx, "[CDATA["); err != nil {
		return err
	} else if isCData {
		p.cur.Skip(len("[CDATA["))
		content, found, err := p.cur.ReadUntilSeq(ctx, "]]>")
		if err != nil {
			return err
		}
		if !found {
			return fserrors.NewMalformedDocumentError("cdata", "unterminated CDATA section")
		}
		if len(p.stack) == 0 {
			return fserrors.NewMalformedDocumentError("cdata", "CDATA section outside of root element")
		}
		if p.insideTargetAncestor() {
			return nil
		}
		f := p.stack[len(p.stack)-1]
		f.cdata.WriteString(content)
		f.hasCData = true
		return nil
	}
	return fserrors.NewMalformedDocumentError("declaration", "unsupported <! construct")
}

func isNameByte(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '>', '/', '=', '<', '"', '\'':
		return false
	}
	return true
}

func (p *docParser) readName(ctx context.Context) (string, error) {
	var sb strings.Builder
	for {
		b, ok, err := p.cur.Peek(ctx)
		if err != nil {
			return "", err
		}
		if !ok || !isNameByte(b) {
			break
		}
		sb.WriteByte(b)
		p.cur.Skip(1)
	}
	if sb.Len() == 0 {
		return "", fserrors.NewMalformedDocumentError("tag", "empty tag name")
	}
	return sb.String(), nil
}

func (p *docParser) skipWhitespace(ctx context.Context) error {
	for {
		b, ok, err := p.cur.Peek(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if b != ' ' && b != '\t' && b != '\r' && b != '\n' {
			return nil
		}
		p.cur.Skip(1)
	}
}

func (p *docParser) readAttributes(ctx context.Context, tag string) (*Attributes, bool, error) {
	var attrs *Attributes
	for {
		if err := p.skipWhitespace(ctx); err != nil {
			return nil, false, err
		}
		b, ok, err := p.cur.Peek(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, fserrors.NewMalformedDocumentError("tag", "unterminated tag <%s", tag)
		}
		switch b {
		case '>':
			p.cur.Skip(1)
			return attrs, false, nil
		case '/':
			p.cur.Skip(1)
			b, ok, err := p.cur.Next(ctx)
			if err != nil {
				return nil, false, err
			}
			if !ok || b != '>' {
				return nil, false, fserrors.NewMalformedDocumentError("tag", "malformed self-closing tag <%s", tag)
			}
			return attrs, true, nil
		}
		name, err := p.readName(ctx)
		if err != nil {
			return nil, false, err
		}
		if err := p.skipWhitespace(ctx); err != nil {
			return nil, false, err
		}
		b, ok, err = p.cur.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok || b != '=' {
			return nil, false, fserrors.NewMalformedDocumentError("attribute", "attribute %s of <%s> has no value", name, tag)
		}
		if err := p.skipWhitespace(ctx); err != nil {
			return nil, false, err
		}
		quote, ok, err := p.cur.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok || (quote != '"' && quote != '\'') {
			return nil, false, fserrors.NewMalformedDocumentError("attribute", "attribute %s of <%s> is not quoted", name, tag)
		}
		value, found, err := p.cur.ReadUntilByte(ctx, quote)
		if err != nil {
			return nil, false, err
		}
		if !found {
			return nil, false, fserrors.NewMalformedDocumentError("attribute", "unterminated value for attribute %s of <%s>", name, tag)
		}
		p.cur.Skip(1)
		decoded, err := decodeEntities(value)
		if err != nil {
			return nil, false, err
		}
		if attrs == nil {
			attrs = NewAttributes()
		}
		attrs.Set(name, decoded)
	}
}

// closeFrame finalizes the top frame into a node and routes it: emitted as a
// record if it completes the target path, attached to its parent otherwise,
// or dropped if it is an off-path sibling of a target ancestor (keeping
// ancestor state bounded on unbounded documents).
func (p *docParser) closeFrame(ctx context.Context) error {
	f := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	node := finalize(f)
	depth := len(p.stack)

	if depth == 0 {
		p.rootSeen = true
		p.rootName = f.name
	}
	if p.onTarget(f.name, depth) {
		return p.emit(ctx, f.name, node)
	}
	if depth == 0 {
		if len(p.target) == 0 {
			p.rootNode = node
		}
		return nil
	}
	if len(p.target) > 0 && depth < len(p.target) && p.onTargetPrefix(depth) {
		// Sibling of the target path inside an ancestor: not part of any
		// record, so it is not retained.
		return nil
	}
	p.stack[depth-1].addChild(f.name, node)
	return nil
}

// onTarget reports whether a node named name closing at the given stack
// depth completes the target path.
func (p *docParser) onTarget(name string, depth int) bool {
	if len(p.target) == 0 || depth != len(p.target)-1 {
		return false
	}
	if name != p.target[depth] {
		return false
	}
	return p.onTargetPrefix(depth)
}

// insideTargetAncestor reports whether the innermost open frame is a strict
// ancestor on the target path. Such frames contribute only their name and
// attributes to emitted records, so their own content is dropped as it is
// scanned, keeping ancestor state bounded on unbounded documents.
func (p *docParser) insideTargetAncestor() bool {
	n := len(p.stack)
	return n > 0 && n < len(p.target) && p.onTargetPrefix(n)
}

// onTargetPrefix reports whether the first depth open frames match the
// target path.
func (p *docParser) onTargetPrefix(depth int) bool {
	for i := 0; i < depth; i++ {
		if p.stack[i].name != p.target[i] {
			return false
		}
	}
	return true
}

// emit writes one record: a document-shaped element holding the ancestor
// chain down to the completed target node.
func (p *docParser) emit(ctx context.Context, name string, node Node) error {
	record := NewElement()
	at := record
	for _, ancestor := range p.stack {
		link := &Element{Attrs: ancestor.attrs}
		at.Add(ancestor.name, link)
		at = link
	}
	at.Add(name, node)
	return p.out.Write(ctx, record)
}

// finalize converts a completed frame into its node value, applying the
// whitespace policy: trimmed text wins, but text that was nothing but
// whitespace is preserved verbatim when the element holds no other content.
func finalize(f *frame) Node {
	if f.hasCData {
		return &Element{Attrs: f.attrs, CData: f.cdata.String(), HasCData: true}
	}
	text := f.text.String()
	if text == "" && f.kids == nil && f.raw.Len() > 0 {
		text = f.raw.String()
	}
	if f.attrs == nil && f.kids == nil {
		return Text(text)
	}
	return &Element{Attrs: f.attrs, Value: text, Kids: f.kids}
}
