package xmlstream

// Node is one parsed element value: either Text for a plain text-only
// element, or *Element for anything carrying attributes, CDATA or children.
// The two variants are sealed; consumers switch on the concrete type.
type Node interface {
	xmlNode()
}

// Text is the value of an element with no attributes and no child elements.
type Text string

func (Text) xmlNode() {}

// Element is the value of an element with structure. CDATA content excludes
// ordinary text and children on the same node.
type Element struct {
	// Attrs holds the element's attributes, nil when there are none.
	Attrs *Attributes

	// Value is the text content of an element that also carries attributes
	// or children; empty means no text.
	Value string

	// CData is the literal content of a CDATA section. HasCData
	// distinguishes an empty section from no section at all.
	CData    string
	HasCData bool

	// Kids holds the child elements, nil when there are none.
	Kids *Children
}

func (*Element) xmlNode() {}

// NewElement creates an empty element.
func NewElement() *Element {
	return &Element{}
}

// Add appends a child node under the given tag name, folding repeated names
// into one ordered group.
func (e *Element) Add(name string, n Node) *Element {
	if e.Kids == nil {
		e.Kids = &Children{groups: make(map[string]*Group)}
	}
	e.Kids.Add(name, n)
	return e
}

// Child returns the first child node under name.
func (e *Element) Child(name string) (Node, bool) {
	if e.Kids == nil {
		return nil, false
	}
	g, ok := e.Kids.Get(name)
	if !ok {
		return nil, false
	}
	return g.First(), true
}

// Children is an insertion-ordered map from tag name to the sequence of
// sibling nodes observed under that name. A single occurrence stays scalar;
// the group only reports Many once a second occurrence is seen.
type Children struct {
	names  []string
	groups map[string]*Group
}

// Add appends a node under name, preserving first-occurrence order.
func (c *Children) Add(name string, n Node) {
	g, ok := c.groups[name]
	if !ok {
		g = &Group{}
		c.groups[name] = g
		c.names = append(c.names, name)
	}
	g.nodes = append(g.nodes, n)
}

// Get returns the group for a tag name.
func (c *Children) Get(name string) (*Group, bool) {
	g, ok := c.groups[name]
	return g, ok
}

// Names returns the tag names in first-occurrence order.
func (c *Children) Names() []string {
	return c.names
}

// Len returns the number of distinct tag names.
func (c *Children) Len() int {
	return len(c.names)
}

// Group is the ordered sequence of sibling nodes sharing one tag name.
type Group struct {
	nodes []Node
}

// Len returns the number of occurrences.
func (g *Group) Len() int {
	return len(g.nodes)
}

// At returns the i-th occurrence in document order.
func (g *Group) At(i int) Node {
	return g.nodes[i]
}

// First returns the first occurrence.
func (g *Group) First() Node {
	return g.nodes[0]
}

// Many reports whether more than one occurrence was observed. A single
// occurrence is scalar, not a one-element sequence.
func (g *Group) Many() bool {
	return len(g.nodes) > 1
}

// Nodes returns the occurrences in document order.
func (g *Group) Nodes() []Node {
	return g.nodes
}

// Attributes is an insertion-ordered attribute map.
type Attributes struct {
	names  []string
	values map[string]string
}

// NewAttributes creates an empty attribute map.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]string)}
}

// Set stores an attribute, replacing an existing value in place.
func (a *Attributes) Set(name, value string) *Attributes {
	if _, exists := a.values[name]; !exists {
		a.names = append(a.names, name)
	}
	a.values[name] = value
	return a
}

// Get returns the value for a name.
func (a *Attributes) Get(name string) (string, bool) {
	v, ok := a.values[name]
	return v, ok
}

// Names returns the attribute names in insertion order.
func (a *Attributes) Names() []string {
	return a.names
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.names)
}

// Equal reports whether two attribute maps hold the same names, in the same
// order, with the same values.
func (a *Attributes) Equal(b *Attributes) bool {
	if a.Len() != b.Len() {
		return false
	}
	if a == nil || b == nil {
		return true
	}
	for i, name := range a.names {
		if b.names[i] != name {
			return false
		}
		if a.values[name] != b.values[name] {
			return false
		}
	}
	return true
}
