// Package tsxml holds a parsed catalogue file as an arena of nodes.
//
// Nodes are addressed by NodeID and every mutation goes through the owning
// Document. The raw bytes of each token are kept as read, so nodes that were
// never touched are written back exactly as they appeared in the input.
package tsxml

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"golang.org/x/xerrors"
)

type NodeID int32

const NoNode NodeID = -1

type Kind uint8

const (
	DocumentNode Kind = iota
	ElementNode
	TextNode
	CommentNode
	ProcInstNode
	DirectiveNode
)

const xmlURL = "http://www.w3.org/XML/1998/namespace"

type node struct {
	kind     Kind
	name     string
	attrs    []xml.Attr
	text     string
	parent   NodeID
	children []NodeID

	// raw holds the token as read (the start tag for elements), rawEnd the end tag.
	raw    []byte
	rawEnd []byte
	dirty  bool
}

type Document struct {
	nodes []node
}

// Parse reads a whole XML document into a new arena.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	root := doc.add(node{kind: DocumentNode, parent: NoNode})

	dec := xml.NewDecoder(bytes.NewReader(data))
	stack := []NodeID{root}
	var offset int64

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, xerrors.Errorf("parsing xml: %w", err)
		}

		end := dec.InputOffset()
		raw := data[offset:end]
		offset = end
		cur := stack[len(stack)-1]

		switch t := tok.(type) {
		case xml.StartElement:
			id := doc.add(node{kind: ElementNode, name: t.Name.Local, attrs: copyAttrs(t.Attr), raw: raw})
			doc.link(cur, id)
			stack = append(stack, id)
		case xml.EndElement:
			doc.nodes[cur].rawEnd = raw
			stack = stack[:len(stack)-1]
		case xml.CharData:
			doc.link(cur, doc.add(node{kind: TextNode, text: string(t), raw: raw}))
		case xml.Comment:
			doc.link(cur, doc.add(node{kind: CommentNode, text: string(t), raw: raw}))
		case xml.ProcInst:
			doc.link(cur, doc.add(node{kind: ProcInstNode, name: t.Target, text: string(t.Inst), raw: raw}))
		case xml.Directive:
			doc.link(cur, doc.add(node{kind: DirectiveNode, text: string(t), raw: raw}))
		}
	}

	if len(stack) != 1 {
		return nil, xerrors.Errorf("parsing xml: unexpected end of document inside <%s>", doc.nodes[stack[len(stack)-1]].name)
	}
	if doc.DocumentElement() == NoNode {
		return nil, xerrors.Errorf("parsing xml: no document element")
	}

	return doc, nil
}

func copyAttrs(attrs []xml.Attr) []xml.Attr {
	out := make([]xml.Attr, len(attrs))
	copy(out, attrs)
	return out
}

func (d *Document) add(n node) NodeID {
	d.nodes = append(d.nodes, n)
	return NodeID(len(d.nodes) - 1)
}

// Root is the document node holding the prolog and the document element.
func (d *Document) Root() NodeID {
	return 0
}

// DocumentElement returns the top level element or NoNode.
func (d *Document) DocumentElement() NodeID {
	for _, c := range d.nodes[0].children {
		if d.nodes[c].kind == ElementNode {
			return c
		}
	}
	return NoNode
}

func (d *Document) Kind(id NodeID) Kind {
	return d.nodes[id].kind
}

func (d *Document) Name(id NodeID) string {
	return d.nodes[id].name
}

func (d *Document) Parent(id NodeID) NodeID {
	return d.nodes[id].parent
}

// Children returns the child list of id. The slice must not be modified.
func (d *Document) Children(id NodeID) []NodeID {
	return d.nodes[id].children
}

// ChildElements returns the element children of id called name, in order.
func (d *Document) ChildElements(id NodeID, name string) []NodeID {
	var out []NodeID
	for _, c := range d.nodes[id].children {
		if d.nodes[c].kind == ElementNode && d.nodes[c].name == name {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first element child of id called name or NoNode.
func (d *Document) FirstChild(id NodeID, name string) NodeID {
	for _, c := range d.nodes[id].children {
		if d.nodes[c].kind == ElementNode && d.nodes[c].name == name {
			return c
		}
	}
	return NoNode
}

// Descendants returns every element below id called name, in document order.
func (d *Document) Descendants(id NodeID, name string) []NodeID {
	var out []NodeID
	var walk func(NodeID)
	walk = func(n NodeID) {
		for _, c := range d.nodes[n].children {
			if d.nodes[c].kind != ElementNode {
				continue
			}
			if d.nodes[c].name == name {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(id)
	return out
}

func (d *Document) Attr(id NodeID, name string) (string, bool) {
	for _, a := range d.nodes[id].attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (d *Document) SetAttr(id NodeID, name, value string) {
	n := &d.nodes[id]
	for i, a := range n.attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			if a.Value == value {
				return
			}
			n.attrs[i].Value = value
			n.dirty = true
			return
		}
	}
	n.attrs = append(n.attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	n.dirty = true
}

func (d *Document) RemoveAttr(id NodeID, name string) {
	n := &d.nodes[id]
	for i, a := range n.attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			n.dirty = true
			return
		}
	}
}

// Text returns the concatenated character data below id, or the content of
// a text or comment node.
func (d *Document) Text(id NodeID) string {
	n := &d.nodes[id]
	if n.kind == TextNode || n.kind == CommentNode {
		return n.text
	}
	var sb strings.Builder
	for _, c := range n.children {
		switch d.nodes[c].kind {
		case TextNode:
			sb.WriteString(d.nodes[c].text)
		case ElementNode:
			sb.WriteString(d.Text(c))
		}
	}
	return sb.String()
}

// SetText replaces all children of the element id with a single text node.
func (d *Document) SetText(id NodeID, text string) {
	if text == d.Text(id) && len(d.nodes[id].children) <= 1 {
		return
	}
	if text == "" {
		d.ReplaceChildren(id, nil)
		return
	}
	d.ReplaceChildren(id, []NodeID{d.NewText(text)})
}

func (d *Document) NewElement(name string) NodeID {
	return d.add(node{kind: ElementNode, name: name, parent: NoNode})
}

func (d *Document) NewText(text string) NodeID {
	return d.add(node{kind: TextNode, text: text, parent: NoNode})
}

// NewComment creates a detached comment node. text must not contain "--".
func (d *Document) NewComment(text string) NodeID {
	return d.add(node{kind: CommentNode, text: text, parent: NoNode})
}

func (d *Document) AppendChild(parent, child NodeID) {
	d.link(parent, child)
	d.touch(parent)
}

func (d *Document) link(parent, child NodeID) {
	d.nodes[child].parent = parent
	d.nodes[parent].children = append(d.nodes[parent].children, child)
}

// InsertBefore inserts child in front of ref. A ref that is not a child of
// parent appends.
func (d *Document) InsertBefore(parent, child, ref NodeID) {
	p := &d.nodes[parent]
	for i, c := range p.children {
		if c == ref {
			p.children = append(p.children[:i], append([]NodeID{child}, p.children[i:]...)...)
			d.nodes[child].parent = parent
			d.touch(parent)
			return
		}
	}
	d.AppendChild(parent, child)
}

func (d *Document) ReplaceChildren(parent NodeID, children []NodeID) {
	for _, c := range d.nodes[parent].children {
		d.nodes[c].parent = NoNode
	}
	d.nodes[parent].children = append([]NodeID(nil), children...)
	for _, c := range children {
		d.nodes[c].parent = parent
	}
	d.touch(parent)
}

// touch marks an element whose child list changed. Elements read as
// self-closing tags need their start tag regenerated to hold children.
func (d *Document) touch(id NodeID) {
	n := &d.nodes[id]
	if n.kind == ElementNode && n.raw != nil && len(n.rawEnd) == 0 {
		n.dirty = true
	}
}

// CopyFrom deep copies the subtree id of src into d and returns the detached copy.
func (d *Document) CopyFrom(src *Document, id NodeID) NodeID {
	sn := src.nodes[id]
	cp := d.add(node{
		kind:   sn.kind,
		name:   sn.name,
		attrs:  copyAttrs(sn.attrs),
		text:   sn.text,
		parent: NoNode,
		raw:    append([]byte(nil), sn.raw...),
		rawEnd: append([]byte(nil), sn.rawEnd...),
		dirty:  sn.dirty,
	})
	for _, c := range sn.children {
		d.link(cp, d.CopyFrom(src, c))
	}
	return cp
}

// Bytes serializes the whole document.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	_ = d.WriteTo(&buf)
	return buf.Bytes()
}

func (d *Document) WriteTo(w io.Writer) error {
	var buf bytes.Buffer
	d.write(&buf, 0)
	_, err := w.Write(buf.Bytes())
	return err
}

func (d *Document) write(buf *bytes.Buffer, id NodeID) {
	n := &d.nodes[id]
	fresh := n.raw == nil || n.dirty

	switch n.kind {
	case DocumentNode:
		for _, c := range n.children {
			d.write(buf, c)
		}
	case ElementNode:
		if fresh {
			buf.WriteByte('<')
			buf.WriteString(n.name)
			for _, a := range n.attrs {
				buf.WriteByte(' ')
				buf.WriteString(attrName(a.Name))
				buf.WriteString(`="`)
				buf.WriteString(escape(a.Value))
				buf.WriteByte('"')
			}
			buf.WriteByte('>')
		} else {
			buf.Write(n.raw)
		}
		for _, c := range n.children {
			d.write(buf, c)
		}
		if fresh {
			buf.WriteString("</")
			buf.WriteString(n.name)
			buf.WriteByte('>')
		} else {
			buf.Write(n.rawEnd)
		}
	case TextNode:
		if fresh {
			buf.WriteString(escape(n.text))
		} else {
			buf.Write(n.raw)
		}
	case CommentNode:
		if fresh {
			buf.WriteString("<!--" + n.text + "-->")
		} else {
			buf.Write(n.raw)
		}
	case ProcInstNode:
		if fresh {
			buf.WriteString("<?" + n.name + " " + n.text + "?>")
		} else {
			buf.Write(n.raw)
		}
	case DirectiveNode:
		if fresh {
			buf.WriteString("<!" + n.text + ">")
		} else {
			buf.Write(n.raw)
		}
	}
}

func attrName(n xml.Name) string {
	switch n.Space {
	case "":
		return n.Local
	case xmlURL:
		return "xml:" + n.Local
	default:
		return n.Space + ":" + n.Local
	}
}

// escape follows the entity style lupdate writes.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escape(s string) string {
	return escaper.Replace(s)
}
