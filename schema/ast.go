package schema

import (
	"encoding/xml"
	"io"
	"strings"

	serr "github.com/nihei9/srng/error"
)

// RelaxNGNs is the namespace every element of a simple-syntax schema
// document must live in.
const RelaxNGNs = "http://relaxng.org/ns/structure/1.0"

// node is one element of the schema document tree.
type node struct {
	local    string
	attrs    map[string]string
	children []*node
	text     string
}

func (n *node) attr(name string) string {
	return n.attrs[name]
}

// parse reads a schema document into a node tree. Every element must be
// in the RELAX NG namespace; character data is accumulated per element
// (the `name` construct carries its local name as text).
func parse(r io.Reader) (*node, error) {
	d := xml.NewDecoder(r)
	var root *node
	var stack []*node
	var texts []*strings.Builder
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, serr.Wrap(serr.KindIOError, err, "cannot read the schema document")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != RelaxNGNs {
				return nil, serr.New(serr.KindSchemaWrongNamespace, "element %v is in namespace %q, want %q", t.Name.Local, t.Name.Space, RelaxNGNs)
			}
			n := &node{
				local: t.Name.Local,
				attrs: map[string]string{},
			}
			for _, a := range t.Attr {
				if a.Name.Space != "" || a.Name.Local == "xmlns" {
					continue
				}
				n.attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, serr.New(serr.KindIOError, "schema document has multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
			texts = append(texts, &strings.Builder{})
		case xml.EndElement:
			n := stack[len(stack)-1]
			n.text = texts[len(texts)-1].String()
			stack = stack[:len(stack)-1]
			texts = texts[:len(texts)-1]
		case xml.CharData:
			if len(texts) > 0 {
				texts[len(texts)-1].Write(t)
			}
		}
	}
	if root == nil {
		return nil, serr.New(serr.KindIOError, "schema document has no root element")
	}
	return root, nil
}
