package schema

import (
	"io"
	"strings"

	serr "github.com/nihei9/srng/error"
	"github.com/nihei9/srng/pattern"
)

// Define is a named top-level pattern of the schema. In the simple
// syntax every define wraps exactly one element.
type Define struct {
	Name    string
	Pattern *pattern.Pattern
}

// Loader turns a simple-syntax schema document into patterns.
type Loader struct {
	patterns *pattern.Context
}

func NewLoader(ctx *pattern.Context) *Loader {
	return &Loader{
		patterns: ctx,
	}
}

// Load reads a schema document and returns its defines in document
// order. The document root must be a `grammar` element; a `start` child
// is loaded for well-formedness but contributes nothing to the tables.
func (l *Loader) Load(r io.Reader) ([]*Define, error) {
	root, err := parse(r)
	if err != nil {
		return nil, err
	}
	if root.local != "grammar" {
		return nil, serr.New(serr.KindSchemaUnknownElement, "document root is %v, want grammar", root.local)
	}
	var defs []*Define
	for _, n := range root.children {
		switch n.local {
		case "start":
			_, err := l.buildGroup(n.children)
			if err != nil {
				return nil, err
			}
		case "define":
			p, err := l.buildGroup(n.children)
			if err != nil {
				return nil, err
			}
			defs = append(defs, &Define{
				Name:    n.attr("name"),
				Pattern: p,
			})
		default:
			return nil, serr.New(serr.KindSchemaUnknownElement, "unexpected element %v under grammar", n.local)
		}
	}
	return defs, nil
}

// buildGroup right-folds a sequence of pattern constructs into a Group.
// An empty sequence is Empty.
func (l *Loader) buildGroup(ns []*node) (*pattern.Pattern, error) {
	p := l.patterns.Empty()
	for i := len(ns) - 1; i >= 0; i-- {
		q, err := l.build(ns[i])
		if err != nil {
			return nil, err
		}
		p = l.patterns.Group(q, p)
	}
	return p, nil
}

func (l *Loader) build(n *node) (*pattern.Pattern, error) {
	switch n.local {
	case "empty":
		return l.patterns.Empty(), nil
	case "notAllowed":
		return l.patterns.NotAllowed(), nil
	case "text", "value", "data", "list":
		// Character data is universally acceptable; datatypes, values,
		// and lists all collapse to Text.
		return l.patterns.Text(), nil
	case "ref":
		return l.patterns.Ref(n.attr("name")), nil
	case "element":
		if len(n.children) == 0 {
			return nil, serr.New(serr.KindSchemaUnknownElement, "element construct has no name class")
		}
		nc, err := l.buildNameClass(n.children[0])
		if err != nil {
			return nil, err
		}
		body, err := l.buildGroup(n.children[1:])
		if err != nil {
			return nil, err
		}
		return l.patterns.Element(nc, body), nil
	case "attribute":
		if len(n.children) == 0 || n.children[0].local != "name" {
			return nil, serr.New(serr.KindAttrNameClassUnsupported, "attribute construct requires a single name as its name class")
		}
		nc := n.children[0]
		return l.patterns.Attribute(nc.attr("ns"), strings.TrimSpace(nc.text)), nil
	case "group":
		return l.buildGroup(n.children)
	case "choice":
		return l.buildFold(n.children, l.patterns.Choice, l.patterns.NotAllowed())
	case "interleave":
		return l.buildFold(n.children, l.patterns.Interleave, l.patterns.Empty())
	case "oneOrMore":
		p, err := l.buildGroup(n.children)
		if err != nil {
			return nil, err
		}
		return l.patterns.OneOrMore(p), nil
	case "zeroOrMore":
		p, err := l.buildGroup(n.children)
		if err != nil {
			return nil, err
		}
		return l.patterns.Optional(l.patterns.OneOrMore(p)), nil
	case "optional":
		p, err := l.buildGroup(n.children)
		if err != nil {
			return nil, err
		}
		return l.patterns.Optional(p), nil
	}
	return nil, serr.New(serr.KindSchemaUnknownElement, "unknown pattern construct %v", n.local)
}

// buildFold right-folds children with the given binary constructor.
func (l *Loader) buildFold(ns []*node, combine func(a, b *pattern.Pattern) *pattern.Pattern, unit *pattern.Pattern) (*pattern.Pattern, error) {
	p := unit
	for i := len(ns) - 1; i >= 0; i-- {
		q, err := l.build(ns[i])
		if err != nil {
			return nil, err
		}
		p = combine(q, p)
	}
	return p, nil
}

// buildNameClass builds the name-class subtree of an element construct.
// Only exact names (and their choice/except compositions) are
// meaningfully supported; a name-class match is decided by deriving the
// class against an NsName token and then an LnName token.
func (l *Loader) buildNameClass(n *node) (*pattern.Pattern, error) {
	switch n.local {
	case "name":
		return l.patterns.Group(l.patterns.NsName(n.attr("ns")), l.patterns.LnName(strings.TrimSpace(n.text))), nil
	case "anyName":
		return l.withExcept(l.patterns.AnyName(), n.children)
	case "nsName":
		return l.withExcept(l.patterns.NsName(n.attr("ns")), n.children)
	case "choice":
		p := l.patterns.NotAllowed()
		for i := len(n.children) - 1; i >= 0; i-- {
			q, err := l.buildNameClass(n.children[i])
			if err != nil {
				return nil, err
			}
			p = l.patterns.Choice(q, p)
		}
		return p, nil
	}
	return nil, serr.New(serr.KindSchemaUnknownElement, "unknown name-class construct %v", n.local)
}

func (l *Loader) withExcept(base *pattern.Pattern, children []*node) (*pattern.Pattern, error) {
	for _, ch := range children {
		if ch.local != "except" {
			return nil, serr.New(serr.KindSchemaUnknownElement, "unexpected element %v under a name class", ch.local)
		}
		excluded := l.patterns.NotAllowed()
		for i := len(ch.children) - 1; i >= 0; i-- {
			q, err := l.buildNameClass(ch.children[i])
			if err != nil {
				return nil, err
			}
			excluded = l.patterns.Choice(q, excluded)
		}
		base = l.patterns.And(base, l.patterns.Not(excluded))
	}
	return base, nil
}
