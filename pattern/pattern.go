package pattern

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/xxh3"
)

type Kind int

const (
	KindNotAllowed Kind = iota
	KindEmpty
	KindText
	KindRef
	KindAttribute
	KindOneOrMore
	KindChoice
	KindGroup
	KindInterleave
	KindElement
	KindDefine
	KindAnd
	KindNot
	KindAnyName
	KindNsName
	KindLnName
)

func (k Kind) String() string {
	switch k {
	case KindNotAllowed:
		return "notAllowed"
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindRef:
		return "ref"
	case KindAttribute:
		return "attribute"
	case KindOneOrMore:
		return "oneOrMore"
	case KindChoice:
		return "choice"
	case KindGroup:
		return "group"
	case KindInterleave:
		return "interleave"
	case KindElement:
		return "element"
	case KindDefine:
		return "define"
	case KindAnd:
		return "and"
	case KindNot:
		return "not"
	case KindAnyName:
		return "anyName"
	case KindNsName:
		return "nsName"
	case KindLnName:
		return "lnName"
	}
	return fmt.Sprintf("kind(%v)", int(k))
}

// Pattern is an immutable node of the schema algebra. All patterns are
// built through a Context, which interns them: two patterns built by the
// same context are structurally equal iff they are the same pointer.
type Pattern struct {
	kind     Kind
	p1       *Pattern
	p2       *Pattern
	name     string
	ns       string
	nullable bool
	fp       xxh3.Uint128
}

func (p *Pattern) Kind() Kind {
	return p.kind
}

func (p *Pattern) P1() *Pattern {
	return p.p1
}

func (p *Pattern) P2() *Pattern {
	return p.p2
}

func (p *Pattern) Name() string {
	return p.name
}

func (p *Pattern) Ns() string {
	return p.ns
}

// Nullable reports whether the empty sequence is in the language of p.
func (p *Pattern) Nullable() bool {
	return p.nullable
}

func (p *Pattern) String() string {
	switch p.kind {
	case KindNotAllowed, KindEmpty, KindText, KindAnyName:
		return p.kind.String()
	case KindRef, KindLnName:
		return fmt.Sprintf("%v(%v)", p.kind, p.name)
	case KindNsName:
		return fmt.Sprintf("%v(%v)", p.kind, p.ns)
	case KindAttribute:
		return fmt.Sprintf("attribute(%v, %v)", p.ns, p.name)
	case KindOneOrMore, KindNot:
		return fmt.Sprintf("%v(%v)", p.kind, p.p1)
	case KindDefine:
		return fmt.Sprintf("define(%v, %v)", p.name, p.p1)
	}
	return fmt.Sprintf("%v(%v, %v)", p.kind, p.p1, p.p2)
}

// Context owns all patterns of one compile. It is not safe for
// concurrent use; compiles running in parallel need separate contexts.
type Context struct {
	interned map[xxh3.Uint128]*Pattern
}

func NewContext() *Context {
	return &Context{
		interned: map[xxh3.Uint128]*Pattern{},
	}
}

// intern returns the canonical pattern for the given shape, creating it
// on first use. The intern key is a 128-bit fingerprint of the node's
// kind, child fingerprints, and strings.
func (c *Context) intern(kind Kind, p1, p2 *Pattern, name, ns string, nullable bool) *Pattern {
	fp := fingerprint(kind, p1, p2, name, ns)
	if p, ok := c.interned[fp]; ok {
		return p
	}
	p := &Pattern{
		kind:     kind,
		p1:       p1,
		p2:       p2,
		name:     name,
		ns:       ns,
		nullable: nullable,
		fp:       fp,
	}
	c.interned[fp] = p
	return p
}

func fingerprint(kind Kind, p1, p2 *Pattern, name, ns string) xxh3.Uint128 {
	b := make([]byte, 0, 64)
	b = append(b, byte(kind))
	b = appendChild(b, p1)
	b = appendChild(b, p2)
	b = appendString(b, name)
	b = appendString(b, ns)
	return xxh3.Hash128(b)
}

func appendChild(b []byte, p *Pattern) []byte {
	if p == nil {
		return append(b, 0)
	}
	b = append(b, 1)
	var w [16]byte
	binary.LittleEndian.PutUint64(w[:8], p.fp.Hi)
	binary.LittleEndian.PutUint64(w[8:], p.fp.Lo)
	return append(b, w[:]...)
}

func appendString(b []byte, s string) []byte {
	var w [8]byte
	binary.LittleEndian.PutUint64(w[:], uint64(len(s)))
	b = append(b, w[:]...)
	return append(b, s...)
}

func (c *Context) NotAllowed() *Pattern {
	return c.intern(KindNotAllowed, nil, nil, "", "", false)
}

func (c *Context) Empty() *Pattern {
	return c.intern(KindEmpty, nil, nil, "", "", true)
}

func (c *Context) Text() *Pattern {
	return c.intern(KindText, nil, nil, "", "", true)
}

func (c *Context) Ref(name string) *Pattern {
	return c.intern(KindRef, nil, nil, name, "", false)
}

func (c *Context) Attribute(ns, name string) *Pattern {
	return c.intern(KindAttribute, nil, nil, name, ns, false)
}

func (c *Context) AnyName() *Pattern {
	return c.intern(KindAnyName, nil, nil, "", "", true)
}

func (c *Context) NsName(ns string) *Pattern {
	return c.intern(KindNsName, nil, nil, "", ns, false)
}

func (c *Context) LnName(name string) *Pattern {
	return c.intern(KindLnName, nil, nil, name, "", false)
}

func (c *Context) OneOrMore(x *Pattern) *Pattern {
	return c.intern(KindOneOrMore, x, nil, "", "", x.nullable)
}

// Choice builds a ∨ b. NotAllowed is absorbed, nested choices are
// right-associated, and an operand already present on the right spine
// is dropped.
func (c *Context) Choice(a, b *Pattern) *Pattern {
	if a.kind == KindNotAllowed {
		return b
	}
	if b.kind == KindNotAllowed {
		return a
	}
	if a.kind == KindChoice {
		return c.Choice(a.p1, c.Choice(a.p2, b))
	}
	if choiceSpineContains(b, a) {
		return b
	}
	return c.intern(KindChoice, a, b, "", "", a.nullable || b.nullable)
}

func choiceSpineContains(spine, p *Pattern) bool {
	for {
		if spine == p {
			return true
		}
		if spine.kind != KindChoice {
			return false
		}
		if spine.p1 == p {
			return true
		}
		spine = spine.p2
	}
}

// Group builds the sequence a · b. NotAllowed is absorbed, Empty is a
// unit, and nested groups are right-associated.
func (c *Context) Group(a, b *Pattern) *Pattern {
	if a.kind == KindNotAllowed || b.kind == KindNotAllowed {
		return c.NotAllowed()
	}
	if a.kind == KindEmpty {
		return b
	}
	if b.kind == KindEmpty {
		return a
	}
	if a.kind == KindGroup {
		return c.Group(a.p1, c.Group(a.p2, b))
	}
	return c.intern(KindGroup, a, b, "", "", a.nullable && b.nullable)
}

func (c *Context) Interleave(a, b *Pattern) *Pattern {
	if a.kind == KindNotAllowed || b.kind == KindNotAllowed {
		return c.NotAllowed()
	}
	if a.kind == KindEmpty {
		return b
	}
	if b.kind == KindEmpty {
		return a
	}
	if a.kind == KindInterleave {
		return c.Interleave(a.p1, c.Interleave(a.p2, b))
	}
	return c.intern(KindInterleave, a, b, "", "", a.nullable && b.nullable)
}

func (c *Context) And(a, b *Pattern) *Pattern {
	if a.kind == KindNotAllowed || b.kind == KindNotAllowed {
		return c.NotAllowed()
	}
	if a.kind == KindAnd {
		return c.And(a.p1, c.And(a.p2, b))
	}
	return c.intern(KindAnd, a, b, "", "", a.nullable && b.nullable)
}

func (c *Context) Not(x *Pattern) *Pattern {
	return c.intern(KindNot, x, nil, "", "", !x.nullable)
}

func (c *Context) Element(nameClass, body *Pattern) *Pattern {
	return c.intern(KindElement, nameClass, body, "", "", body.nullable)
}

func (c *Context) Define(name string, x *Pattern) *Pattern {
	if x.kind == KindNotAllowed {
		return x
	}
	return c.intern(KindDefine, x, nil, name, "", x.nullable)
}

func (c *Context) Optional(x *Pattern) *Pattern {
	return c.Choice(c.Empty(), x)
}
