package pattern

import (
	serr "github.com/nihei9/srng/error"
)

// Deriv returns the pattern recognizing the remaining language of p
// after consuming one token matching tok. tok is a leaf pattern: a Ref,
// an Attribute, an NsName, or an LnName.
//
// Attribute consumption compares local names only; the namespace is
// deliberately ignored.
func (c *Context) Deriv(p, tok *Pattern) (*Pattern, error) {
	switch p.kind {
	case KindNotAllowed, KindEmpty, KindText:
		return c.NotAllowed(), nil
	case KindRef:
		if tok.kind == KindRef && tok.name == p.name {
			return c.Empty(), nil
		}
		return c.NotAllowed(), nil
	case KindAttribute:
		if tok.kind == KindAttribute && tok.name == p.name {
			return c.Empty(), nil
		}
		return c.NotAllowed(), nil
	case KindLnName:
		if tok.kind == KindLnName && tok.name == p.name {
			return c.Empty(), nil
		}
		return c.NotAllowed(), nil
	case KindNsName:
		if tok.kind == KindNsName && tok.ns == p.ns {
			return c.Empty(), nil
		}
		return c.NotAllowed(), nil
	case KindAnyName:
		return c.AnyName(), nil
	case KindOneOrMore:
		d, err := c.Deriv(p.p1, tok)
		if err != nil {
			return nil, err
		}
		return c.Group(d, c.Optional(c.OneOrMore(p.p1))), nil
	case KindChoice:
		da, err := c.Deriv(p.p1, tok)
		if err != nil {
			return nil, err
		}
		db, err := c.Deriv(p.p2, tok)
		if err != nil {
			return nil, err
		}
		return c.Choice(da, db), nil
	case KindAnd:
		da, err := c.Deriv(p.p1, tok)
		if err != nil {
			return nil, err
		}
		db, err := c.Deriv(p.p2, tok)
		if err != nil {
			return nil, err
		}
		return c.And(da, db), nil
	case KindNot:
		d, err := c.Deriv(p.p1, tok)
		if err != nil {
			return nil, err
		}
		return c.Not(d), nil
	case KindInterleave:
		da, err := c.Deriv(p.p1, tok)
		if err != nil {
			return nil, err
		}
		db, err := c.Deriv(p.p2, tok)
		if err != nil {
			return nil, err
		}
		return c.Choice(c.Interleave(da, p.p2), c.Interleave(p.p1, db)), nil
	case KindDefine:
		d, err := c.Deriv(p.p1, tok)
		if err != nil {
			return nil, err
		}
		return c.Define(p.name, d), nil
	case KindGroup:
		// Attributes are unordered within a group, so either side may
		// consume them.
		if tok.kind == KindAttribute {
			da, err := c.Deriv(p.p1, tok)
			if err != nil {
				return nil, err
			}
			db, err := c.Deriv(p.p2, tok)
			if err != nil {
				return nil, err
			}
			return c.Choice(c.Group(da, p.p2), c.Group(p.p1, db)), nil
		}
		da, err := c.Deriv(p.p1, tok)
		if err != nil {
			return nil, err
		}
		if p.p1.nullable {
			db, err := c.Deriv(p.p2, tok)
			if err != nil {
				return nil, err
			}
			return c.Choice(db, c.Group(da, p.p2)), nil
		}
		return c.Group(da, p.p2), nil
	}
	return nil, serr.New(serr.KindInternalInvariantViolated, "pattern kind %v has no derivative", p.kind)
}
