package pattern

import (
	"errors"
	"testing"

	serr "github.com/nihei9/srng/error"
)

func TestContext_Deriv(t *testing.T) {
	c := NewContext()
	refA := c.Ref("A")
	refB := c.Ref("B")
	attrA := c.Attribute("", "a")
	attrB := c.Attribute("", "b")

	tests := []struct {
		caption string
		pattern *Pattern
		token   *Pattern
		want    *Pattern
	}{
		{
			caption: "empty consumes nothing",
			pattern: c.Empty(),
			token:   refA,
			want:    c.NotAllowed(),
		},
		{
			caption: "text consumes nothing",
			pattern: c.Text(),
			token:   refA,
			want:    c.NotAllowed(),
		},
		{
			caption: "notAllowed stays notAllowed",
			pattern: c.NotAllowed(),
			token:   refA,
			want:    c.NotAllowed(),
		},
		{
			caption: "ref consumes its own name",
			pattern: refA,
			token:   refA,
			want:    c.Empty(),
		},
		{
			caption: "ref rejects another name",
			pattern: refA,
			token:   refB,
			want:    c.NotAllowed(),
		},
		{
			caption: "attribute matches on the local name only",
			pattern: c.Attribute("urn:x", "a"),
			token:   c.Attribute("urn:y", "a"),
			want:    c.Empty(),
		},
		{
			caption: "attribute rejects another local name",
			pattern: attrA,
			token:   attrB,
			want:    c.NotAllowed(),
		},
		{
			caption: "lnName consumes an equal local name",
			pattern: c.LnName("x"),
			token:   c.LnName("x"),
			want:    c.Empty(),
		},
		{
			caption: "lnName rejects another local name",
			pattern: c.LnName("x"),
			token:   c.LnName("y"),
			want:    c.NotAllowed(),
		},
		{
			caption: "nsName consumes an equal namespace",
			pattern: c.NsName("x"),
			token:   c.NsName("x"),
			want:    c.Empty(),
		},
		{
			caption: "nsName rejects another namespace",
			pattern: c.NsName("x"),
			token:   c.NsName("y"),
			want:    c.NotAllowed(),
		},
		{
			caption: "anyName absorbs every token",
			pattern: c.AnyName(),
			token:   c.LnName("x"),
			want:    c.AnyName(),
		},
		{
			caption: "oneOrMore unrolls once",
			pattern: c.OneOrMore(refA),
			token:   refA,
			want:    c.Optional(c.OneOrMore(refA)),
		},
		{
			caption: "choice derives both arms",
			pattern: c.Choice(refA, refB),
			token:   refB,
			want:    c.Empty(),
		},
		{
			caption: "group derives the head",
			pattern: c.Group(refA, refB),
			token:   refA,
			want:    refB,
		},
		{
			caption: "group does not skip a non-nullable head",
			pattern: c.Group(refA, refB),
			token:   refB,
			want:    c.NotAllowed(),
		},
		{
			caption: "group skips a nullable head",
			pattern: c.Group(c.Optional(refA), refB),
			token:   refB,
			want:    c.Empty(),
		},
		{
			caption: "group consumes attributes on either side",
			pattern: c.Group(attrA, attrB),
			token:   attrB,
			want:    attrA,
		},
		{
			caption: "interleave consumes on either side",
			pattern: c.Interleave(refA, refB),
			token:   refB,
			want:    refA,
		},
		{
			caption: "define wraps the derived body",
			pattern: c.Define("D", refA),
			token:   refA,
			want:    c.Define("D", c.Empty()),
		},
		{
			caption: "define collapses when the body dies",
			pattern: c.Define("D", refA),
			token:   refB,
			want:    c.NotAllowed(),
		},
		{
			caption: "not wraps the derived body",
			pattern: c.Not(refA),
			token:   refA,
			want:    c.Not(c.Empty()),
		},
		{
			caption: "and derives both arms",
			pattern: c.And(c.AnyName(), c.Not(c.LnName("x"))),
			token:   c.LnName("x"),
			want:    c.And(c.AnyName(), c.Not(c.Empty())),
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			got, err := c.Deriv(tt.pattern, tt.token)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("want: %v, got: %v", tt.want, got)
			}
		})
	}
}

func TestContext_Deriv_element(t *testing.T) {
	c := NewContext()
	p := c.Element(c.AnyName(), c.Empty())
	_, err := c.Deriv(p, c.Ref("A"))
	if err == nil {
		t.Fatalf("deriving an element must fail")
	}
	var cerr *serr.CompileError
	if !errors.As(err, &cerr) || cerr.Kind != serr.KindInternalInvariantViolated {
		t.Fatalf("want %v, got %v", serr.KindInternalInvariantViolated, err)
	}
}

// The derivative of p by a one-token sequence ⟨c⟩ is nullable exactly
// when ⟨c⟩ is in the language of p.
func TestContext_Deriv_nullability(t *testing.T) {
	c := NewContext()
	refA := c.Ref("A")
	refB := c.Ref("B")

	tests := []struct {
		caption string
		pattern *Pattern
		token   *Pattern
		inLang  bool
	}{
		{
			caption: "single ref accepts itself",
			pattern: refA,
			token:   refA,
			inLang:  true,
		},
		{
			caption: "single ref rejects another",
			pattern: refA,
			token:   refB,
			inLang:  false,
		},
		{
			caption: "sequence of two is not satisfied by one",
			pattern: c.Group(refA, refB),
			token:   refA,
			inLang:  false,
		},
		{
			caption: "optional tail",
			pattern: c.Group(refA, c.Optional(refB)),
			token:   refA,
			inLang:  true,
		},
		{
			caption: "oneOrMore accepts a single occurrence",
			pattern: c.OneOrMore(refA),
			token:   refA,
			inLang:  true,
		},
		{
			caption: "interleave needs both sides",
			pattern: c.Interleave(refA, refB),
			token:   refA,
			inLang:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			got, err := c.Deriv(tt.pattern, tt.token)
			if err != nil {
				t.Fatal(err)
			}
			if got.Nullable() != tt.inLang {
				t.Fatalf("want: %v, got: %v (derivative: %v)", tt.inLang, got.Nullable(), got)
			}
		})
	}
}
