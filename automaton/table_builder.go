package automaton

import (
	serr "github.com/nihei9/srng/error"
	"github.com/nihei9/srng/pattern"
	"github.com/nihei9/srng/schema"
	"github.com/nihei9/srng/spec"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Builder produces the compiled validation tables for a schema.
type Builder struct {
	patterns *pattern.Context
	sim      *Simulator
	defs     []*schema.Define
}

func NewBuilder(ctx *pattern.Context, defs []*schema.Define) *Builder {
	return &Builder{
		patterns: ctx,
		sim:      NewSimulator(ctx),
		defs:     defs,
	}
}

// elementDef is a define whose pattern is a single element construct,
// split into its parts. The simple syntax guarantees this shape; defines
// of any other shape never match a tag and are skipped.
type elementDef struct {
	name      string
	nameClass *pattern.Pattern
	body      *pattern.Pattern
}

// Build compiles the schema into its two tables. For every (namespace,
// local name) pair occurring in the schema's element name classes it
// unions the bodies of all defines whose name class admits the pair,
// simulates the union, and finally rewrites child transitions to be
// keyed by child start-state IDs.
func (b *Builder) Build() (*spec.CompiledSchema, error) {
	var elems []*elementDef
	for _, d := range b.defs {
		if d.Pattern.Kind() != pattern.KindElement {
			continue
		}
		elems = append(elems, &elementDef{
			name:      d.Name,
			nameClass: d.Pattern.P1(),
			body:      d.Pattern.P2(),
		})
	}

	namespaces, locals := b.collectNames(elems)

	nameMap := map[string]map[string]*State{}
	for _, ns := range namespaces {
		for _, local := range locals {
			var matched []*elementDef
			for _, e := range elems {
				ok, err := b.matches(e.nameClass, ns, local)
				if err != nil {
					return nil, err
				}
				if ok {
					matched = append(matched, e)
				}
			}
			if len(matched) == 0 {
				continue
			}
			union := b.patterns.NotAllowed()
			for i := len(matched) - 1; i >= 0; i-- {
				union = b.patterns.Choice(b.patterns.Define(matched[i].name, matched[i].body), union)
			}
			st, err := b.sim.Simulate(union)
			if err != nil {
				return nil, err
			}
			m, ok := nameMap[ns]
			if !ok {
				m = map[string]*State{}
				nameMap[ns] = m
			}
			m[local] = st
		}
	}

	for i, st := range b.sim.states {
		st.num = spec.StateIDMin + spec.StateID(i)
	}

	// defNull maps a define name to the IDs of all states that have the
	// define nullable; any such state is evidence that a child element
	// satisfied the define.
	defNull := map[string][]spec.StateID{}
	for _, st := range b.sim.states {
		for name := range st.NullableDefines {
			defNull[name] = append(defNull[name], st.num)
		}
	}

	states := make([]*spec.State, len(b.sim.states)+1)
	for _, st := range b.sim.states {
		out := &spec.State{
			Attributes: map[string]spec.StateID{},
			IsNullable: st.IsNullable,
			ChildElems: map[string]spec.StateID{},
		}
		for key, dst := range st.AttrStates {
			out.Attributes[key] = dst.num
		}
		childDefs := maps.Keys(st.ChildStates)
		slices.Sort(childDefs)
		for _, name := range childDefs {
			succ := st.ChildStates[name]
			for _, childID := range defNull[name] {
				key := childID.String()
				if prev, ok := out.ChildElems[key]; ok && prev != succ.num {
					return nil, serr.New(serr.KindAmbiguousChildTransition, "child state %v transitions to both state %v and state %v in state %v", key, prev, succ.num, st.num)
				}
				out.ChildElems[key] = succ.num
			}
		}
		states[st.num] = out
	}

	nm := map[string]map[string]spec.StateID{}
	for ns, byLocal := range nameMap {
		m := map[string]spec.StateID{}
		for local, st := range byLocal {
			m[local] = st.num
		}
		nm[ns] = m
	}

	return &spec.CompiledSchema{
		NameMap: nm,
		States:  states,
	}, nil
}

// collectNames gathers the namespaces and local names occurring in the
// element name classes, sorted for deterministic exploration order.
func (b *Builder) collectNames(elems []*elementDef) ([]string, []string) {
	nsSet := map[string]struct{}{}
	localSet := map[string]struct{}{}
	for _, e := range elems {
		pattern.VisitSubpatterns(e.nameClass, func(q *pattern.Pattern) {
			switch q.Kind() {
			case pattern.KindNsName:
				nsSet[q.Ns()] = struct{}{}
			case pattern.KindLnName:
				localSet[q.Name()] = struct{}{}
			}
		})
	}
	namespaces := maps.Keys(nsSet)
	slices.Sort(namespaces)
	locals := maps.Keys(localSet)
	slices.Sort(locals)
	return namespaces, locals
}

// matches reports whether the name class admits {ns}local: consuming the
// namespace token and then the local-name token must leave a nullable
// pattern.
func (b *Builder) matches(nameClass *pattern.Pattern, ns, local string) (bool, error) {
	d, err := b.patterns.Deriv(nameClass, b.patterns.NsName(ns))
	if err != nil {
		return false, err
	}
	d, err = b.patterns.Deriv(d, b.patterns.LnName(local))
	if err != nil {
		return false, err
	}
	return d.Nullable(), nil
}
