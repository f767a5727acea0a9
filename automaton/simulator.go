package automaton

import (
	serr "github.com/nihei9/srng/error"
	"github.com/nihei9/srng/pattern"
	"github.com/nihei9/srng/spec"
)

// State is a node of the per-element automaton. AttrStates is keyed by
// attribute name, ChildStates by define name; NullableDefines holds the
// defines the represented content has already satisfied.
type State struct {
	AttrStates      map[string]*State
	ChildStates     map[string]*State
	NullableDefines map[string]struct{}
	IsNullable      bool

	num spec.StateID
}

func newState(nullable bool) *State {
	return &State{
		AttrStates:      map[string]*State{},
		ChildStates:     map[string]*State{},
		NullableDefines: map[string]struct{}{},
		IsNullable:      nullable,
	}
}

// ID returns the dense state ID. It is valid only after the builder has
// numbered all states.
func (s *State) ID() spec.StateID {
	return s.num
}

// AttrKey encodes an attribute name for the transition table:
// "{ns}local" when the namespace is nonempty, bare "local" otherwise.
func AttrKey(ns, local string) string {
	if ns != "" {
		return "{" + ns + "}" + local
	}
	return local
}

// Simulator explores the states reachable from element-content patterns
// by derivation. It owns the pattern→state map and the processed set of
// one compile; states are shared across elements.
type Simulator struct {
	patterns      *pattern.Context
	pattern2State map[*pattern.Pattern]*State

	// seen marks patterns whose outgoing transitions are already
	// computed. A pattern is explored against the leaf set of the first
	// simulation that reaches it.
	seen map[*pattern.Pattern]struct{}

	// states lists every state in creation order. The builder assigns
	// dense IDs in this order.
	states []*State
}

func NewSimulator(ctx *pattern.Context) *Simulator {
	return &Simulator{
		patterns:      ctx,
		pattern2State: map[*pattern.Pattern]*State{},
		seen:          map[*pattern.Pattern]struct{}{},
	}
}

func (s *Simulator) stateOf(p *pattern.Pattern) *State {
	if st, ok := s.pattern2State[p]; ok {
		return st
	}
	st := newState(p.Nullable())
	s.pattern2State[p] = st
	s.states = append(s.states, st)
	return st
}

// Simulate returns the state representing p, exploring every state
// reachable from p via attribute and ref derivatives. Derivatives are
// taken against the fixed leaf set of p; transitions that derive to
// NotAllowed are dropped.
func (s *Simulator) Simulate(p *pattern.Pattern) (*State, error) {
	if st, ok := s.pattern2State[p]; ok {
		return st, nil
	}
	root := s.stateOf(p)

	leaves := pattern.Leaves(p)
	unchecked := []*pattern.Pattern{p}
	for len(unchecked) > 0 {
		var nextUnchecked []*pattern.Pattern
		for _, current := range unchecked {
			if _, ok := s.seen[current]; ok {
				continue
			}
			s.seen[current] = struct{}{}

			st, ok := s.pattern2State[current]
			if !ok {
				return nil, serr.New(serr.KindInternalInvariantViolated, "pattern %v reached the work queue without a state", current)
			}
			for _, name := range pattern.NullableDefines(current) {
				st.NullableDefines[name] = struct{}{}
			}

			for _, leaf := range leaves {
				derived, err := s.patterns.Deriv(current, leaf)
				if err != nil {
					return nil, err
				}
				if derived.Kind() == pattern.KindNotAllowed {
					continue
				}
				dst, ok := s.pattern2State[derived]
				if !ok {
					dst = s.stateOf(derived)
					nextUnchecked = append(nextUnchecked, derived)
				}
				switch leaf.Kind() {
				case pattern.KindAttribute:
					st.AttrStates[AttrKey(leaf.Ns(), leaf.Name())] = dst
				case pattern.KindRef:
					st.ChildStates[leaf.Name()] = dst
				}
			}
		}
		unchecked = nextUnchecked
	}

	return root, nil
}
