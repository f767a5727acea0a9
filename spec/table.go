package spec

import "strconv"

// StateID represents an ID of a state of a compiled validation table.
type StateID int

const (
	// StateIDNil represents an empty entry of a transition table.
	// States[StateIDNil] is always null in the emitted artifact.
	StateIDNil = StateID(0)

	// StateIDMin is the minimum value of the state ID. All valid state
	// IDs are represented as sequential numbers starting from this value.
	StateIDMin = StateID(1)
)

func (id StateID) Int() int {
	return int(id)
}

func (id StateID) String() string {
	return strconv.Itoa(int(id))
}

// State is one row of the validation table.
//
// Attributes is keyed by attribute name ("{ns}local" for namespaced
// attributes, bare "local" otherwise). ChildElems is keyed by the
// stringified start-state ID of the child element, not by its tag: the
// validator learns which defines a child satisfied from the child's
// start state and transitions on that.
type State struct {
	Attributes map[string]StateID `json:"Attributes"`
	IsNullable bool               `json:"IsNullable"`
	ChildElems map[string]StateID `json:"ChildElems"`
}

// CompiledSchema is the artifact the compiler emits.
//
// NameMap maps namespace → local name → start-state ID. States is a
// dense array indexed by state ID; States[0] is null.
type CompiledSchema struct {
	NameMap map[string]map[string]StateID `json:"NameMap"`
	States  []*State                      `json:"States"`
}
