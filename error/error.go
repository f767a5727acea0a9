package error

import (
	"fmt"
	"strings"
)

type Kind string

const (
	KindSchemaWrongNamespace      = Kind("SCHEMA_WRONG_NAMESPACE")
	KindSchemaUnknownElement      = Kind("SCHEMA_UNKNOWN_ELEMENT")
	KindAttrNameClassUnsupported  = Kind("ATTR_NAME_CLASS_UNSUPPORTED")
	KindAmbiguousChildTransition  = Kind("AMBIGUOUS_CHILD_TRANSITION")
	KindInternalInvariantViolated = Kind("INTERNAL_INVARIANT_VIOLATED")
	KindIOError                   = Kind("IO_ERROR")
)

func (k Kind) String() string {
	return string(k)
}

// CompileError is a fatal compile error. Every error the compiler
// surfaces to the CLI boundary carries one of the Kind constants.
type CompileError struct {
	Kind   Kind
	Detail string
	Cause  error
}

func (e *CompileError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v", e.Kind)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %v", e.Detail)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *CompileError) Unwrap() error {
	return e.Cause
}

func New(kind Kind, format string, a ...interface{}) *CompileError {
	return &CompileError{
		Kind:   kind,
		Detail: fmt.Sprintf(format, a...),
	}
}

func Wrap(kind Kind, cause error, format string, a ...interface{}) *CompileError {
	return &CompileError{
		Kind:   kind,
		Detail: fmt.Sprintf(format, a...),
		Cause:  cause,
	}
}
