package transform

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
)

// Kind classifies a generation-time diagnostic.
type Kind int

const (
	// UnsupportedParameterForm reports a receiver.
	UnsupportedParameterForm Kind = iota + 1
	// UntypedParameter reports a parameter without an explicit type.
	UntypedParameter
	// MissingReturnType reports a function with no results.
	MissingReturnType
	// UnsupportedTypeParameters reports a generic function.
	UnsupportedTypeParameters
	// IncomparableKey reports a retained parameter that cannot be part of a key.
	IncomparableKey
	// MissingBody reports a declaration without a body.
	MissingBody
	// InvalidContainer reports a container token that is not a type.
	InvalidContainer
	// NameCollision reports a generated identifier that is already taken.
	NameCollision
)

func (k Kind) String() string {
	switch k {
	case UnsupportedParameterForm:
		return "UnsupportedParameterForm"
	case UntypedParameter:
		return "UntypedParameter"
	case MissingReturnType:
		return "MissingReturnType"
	case UnsupportedTypeParameters:
		return "UnsupportedTypeParameters"
	case IncomparableKey:
		return "IncomparableKey"
	case MissingBody:
		return "MissingBody"
	case InvalidContainer:
		return "InvalidContainer"
	case NameCollision:
		return "NameCollision"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sentinel errors, one per Kind. A *Diagnostic unwraps to the sentinel of its kind.
var (
	ErrUnsupportedParameterForm  = errors.New("transform: unsupported parameter form")
	ErrUntypedParameter          = errors.New("transform: untyped parameter")
	ErrMissingReturnType         = errors.New("transform: missing return type")
	ErrUnsupportedTypeParameters = errors.New("transform: unsupported type parameters")
	ErrIncomparableKey           = errors.New("transform: incomparable key")
	ErrMissingBody               = errors.New("transform: missing function body")
	ErrInvalidContainer          = errors.New("transform: invalid container")
	ErrNameCollision             = errors.New("transform: name collision")
)

var sentinels = map[Kind]error{
	UnsupportedParameterForm:  ErrUnsupportedParameterForm,
	UntypedParameter:          ErrUntypedParameter,
	MissingReturnType:         ErrMissingReturnType,
	UnsupportedTypeParameters: ErrUnsupportedTypeParameters,
	IncomparableKey:           ErrIncomparableKey,
	MissingBody:               ErrMissingBody,
	InvalidContainer:          ErrInvalidContainer,
	NameCollision:             ErrNameCollision,
}

// Diagnostic is a generation-time failure attached to the span of the
// offending construct. It is fatal for its function only.
type Diagnostic struct {
	Kind    Kind
	Pos     token.Pos
	End     token.Pos
	Message string
}

func newDiagnostic(kind Kind, node ast.Node, msg string) *Diagnostic {
	return &Diagnostic{Kind: kind, Pos: node.Pos(), End: node.End(), Message: msg}
}

func (d *Diagnostic) Error() string {
	return d.Message
}

func (d *Diagnostic) Unwrap() error {
	return sentinels[d.Kind]
}

// Position resolves the diagnostic's start against fset.
func (d *Diagnostic) Position(fset *token.FileSet) token.Position {
	return fset.Position(d.Pos)
}

// AsDiagnostic reports whether err is, or wraps, a *Diagnostic.
func AsDiagnostic(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	ok := errors.As(err, &d)
	return d, ok
}
