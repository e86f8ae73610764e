package object

import "fmt"

// MessageNotUnderstoodError reports that no primitive, SON method,
// value-family selector, or bridge entry matched a send.
type MessageNotUnderstoodError struct {
	Receiver Value
	Selector string
}

func (e *MessageNotUnderstoodError) Error() string {
	return fmt.Sprintf("message not understood: %s does not understand %q", PrintString(e.Receiver), e.Selector)
}

// ArgumentError reports an arity or value-kind mismatch in a send or
// primitive invocation.
type ArgumentError struct {
	Reason string
}

func (e *ArgumentError) Error() string {
	return "argument error: " + e.Reason
}

// SonError covers every other semantic failure: divide-by-zero, "^"
// outside a method context, a local return inside a block, a malformed
// method definition or block literal, an unknown primitive tag, or a
// bridge failure.
type SonError struct {
	Reason string
}

func (e *SonError) Error() string {
	return "error: " + e.Reason
}

// LocalReturn and NonLocalReturn are control signals, not errors: they
// implement the error interface only so they can travel the same
// multi-return channel Go functions already use, but every frame except
// the matching activation must propagate them untouched rather than
// treat them as failures.

// LocalReturn carries a "^" evaluated directly inside the method
// activation it returns from.
type LocalReturn struct {
	Value Value
}

func (r *LocalReturn) Error() string {
	return "local return (uncaught)"
}

// NonLocalReturn carries a "^" evaluated inside a block, targeting the
// block's HomeContext method activation. Only the activation whose
// Environment pointer equals Target catches it; every other frame,
// including other method activations and blocks, must re-raise it
// unchanged.
type NonLocalReturn struct {
	Value  Value
	Target *Environment
}

func (r *NonLocalReturn) Error() string {
	return "non-local return (uncaught)"
}

// PrintString renders a minimal, generic representation of v, used as
// the fallback Object>>printString and in error messages. Primitive
// printString implementations for specific kinds may format more
// precisely; this is the shared baseline.
func PrintString(v Value) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(x)
	case string:
		return x
	case Symbol:
		return "#" + x.Name
	case *Array:
		s := "("
		for i, e := range x.Elements {
			if i > 0 {
				s += " "
			}
			s += PrintString(e)
		}
		return s + ")"
	case *Block:
		return "a BlockClosure"
	case *Bridge:
		return "a Bridge"
	case *Environment:
		return "a ClassTable"
	case *Object:
		return "an Object"
	default:
		return fmt.Sprintf("%v", x)
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
