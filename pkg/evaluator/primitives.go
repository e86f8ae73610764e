package evaluator

import (
	"unicode/utf8"

	"github.com/kristofer/son/pkg/object"
)

// dispatchPrimitive routes tag to its fixed implementation. The table
// is closed and exhaustive; an unrecognised tag — which can only reach
// here through a corrupted MethodImpl — is a SonError, never a silent
// no-op.
func dispatchPrimitive(tag object.PrimitiveTag, receiver object.Value, args []object.Value, env *object.Environment) (object.Value, error) {
	switch tag {
	case object.PrimNumberAdd:
		return numberBinOp(receiver, args, func(a, b float64) (object.Value, error) { return a + b, nil })
	case object.PrimNumberSubtract:
		return numberBinOp(receiver, args, func(a, b float64) (object.Value, error) { return a - b, nil })
	case object.PrimNumberMultiply:
		return numberBinOp(receiver, args, func(a, b float64) (object.Value, error) { return a * b, nil })
	case object.PrimNumberDivide:
		return numberBinOp(receiver, args, func(a, b float64) (object.Value, error) {
			if b == 0 {
				return nil, &object.SonError{Reason: "division by zero"}
			}
			return a / b, nil
		})
	case object.PrimNumberLess:
		return numberCompare(receiver, args, func(a, b float64) bool { return a < b })
	case object.PrimNumberGreater:
		return numberCompare(receiver, args, func(a, b float64) bool { return a > b })
	case object.PrimNumberLessEqual:
		return numberCompare(receiver, args, func(a, b float64) bool { return a <= b })
	case object.PrimNumberGreaterEqual:
		return numberCompare(receiver, args, func(a, b float64) bool { return a >= b })
	case object.PrimNumberEquals:
		return numberCompare(receiver, args, func(a, b float64) bool { return a == b })
	case object.PrimNumberToString:
		return object.PrintString(receiver), nil
	case object.PrimNumberTimesRepeat:
		return numberTimesRepeat(receiver, args)

	case object.PrimObjectEquals:
		return valuesEqual(receiver, arg0(args)), nil
	case object.PrimObjectNotEquals:
		return !valuesEqual(receiver, arg0(args)), nil
	case object.PrimObjectIdentityEquals:
		return valuesIdentical(receiver, arg0(args)), nil
	case object.PrimObjectIdentityNotEq:
		return !valuesIdentical(receiver, arg0(args)), nil
	case object.PrimObjectClass:
		return object.ResolveClass(receiver, env)
	case object.PrimObjectPrintString:
		return object.PrintString(receiver), nil

	case object.PrimBooleanAnd:
		return boolBinOp(receiver, args, func(a, b bool) bool { return a && b })
	case object.PrimBooleanOr:
		return boolBinOp(receiver, args, func(a, b bool) bool { return a || b })
	case object.PrimBooleanNot:
		b, err := asBool(receiver)
		if err != nil {
			return nil, err
		}
		return !b, nil
	case object.PrimBooleanIfTrue:
		return booleanIfTrue(receiver, args)
	case object.PrimBooleanIfFalse:
		return booleanIfFalse(receiver, args)
	case object.PrimBooleanIfTrueFalse:
		return booleanIfTrueIfFalse(receiver, args)

	case object.PrimStringConcatenate:
		a, err := asString(receiver)
		if err != nil {
			return nil, err
		}
		b, err := asString(arg0(args))
		if err != nil {
			return nil, err
		}
		return a + b, nil
	case object.PrimStringLength:
		s, err := asString(receiver)
		if err != nil {
			return nil, err
		}
		return float64(utf8.RuneCountInString(s)), nil
	case object.PrimStringEquals:
		a, err := asString(receiver)
		if err != nil {
			return nil, err
		}
		b, err := asString(arg0(args))
		if err != nil {
			return nil, err
		}
		return a == b, nil

	case object.PrimSymbolToString:
		sym, ok := receiver.(object.Symbol)
		if !ok {
			return nil, &object.ArgumentError{Reason: "toString requires a Symbol receiver"}
		}
		return sym.Name, nil
	case object.PrimSymbolEquals:
		sym, ok := receiver.(object.Symbol)
		if !ok {
			return nil, &object.ArgumentError{Reason: "equals requires a Symbol receiver"}
		}
		other, ok := arg0(args).(object.Symbol)
		return ok && other.Name == sym.Name, nil

	case object.PrimNullIfNil:
		return nullIfNil(args)
	case object.PrimNullIfNotNil:
		return nullIfNotNil(args)
	case object.PrimNullIfNilIfNotNil:
		return nullIfNilIfNotNil(args)

	case object.PrimBlockWhileTrue:
		return blockWhileLoop(receiver, args, true)
	case object.PrimBlockWhileFalse:
		return blockWhileLoop(receiver, args, false)

	case object.PrimArrayDo:
		return arrayDo(receiver, args)
	case object.PrimArrayAt:
		return arrayAt(receiver, args)
	case object.PrimArrayAtPut:
		return arrayAtPut(receiver, args)
	case object.PrimArraySize:
		arr, err := asArray(receiver)
		if err != nil {
			return nil, err
		}
		return float64(len(arr.Elements)), nil
	}

	return nil, &object.SonError{Reason: "unknown primitive tag: " + string(tag)}
}

func arg0(args []object.Value) object.Value {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

func asNumber(v object.Value) (float64, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, &object.ArgumentError{Reason: "expected a Number"}
	}
	return f, nil
}

func asString(v object.Value) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &object.ArgumentError{Reason: "expected a String"}
	}
	return s, nil
}

func asBool(v object.Value) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, &object.ArgumentError{Reason: "expected a Boolean"}
	}
	return b, nil
}

func asBlock(v object.Value) (*object.Block, error) {
	b, ok := v.(*object.Block)
	if !ok {
		return nil, &object.ArgumentError{Reason: "expected a Block"}
	}
	return b, nil
}

func asArray(v object.Value) (*object.Array, error) {
	a, ok := v.(*object.Array)
	if !ok {
		return nil, &object.ArgumentError{Reason: "expected an Array"}
	}
	return a, nil
}

func numberBinOp(receiver object.Value, args []object.Value, fn func(a, b float64) (object.Value, error)) (object.Value, error) {
	a, err := asNumber(receiver)
	if err != nil {
		return nil, err
	}
	b, err := asNumber(arg0(args))
	if err != nil {
		return nil, err
	}
	return fn(a, b)
}

func numberCompare(receiver object.Value, args []object.Value, fn func(a, b float64) bool) (object.Value, error) {
	a, err := asNumber(receiver)
	if err != nil {
		return nil, err
	}
	b, err := asNumber(arg0(args))
	if err != nil {
		return nil, err
	}
	return fn(a, b), nil
}

func numberTimesRepeat(receiver object.Value, args []object.Value) (object.Value, error) {
	n, err := asNumber(receiver)
	if err != nil {
		return nil, err
	}
	block, err := asBlock(arg0(args))
	if err != nil {
		return nil, err
	}
	if n < 0 || n != float64(int64(n)) {
		return nil, &object.ArgumentError{Reason: "timesRepeat: requires a non-negative integer receiver"}
	}
	for i := int64(0); i < int64(n); i++ {
		if _, err := invokeBlock(block, nil); err != nil {
			return nil, err
		}
	}
	return receiver, nil
}

func boolBinOp(receiver object.Value, args []object.Value, fn func(a, b bool) bool) (object.Value, error) {
	a, err := asBool(receiver)
	if err != nil {
		return nil, err
	}
	b, err := asBool(arg0(args))
	if err != nil {
		return nil, err
	}
	return fn(a, b), nil
}

func booleanIfTrue(receiver object.Value, args []object.Value) (object.Value, error) {
	cond, err := asBool(receiver)
	if err != nil {
		return nil, err
	}
	block, err := asBlock(arg0(args))
	if err != nil {
		return nil, err
	}
	if !cond {
		return nil, nil
	}
	return invokeBlock(block, nil)
}

func booleanIfFalse(receiver object.Value, args []object.Value) (object.Value, error) {
	cond, err := asBool(receiver)
	if err != nil {
		return nil, err
	}
	block, err := asBlock(arg0(args))
	if err != nil {
		return nil, err
	}
	if cond {
		return nil, nil
	}
	return invokeBlock(block, nil)
}

func booleanIfTrueIfFalse(receiver object.Value, args []object.Value) (object.Value, error) {
	cond, err := asBool(receiver)
	if err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, &object.ArgumentError{Reason: "ifTrue:ifFalse: requires two block arguments"}
	}
	trueBlock, err := asBlock(args[0])
	if err != nil {
		return nil, err
	}
	falseBlock, err := asBlock(args[1])
	if err != nil {
		return nil, err
	}
	if cond {
		return invokeBlock(trueBlock, nil)
	}
	return invokeBlock(falseBlock, nil)
}

func nullIfNil(args []object.Value) (object.Value, error) {
	block, err := asBlock(arg0(args))
	if err != nil {
		return nil, err
	}
	return invokeBlock(block, nil)
}

func nullIfNotNil(args []object.Value) (object.Value, error) {
	if _, err := asBlock(arg0(args)); err != nil {
		return nil, err
	}
	return nil, nil
}

func nullIfNilIfNotNil(args []object.Value) (object.Value, error) {
	if len(args) != 2 {
		return nil, &object.ArgumentError{Reason: "ifNil:ifNotNil: requires two block arguments"}
	}
	nilBlock, err := asBlock(args[0])
	if err != nil {
		return nil, err
	}
	if _, err := asBlock(args[1]); err != nil {
		return nil, err
	}
	return invokeBlock(nilBlock, nil)
}

// blockWhileLoop implements the whileTrue:/whileFalse: loop: repeatedly
// invoke the receiver condition block while it answers wantTrue,
// invoking the body block each time it does. Per Smalltalk
// convention the loop itself answers nil.
func blockWhileLoop(receiver object.Value, args []object.Value, wantTrue bool) (object.Value, error) {
	condBlock, err := asBlock(receiver)
	if err != nil {
		return nil, err
	}
	bodyBlock, err := asBlock(arg0(args))
	if err != nil {
		return nil, err
	}
	for {
		condVal, err := invokeBlock(condBlock, nil)
		if err != nil {
			return nil, err
		}
		cond, err := asBool(condVal)
		if err != nil {
			return nil, err
		}
		if cond != wantTrue {
			return nil, nil
		}
		if _, err := invokeBlock(bodyBlock, nil); err != nil {
			return nil, err
		}
	}
}

func arrayDo(receiver object.Value, args []object.Value) (object.Value, error) {
	arr, err := asArray(receiver)
	if err != nil {
		return nil, err
	}
	block, err := asBlock(arg0(args))
	if err != nil {
		return nil, err
	}
	for _, elem := range arr.Elements {
		if _, err := invokeBlock(block, []object.Value{elem}); err != nil {
			return nil, err
		}
	}
	return receiver, nil
}

func arrayAt(receiver object.Value, args []object.Value) (object.Value, error) {
	arr, err := asArray(receiver)
	if err != nil {
		return nil, err
	}
	idx, err := arrayIndex(arr, arg0(args))
	if err != nil {
		return nil, err
	}
	return arr.Elements[idx], nil
}

func arrayAtPut(receiver object.Value, args []object.Value) (object.Value, error) {
	arr, err := asArray(receiver)
	if err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, &object.ArgumentError{Reason: "at:put: requires an index and a value"}
	}
	idx, err := arrayIndex(arr, args[0])
	if err != nil {
		return nil, err
	}
	arr.Elements[idx] = args[1]
	return args[1], nil
}

// arrayIndex converts a 1-based SON index into a 0-based Go slice
// index, bounds-checked against arr.
func arrayIndex(arr *object.Array, v object.Value) (int, error) {
	n, err := asNumber(v)
	if err != nil {
		return 0, err
	}
	idx := int(n)
	if float64(idx) != n || idx < 1 || idx > len(arr.Elements) {
		return 0, &object.ArgumentError{Reason: "array index out of bounds"}
	}
	return idx - 1, nil
}

// valuesEqual implements Object>>= : structural equality for primitive
// kinds and symbols, identity for everything else (there is no
// user-overridable equality in the closed primitive table).
func valuesEqual(a, b object.Value) bool {
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	case object.Symbol:
		bv, ok := b.(object.Symbol)
		return ok && av.Name == bv.Name
	default:
		return valuesIdentical(a, b)
	}
}

// valuesIdentical implements Object>>== : identity comparison. Composite
// values compare by Go pointer identity; primitive kinds and symbols
// have no separate identity from their value (invariant 5).
func valuesIdentical(a, b object.Value) bool {
	switch av := a.(type) {
	case *object.Array:
		bv, ok := b.(*object.Array)
		return ok && av == bv
	case *object.Object:
		bv, ok := b.(*object.Object)
		return ok && av == bv
	case *object.Block:
		bv, ok := b.(*object.Block)
		return ok && av == bv
	case *object.Bridge:
		bv, ok := b.(*object.Bridge)
		return ok && av == bv
	case *object.Environment:
		bv, ok := b.(*object.Environment)
		return ok && av == bv
	default:
		return valuesEqual(a, b)
	}
}
