package evaluator

import (
	"strconv"
	"strings"

	"github.com/kristofer/son/pkg/object"
)

// SendMessage implements the core message-send procedure: bridge
// dispatch, block value-family invocation, then class-based method
// lookup routing to either a primitive or a fresh SON method
// activation.
func SendMessage(receiver object.Value, selector string, args []object.Value, env *object.Environment) (object.Value, error) {
	if bridge, ok := receiver.(*object.Bridge); ok {
		fn, found := bridge.Lookup(selector)
		if !found {
			return nil, &object.MessageNotUnderstoodError{Receiver: receiver, Selector: selector}
		}
		v, err := fn(args, env)
		if err != nil {
			return nil, &object.SonError{Reason: "bridge failure: " + err.Error()}
		}
		return v, nil
	}

	if block, ok := receiver.(*object.Block); ok {
		if arity, isValueFamily := valueSelectorArity(selector); isValueFamily {
			if arity != len(args) {
				return nil, &object.ArgumentError{Reason: "block invoked with wrong number of arguments for " + selector}
			}
			return invokeBlock(block, args)
		}
	}

	class, err := object.ResolveClass(receiver, env)
	if err != nil {
		return nil, err
	}

	impl, found := lookupMethod(class, selector)
	if !found {
		return nil, &object.MessageNotUnderstoodError{Receiver: receiver, Selector: selector}
	}

	if impl.IsPrimitive {
		return dispatchPrimitive(impl.Primitive, receiver, args, env)
	}

	return executeSonMethod(impl, receiver, args, env)
}

// valueSelectorArity reports whether selector is one of the block
// invocation protocol's "value" family — value, value:, value:value:,
// … — and, if so, the argument count it expects.
func valueSelectorArity(selector string) (int, bool) {
	if selector == "value" {
		return 0, true
	}
	if !strings.HasPrefix(selector, "value:") {
		return 0, false
	}
	arity := strings.Count(selector, ":")
	if selector == strings.Repeat("value:", arity) {
		return arity, true
	}
	return 0, false
}

// executeSonMethod runs impl's body in a fresh method activation bound
// to receiver.
func executeSonMethod(impl *object.MethodImpl, receiver object.Value, args []object.Value, env *object.Environment) (object.Value, error) {
	if len(impl.ArgNames) != len(args) {
		return nil, &object.ArgumentError{Reason: "method " + impl.Selector + " expects " + strconv.Itoa(len(impl.ArgNames)) + " arguments"}
	}

	methodEnv := env.CreateChild(object.ChildOptions{IsMethodContext: true, MethodSelf: receiver})
	for i, name := range impl.ArgNames {
		methodEnv.Set(name, args[i])
	}

	_, err := runBody(impl.Body, methodEnv)
	if err == nil {
		return receiver, nil
	}

	if lr, ok := err.(*object.LocalReturn); ok {
		return lr.Value, nil
	}
	if nlr, ok := err.(*object.NonLocalReturn); ok && nlr.Target == methodEnv {
		return nlr.Value, nil
	}
	return nil, err
}

// invokeBlock runs block's body in a fresh child of its lexical scope.
// A local return inside a block body is an error — only a method
// activation may catch LocalReturn. A non-local return targeted
// elsewhere propagates unchanged.
func invokeBlock(block *object.Block, args []object.Value) (object.Value, error) {
	if len(block.ArgNames) != len(args) {
		return nil, &object.ArgumentError{Reason: "block invoked with wrong number of arguments"}
	}

	blockEnv := block.LexicalScope.CreateChild(object.ChildOptions{})
	for i, name := range block.ArgNames {
		blockEnv.Set(name, args[i])
	}

	result, err := runBody(block.Body, blockEnv)
	if err == nil {
		return result, nil
	}

	if _, ok := err.(*object.LocalReturn); ok {
		return nil, &object.SonError{Reason: "^ used as a local return inside a block"}
	}
	if _, ok := err.(*object.NonLocalReturn); ok && block.HomeContext == nil {
		return nil, &object.SonError{Reason: "non-local return from a block with no home context"}
	}
	return nil, err
}

// runBody evaluates body — expected to be a JSON array of statement AST
// nodes — as a sequence, per the "evaluate the body as a sequence"
// wording shared by method and block invocation. Each statement is
// evaluated through the full grammar; only the outermost wrapping is
// forced to mean "list of statements" rather than re-classified as a
// send.
func runBody(body any, env *object.Environment) (object.Value, error) {
	elems, ok := body.([]any)
	if !ok {
		return nil, &object.SonError{Reason: "malformed body: expected an array of statements"}
	}
	var result object.Value
	for _, stmt := range elems {
		v, err := Evaluate(stmt, env)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}
