package evaluator

import (
	"strings"

	"github.com/kristofer/son/pkg/object"
)

// Evaluate walks one AST node per the grammar and returns its
// value. Errors returned may be genuine failures (VariableNotFoundError,
// MessageNotUnderstoodError, ArgumentError, SonError) or control signals
// (LocalReturn, NonLocalReturn) that every non-matching caller must
// propagate untouched rather than treat as failure.
func Evaluate(node any, env *object.Environment) (object.Value, error) {
	switch n := node.(type) {
	case nil:
		return nil, nil
	case float64:
		return n, nil
	case bool:
		return n, nil
	case string:
		if strings.HasPrefix(n, "$") {
			return evalVariable(n[1:], env)
		}
		return n, nil
	case map[string]any:
		if name, ok := symbolName(n); ok {
			return object.Symbol{Name: name}, nil
		}
		return nil, &object.SonError{Reason: "malformed AST node: unrecognised object literal"}
	case []any:
		return evalArray(n, env)
	default:
		return nil, &object.SonError{Reason: "malformed AST node: unsupported literal shape"}
	}
}

// symbolName recognises the {"#": name} symbol-literal shape.
func symbolName(m map[string]any) (string, bool) {
	if len(m) != 1 {
		return "", false
	}
	v, ok := m["#"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func evalVariable(name string, env *object.Environment) (object.Value, error) {
	if name == "env" {
		return env, nil
	}
	return env.Get(name)
}

func evalArray(elems []any, env *object.Environment) (object.Value, error) {
	if len(elems) == 0 {
		return nil, nil
	}

	switch classify(elems) {
	case kindReturn:
		return evalReturn(elems, env)
	case kindDefine:
		return evalDefine(elems, env)
	case kindAssign:
		return evalAssign(elems, env)
	case kindCascade:
		return evalCascade(elems, env)
	case kindBlockLiteral:
		return evalBlockLiteral(elems, env)
	case kindMalformedBlock:
		return nil, &object.SonError{Reason: "malformed block: \"=>:\" is reserved and cannot appear as a message selector or assignment target"}
	case kindKeywordSend, kindBinarySend, kindUnarySend:
		return evalSend(elems, env)
	default:
		return evalSequence(elems, env)
	}
}

func evalReturn(elems []any, env *object.Environment) (object.Value, error) {
	val, err := Evaluate(elems[1], env)
	if err != nil {
		return nil, err
	}
	if env.IsMethodContext() {
		return nil, &object.LocalReturn{Value: val}
	}
	target := env.NearestMethodContext()
	if target == nil {
		return nil, &object.SonError{Reason: "^ used outside any method context"}
	}
	return nil, &object.NonLocalReturn{Value: val, Target: target}
}

func evalDefine(elems []any, env *object.Environment) (object.Value, error) {
	selector, ok := elems[1].(string)
	if !ok || selector == "" {
		return nil, &object.SonError{Reason: "malformed method definition: selector must be a non-empty string"}
	}
	argNames, ok := isNameList(elems[2])
	if !ok {
		return nil, &object.SonError{Reason: "malformed method definition: argNames must be an array of strings"}
	}
	expectedArity := keywordArity(selector)
	if expectedArity > 0 && expectedArity != len(argNames) {
		return nil, &object.SonError{Reason: "malformed method definition: argNames count does not match selector colon count"}
	}
	env.DefineMethod(selector, argNames, elems[3])
	return object.Symbol{Name: selector}, nil
}

func evalAssign(elems []any, env *object.Environment) (object.Value, error) {
	selector := elems[0].(string)
	name := strings.TrimSuffix(selector, ":")
	val, err := Evaluate(elems[1], env)
	if err != nil {
		return nil, err
	}
	env.Set(name, val)
	return val, nil
}

func evalCascade(elems []any, env *object.Environment) (object.Value, error) {
	receiver, err := Evaluate(elems[0], env)
	if err != nil {
		return nil, err
	}
	messages, ok := elems[2].([]any)
	if !ok {
		return nil, &object.SonError{Reason: "malformed cascade: message list must be an array"}
	}
	for _, m := range messages {
		msg, ok := m.([]any)
		if !ok || len(msg) == 0 {
			return nil, &object.SonError{Reason: "malformed cascade: each message must be a non-empty array"}
		}
		selector, ok := msg[0].(string)
		if !ok {
			return nil, &object.SonError{Reason: "malformed cascade: message selector must be a string"}
		}
		args := make([]object.Value, 0, len(msg)-1)
		for _, argNode := range msg[1:] {
			argVal, err := Evaluate(argNode, env)
			if err != nil {
				return nil, err
			}
			args = append(args, argVal)
		}
		if _, err := SendMessage(receiver, selector, args, env); err != nil {
			return nil, err
		}
	}
	return receiver, nil
}

func evalBlockLiteral(elems []any, env *object.Environment) (object.Value, error) {
	argNames, _ := isNameList(elems[0])
	return &object.Block{
		ArgNames:     argNames,
		Body:         elems[2],
		LexicalScope: env,
		HomeContext:  env.NearestMethodContext(),
	}, nil
}

// evalSend handles unary, binary, and keyword sends: [recv, selector,
// arg1, ..., argN]. The receiver and every argument are evaluated
// left-to-right before the send itself.
func evalSend(elems []any, env *object.Environment) (object.Value, error) {
	receiver, err := Evaluate(elems[0], env)
	if err != nil {
		return nil, err
	}
	selector, ok := elems[1].(string)
	if !ok {
		return nil, &object.SonError{Reason: "malformed send: selector must be a string"}
	}

	argNodes := elems[2:]
	if arity := keywordArity(selector); arity > 0 && arity != len(argNodes) {
		return nil, &object.ArgumentError{Reason: "keyword send arity mismatch for " + selector}
	}

	args := make([]object.Value, 0, len(argNodes))
	for _, argNode := range argNodes {
		argVal, err := Evaluate(argNode, env)
		if err != nil {
			return nil, err
		}
		args = append(args, argVal)
	}

	return SendMessage(receiver, selector, args, env)
}

// evalSequence evaluates each element of elems in order and returns the
// last one's value. A control signal or error raised evaluating any
// element aborts the remaining elements and propagates immediately.
func evalSequence(elems []any, env *object.Environment) (object.Value, error) {
	var result object.Value
	for _, e := range elems {
		v, err := Evaluate(e, env)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}
