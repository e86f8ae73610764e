package object

// ObjectClassName is the universal fallback class; its absence
// from a root environment is fatal.
const ObjectClassName = "Object"

// classNameFor maps a runtime shape to the class name the resolver
// looks up. A *Bridge never reaches this function — callers must check
// for it and dispatch to bridge entries first.
func classNameFor(v Value) (string, bool) {
	switch v.(type) {
	case nil:
		return "UndefinedObject", true
	case float64:
		return "Number", true
	case string:
		return "String", true
	case bool:
		return "Boolean", true
	case Symbol:
		return "Symbol", true
	case *Block:
		return "BlockClosure", true
	case *Array:
		return "Array", true
	case *Environment:
		// An Environment used as a value resolves to itself: it IS the
		// class table to dispatch against.
		return "", false
	default:
		return ObjectClassName, true
	}
}

// ResolveClass returns the ClassTable to dispatch selector sends
// against for receiver, consulting lookupEnv's chain for the class
// binding and falling back to Object when the specific class is absent.
//
// If receiver is itself an *Environment (a class table, or $env),
// resolution treats it as its own class.
func ResolveClass(receiver Value, lookupEnv *Environment) (*Environment, error) {
	if env, ok := receiver.(*Environment); ok {
		return env, nil
	}

	name, ok := classNameFor(receiver)
	if !ok {
		// Unreachable given the switch above, kept for clarity.
		name = ObjectClassName
	}

	if class, err := lookupClassByName(lookupEnv, name); err == nil {
		return class, nil
	}

	class, err := lookupClassByName(lookupEnv, ObjectClassName)
	if err != nil {
		return nil, &SonError{Reason: "root environment has no Object fallback class"}
	}
	return class, nil
}

func lookupClassByName(env *Environment, name string) (*Environment, error) {
	v, err := env.Get(name)
	if err != nil {
		return nil, err
	}
	class, ok := v.(*Environment)
	if !ok {
		return nil, &VariableNotFoundError{Name: name}
	}
	return class, nil
}
