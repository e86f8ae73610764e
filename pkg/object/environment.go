// Package object implements the runtime value model and lexical scope
// chain for the SON evaluator.
//
// A SON value is carried around as a plain Go `any`: numbers are
// float64, strings are string, booleans are bool, null is a nil any,
// and every other shape (Symbol, *Array, *Object, *Block, *Bridge, and
// the *Environment used as a class table) is one of the concrete types
// defined in this package. Evaluator code recovers the shape with a type
// switch, the same way the reference interpreter's VM dispatches on the
// boxed values it pulls off its stack.
//
// Environment and Value live in the same package because they refer to
// each other: a Block captures an *Environment as its lexical scope, and
// an Environment's bindings and method table hold Values that may
// themselves be Blocks or class tables (also *Environment).
package object

import "fmt"

// Value is any SON runtime value. It is always one of: nil (Null),
// float64 (Number), string (String), bool (Boolean), Symbol, *Array,
// *Object, *Block, *Bridge, or *Environment (a class table, or the
// environment itself when exposed as $env).
type Value = any

// Environment is one node in the lexical scope chain: a method
// activation, a block activation, or a root/class-table scope.
//
// Per the data model's invariants, Get resolves a name in the local
// bindings before walking to the parent, while Set only ever writes
// locally — assignment never walks the parent chain.
type Environment struct {
	bindings map[string]Value
	methods  map[string]*MethodImpl
	parent   *Environment

	isMethodContext bool
	methodSelf      Value
	hasMethodSelf   bool
}

// NewRootEnvironment creates a parentless environment, used for the
// image's root scope and for every class table.
func NewRootEnvironment() *Environment {
	return &Environment{
		bindings: make(map[string]Value),
		methods:  make(map[string]*MethodImpl),
	}
}

// ChildOptions configures CreateChild.
type ChildOptions struct {
	IsMethodContext bool
	MethodSelf      Value
}

// CreateChild returns a new environment whose parent is env. Exactly one
// environment per method activation should be created with
// IsMethodContext true; it pre-binds "self" in the child's own bindings.
func (env *Environment) CreateChild(opts ChildOptions) *Environment {
	child := &Environment{
		bindings:        make(map[string]Value),
		methods:         make(map[string]*MethodImpl),
		parent:          env,
		isMethodContext: opts.IsMethodContext,
	}
	if opts.IsMethodContext {
		child.methodSelf = opts.MethodSelf
		child.hasMethodSelf = true
		child.bindings["self"] = opts.MethodSelf
	}
	return child
}

// VariableNotFoundError reports that $name could not be resolved
// through the environment chain.
type VariableNotFoundError struct {
	Name string
}

func (e *VariableNotFoundError) Error() string {
	return fmt.Sprintf("variable not found: %s", e.Name)
}

// Get resolves name locally, then in each enclosing parent in turn. It
// never mutates the chain.
func (env *Environment) Get(name string) (Value, error) {
	for e := env; e != nil; e = e.parent {
		if v, ok := e.bindings[name]; ok {
			return v, nil
		}
	}
	return nil, &VariableNotFoundError{Name: name}
}

// Set binds name in env's own bindings. It never walks to the parent —
// assignment is always local, per the data model's invariants.
func (env *Environment) Set(name string, value Value) {
	env.bindings[name] = value
}

// DefineMethod installs a SON-defined method into env's local method
// table, overwriting any prior implementation for the same selector.
func (env *Environment) DefineMethod(selector string, argNames []string, body Value) {
	env.methods[selector] = &MethodImpl{
		Selector: selector,
		ArgNames: argNames,
		Body:     body,
	}
}

// DefinePrimitiveMethod installs a method that short-circuits straight
// to the primitive table instead of carrying a SON body. Used by
// pkg/evaluator's SeedIntrinsicClasses when it builds the intrinsic
// class tables; classes from the base-environment blob carry SON bodies.
func (env *Environment) DefinePrimitiveMethod(selector string, tag PrimitiveTag) {
	env.methods[selector] = &MethodImpl{
		Selector:     selector,
		Primitive:    tag,
		IsPrimitive:  true,
	}
}

// LookupMethodLocally returns the MethodImpl installed for selector in
// env's own method table, without consulting any fallback class.
func (env *Environment) LookupMethodLocally(selector string) (*MethodImpl, bool) {
	m, ok := env.methods[selector]
	return m, ok
}

// IsMethodContext reports whether env was created as a fresh method
// activation (as opposed to a block activation or the root scope).
func (env *Environment) IsMethodContext() bool {
	return env.isMethodContext
}

// GetMethodSelf returns the receiver bound at this activation, if env is
// a method context.
func (env *Environment) GetMethodSelf() (Value, bool) {
	return env.methodSelf, env.hasMethodSelf
}

// GetParent returns env's enclosing scope, or nil for a root environment.
func (env *Environment) GetParent() *Environment {
	return env.parent
}

// NearestMethodContext walks env's chain (inclusive) and returns the
// nearest ancestor with IsMethodContext true, used both to resolve a
// Block's HomeContext at creation time and to find the return target for
// a bare "^" evaluated directly in a non-method scope.
func (env *Environment) NearestMethodContext() *Environment {
	for e := env; e != nil; e = e.parent {
		if e.isMethodContext {
			return e
		}
	}
	return nil
}
