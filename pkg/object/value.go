package object

// Symbol is an interned name, carried in the AST as {"#": name} and
// compared at runtime by name equality alone — two symbols with the
// same name are indistinguishable (data model invariant 5).
type Symbol struct {
	Name string
}

// Array is an ordered sequence of Values: a runtime list (e.g. the
// receiver of Array do:/at:). Raw AST array nodes are not Arrays; the
// evaluator receives them as plain []any.
type Array struct {
	Elements []Value
}

// NewArray wraps elems as a runtime Array value.
func NewArray(elems []Value) *Array {
	return &Array{Elements: elems}
}

// Object is an unordered mapping from string keys to Values. Insertion
// order carries no meaning; field order in Go's map reflects that.
type Object struct {
	Fields map[string]Value
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{Fields: make(map[string]Value)}
}

// Block is a lexical closure: an ordered parameter list, a body AST, the
// environment it closed over, and the method activation (if any) that a
// non-local return inside it targets.
//
// HomeContext is nil when the block was created outside any method
// activation (e.g. directly in the root scope); attempting a non-local
// return from such a block is a SonError, not silently ignored.
type Block struct {
	ArgNames    []string
	Body        Value
	LexicalScope *Environment
	HomeContext  *Environment
}

// MethodImpl is either a SON-defined method body or a primitive tag that
// short-circuits straight to the primitive table. Exactly one of the two
// shapes is populated, selected by IsPrimitive.
type MethodImpl struct {
	Selector string

	ArgNames []string
	Body     Value

	IsPrimitive bool
	Primitive   PrimitiveTag
}

// Bridge is the single designated host-facility object. Its Entries map
// selectors directly to host callables instead of SON methods; it is
// never resolved through the class resolver, which bypasses it.
type Bridge struct {
	IsBridge bool
	Entries  map[string]BridgeFunc
}

// BridgeFunc is a host callable reachable by sending selector to the
// Bridge. args are already-evaluated Values in send order; env is the
// sending environment.
type BridgeFunc func(args []Value, env *Environment) (Value, error)

// NewBridge returns a Bridge with an empty entry table; callers install
// entries with RegisterEntry.
func NewBridge() *Bridge {
	return &Bridge{IsBridge: true, Entries: make(map[string]BridgeFunc)}
}

// RegisterEntry installs fn under selector in b's callable table.
func (b *Bridge) RegisterEntry(selector string, fn BridgeFunc) {
	b.Entries[selector] = fn
}

// Lookup returns the callable registered for selector, if any.
func (b *Bridge) Lookup(selector string) (BridgeFunc, bool) {
	fn, ok := b.Entries[selector]
	return fn, ok
}
