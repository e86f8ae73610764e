package evaluator

import "github.com/kristofer/son/pkg/object"

// lookupMethod consults class locally, then falls back once to
// Object's class table, unless class already is Object.
func lookupMethod(class *object.Environment, selector string) (*object.MethodImpl, bool) {
	if m, ok := class.LookupMethodLocally(selector); ok {
		return m, true
	}
	if isObjectClass(class) {
		return nil, false
	}
	objectClass, err := class.Get(object.ObjectClassName)
	if err != nil {
		return nil, false
	}
	objClass, ok := objectClass.(*object.Environment)
	if !ok {
		return nil, false
	}
	return objClass.LookupMethodLocally(selector)
}

// isObjectClass reports whether class is bound to itself under the name
// Object in its own scope — i.e. it is the Object class table, not just
// some environment that happens to have no parent.
func isObjectClass(class *object.Environment) bool {
	v, err := class.Get(object.ObjectClassName)
	if err != nil {
		return false
	}
	other, ok := v.(*object.Environment)
	return ok && other == class
}
