package evaluator

import "github.com/kristofer/son/pkg/object"

// SeedIntrinsicClasses installs the built-in class tables and their
// primitive method tables into root: Object (the universal fallback),
// UndefinedObject, Number, String, Boolean, Symbol, BlockClosure, and
// Array. These are intrinsic to the language — unlike application
// classes, they are never read from the persistence store — so the
// image loader calls this before layering store-provided classes and
// methods on top.
func SeedIntrinsicClasses(root *object.Environment) {
	objectClass := object.NewRootEnvironment()
	objectClass.Set(object.ObjectClassName, objectClass)
	objectClass.DefinePrimitiveMethod("=", object.PrimObjectEquals)
	objectClass.DefinePrimitiveMethod("~=", object.PrimObjectNotEquals)
	objectClass.DefinePrimitiveMethod("==", object.PrimObjectIdentityEquals)
	objectClass.DefinePrimitiveMethod("~~", object.PrimObjectIdentityNotEq)
	objectClass.DefinePrimitiveMethod("class", object.PrimObjectClass)
	objectClass.DefinePrimitiveMethod("printString", object.PrimObjectPrintString)
	root.Set(object.ObjectClassName, objectClass)

	undefinedObjectClass := newSubclass(root, "UndefinedObject")
	undefinedObjectClass.DefinePrimitiveMethod("ifNil:", object.PrimNullIfNil)
	undefinedObjectClass.DefinePrimitiveMethod("ifNotNil:", object.PrimNullIfNotNil)
	undefinedObjectClass.DefinePrimitiveMethod("ifNil:ifNotNil:", object.PrimNullIfNilIfNotNil)

	numberClass := newSubclass(root, "Number")
	numberClass.DefinePrimitiveMethod("+", object.PrimNumberAdd)
	numberClass.DefinePrimitiveMethod("-", object.PrimNumberSubtract)
	numberClass.DefinePrimitiveMethod("*", object.PrimNumberMultiply)
	numberClass.DefinePrimitiveMethod("/", object.PrimNumberDivide)
	numberClass.DefinePrimitiveMethod("<", object.PrimNumberLess)
	numberClass.DefinePrimitiveMethod(">", object.PrimNumberGreater)
	numberClass.DefinePrimitiveMethod("<=", object.PrimNumberLessEqual)
	numberClass.DefinePrimitiveMethod(">=", object.PrimNumberGreaterEqual)
	numberClass.DefinePrimitiveMethod("=", object.PrimNumberEquals)
	numberClass.DefinePrimitiveMethod("toString", object.PrimNumberToString)
	numberClass.DefinePrimitiveMethod("timesRepeat:", object.PrimNumberTimesRepeat)

	stringClass := newSubclass(root, "String")
	stringClass.DefinePrimitiveMethod(",", object.PrimStringConcatenate)
	stringClass.DefinePrimitiveMethod("length", object.PrimStringLength)
	stringClass.DefinePrimitiveMethod("=", object.PrimStringEquals)

	booleanClass := newSubclass(root, "Boolean")
	booleanClass.DefinePrimitiveMethod("and", object.PrimBooleanAnd)
	booleanClass.DefinePrimitiveMethod("or", object.PrimBooleanOr)
	booleanClass.DefinePrimitiveMethod("not", object.PrimBooleanNot)
	booleanClass.DefinePrimitiveMethod("ifTrue:", object.PrimBooleanIfTrue)
	booleanClass.DefinePrimitiveMethod("ifFalse:", object.PrimBooleanIfFalse)
	booleanClass.DefinePrimitiveMethod("ifTrue:ifFalse:", object.PrimBooleanIfTrueFalse)

	symbolClass := newSubclass(root, "Symbol")
	symbolClass.DefinePrimitiveMethod("toString", object.PrimSymbolToString)
	symbolClass.DefinePrimitiveMethod("=", object.PrimSymbolEquals)

	blockClass := newSubclass(root, "BlockClosure")
	blockClass.DefinePrimitiveMethod("whileTrue:", object.PrimBlockWhileTrue)
	blockClass.DefinePrimitiveMethod("whileFalse:", object.PrimBlockWhileFalse)

	arrayClass := newSubclass(root, "Array")
	arrayClass.DefinePrimitiveMethod("do:", object.PrimArrayDo)
	arrayClass.DefinePrimitiveMethod("at:", object.PrimArrayAt)
	arrayClass.DefinePrimitiveMethod("at:put:", object.PrimArrayAtPut)
	arrayClass.DefinePrimitiveMethod("size", object.PrimArraySize)
}

// newSubclass creates a fresh, parentless class table bound to name in
// root. It also binds Object under the class's own scope so
// lookupMethod's single fallback to Object can find it by
// resolving the class table's own "Object" binding.
func newSubclass(root *object.Environment, name string) *object.Environment {
	class := object.NewRootEnvironment()
	if objectClass, err := root.Get(object.ObjectClassName); err == nil {
		class.Set(object.ObjectClassName, objectClass)
	}
	root.Set(name, class)
	return class
}
