package object

// PrimitiveTag names one entry in the evaluator's closed primitive
// dispatch table. The table itself lives in pkg/evaluator, which
// is the only package that needs to call back into block invocation and
// message sending; object only needs the tag so a MethodImpl can carry
// one.
type PrimitiveTag string

// The full, closed set of primitive tags. Unknown tags reaching the
// dispatcher are a SonError, never a silent no-op; SON code cannot
// register new ones.
const (
	PrimNumberAdd           PrimitiveTag = "Number.add"
	PrimNumberSubtract      PrimitiveTag = "Number.subtract"
	PrimNumberMultiply      PrimitiveTag = "Number.multiply"
	PrimNumberDivide        PrimitiveTag = "Number.divide"
	PrimNumberLess          PrimitiveTag = "Number.less"
	PrimNumberGreater       PrimitiveTag = "Number.greater"
	PrimNumberLessEqual     PrimitiveTag = "Number.lessEqual"
	PrimNumberGreaterEqual  PrimitiveTag = "Number.greaterEqual"
	PrimNumberEquals        PrimitiveTag = "Number.equals"
	PrimNumberToString      PrimitiveTag = "Number.toString"
	PrimNumberTimesRepeat   PrimitiveTag = "Number.timesRepeat"

	PrimObjectEquals         PrimitiveTag = "Object.equals"
	PrimObjectNotEquals      PrimitiveTag = "Object.notEquals"
	PrimObjectIdentityEquals PrimitiveTag = "Object.identityEquals"
	PrimObjectIdentityNotEq  PrimitiveTag = "Object.identityNotEquals"
	PrimObjectClass          PrimitiveTag = "Object.class"
	PrimObjectPrintString    PrimitiveTag = "Object.printString"

	PrimBooleanAnd         PrimitiveTag = "Boolean.and"
	PrimBooleanOr          PrimitiveTag = "Boolean.or"
	PrimBooleanNot         PrimitiveTag = "Boolean.not"
	PrimBooleanIfTrue      PrimitiveTag = "Boolean.ifTrue"
	PrimBooleanIfFalse     PrimitiveTag = "Boolean.ifFalse"
	PrimBooleanIfTrueFalse PrimitiveTag = "Boolean.ifTrueIfFalse"

	PrimStringConcatenate PrimitiveTag = "String.concatenate"
	PrimStringLength      PrimitiveTag = "String.length"
	PrimStringEquals      PrimitiveTag = "String.equals"

	PrimSymbolToString PrimitiveTag = "Symbol.toString"
	PrimSymbolEquals   PrimitiveTag = "Symbol.equals"

	PrimNullIfNil           PrimitiveTag = "Null.ifNil"
	PrimNullIfNotNil        PrimitiveTag = "Null.ifNotNil"
	PrimNullIfNilIfNotNil   PrimitiveTag = "Null.ifNilIfNotNil"

	PrimBlockWhileTrue  PrimitiveTag = "Block.whileTrue"
	PrimBlockWhileFalse PrimitiveTag = "Block.whileFalse"

	PrimArrayDo     PrimitiveTag = "Array.do"
	PrimArrayAt     PrimitiveTag = "Array.at"
	PrimArrayAtPut  PrimitiveTag = "Array.atPut"
	PrimArraySize   PrimitiveTag = "Array.size"
)
