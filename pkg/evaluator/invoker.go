package evaluator

import "github.com/kristofer/son/pkg/object"

// InvokeBlock runs block with args through the same block-invocation
// protocol SendMessage uses for the "value" family of selectors. It is
// exported so packages that cannot call SendMessage directly — notably
// pkg/bridge, which would otherwise need to import this package and
// create a cycle — can invoke blocks through the small BlockInvoker
// interface instead.
func InvokeBlock(block *object.Block, args []object.Value) (object.Value, error) {
	return invokeBlock(block, args)
}

// Invoker implements bridge.BlockInvoker by delegating to InvokeBlock
// with no arguments, matching setTimeout:delay:'s "invoke aBlock with
// zero arguments" contract.
type Invoker struct{}

// InvokeNoArgBlock invokes block with zero arguments.
func (Invoker) InvokeNoArgBlock(block *object.Block) (object.Value, error) {
	return invokeBlock(block, nil)
}
