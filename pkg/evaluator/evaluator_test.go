package evaluator

import (
	"testing"

	"github.com/kristofer/son/pkg/object"
)

func newTestEnv() *object.Environment {
	root := object.NewRootEnvironment()
	SeedIntrinsicClasses(root)
	return root
}

// arithmetic nests correctly: [1, "+", [2, "*", 3]] => 7
func TestArithmeticNesting(t *testing.T) {
	env := newTestEnv()
	node := []any{1.0, "+", []any{2.0, "*", 3.0}}

	v, err := Evaluate(node, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 7.0 {
		t.Fatalf("expected 7, got %v", v)
	}
}

// assignment and read-back through a nested expression, in a single
// scope: x := 10; x := $x + 5; $x => 15.
func TestAssignmentAndRead(t *testing.T) {
	env := newTestEnv()
	program := []any{
		[]any{"x:", 10.0},
		[]any{"x:", []any{"$x", "+", 5.0}},
		"$x",
	}

	var result any
	var err error
	for _, stmt := range program {
		result, err = Evaluate(stmt, env)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if result != 15.0 {
		t.Fatalf("expected 15, got %v", result)
	}
}

// a Bridge-backed log: send appends a transcript line and answers the
// bridge itself.
func TestBridgeLogAppendsTranscript(t *testing.T) {
	env := newTestEnv()
	b := object.NewBridge()
	var logged []string
	b.RegisterEntry("log:", func(args []object.Value, _ *object.Environment) (object.Value, error) {
		logged = append(logged, object.PrintString(args[0]))
		return b, nil
	})
	env.Set("Transcript", b)

	node := []any{"$Transcript", "log:", "hi"}
	result, err := Evaluate(node, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != object.Value(b) {
		t.Fatalf("expected result to be the bridge itself")
	}
	if len(logged) != 1 || logged[0] != "hi" {
		t.Fatalf("expected transcript to contain [\"hi\"], got %v", logged)
	}
}

// true ifTrue:ifFalse: [yes-block] [no-block] => "yes"
func TestIfTrueIfFalse(t *testing.T) {
	env := newTestEnv()
	yesBlock := []any{[]any{}, "=>:", []any{"yes"}}
	noBlock := []any{[]any{}, "=>:", []any{"no"}}
	node := []any{true, "ifTrue:ifFalse:", yesBlock, noBlock}

	v, err := Evaluate(node, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "yes" {
		t.Fatalf("expected \"yes\", got %v", v)
	}
}

// define Number>>double: as ^$x * 2, then 21 double: => 42. Also
// exercises the method-definition effect.
func TestDefineAndInvokeMethod(t *testing.T) {
	env := newTestEnv()
	numberClass, err := env.Get("Number")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defineNode := []any{
		"define:args:body:",
		"double:",
		[]any{"x"},
		[]any{[]any{"^", []any{"$x", "*", 2.0}}},
	}
	if _, err := Evaluate(defineNode, numberClass.(*object.Environment)); err != nil {
		t.Fatalf("unexpected error defining method: %v", err)
	}

	if _, ok := numberClass.(*object.Environment).LookupMethodLocally("double:"); !ok {
		t.Fatal("expected double: to be installed on Number locally")
	}

	v, err := Evaluate([]any{21.0, "double:"}, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42.0 {
		t.Fatalf("expected 42, got %v", v)
	}
}

// a non-local return from a block invoked via value unwinds to the
// enclosing method's activation, not the block's own value.
func TestNonLocalReturnFromBlock(t *testing.T) {
	env := newTestEnv()
	objectClass, err := env.Get("Object")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// define Object>>m as: [[],"=>:",[["^",99]]] value
	defineNode := []any{
		"define:args:body:",
		"m",
		[]any{},
		[]any{
			[]any{
				[]any{[]any{}, "=>:", []any{[]any{"^", 99.0}}},
				"value",
			},
		},
	}
	if _, err := Evaluate(defineNode, objectClass.(*object.Environment)); err != nil {
		t.Fatalf("unexpected error defining method: %v", err)
	}

	v, err := Evaluate([]any{1.0, "m"}, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 99.0 {
		t.Fatalf("expected 99, got %v", v)
	}
}

// a bare "^" at top level, with no enclosing method context, is a
// SonError.
func TestReturnOutsideMethodIsSonError(t *testing.T) {
	env := newTestEnv()
	_, err := Evaluate([]any{"^", 1.0}, env)
	if _, ok := err.(*object.SonError); !ok {
		t.Fatalf("expected *object.SonError, got %T (%v)", err, err)
	}
}

// cascade identity: the cascade's result is the receiver,
// evaluated exactly once, regardless of inner message results.
func TestCascadeReturnsReceiverOnce(t *testing.T) {
	env := newTestEnv()
	var receiverEvalCount, sendCount int
	env.Set("counter", object.NewBridge())
	b, _ := env.Get("counter")
	bridge := b.(*object.Bridge)
	bridge.RegisterEntry("bump", func(args []object.Value, _ *object.Environment) (object.Value, error) {
		sendCount++
		return 1.0, nil
	})
	factory := object.NewBridge()
	factory.RegisterEntry("make", func(args []object.Value, _ *object.Environment) (object.Value, error) {
		receiverEvalCount++
		return bridge, nil
	})
	env.Set("factory", factory)

	node := []any{[]any{"$factory", "make"}, "cascade:", []any{
		[]any{"bump"},
		[]any{"bump"},
		[]any{"bump"},
	}}

	result, err := Evaluate(node, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != object.Value(bridge) {
		t.Fatalf("expected cascade to return the receiver")
	}
	if receiverEvalCount != 1 {
		t.Fatalf("expected the receiver to be evaluated once, got %d", receiverEvalCount)
	}
	if sendCount != 3 {
		t.Fatalf("expected 3 cascaded sends, got %d", sendCount)
	}
}

// implicit self-return: a method body with no explicit "^"
// returns its receiver.
func TestImplicitSelfReturn(t *testing.T) {
	env := newTestEnv()
	numberClass, err := env.Get("Number")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defineNode := []any{
		"define:args:body:",
		"noop",
		[]any{},
		[]any{1.0, 2.0, 3.0},
	}
	if _, err := Evaluate(defineNode, numberClass.(*object.Environment)); err != nil {
		t.Fatalf("unexpected error defining method: %v", err)
	}

	v, err := Evaluate([]any{42.0, "noop"}, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42.0 {
		t.Fatalf("expected implicit self-return of 42, got %v", v)
	}
}

// dividing a Number by a zero divisor raises SonError.
func TestDivisionByZeroIsSonError(t *testing.T) {
	env := newTestEnv()
	_, err := Evaluate([]any{1.0, "/", 0.0}, env)
	if _, ok := err.(*object.SonError); !ok {
		t.Fatalf("expected *object.SonError, got %T (%v)", err, err)
	}
}

func TestMessageNotUnderstood(t *testing.T) {
	env := newTestEnv()
	_, err := Evaluate([]any{1.0, "frobnicate"}, env)
	if _, ok := err.(*object.MessageNotUnderstoodError); !ok {
		t.Fatalf("expected *object.MessageNotUnderstoodError, got %T (%v)", err, err)
	}
}

func TestWhileTrueLoop(t *testing.T) {
	env := newTestEnv()
	// An assignment inside a block binds in the block's own scope, so the
	// loop counter lives in an Array cell that the blocks update via at:put:.
	counter := object.NewArray([]object.Value{0.0})
	env.Set("counter", counter)
	cond := []any{[]any{}, "=>:", []any{[]any{[]any{"$counter", "at:", 1.0}, "<", 3.0}}}
	body := []any{[]any{}, "=>:", []any{[]any{"$counter", "at:put:", 1.0, []any{[]any{"$counter", "at:", 1.0}, "+", 1.0}}}}

	_, err := Evaluate([]any{cond, "whileTrue:", body}, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counter.Elements[0] != 3.0 {
		t.Fatalf("expected counter to be 3, got %v", counter.Elements[0])
	}
}

func TestArrayDoAtSizeAtPut(t *testing.T) {
	env := newTestEnv()
	arr := object.NewArray([]object.Value{1.0, 2.0, 3.0})
	env.Set("arr", arr)

	sizeVal, err := SendMessage(arr, "size", nil, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sizeVal != 3.0 {
		t.Fatalf("expected size 3, got %v", sizeVal)
	}

	atVal, err := SendMessage(arr, "at:", []object.Value{1.0}, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atVal != 1.0 {
		t.Fatalf("expected element 1.0, got %v", atVal)
	}

	if _, err := SendMessage(arr, "at:put:", []object.Value{2.0, 42.0}, env); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if arr.Elements[1] != 42.0 {
		t.Fatalf("expected at:put: to mutate element, got %v", arr.Elements[1])
	}

	var visited []float64
	_, err = SendMessage(arr, "do:", []object.Value{makeCollectingBlock(env, &visited)}, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visited) != 3 {
		t.Fatalf("expected do: to visit 3 elements, got %v", visited)
	}
}

// makeCollectingBlock builds a block that, when invoked with one
// argument, appends it to *visited. It does this by defining the block
// body as a send to a Bridge entry, since the primitive table has no
// generic "append to Go slice" operation.
func makeCollectingBlock(env *object.Environment, visited *[]float64) *object.Block {
	b := object.NewBridge()
	b.RegisterEntry("collect:", func(args []object.Value, _ *object.Environment) (object.Value, error) {
		*visited = append(*visited, args[0].(float64))
		return nil, nil
	})
	scope := env.CreateChild(object.ChildOptions{})
	scope.Set("sink", b)
	return &object.Block{
		ArgNames:     []string{"each"},
		Body:         []any{[]any{"$sink", "collect:", "$each"}},
		LexicalScope: scope,
	}
}
