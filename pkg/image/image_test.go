package image_test

import (
	"context"
	"testing"

	"github.com/kristofer/son/internal/store/memstore"
	"github.com/kristofer/son/pkg/evaluator"
	"github.com/kristofer/son/pkg/image"
	"github.com/kristofer/son/pkg/object"
)

func TestLoadSeedsIntrinsicClassesAndBridge(t *testing.T) {
	store := memstore.New(nil)
	img, err := image.Load(context.Background(), store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := img.Root.Get("Object"); err != nil {
		t.Fatalf("expected Object class in root: %v", err)
	}
	if _, err := img.Root.Get("Number"); err != nil {
		t.Fatalf("expected Number class in root: %v", err)
	}
	bridgeVal, err := img.Root.Get("Bridge")
	if err != nil {
		t.Fatalf("expected Bridge in root: %v", err)
	}
	if _, ok := bridgeVal.(*object.Bridge); !ok {
		t.Fatalf("expected Bridge to be *object.Bridge, got %T", bridgeVal)
	}
}

// TestSaveRoundTrip exercises save/reload consistency: after a successful
// save, a fresh image load yields the same (argNames, body) for that
// (class, selector).
func TestSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memstore.New(nil)

	img, err := image.Load(ctx, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := []any{[]any{"^", []any{"$x", "*", 2.0}}}
	if err := img.DefineMethod(ctx, "Number", "triple:", []string{"x"}, body); err != nil {
		t.Fatalf("unexpected error saving method: %v", err)
	}

	reloaded, err := image.Load(ctx, store)
	if err != nil {
		t.Fatalf("unexpected error reloading: %v", err)
	}

	numberClass, err := reloaded.Root.Get("Number")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	impl, ok := numberClass.(*object.Environment).LookupMethodLocally("triple:")
	if !ok {
		t.Fatal("expected triple: to be installed after reload")
	}
	if len(impl.ArgNames) != 1 || impl.ArgNames[0] != "x" {
		t.Fatalf("unexpected argNames: %v", impl.ArgNames)
	}

	v, err := evaluator.Evaluate([]any{5.0, "triple:", 5.0}, reloaded.Root)
	if err != nil {
		t.Fatalf("unexpected error invoking reloaded method: %v", err)
	}
	if v != 10.0 {
		t.Fatalf("expected 10, got %v", v)
	}
}

func TestSaveMethodValidatesInputs(t *testing.T) {
	ctx := context.Background()
	store := memstore.New(nil)
	img, err := image.Load(ctx, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := img.DefineMethod(ctx, "", "foo", nil, nil); err == nil {
		t.Fatal("expected error for empty className")
	}
	if err := img.DefineMethod(ctx, "Number", "", nil, nil); err == nil {
		t.Fatal("expected error for empty selector")
	}
}

func TestApplyBaseEnvironmentBuildsClassTableFromMethodsBlob(t *testing.T) {
	ctx := context.Background()
	base := map[string]any{
		"Counter": map[string]any{
			"methods": map[string]any{
				"increment": map[string]any{
					"argNames": []any{},
					"body":     []any{1.0},
				},
			},
		},
	}
	store := memstore.New(base)
	img, err := image.Load(ctx, store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	counterClass, err := img.Root.Get("Counter")
	if err != nil {
		t.Fatalf("expected Counter class bound in root: %v", err)
	}
	if _, ok := counterClass.(*object.Environment).LookupMethodLocally("increment"); !ok {
		t.Fatal("expected increment method installed on Counter")
	}
}
