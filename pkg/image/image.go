// Package image implements the image-loading and method-persistence
// adapter: it materialises a root Environment from a store's
// key→Value blob, registering class tables and the host bridge, and it
// accepts new method definitions on behalf of the HTTP surface and CLI.
package image

import (
	"context"
	"fmt"

	"github.com/kristofer/son/pkg/bridge"
	"github.com/kristofer/son/pkg/evaluator"
	"github.com/kristofer/son/pkg/object"
)

// StoredMethod is one persisted (class, selector) method record.
type StoredMethod struct {
	ClassName string
	Selector  string
	ArgNames  []string
	Body      any
}

// Store is the persistence interface the loader reads from and the
// method-save path writes to. Both the SQLite-backed store and the
// in-memory store implement it.
type Store interface {
	// LoadBaseEnvironment returns the raw key→Value blob to seed
	// application-level root bindings (application classes beyond the
	// intrinsic ones, plus any other top-level values the host wants
	// bound).
	LoadBaseEnvironment(ctx context.Context) (map[string]any, error)

	// LoadMethods returns every persisted method, grouped implicitly by
	// ClassName, to be installed into their class tables.
	LoadMethods(ctx context.Context) ([]StoredMethod, error)

	// SaveMethod performs the insert-or-replace described below:
	// ensure the named class exists, then install or overwrite the
	// (className, selector) method body atomically with respect to
	// concurrent saves.
	SaveMethod(ctx context.Context, m StoredMethod) error

	// ListClasses returns persisted class names, sorted.
	ListClasses(ctx context.Context) ([]string, error)

	// ListMethodSelectors returns the selectors persisted for
	// className, sorted. ok is false if the class is unknown.
	ListMethodSelectors(ctx context.Context, className string) ([]string, bool, error)

	// GetMethod returns one persisted method body. ok is false if either
	// the class or the selector is unknown.
	GetMethod(ctx context.Context, className, selector string) (StoredMethod, bool, error)
}

// Image is a fully materialised root environment plus a reference to
// the store it was built from, so that method-definition requests can
// be persisted without requiring callers to thread the store around
// separately.
type Image struct {
	Root       *object.Environment
	Store      Store
	HostBridge *bridge.Bridge
}

// Load builds a fresh root environment: intrinsic classes first (the
// primitive table, seeded by pkg/evaluator), then the Bridge, then the
// store's base-environment blob and persisted methods layered on top per
// the rules below. The loader is not live-updated — a later SaveMethod
// call through this Image's Store is only observed by a subsequent Load.
func Load(ctx context.Context, store Store) (*Image, error) {
	root := object.NewRootEnvironment()
	evaluator.SeedIntrinsicClasses(root)

	b := bridge.New()
	b.Invoker = evaluator.Invoker{}
	root.Set("Bridge", b.Bridge)
	root.Set("Transcript", b.Bridge)

	baseEnv, err := store.LoadBaseEnvironment(ctx)
	if err != nil {
		return nil, fmt.Errorf("image: loading base environment: %w", err)
	}
	if err := applyBaseEnvironment(root, baseEnv); err != nil {
		return nil, err
	}

	methods, err := store.LoadMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("image: loading methods: %w", err)
	}
	if err := applyMethods(root, methods); err != nil {
		return nil, err
	}

	return &Image{Root: root, Store: store, HostBridge: b}, nil
}

// applyBaseEnvironment implements the base-environment's per-key rules: a {methods:
// {...}} shaped value becomes a fresh, parentless ClassTable; anything
// else is bound to what materialiseBaseValue makes of it, which is the
// value itself only for literals (see there). Bridge is handled
// separately by Load, since its
// host implementations cannot be expressed as JSON.
func applyBaseEnvironment(root *object.Environment, blob map[string]any) error {
	for key, raw := range blob {
		if key == "Bridge" {
			continue
		}
		value, err := materialiseBaseValue(raw)
		if err != nil {
			return fmt.Errorf("image: key %q: %w", key, err)
		}
		if class, ok := value.(*object.Environment); ok {
			if objectClass, err := root.Get(object.ObjectClassName); err == nil {
				class.Set(object.ObjectClassName, objectClass)
			}
		}
		root.Set(key, value)
	}
	return nil
}

// materialiseBaseValue turns one base-environment blob entry into a
// runtime Value: a {methods: {...}} shaped entry becomes a fresh class
// table, anything else is evaluated as an AST node in an empty scope.
// Numbers, strings, booleans and null come back unchanged and {"#": name}
// becomes a Symbol; an array is evaluated as a program, a "$"-prefixed
// string as a variable reference, and any other object is rejected, so
// none of those is bound verbatim.
func materialiseBaseValue(raw any) (object.Value, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return evaluator.Evaluate(raw, object.NewRootEnvironment())
	}
	methodsRaw, ok := m["methods"]
	if !ok {
		return evaluator.Evaluate(raw, object.NewRootEnvironment())
	}
	methodSpecs, ok := methodsRaw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("methods must be an object")
	}

	class := object.NewRootEnvironment()
	for selector, specRaw := range methodSpecs {
		spec, ok := specRaw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("method %q: expected an object with argNames and body", selector)
		}
		argNames, err := stringList(spec["argNames"])
		if err != nil {
			return nil, fmt.Errorf("method %q: %w", selector, err)
		}
		class.DefineMethod(selector, argNames, spec["body"])
	}
	return class, nil
}

func stringList(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("argNames must be an array of strings")
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		s, ok := e.(string)
		if !ok {
			return nil, fmt.Errorf("argNames must be an array of strings")
		}
		out = append(out, s)
	}
	return out, nil
}

// applyMethods installs each persisted method into its class's table,
// creating the class (parentless, chained to Object) if it does not
// already exist from the base-environment pass.
func applyMethods(root *object.Environment, methods []StoredMethod) error {
	for _, m := range methods {
		class, err := classTableFor(root, m.ClassName)
		if err != nil {
			return err
		}
		class.DefineMethod(m.Selector, m.ArgNames, m.Body)
	}
	return nil
}

func classTableFor(root *object.Environment, name string) (*object.Environment, error) {
	if v, err := root.Get(name); err == nil {
		if class, ok := v.(*object.Environment); ok {
			return class, nil
		}
		return nil, fmt.Errorf("image: %q is bound to a non-class value", name)
	}
	class := object.NewRootEnvironment()
	if objectClass, err := root.Get(object.ObjectClassName); err == nil {
		class.Set(object.ObjectClassName, objectClass)
	}
	root.Set(name, class)
	return class, nil
}

// DefineMethod validates and persists a new method, per the store's save
// rules, then returns. The Image's own Root is not mutated — callers
// wanting to observe the change re-run Load.
func (img *Image) DefineMethod(ctx context.Context, className, selector string, argNames []string, body any) error {
	if className == "" {
		return fmt.Errorf("image: className must be a non-empty string")
	}
	if selector == "" {
		return fmt.Errorf("image: selector must be a non-empty string")
	}
	for _, n := range argNames {
		if n == "" {
			return fmt.Errorf("image: argNames must be non-empty strings")
		}
	}
	return img.Store.SaveMethod(ctx, StoredMethod{
		ClassName: className,
		Selector:  selector,
		ArgNames:  argNames,
		Body:      body,
	})
}
