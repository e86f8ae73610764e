package bridge

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kristofer/son/pkg/object"
)

// fakeInvoker is a stand-in for pkg/evaluator's Invoker, letting these
// tests exercise setTimeout:delay: without importing the evaluator
// (which would cycle back into this package).
type fakeInvoker struct {
	mu    sync.Mutex
	calls []*object.Block
	fn    func(*object.Block) (object.Value, error)
}

func (f *fakeInvoker) InvokeNoArgBlock(block *object.Block) (object.Value, error) {
	f.mu.Lock()
	f.calls = append(f.calls, block)
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(block)
	}
	return nil, nil
}

func (f *fakeInvoker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newBlock() *object.Block {
	return &object.Block{ArgNames: nil, Body: 1.0}
}

func TestPrimSetTimeoutArgumentValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []object.Value
		wantErr string
	}{
		{
			name:    "wrong arity",
			args:    []object.Value{newBlock()},
			wantErr: "setTimeout:delay: requires a block and a delay",
		},
		{
			name:    "first argument not a block",
			args:    []object.Value{"not a block", 10.0},
			wantErr: "setTimeout:delay: first argument must be a Block",
		},
		{
			name:    "negative delay",
			args:    []object.Value{newBlock(), -1.0},
			wantErr: "setTimeout:delay: delay must be a non-negative integer",
		},
		{
			name:    "non-integer delay",
			args:    []object.Value{newBlock(), 1.5},
			wantErr: "setTimeout:delay: delay must be a non-negative integer",
		},
		{
			name:    "delay not a number",
			args:    []object.Value{newBlock(), "soon"},
			wantErr: "setTimeout:delay: delay must be a non-negative integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			b.Invoker = &fakeInvoker{}
			_, err := b.primSetTimeout(tt.args, nil)
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if err.Error() != tt.wantErr {
				t.Fatalf("expected error %q, got %q", tt.wantErr, err.Error())
			}
			if _, ok := err.(*object.ArgumentError); !ok {
				t.Fatalf("expected *object.ArgumentError, got %T", err)
			}
		})
	}
}

func TestPrimSetTimeoutRequiresWiredInvoker(t *testing.T) {
	b := New()
	_, err := b.primSetTimeout([]object.Value{newBlock(), 0.0}, nil)
	if err == nil {
		t.Fatal("expected error when no Invoker is wired")
	}
	if _, ok := err.(*object.SonError); !ok {
		t.Fatalf("expected *object.SonError, got %T", err)
	}
}

// setTimeout:delay: schedules onto the Scheduler's single turn-runner
// goroutine, so callbacks scheduled with shorter delays never race with
// ones scheduled with longer delays: each runs to completion before the
// next starts.
func TestSchedulerRunsCallbacksInOrderWithoutInterleaving(t *testing.T) {
	b := New()

	var mu sync.Mutex
	var order []int
	record := func(n int) func(*object.Block) (object.Value, error) {
		return func(*object.Block) (object.Value, error) {
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
			return nil, nil
		}
	}

	// Schedule out of order; delays alone must determine run order.
	for n, delay := range map[int]float64{3: 30, 1: 5, 2: 15} {
		n, delay := n, delay
		once := &fakeInvoker{fn: record(n)}
		b.Invoker = once
		if _, err := b.primSetTimeout([]object.Value{newBlock(), delay}, nil); err != nil {
			t.Fatalf("unexpected error scheduling callback %d: %v", n, err)
		}
	}

	deadline := time.After(500 * time.Millisecond)
	for {
		mu.Lock()
		done := len(order) == 3
		mu.Unlock()
		if done {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for scheduled callbacks to run")
		case <-time.After(5 * time.Millisecond):
		}
	}

	mu.Lock()
	defer mu.Unlock()
	want := []int{1, 2, 3}
	for i, n := range want {
		if order[i] != n {
			t.Fatalf("expected run order %v, got %v", want, order)
		}
	}
}

// An error (or uncaught non-local return) surfacing from a scheduled
// callback cannot be delivered to any caller — it is reported to the
// Transcript instead of being dropped.
func TestSetTimeoutReportsUncaughtErrorToTranscript(t *testing.T) {
	b := New()
	wantErr := &object.SonError{Reason: "boom"}
	b.Invoker = &fakeInvoker{fn: func(*object.Block) (object.Value, error) {
		return nil, wantErr
	}}

	if _, err := b.primSetTimeout([]object.Value{newBlock(), 0.0}, nil); err != nil {
		t.Fatalf("unexpected error scheduling: %v", err)
	}

	wantLine := fmt.Sprintf("uncaught error in scheduled callback: %v", wantErr)
	deadline := time.After(500 * time.Millisecond)
	for {
		lines := b.Transcript.Lines()
		if len(lines) == 1 && lines[0] == wantLine {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("expected transcript line %q, got %v", wantLine, lines)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestPrimLogAppendsPrintStringAndAnswersBridge(t *testing.T) {
	b := New()
	v, err := b.primLog([]object.Value{"hello"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != b.Bridge {
		t.Fatalf("expected log: to answer the bridge itself, got %v", v)
	}
	lines := b.Transcript.Lines()
	if len(lines) != 1 || lines[0] != "hello" {
		t.Fatalf("expected transcript [%q], got %v", "hello", lines)
	}
}
