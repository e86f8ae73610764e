// Package bridge implements the single designated host-facility
// object: a distinguished Value whose selectors invoke host facilities
// rather than resolving through the class table chain. Primitives must
// never touch host I/O directly — this package is the only channel.
package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kristofer/son/pkg/object"
)

// BlockInvoker invokes a zero-argument block and reports any error,
// including an uncaught return signal. It is implemented by
// pkg/evaluator and injected here so this package never imports the
// evaluator directly — the evaluator already depends on object, and a
// reverse edge would cycle.
type BlockInvoker interface {
	InvokeNoArgBlock(block *object.Block) (object.Value, error)
}

// Transcript is the host-visible log that log: appends to.
type Transcript struct {
	mu     sync.Mutex
	lines  []string
}

// Append adds line to the transcript.
func (t *Transcript) Append(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
}

// Lines returns a snapshot of everything appended so far.
func (t *Transcript) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}

// Scheduler runs callbacks scheduled via setTimeout:delay: on a later
// turn, never interleaving with an in-flight evaluation. Turns are
// modelled as a single goroutine draining a FIFO channel of thunks;
// every thunk runs to completion before the next is started, matching
// the single-threaded cooperative model.
type Scheduler struct {
	work chan func()
	once sync.Once
}

// NewScheduler starts the background turn-runner goroutine. Callers
// should arrange for ctx to be cancelled on shutdown; the goroutine
// exits once ctx is done, and thunks still queued at that point are not
// run.
func NewScheduler(ctx context.Context) *Scheduler {
	s := &Scheduler{work: make(chan func(), 64)}
	go s.run(ctx)
	return s
}

func (s *Scheduler) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-s.work:
			fn()
		}
	}
}

// Schedule enqueues fn to run after delay, on the scheduler's single
// turn-runner goroutine — never concurrently with another scheduled
// callback.
func (s *Scheduler) Schedule(delay time.Duration, fn func()) {
	time.AfterFunc(delay, func() {
		s.work <- fn
	})
}

// Bridge wraps an object.Bridge with the concrete host facilities
// required: log:, setTimeout:delay:, and fetch:options:.
type Bridge struct {
	*object.Bridge
	Transcript *Transcript
	Scheduler  *Scheduler
	Invoker    BlockInvoker
	Logger     func(format string, args ...any)
}

// New returns a Bridge with log: and setTimeout:delay: wired to an
// in-process Transcript and Scheduler. Invoker must be set by the
// caller (pkg/evaluator, at process wiring time) before setTimeout:
// callbacks are exercised — see image.Load in pkg/image for the
// wiring.
func New() *Bridge {
	b := &Bridge{
		Bridge:     object.NewBridge(),
		Transcript: &Transcript{},
		Scheduler:  NewScheduler(context.Background()),
	}
	b.RegisterEntry("log:", b.primLog)
	b.RegisterEntry("show:", b.primLog) // Transcript show: is the conventional alias for log:
	b.RegisterEntry("setTimeout:delay:", b.primSetTimeout)
	b.RegisterEntry("fetch:options:", b.primFetch)
	return b
}

func (b *Bridge) primLog(args []object.Value, _ *object.Environment) (object.Value, error) {
	if len(args) != 1 {
		return nil, &object.ArgumentError{Reason: "log: requires exactly one argument"}
	}
	b.Transcript.Append(object.PrintString(args[0]))
	return b.Bridge, nil
}

func (b *Bridge) primSetTimeout(args []object.Value, _ *object.Environment) (object.Value, error) {
	if len(args) != 2 {
		return nil, &object.ArgumentError{Reason: "setTimeout:delay: requires a block and a delay"}
	}
	block, ok := args[0].(*object.Block)
	if !ok {
		return nil, &object.ArgumentError{Reason: "setTimeout:delay: first argument must be a Block"}
	}
	ms, ok := args[1].(float64)
	if !ok || ms < 0 || ms != float64(int64(ms)) {
		return nil, &object.ArgumentError{Reason: "setTimeout:delay: delay must be a non-negative integer"}
	}

	invoker := b.Invoker
	if invoker == nil {
		return nil, &object.SonError{Reason: "setTimeout:delay: no block invoker is wired"}
	}
	b.Scheduler.Schedule(time.Duration(ms)*time.Millisecond, func() {
		if _, err := invoker.InvokeNoArgBlock(block); err != nil {
			// A return signal or error crossing an asynchronous
			// boundary cannot be delivered to any caller; it is
			// reported to the transcript instead of being dropped
			// silently.
			b.Transcript.Append(fmt.Sprintf("uncaught error in scheduled callback: %v", err))
		}
	})
	return b.Bridge, nil
}

// primFetch is an optional entry: unimplemented, answers Null
// with a host-log warning rather than failing the send.
func (b *Bridge) primFetch(args []object.Value, _ *object.Environment) (object.Value, error) {
	b.Transcript.Append("warning: fetch:options: is not implemented by this host")
	return nil, nil
}
