package reel

import (
	"errors"
	"iter"
)

// SignalKind identifies what a procedure reported when it suspended.
type SignalKind uint8

const (
	SignalContinue SignalKind = iota // this frame's step is finished
	SignalSpawn                      // start Task concurrently, then resume me in the same frame
	SignalDone                       // the procedure has finished
)

// Signal is the value a procedure yields at a suspension point.
type Signal struct {
	Kind SignalKind
	Task *Task // set for SignalSpawn
}

// Continue ends the current frame's step.
var Continue = Signal{Kind: SignalContinue}

// Done finishes the procedure that yields it.
var Done = Signal{Kind: SignalDone}

// Spawn asks the owner to start p as a concurrent subordinate task.
func Spawn(p Proc) Signal {
	return Signal{Kind: SignalSpawn, Task: NewTask(p)}
}

// SpawnTask is like Spawn for a task the caller keeps a handle to, for
// example to wait on it later with WaitFor.
func SpawnTask(t *Task) Signal {
	return Signal{Kind: SignalSpawn, Task: t}
}

// Yield suspends the calling procedure with a signal. It returns false when
// the task has been abandoned; the procedure must then return promptly,
// normally with ErrAbandoned.
type Yield func(Signal) bool

// Proc is a suspend/resume procedure. It runs until it returns, suspending at
// each call to yield. Procedures compose by calling each other with the same
// yield.
type Proc func(yield Yield) error

// Task adapts a Proc into a uniform "step once, report done" object. The
// procedure runs as a coroutine: each Next resumes it up to its next yield.
type Task struct {
	proc    Proc
	factory func() Proc

	next func() (Signal, bool)
	stop func()

	err       error
	started   bool
	done      bool
	abandoned bool
}

// NewTask wraps an already constructed procedure.
func NewTask(p Proc) *Task {
	return &Task{proc: p}
}

// NewTaskFunc wraps a factory. The factory is invoked exactly once, on the
// first Next.
func NewTaskFunc(factory func() Proc) *Task {
	return &Task{factory: factory}
}

// Next resumes the procedure for one step and returns what it yielded. Once
// the procedure has returned, Next reports SignalDone together with the
// procedure's error, if any. Abandonment is not an error.
func (t *Task) Next() (Signal, error) {
	if t.done {
		return Done, nil
	}
	if !t.started {
		t.start()
	}

	sig, ok := t.next()
	if ok && sig.Kind != SignalDone {
		return sig, nil
	}

	t.finish()
	return Done, t.err
}

// Done reports whether the procedure has finished, failed or been abandoned.
func (t *Task) Done() bool {
	return t.done
}

// Abandoned reports whether the task was cancelled with Abandon.
func (t *Task) Abandoned() bool {
	return t.abandoned
}

// Err returns the error the procedure finished with.
func (t *Task) Err() error {
	return t.err
}

// Abandon cancels the task. The suspended procedure is unwound: its pending
// yield returns false. Abandoning a finished task is a no-op.
func (t *Task) Abandon() {
	if t.done {
		return
	}
	t.abandoned = true
	t.finish()
}

func (t *Task) start() {
	t.started = true
	p := t.proc
	if t.factory != nil {
		p = t.factory()
		t.factory = nil
	}
	t.proc = nil
	t.next, t.stop = iter.Pull(func(yield func(Signal) bool) {
		t.err = run(p, yield)
	})
}

func (t *Task) finish() {
	t.done = true
	if t.stop != nil {
		t.stop()
		t.next, t.stop = nil, nil
	}
	if errors.Is(t.err, ErrAbandoned) {
		t.err = nil
	}
}

// run executes p, converting a panic into an error.
func run(p Proc, yield func(Signal) bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	if p == nil {
		return nil
	}
	return p(yield)
}
