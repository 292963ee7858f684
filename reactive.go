package reel

import "fmt"

// dependent is the type-erased view of a Cell used for back-references in the
// dependency graph. A cell never owns its dependents.
type dependent interface {
	invalidate()
	taint()
}

// evalStack holds the cells currently being recomputed, innermost last. The
// top entry is the evaluator that gets registered as a dependent of every cell
// it reads. Cells are driven from a single control thread and are not safe for
// concurrent use.
var evalStack []dependent

func pushEvaluator(d dependent) {
	evalStack = append(evalStack, d)
}

func popEvaluator() {
	evalStack[len(evalStack)-1] = nil
	evalStack = evalStack[:len(evalStack)-1]
}

func currentEvaluator() dependent {
	if len(evalStack) == 0 {
		return nil
	}
	return evalStack[len(evalStack)-1]
}

// cellErrorHandler receives producer failures. The Engine installs its own
// handler for the duration of Load, Next and seeks.
var cellErrorHandler func(error)

// SetCellErrorHandler installs fn as the receiver of cell producer failures
// and returns the previously installed handler. A nil handler drops failures.
func SetCellErrorHandler(fn func(error)) func(error) {
	prev := cellErrorHandler
	cellErrorHandler = fn
	return prev
}

func reportCellError(err error) {
	if cellErrorHandler != nil {
		cellErrorHandler(err)
	}
}

// Cell is a memoizing, dependency-tracked value holder. A Cell is created from
// a literal (NewCell) or a formula over other cells (Computed). Formulas are
// re-evaluated lazily, only when a cell they read has changed.
//
// While valid, the cached value equals the last successful result of the
// producer. Set turns the cell into a constant and invalidates everything
// downstream of it, transitively.
type Cell[T any] struct {
	value    T
	producer func() (T, error) // nil for constants
	valid    bool
	failed   bool // last recompute failed or read a failed cell; value is stale
	tainted  bool // a failed cell was read during the running recompute
	busy     bool
	marking  bool

	dependents []dependent
}

// NewCell creates a constant-valued cell.
func NewCell[T any](v T) *Cell[T] {
	c := &Cell[T]{value: v, valid: true}
	c.track()
	return c
}

// Computed creates a cell whose value is produced by fn. The first evaluation
// runs immediately. A panic inside fn is treated as a producer failure.
func Computed[T any](fn func() T) *Cell[T] {
	return ComputedErr(func() (T, error) {
		return fn(), nil
	})
}

// ComputedErr is like Computed for producers that can fail. On failure the
// previous cached value is kept and the error is reported.
func ComputedErr[T any](fn func() (T, error)) *Cell[T] {
	c := &Cell[T]{producer: fn}
	c.Get()
	return c
}

// Get returns the cell's value, recomputing it first if it is invalid. The
// cell currently being evaluated, if any, is always registered as a dependent,
// even on a cache hit. A cell that reads a failed cell stays invalid too, so
// both retry on the next Get.
func (c *Cell[T]) Get() T {
	c.track()
	if c.valid {
		return c.value
	}
	if c.busy {
		reportCellError(fmt.Errorf("cell read during its own evaluation: %w", ErrCycle))
		return c.value
	}
	c.recompute()
	if c.failed {
		if ev := currentEvaluator(); ev != nil {
			ev.taint()
		}
	}
	return c.value
}

// Set replaces the producer with the constant v. The cell becomes valid
// immediately and every cell downstream of it is invalidated.
func (c *Cell[T]) Set(v T) {
	c.value = v
	c.producer = nil
	c.valid = true
	c.failed = false
	c.invalidateDependents()
}

// Bind replaces the producer with the formula fn. The cell and everything
// downstream of it become invalid; fn runs on the next Get.
func (c *Cell[T]) Bind(fn func() T) {
	c.producer = func() (T, error) { return fn(), nil }
	c.valid = false
	c.failed = false
	c.invalidateDependents()
}

// Update sets the cell to fn applied to its current value.
func (c *Cell[T]) Update(fn func(T) T) {
	c.Set(fn(c.Get()))
}

// Valid reports whether the cached value is current.
func (c *Cell[T]) Valid() bool {
	return c.valid
}

// NumDependents returns how many cells have read this cell.
func (c *Cell[T]) NumDependents() int {
	return len(c.dependents)
}

func (c *Cell[T]) track() {
	ev := currentEvaluator()
	if ev == nil || ev == dependent(c) {
		return
	}
	for _, d := range c.dependents {
		if d == ev {
			return
		}
	}
	c.dependents = append(c.dependents, ev)
}

func (c *Cell[T]) recompute() {
	c.busy = true
	c.tainted = false
	pushEvaluator(c)
	v, err := c.produce()
	popEvaluator()
	c.busy = false

	if err != nil {
		// Keep the stale value; the next Get retries.
		c.failed = true
		reportCellError(&StepError{Source: SourceCell, Err: err})
		return
	}
	c.value = v
	if c.tainted {
		// Computed from a stale input: cache it but retry on the next Get.
		c.failed = true
		return
	}
	healed := c.failed
	c.valid = true
	c.failed = false
	if healed {
		// Readers may hold results derived from the stale value.
		c.invalidateDependents()
	}
}

func (c *Cell[T]) taint() {
	c.tainted = true
}

func (c *Cell[T]) produce() (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	if c.producer == nil {
		return c.value, nil
	}
	return c.producer()
}

// invalidate marks the cell stale and fans out to its dependents. A cell that
// is already stale stops the walk, since its dependents were marked with it,
// unless its last recompute failed: dependents may have read the stale value.
func (c *Cell[T]) invalidate() {
	if c.marking || (!c.valid && !c.failed) {
		return
	}
	c.valid = false
	c.marking = true
	c.invalidateDependents()
	c.marking = false
}

func (c *Cell[T]) invalidateDependents() {
	for _, d := range c.dependents {
		d.invalidate()
	}
}
