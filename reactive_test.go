package reel

import (
	"errors"
	"testing"
)

func TestCellConstant(t *testing.T) {
	c := NewCell(42)
	if got := c.Get(); got != 42 {
		t.Fatalf("Get = %d, want 42", got)
	}
	if !c.Valid() {
		t.Error("constant cell should be valid")
	}
	if got := c.Get(); got != 42 {
		t.Errorf("second Get = %d, want 42", got)
	}
}

func TestCellComputedEvaluatesOnce(t *testing.T) {
	calls := 0
	a := NewCell(2)
	b := Computed(func() int {
		calls++
		return a.Get() * 10
	})
	if calls != 1 {
		t.Fatalf("producer calls after construction = %d, want 1", calls)
	}
	for i := 0; i < 5; i++ {
		if got := b.Get(); got != 20 {
			t.Fatalf("Get = %d, want 20", got)
		}
	}
	if calls != 1 {
		t.Errorf("producer calls after cached reads = %d, want 1", calls)
	}
}

func TestCellSetInvalidatesDependent(t *testing.T) {
	a := NewCell(1)
	b := Computed(func() int { return a.Get() + 1 })

	a.Set(5)
	if b.Valid() {
		t.Fatal("dependent should be invalid after Set")
	}
	if got := b.Get(); got != 6 {
		t.Errorf("Get = %d, want 6", got)
	}
}

func TestCellTransitiveInvalidation(t *testing.T) {
	a := NewCell(1)
	b := Computed(func() int { return a.Get() * 2 })
	c := Computed(func() int { return b.Get() + 100 })

	a.Set(10)
	if c.Valid() {
		t.Fatal("C should be invalidated through B")
	}
	if got := c.Get(); got != 120 {
		t.Errorf("C = %d, want 120", got)
	}
}

func TestCellTransitiveInvalidationAfterStaleRead(t *testing.T) {
	a := NewCell(1)
	b := Computed(func() int { return a.Get() * 2 })
	c := Computed(func() int { return b.Get() + 1 })

	// B is invalid but unread; a second Set must still reach C.
	a.Set(2)
	a.Set(3)
	if got := c.Get(); got != 7 {
		t.Errorf("C = %d, want 7", got)
	}
}

func TestCellSetReplacesProducer(t *testing.T) {
	calls := 0
	a := NewCell(1)
	b := Computed(func() int {
		calls++
		return a.Get()
	})

	b.Set(99)
	a.Set(2)
	if got := b.Get(); got != 99 {
		t.Errorf("Get = %d, want 99", got)
	}
	if calls != 1 {
		t.Errorf("producer calls = %d, want 1", calls)
	}
}

func TestCellBind(t *testing.T) {
	a := NewCell(3.0)
	b := NewCell(0.0)
	c := Computed(func() float64 { return b.Get() * 2 })

	b.Bind(func() float64 { return a.Get() + 1 })
	if got := c.Get(); got != 8 {
		t.Fatalf("C = %v, want 8", got)
	}
	a.Set(4)
	if got := c.Get(); got != 10 {
		t.Errorf("C = %v, want 10", got)
	}
}

func TestCellCacheHitRegistersDependent(t *testing.T) {
	a := NewCell(1)
	a.Get()

	b := Computed(func() int { return a.Get() })
	if a.NumDependents() != 1 {
		t.Fatalf("NumDependents = %d, want 1", a.NumDependents())
	}
	// Repeated evaluation does not duplicate the back-reference.
	a.Set(2)
	b.Get()
	if a.NumDependents() != 1 {
		t.Errorf("NumDependents = %d, want 1", a.NumDependents())
	}
}

func TestCellUpdate(t *testing.T) {
	c := NewCell(10)
	c.Update(func(v int) int { return v + 5 })
	if got := c.Get(); got != 15 {
		t.Errorf("Get = %d, want 15", got)
	}
}

func TestCellProducerFailureKeepsStaleValue(t *testing.T) {
	var reported []error
	prev := SetCellErrorHandler(func(err error) { reported = append(reported, err) })
	defer SetCellErrorHandler(prev)

	boom := errors.New("boom")
	fail := false
	a := NewCell(1)
	b := ComputedErr(func() (int, error) {
		v := a.Get()
		if fail {
			return 0, boom
		}
		return v * 3, nil
	})

	fail = true
	a.Set(2)
	if got := b.Get(); got != 3 {
		t.Fatalf("Get = %d, want stale 3", got)
	}
	if len(reported) != 1 || !errors.Is(reported[0], boom) {
		t.Fatalf("reported = %v, want [boom]", reported)
	}
	var se *StepError
	if !errors.As(reported[0], &se) || se.Source != SourceCell {
		t.Errorf("reported error = %#v, want cell StepError", reported[0])
	}
	if b.Valid() {
		t.Error("failed cell should stay invalid")
	}

	// Self-heals on the next read once the producer succeeds.
	fail = false
	if got := b.Get(); got != 6 {
		t.Errorf("Get after recovery = %d, want 6", got)
	}
}

func TestCellDependentRefreshedWhenInputHeals(t *testing.T) {
	prev := SetCellErrorHandler(nil)
	defer SetCellErrorHandler(prev)

	fail := false
	src := NewCell(1)
	b := ComputedErr(func() (int, error) {
		v := src.Get()
		if fail {
			return 0, errors.New("fail")
		}
		return v * 10, nil
	})
	c := Computed(func() int { return b.Get() + 1 })

	fail = true
	src.Set(2)
	if got := c.Get(); got != 11 {
		t.Fatalf("C = %d, want stale 11", got)
	}
	if c.Valid() {
		t.Error("reader of a failed cell should stay invalid")
	}

	// B heals through a direct read; C must not keep the stale result.
	fail = false
	if got := b.Get(); got != 20 {
		t.Fatalf("B after heal = %d, want 20", got)
	}
	if got := c.Get(); got != 21 {
		t.Errorf("C after B healed = %d, want 21", got)
	}
	if !c.Valid() {
		t.Error("C should be valid once its input healed")
	}
}

func TestCellReaderRetriesFailedInput(t *testing.T) {
	prev := SetCellErrorHandler(nil)
	defer SetCellErrorHandler(prev)

	fail := false
	calls := 0
	src := NewCell(1)
	b := ComputedErr(func() (int, error) {
		calls++
		v := src.Get()
		if fail {
			return 0, errors.New("fail")
		}
		return v * 10, nil
	})
	c := Computed(func() int { return b.Get() + 1 })
	d := Computed(func() int { return c.Get() * 2 })

	fail = true
	src.Set(2)
	if got := d.Get(); got != 22 {
		t.Fatalf("D = %d, want stale 22", got)
	}

	// Reading only the end of the chain retries B.
	fail = false
	before := calls
	if got := d.Get(); got != 42 {
		t.Errorf("D after recovery = %d, want 42", got)
	}
	if calls != before+1 {
		t.Errorf("B producer ran %d times, want 1", calls-before)
	}
	if !d.Valid() || !c.Valid() || !b.Valid() {
		t.Error("whole chain should be valid after recovery")
	}
}

func TestCellFailedProducerStillPropagates(t *testing.T) {
	prev := SetCellErrorHandler(nil)
	defer SetCellErrorHandler(prev)

	fail := false
	a := NewCell(1)
	b := ComputedErr(func() (int, error) {
		v := a.Get()
		if fail {
			return 0, errors.New("fail")
		}
		return v, nil
	})
	c := Computed(func() int { return b.Get() + 1 })

	fail = true
	a.Set(2)
	c.Get() // b fails, c caches stale+1
	fail = false
	a.Set(3)
	if got := c.Get(); got != 4 {
		t.Errorf("C = %d, want 4", got)
	}
}

func TestCellProducerPanicIsFailure(t *testing.T) {
	var reported error
	prev := SetCellErrorHandler(func(err error) { reported = err })
	defer SetCellErrorHandler(prev)

	a := NewCell(0)
	b := Computed(func() int {
		if a.Get() > 0 {
			panic("bad input")
		}
		return 7
	})

	a.Set(1)
	if got := b.Get(); got != 7 {
		t.Errorf("Get = %d, want stale 7", got)
	}
	if reported == nil {
		t.Fatal("expected panic to be reported")
	}
}

func TestCellCycleReported(t *testing.T) {
	var reported error
	prev := SetCellErrorHandler(func(err error) { reported = err })
	defer SetCellErrorHandler(prev)

	var b *Cell[int]
	a := NewCell(0)
	b = Computed(func() int {
		if a.Get() > 0 {
			return b.Get() + 1
		}
		return 1
	})

	a.Set(1)
	b.Get()
	if !errors.Is(reported, ErrCycle) {
		t.Errorf("reported = %v, want ErrCycle", reported)
	}
}

func TestCellNestedEvaluation(t *testing.T) {
	a := NewCell(1)
	b := NewCell(2)
	inner := Computed(func() int { return a.Get() + b.Get() })
	outer := Computed(func() int {
		x := a.Get()
		return x + inner.Get()*10
	})

	if got := outer.Get(); got != 31 {
		t.Fatalf("outer = %d, want 31", got)
	}
	b.Set(5)
	if got := outer.Get(); got != 61 {
		t.Errorf("outer after inner input change = %d, want 61", got)
	}
	if len(evalStack) != 0 {
		t.Errorf("evaluation stack not empty: %d", len(evalStack))
	}
}

func TestCellDiamond(t *testing.T) {
	calls := 0
	a := NewCell(1)
	left := Computed(func() int { return a.Get() + 1 })
	right := Computed(func() int { return a.Get() * 2 })
	sum := Computed(func() int {
		calls++
		return left.Get() + right.Get()
	})

	a.Set(3)
	if got := sum.Get(); got != 10 {
		t.Fatalf("sum = %d, want 10", got)
	}
	if calls != 2 {
		t.Errorf("sum producer calls = %d, want 2", calls)
	}
}
