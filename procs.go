package reel

// Frame suspends the calling procedure until the next frame.
func Frame(yield Yield) error {
	if !yield(Continue) {
		return ErrAbandoned
	}
	return nil
}

// Wait returns a procedure that completes after exactly n frames: invoked
// during frame F, the caller continues during frame F+n. Wait(0) completes
// without suspending.
func Wait(n int) Proc {
	return func(yield Yield) error {
		for i := 0; i < n; i++ {
			if err := Frame(yield); err != nil {
				return err
			}
		}
		return nil
	}
}

// While returns a procedure that polls cond once per frame and completes on
// the first poll that reports false.
func While(cond func() bool) Proc {
	return func(yield Yield) error {
		for cond() {
			if err := Frame(yield); err != nil {
				return err
			}
		}
		return nil
	}
}

// Until is While with the condition inverted.
func Until(cond func() bool) Proc {
	return While(func() bool { return !cond() })
}

// WaitFor returns a procedure that polls the given tasks once per frame and
// completes when all of them are done.
func WaitFor(tasks ...*Task) Proc {
	return While(func() bool {
		for _, t := range tasks {
			if !t.Done() {
				return true
			}
		}
		return false
	})
}

// Forever returns a procedure that runs the procedure made by factory, and on
// completion immediately invokes factory again, indefinitely. An iteration
// that finishes without suspending is followed by one frame of waiting, so
// Forever never spins within a single frame.
func Forever(factory func() Proc) Proc {
	return func(yield Yield) error {
		for {
			suspended := false
			counting := func(s Signal) bool {
				if s.Kind == SignalContinue {
					suspended = true
				}
				return yield(s)
			}
			if err := factory()(counting); err != nil {
				return err
			}
			if !suspended {
				if err := Frame(yield); err != nil {
					return err
				}
			}
		}
	}
}

// All returns a procedure that advances every given procedure once per frame
// and completes in the frame the last of them completes. Spawn signals from
// the children are forwarded to the owner. The first failure abandons the
// remaining children and is returned.
func All(procs ...Proc) Proc {
	return func(yield Yield) error {
		tasks := make([]*Task, len(procs))
		for i, p := range procs {
			tasks[i] = NewTask(p)
		}
		defer abandonAll(tasks)

		for {
			pending := false
			for _, t := range tasks {
				if t.Done() {
					continue
				}
				if err := stepInline(t, yield); err != nil {
					return err
				}
				if !t.Done() {
					pending = true
				}
			}
			if !pending {
				return nil
			}
			if err := Frame(yield); err != nil {
				return err
			}
		}
	}
}

// Race returns a procedure that advances every given procedure once per frame
// and completes in the frame the first of them completes. The others are
// abandoned.
func Race(procs ...Proc) Proc {
	return func(yield Yield) error {
		tasks := make([]*Task, len(procs))
		for i, p := range procs {
			tasks[i] = NewTask(p)
		}
		defer abandonAll(tasks)

		if len(tasks) == 0 {
			return nil
		}
		for {
			for _, t := range tasks {
				if err := stepInline(t, yield); err != nil {
					return err
				}
				if t.Done() {
					return nil
				}
			}
			if err := Frame(yield); err != nil {
				return err
			}
		}
	}
}

// stepInline resumes t once on behalf of a parent procedure, forwarding any
// spawn requests through the parent's yield.
func stepInline(t *Task, yield Yield) error {
	sig, err := t.Next()
	for sig.Kind == SignalSpawn {
		if !yield(sig) {
			return ErrAbandoned
		}
		sig, err = t.Next()
	}
	return err
}

func abandonAll(tasks []*Task) {
	for _, t := range tasks {
		t.Abandon()
	}
}
