package trace

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshuapare/heapkit/pkg/heapkit"
)

// StepError reports the step at which a run stopped.
type StepError struct {
	Index int
	Op    Op
	Msg   string
	Err   error
}

func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step %d (%s): %s: %v", e.Index, e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("step %d (%s): %s", e.Index, e.Op, e.Msg)
}

func (e *StepError) Unwrap() error { return e.Err }

// Run builds a System from t, executes every step and closes the System.
// log may be nil. On an unmet expectation Run returns the partial report
// and a *StepError.
func Run(t *Trace, log *slog.Logger) (rep *Report, err error) {
	backing, err := t.backing()
	if err != nil {
		return nil, err
	}
	sys, err := heapkit.New(t.capacities(), &heapkit.Options{Backing: backing, Logger: log})
	if err != nil {
		return nil, fmt.Errorf("trace %q: %w", t.Name, err)
	}
	defer func() {
		if cerr := sys.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	r := &runner{sys: sys, named: make(map[string][]byte)}
	rep = &Report{Name: t.Name, Backing: backing.String()}
	for i, st := range t.Steps {
		res, stepErr := r.step(i, st)
		rep.Steps = append(rep.Steps, res)
		if stepErr != nil {
			rep.Pools = sys.AllStats()
			return rep, stepErr
		}
	}
	rep.Pools = sys.AllStats()
	return rep, nil
}

type runner struct {
	sys   *heapkit.System
	named map[string][]byte
}

func (r *runner) step(i int, st Step) (StepResult, error) {
	res := StepResult{Index: i, Op: st.Op}
	if st.Pool != nil {
		res.Pool = *st.Pool
	}
	fail := func(msg string, err error) (StepResult, error) {
		res.Error = msg
		if err != nil {
			res.Error += ": " + err.Error()
		}
		return res, &StepError{Index: i, Op: st.Op, Msg: msg, Err: err}
	}

	switch st.Op {
	case OpAlloc:
		res.Size = int(st.Size)
		buf, err := r.sys.Alloc(*st.Pool, int(st.Size))
		if st.Expect == ExpectFail {
			if err == nil {
				r.remember(st.As, buf)
				return fail("expected failure, got a block", nil)
			}
			res.Detail = "failed as expected: " + reason(err)
			return res, nil
		}
		if err != nil {
			return fail("alloc failed", err)
		}
		r.remember(st.As, buf)
		_, off, _ := r.sys.Locate(buf)
		res.Offset = off
		res.Detail = st.As

	case OpFree:
		buf, ok := r.named[st.Ref]
		if !ok {
			res.Detail = "unknown ref " + st.Ref
		} else {
			res.Pool, res.Offset, _ = r.sys.Locate(buf)
			res.Size = len(buf)
			res.Detail = st.Ref
		}
		r.sys.Free(buf)
		delete(r.named, st.Ref)

	case OpCheck:
		pool := *st.Pool
		if st.Free != nil {
			if got := r.sys.FreeSize(pool); got != int(*st.Free) {
				return fail(fmt.Sprintf("pool %d free = %d, want %d", pool, got, int(*st.Free)), nil)
			}
		}
		if st.Allocated != nil {
			if got := r.sys.AllocatedSize(pool); got != int(*st.Allocated) {
				return fail(fmt.Sprintf("pool %d allocated = %d, want %d", pool, got, int(*st.Allocated)), nil)
			}
		}
		if st.Live != nil {
			if got := r.sys.LiveBlocks(pool); got != *st.Live {
				return fail(fmt.Sprintf("pool %d live = %d, want %d", pool, got, *st.Live), nil)
			}
		}
		res.Detail = "ok"

	case OpVerify:
		if err := r.sys.Verify(); err != nil {
			return fail("invariants violated", err)
		}
		res.Detail = "ok"
	}
	return res, nil
}

func (r *runner) remember(name string, buf []byte) {
	if name != "" {
		r.named[name] = buf
	}
}

func reason(err error) string {
	switch {
	case errors.Is(err, heapkit.ErrOutOfMemory):
		return "out of memory"
	case errors.Is(err, heapkit.ErrInvalidArgument):
		return "invalid argument"
	case errors.Is(err, heapkit.ErrClosed):
		return "closed"
	default:
		return err.Error()
	}
}
