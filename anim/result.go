package anim

import "fmt"

// Result is the outcome of one per-patch operation in a bulk pass.
type Result struct {
	Patch string
	Err   error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Report summarises one scheduler tick.
type Report struct {
	Tick    uint32
	Bound   bool
	Copied  int
	Skipped int
	Failed  []Result
}

// protect runs fn and turns a panic into an error so one patch cannot take
// down a bulk pass.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
