package common

import (
	"errors"
	"sync"
)

// RunParallel runs every fn in its own goroutine and waits for all of
// them. It returns how many failed and their errors joined in the order
// the functions were given.
func RunParallel(funcs ...func() error) (int, error) {
	errs := make([]error, len(funcs))
	var wg sync.WaitGroup
	wg.Add(len(funcs))
	for i, fn := range funcs {
		go func() {
			defer wg.Done()
			errs[i] = fn()
		}()
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	return failed, errors.Join(errs...)
}
