package utils

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// SplitWork runs do for every workIndex in [0, workSize) across routines goroutines, handing out
// indices in order. init, when not nil, is called for each routine before any work starts.
// routines <= 0 picks the amount of CPUs minus routines, with a floor of 4.
// The first error stops the remaining routines from picking up new work and is returned.
func SplitWork(routines int, workSize uint64, do func(workIndex uint64, routineIndex int) error, init func(routines, routineIndex int) error) error {
	if routines <= 0 {
		routines = max(runtime.NumCPU()-routines, 4)
	}

	if workSize < uint64(routines) {
		routines = int(workSize)
	}

	if init != nil {
		for routineIndex := range routines {
			if err := init(routines, routineIndex); err != nil {
				return err
			}
		}
	}

	var counter atomic.Uint64
	var failed atomic.Bool

	var eg errgroup.Group

	for routineIndex := range routines {
		eg.Go(func() error {
			for !failed.Load() {
				workIndex := counter.Add(1)
				if workIndex > workSize {
					return nil
				}

				if err := do(workIndex-1, routineIndex); err != nil {
					failed.Store(true)
					return err
				}
			}
			return nil
		})
	}
	return eg.Wait()
}
