package core

import "runtime"

// hardwareConcurrency reports the value the spec calls "hardware
// concurrency": the default ObjectPool cap and the default Executor
// worker count when the caller doesn't pick one explicitly.
func hardwareConcurrency() int {
	return runtime.NumCPU()
}
