package testconfig

import (
	"os"
	"testing"
)

var (
	// tests of the same package share no state, they can run in parallel when LISTREP_PARALLEL_TESTS is set.
	PARALLELIZE_SAME_PKG_TESTS = os.Getenv("LISTREP_PARALLEL_TESTS") != ""
)

func AllowParallelization(t *testing.T) {
	if PARALLELIZE_SAME_PKG_TESTS {
		t.Parallel()
	}
}
