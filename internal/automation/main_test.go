package automation

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies no goroutines leak from the runners. Both runs are
// synchronous batch functions; anything left running afterwards is a bug.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
