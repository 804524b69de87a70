package worker

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures the C6 goroutine pool never leaks a worker past the
// end of a test, since every Run call spawns one goroutine per file-id
// range.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("sync.runtime_Semacquire"),
	)
}
