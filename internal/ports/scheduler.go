package ports

// FrameHandle identifies a scheduled frame callback.
type FrameHandle uint64

// InvalidFrameHandle is returned by Schedule once the scheduler has been closed.
// It never identifies a pending callback.
const InvalidFrameHandle FrameHandle = 0

// Scheduler is the host's "run before next frame" primitive.
//
// Callbacks run one at a time on the scheduler's dispatch goroutine, in the order
// they become due.
type Scheduler interface {
	// Schedule arranges for fn to run once before the next frame.
	// A closed scheduler returns InvalidFrameHandle and never runs fn.
	Schedule(fn func()) FrameHandle

	// Cancel prevents a scheduled callback from running.
	// Cancelling an unknown or already-run handle is a no-op.
	Cancel(handle FrameHandle)
}
