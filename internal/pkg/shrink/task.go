package shrink

import "context"

// Task is a running compression attempt. It completes exactly once.
type Task struct {
	done     chan struct{}
	cancel   context.CancelFunc
	download *Download
	err      error
}

func newTask(cancel context.CancelFunc) *Task {
	return &Task{
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

// Done is closed when the attempt has finished
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the attempt finishes or ctx ends. Giving up on ctx does
// not stop the attempt; use Cancel for that.
func (t *Task) Wait(ctx context.Context) (*Download, error) {
	select {
	case <-t.done:
		return t.download, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Cancel asks the compressor to stop. The attempt then ends as failed.
func (t *Task) Cancel() {
	t.cancel()
}

func (t *Task) finish(download *Download, err error) {
	t.download = download
	t.err = err
	t.cancel()
	close(t.done)
}
