package bconduit

import (
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/cockroachdb/errors"
)

// ErrPoolClosed is returned when work is submitted after the service was closed.
var ErrPoolClosed = errors.New("worker pool is closed")

// workerPool runs tasks on at most size goroutines fed by a bounded queue. Submitting to a full
// queue blocks the submitter until a worker frees a slot.
type workerPool struct {
	pool      pond.Pool
	closeOnce sync.Once
}

// newWorkerPool creates the pool. The queue holds at least one task, pond treats a zero queue
// size as unbounded.
func newWorkerPool(size, queueSize int) *workerPool {
	return &workerPool{
		pool: pond.NewPool(max(size, 1), pond.WithQueueSize(max(queueSize, 1))),
	}
}

// submit enqueues a task. Tasks are expected to recover their own panics.
func (p *workerPool) submit(task func()) error {
	if err := p.pool.Go(task); err != nil {
		if errors.Is(err, pond.ErrPoolStopped) {
			return ErrPoolClosed
		}

		return errors.Wrap(err, "submit task")
	}

	return nil
}

// close stops accepting tasks and waits for every queued task to finish.
func (p *workerPool) close() {
	p.closeOnce.Do(p.pool.StopAndWait)
}
