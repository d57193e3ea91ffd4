package router

import (
	"fmt"

	"github.com/alitto/pond/v2"
)

// completion carries the outcome of one unit of work back to the router's
// completion loop.
type completion struct {
	svc  string
	path string
	cb   Callbacks
	err  error
}

// workerPool runs units of work on a bounded pond pool and funnels their
// completions onto a single channel, so the router can consume them from
// one goroutine.
type workerPool struct {
	pool pond.Pool
	done chan completion
}

func newWorkerPool(maxWorkers int) *workerPool {
	return &workerPool{
		pool: pond.NewPool(maxWorkers),
		done: make(chan completion, maxWorkers),
	}
}

// spawn submits a unit of work. The task's error, or a recovered panic,
// travels to the done channel; a unit of work can never take the pool down.
func (p *workerPool) spawn(svc, path string, cb Callbacks, task func() error) {
	p.pool.Submit(func() {
		var err error
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					err = fmt.Errorf("panic: %v", rec)
				}
			}()
			err = task()
		}()
		p.done <- completion{svc: svc, path: path, cb: cb, err: err}
	})
}

// close stops accepting work, waits for running tasks to finish, then
// closes the completion channel. The consumer must keep draining until
// then.
func (p *workerPool) close() {
	p.pool.StopAndWait()
	close(p.done)
}
