// Package replication runs best-effort writes to the realtime mirror in the
// background. Callers never see the failures; they are reported as Results.
package replication

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

var ErrClosed = errors.New("replicator closed")

type Config struct {
	Workers     int
	MaxAttempts int
	BackoffBase time.Duration
	MaxBackoff  time.Duration
	Timeout     time.Duration
}

func DefaultConfig() Config {
	return Config{
		Workers:     4,
		MaxAttempts: 1,
		BackoffBase: 200 * time.Millisecond,
		MaxBackoff:  5 * time.Second,
		Timeout:     10 * time.Second,
	}
}

// Result describes one finished task.
type Result struct {
	Name     string
	Attempts int
	Duration time.Duration
	Err      error
}

type Task struct {
	name string
	done chan struct{}
	err  error
}

func (t *Task) Name() string { return t.name }

// Done is closed once the task has finished, successfully or not.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err is only meaningful after Done is closed.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// maxFailures bounds the failures kept between two Flush calls.
const maxFailures = 100

type job struct {
	task *Task
	fn   func(ctx context.Context) error
}

type Replicator struct {
	cfg Config
	log logrus.FieldLogger
	sem chan struct{}

	mu       sync.Mutex
	inflight map[*Task]struct{}
	queues   map[string][]job
	failures []error
	dropped  int
	onResult func(Result)
	closed   bool
}

func New(cfg Config, log logrus.FieldLogger) *Replicator {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = def.BackoffBase
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &Replicator{
		cfg:      cfg,
		log:      log,
		sem:      make(chan struct{}, cfg.Workers),
		inflight: make(map[*Task]struct{}),
		queues:   make(map[string][]job),
	}
}

// OnResult registers a hook called after every task, in addition to logging.
func (r *Replicator) OnResult(fn func(Result)) {
	r.mu.Lock()
	r.onResult = fn
	r.mu.Unlock()
}

// Submit schedules fn and returns immediately. Tasks sharing a non-empty key
// run one at a time in submission order; an empty key runs unordered.
func (r *Replicator) Submit(key, name string, fn func(ctx context.Context) error) *Task {
	task := &Task{name: name, done: make(chan struct{})}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		task.err = ErrClosed
		close(task.done)
		return task
	}
	r.inflight[task] = struct{}{}

	j := job{task: task, fn: fn}
	if key == "" {
		r.mu.Unlock()
		go r.execute(j)
		return task
	}

	r.queues[key] = append(r.queues[key], j)
	first := len(r.queues[key]) == 1
	r.mu.Unlock()

	if first {
		go r.drain(key)
	}
	return task
}

// Pending reports how many submitted tasks have not finished yet.
func (r *Replicator) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inflight)
}

// drain runs the queue of key until it is empty. The running job stays at
// the head so Submit does not start a second drainer for the same key.
func (r *Replicator) drain(key string) {
	for {
		r.mu.Lock()
		j := r.queues[key][0]
		r.mu.Unlock()

		r.execute(j)

		r.mu.Lock()
		rest := r.queues[key][1:]
		if len(rest) == 0 {
			delete(r.queues, key)
			r.mu.Unlock()
			return
		}
		r.queues[key] = rest
		r.mu.Unlock()
	}
}

func (r *Replicator) execute(j job) {
	r.sem <- struct{}{}
	defer func() { <-r.sem }()

	task := j.task
	start := time.Now()
	attempts := 0
	op := func() error {
		attempts++
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.Timeout)
		defer cancel()
		return j.fn(ctx)
	}

	var err error
	if r.cfg.MaxAttempts > 1 {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = r.cfg.BackoffBase
		b.MaxInterval = r.cfg.MaxBackoff
		b.MaxElapsedTime = 0
		err = backoff.Retry(op, backoff.WithMaxRetries(b, uint64(r.cfg.MaxAttempts-1)))
	} else {
		err = op()
	}
	if err != nil {
		err = fmt.Errorf("%s: %w", task.name, err)
	}

	r.mu.Lock()
	delete(r.inflight, task)
	if err != nil {
		if len(r.failures) == maxFailures {
			r.failures = r.failures[1:]
			r.dropped++
		}
		r.failures = append(r.failures, err)
	}
	r.mu.Unlock()

	task.err = err
	close(task.done)

	r.report(Result{Name: task.name, Attempts: attempts, Duration: time.Since(start), Err: err})
}

func (r *Replicator) report(res Result) {
	entry := r.log.WithFields(logrus.Fields{
		"task":     res.Name,
		"attempts": res.Attempts,
		"duration": res.Duration,
	})
	if res.Err != nil {
		entry.WithError(res.Err).Warn("mirror sync failed")
	} else {
		entry.Debug("mirror sync done")
	}

	r.mu.Lock()
	hook := r.onResult
	r.mu.Unlock()
	if hook != nil {
		hook(res)
	}
}

// Flush waits for every task submitted so far and returns the failures
// recorded since the previous Flush. Tasks still running when ctx ends are
// picked up by the next Flush.
func (r *Replicator) Flush(ctx context.Context) error {
	r.mu.Lock()
	tasks := make([]*Task, 0, len(r.inflight))
	for task := range r.inflight {
		tasks = append(tasks, task)
	}
	r.mu.Unlock()

	var ctxErr error
wait:
	for _, task := range tasks {
		select {
		case <-task.Done():
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break wait
		}
	}

	r.mu.Lock()
	errs := r.failures
	dropped := r.dropped
	r.failures = nil
	r.dropped = 0
	r.mu.Unlock()

	if dropped > 0 {
		errs = append(errs, fmt.Errorf("%d older failures dropped", dropped))
	}
	if ctxErr != nil {
		errs = append(errs, ctxErr)
	}
	return errors.Join(errs...)
}

// Close rejects new tasks and waits for the submitted ones.
func (r *Replicator) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return r.Flush(ctx)
}
