package replication

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReplicator(cfg Config) *Replicator {
	log, _ := test.NewNullLogger()
	return New(cfg, log)
}

func TestReplicator_TaskCompletion(t *testing.T) {
	r := newTestReplicator(Config{})

	task := r.Submit("", "sync user", func(context.Context) error { return nil })
	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task did not finish")
	}
	assert.NoError(t, task.Err())
	assert.Equal(t, "sync user", task.Name())
}

func TestReplicator_FlushJoinsFailures(t *testing.T) {
	r := newTestReplicator(Config{})
	boom := errors.New("boom")

	r.Submit("", "ok", func(context.Context) error { return nil })
	failed := r.Submit("chat:a", "send message", func(context.Context) error { return boom })

	err := r.Flush(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "send message")
	assert.ErrorIs(t, failed.Err(), boom)

	assert.NoError(t, r.Flush(context.Background()))
}

func TestReplicator_RetriesUpToMaxAttempts(t *testing.T) {
	r := newTestReplicator(Config{MaxAttempts: 3, BackoffBase: time.Millisecond, MaxBackoff: 2 * time.Millisecond})

	var calls atomic.Int32
	var results []Result
	var mu sync.Mutex
	r.OnResult(func(res Result) {
		mu.Lock()
		results = append(results, res)
		mu.Unlock()
	})

	r.Submit("", "flaky", func(context.Context) error {
		if calls.Add(1) < 3 {
			return errors.New("unavailable")
		}
		return nil
	})
	require.NoError(t, r.Flush(context.Background()))
	assert.Equal(t, int32(3), calls.Load())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(results) == 1
	}, time.Second, time.Millisecond)
	mu.Lock()
	assert.Equal(t, 3, results[0].Attempts)
	assert.NoError(t, results[0].Err)
	mu.Unlock()
}

func TestReplicator_SingleAttemptByDefault(t *testing.T) {
	r := newTestReplicator(Config{})

	var calls atomic.Int32
	r.Submit("", "update match", func(context.Context) error {
		calls.Add(1)
		return errors.New("down")
	})
	assert.Error(t, r.Flush(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
}

func TestReplicator_FlushHonoursContext(t *testing.T) {
	r := newTestReplicator(Config{})
	release := make(chan struct{})
	r.Submit("", "slow", func(context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Flush(ctx), context.DeadlineExceeded)

	close(release)
	assert.NoError(t, r.Flush(context.Background()))
}

func TestReplicator_CloseRejectsNewTasks(t *testing.T) {
	r := newTestReplicator(Config{})
	require.NoError(t, r.Close(context.Background()))

	task := r.Submit("", "late", func(context.Context) error { return nil })
	<-task.Done()
	assert.ErrorIs(t, task.Err(), ErrClosed)
}

func TestReplicator_SameKeyRunsInOrder(t *testing.T) {
	r := newTestReplicator(Config{Workers: 8})

	var mu sync.Mutex
	var order []int
	for i := 0; i < 50; i++ {
		i := i
		r.Submit("chat:alice_bob", "send message", func(context.Context) error {
			time.Sleep(time.Duration(50-i) * 10 * time.Microsecond)
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, r.Flush(context.Background()))

	require.Len(t, order, 50)
	for i, got := range order {
		assert.Equal(t, i, got)
	}
}

func TestReplicator_DifferentKeysRunConcurrently(t *testing.T) {
	r := newTestReplicator(Config{Workers: 2})
	release := make(chan struct{})
	var started atomic.Int32

	for _, key := range []string{"user:a", "user:b"} {
		r.Submit(key, "sync user", func(context.Context) error {
			started.Add(1)
			<-release
			return nil
		})
	}
	require.Eventually(t, func() bool { return started.Load() == 2 }, time.Second, time.Millisecond)
	close(release)
	require.NoError(t, r.Flush(context.Background()))
}

func TestReplicator_FinishedTasksAreReleased(t *testing.T) {
	r := newTestReplicator(Config{})
	boom := errors.New("boom")

	for i := 0; i < 500; i++ {
		r.Submit("user:"+strconv.Itoa(i%7), "sync user", func(context.Context) error { return boom })
	}
	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return len(r.inflight) == 0 && len(r.queues) == 0
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, 0, r.Pending())

	r.mu.Lock()
	assert.Len(t, r.failures, maxFailures)
	r.mu.Unlock()

	err := r.Flush(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "400 older failures dropped")
	assert.NoError(t, r.Flush(context.Background()))
}
