package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestRunner_RunsJobOnInterval(t *testing.T) {
	runner := NewRunner(logger.New("debug"))

	var runs int32
	runner.Every(10*time.Millisecond, "test-job", func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	time.Sleep(55 * time.Millisecond)
	runner.Stop()

	assert.GreaterOrEqual(t, atomic.LoadInt32(&runs), int32(2))
}

func TestRunner_FailingJobKeepsSchedule(t *testing.T) {
	runner := NewRunner(logger.New("debug"))

	var runs int32
	runner.Every(10*time.Millisecond, "failing-job", func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return assert.AnError
	})

	time.Sleep(55 * time.Millisecond)
	runner.Stop()

	assert.GreaterOrEqual(t, atomic.LoadInt32(&runs), int32(2))
}

func TestRunner_StopCancelsAllJobs(t *testing.T) {
	runner := NewRunner(logger.New("debug"))

	var first, second int32
	runner.Every(5*time.Millisecond, "first", func(ctx context.Context) error {
		atomic.AddInt32(&first, 1)
		return nil
	})
	runner.Every(5*time.Millisecond, "second", func(ctx context.Context) error {
		atomic.AddInt32(&second, 1)
		return nil
	})

	time.Sleep(30 * time.Millisecond)
	runner.Stop()

	firstAfter := atomic.LoadInt32(&first)
	secondAfter := atomic.LoadInt32(&second)
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, firstAfter, atomic.LoadInt32(&first))
	assert.Equal(t, secondAfter, atomic.LoadInt32(&second))
}
