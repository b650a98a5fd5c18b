package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/volley-vote-api/pkg/middleware/requestid"
)

func TestPoolRunCollectsErrorsByIndex(t *testing.T) {
	pool := NewPool("test", PoolConfig{Workers: 3})

	errs := pool.Run(context.Background(), 5, func(ctx context.Context, i int) error {
		if i%2 == 1 {
			return errors.New("odd")
		}
		return nil
	})

	require.Len(t, errs, 5)
	assert.NoError(t, errs[0])
	assert.Error(t, errs[1])
	assert.NoError(t, errs[2])
	assert.Error(t, errs[3])
	assert.NoError(t, errs[4])
}

func TestPoolRespectsWorkerLimit(t *testing.T) {
	pool := NewPool("test", PoolConfig{Workers: 2})

	var active, peak int32
	pool.Run(context.Background(), 10, func(ctx context.Context, i int) error {
		now := atomic.AddInt32(&active, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if now <= old || atomic.CompareAndSwapInt32(&peak, old, now) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return nil
	})

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestPoolAppliesTimeout(t *testing.T) {
	pool := NewPool("test", PoolConfig{Workers: 1, Timeout: 10 * time.Millisecond})

	errs := pool.Run(context.Background(), 1, func(ctx context.Context, i int) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.ErrorIs(t, errs[0], context.DeadlineExceeded)
}

func TestPoolRecoversPanics(t *testing.T) {
	pool := NewPool("test", PoolConfig{Workers: 2})

	errs := pool.Run(context.Background(), 2, func(ctx context.Context, i int) error {
		if i == 0 {
			panic("boom")
		}
		return nil
	})

	assert.Error(t, errs[0])
	assert.NoError(t, errs[1])
}

func TestPoolEmptyBatch(t *testing.T) {
	pool := NewPool("test", PoolConfig{})
	assert.Empty(t, pool.Run(context.Background(), 0, nil))
	assert.Equal(t, 1, pool.Workers())
}

func TestPoolLogsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	pool := NewPool("reminders", PoolConfig{Workers: 2, Logger: zap.New(core)})

	ctx := requestid.WithID(context.Background(), "req-42")
	pool.Run(ctx, 2, func(ctx context.Context, i int) error {
		if i == 1 {
			return errors.New("gone")
		}
		return nil
	})

	entries := logs.FilterMessage("batch finished").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "reminders", fields["pool"])
	assert.EqualValues(t, 1, fields["failed"])
}
