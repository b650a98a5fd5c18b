package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/volley-vote-api/pkg/middleware/requestid"
)

// Handler processes the item at index i of a batch.
type Handler func(ctx context.Context, i int) error

// PoolConfig configures fan-out behaviour.
type PoolConfig struct {
	Workers int
	Timeout time.Duration
	Logger  *zap.Logger
}

// Pool runs a batch of independent handlers with bounded concurrency. One
// failing item never cancels its siblings.
type Pool struct {
	name    string
	workers int
	timeout time.Duration
	logger  *zap.Logger
}

// NewPool builds a pool with sane defaults for unset fields.
func NewPool(name string, cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Pool{
		name:    name,
		workers: cfg.Workers,
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}
}

// Workers returns the concurrency limit.
func (p *Pool) Workers() int {
	return p.workers
}

// Run calls handler for every index in [0, n) and returns the per-index
// errors. Each call gets its own deadline when a timeout is configured.
func (p *Pool) Run(ctx context.Context, n int, handler Handler) []error {
	errs := make([]error, n)
	if n == 0 {
		return errs
	}

	var g errgroup.Group
	g.SetLimit(p.workers)

	started := time.Now()
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			errs[i] = p.runOne(ctx, i, handler)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	p.batchLogger(ctx).Debug("batch finished",
		zap.Int("items", n),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(started)),
	)
	return errs
}

func (p *Pool) runOne(ctx context.Context, i int, handler Handler) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			p.batchLogger(ctx).Error("job panic", zap.Int("index", i), zap.Any("panic", r))
			err = fmt.Errorf("job %d panicked: %v", i, r)
		}
	}()

	return handler(ctx, i)
}

func (p *Pool) batchLogger(ctx context.Context) *zap.Logger {
	l := p.logger.With(zap.String("pool", p.name))
	if id := requestid.FromContext(ctx); id != "" {
		l = l.With(zap.String("request_id", id))
	}
	return l
}
