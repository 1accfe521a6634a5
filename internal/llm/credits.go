package llm

import (
	"context"
	"sync/atomic"
)

// creditsKey is an unexported context key type for carrying reserved credits.
type creditsKey struct{}

// credits holds an atomic counter of available credits.
type credits struct{ n int32 }

// WithCredits returns a context that carries n consumable credits.
// If n <= 0, the original context is returned.
func WithCredits(ctx context.Context, n int) context.Context {
	if n <= 0 {
		return ctx
	}
	c := &credits{n: int32(n)}
	return context.WithValue(ctx, creditsKey{}, c)
}

// TakeCredit atomically consumes one credit from the context if available.
// Returns true when a credit was consumed; false otherwise.
func TakeCredit(ctx context.Context) bool {
	v := ctx.Value(creditsKey{})
	if v == nil {
		return false
	}
	c, ok := v.(*credits)
	if !ok || c == nil {
		return false
	}
	for {
		cur := atomic.LoadInt32(&c.n)
		if cur <= 0 {
			return false
		}
		if atomic.CompareAndSwapInt32(&c.n, cur, cur-1) {
			return true
		}
	}
}

// Limiter is the minimal surface a permit broker needs.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// PermitBroker reserves N permits up-front so a batch of calls can run
// without each one waiting on the limiter.
type PermitBroker interface {
	Reserve(ctx context.Context, n int) (Lease, error)
}

// Lease injects reserved credits into a context.
type Lease interface {
	Context(ctx context.Context) context.Context
}

type broker struct{ rl Limiter }

// NewBroker returns a PermitBroker backed by the given limiter.
func NewBroker(rl Limiter) PermitBroker { return &broker{rl: rl} }

// Reserve acquires n permits from the limiter and returns a lease that
// embeds n credits into a context. Unused credits are not returned.
func (b *broker) Reserve(ctx context.Context, n int) (Lease, error) {
	if n <= 0 || b == nil || b.rl == nil {
		return lease{n: 0}, nil
	}
	for i := 0; i < n; i++ {
		if err := b.rl.Acquire(ctx); err != nil {
			return nil, err
		}
	}
	return lease{n: n}, nil
}

type lease struct{ n int }

func (l lease) Context(ctx context.Context) context.Context { return WithCredits(ctx, l.n) }
