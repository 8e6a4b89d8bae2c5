package grizzly_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/autom8ter/grizzly"
	"github.com/stretchr/testify/assert"
)

func TestFuture(t *testing.T) {
	t.Run("complete then await", func(t *testing.T) {
		f := grizzly.NewFuture[int]()
		go f.Complete(42)
		v, err := f.Await(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, 42, v)
	})
	t.Run("fail then await", func(t *testing.T) {
		f := grizzly.NewFuture[int]()
		boom := errors.New("boom")
		go f.Fail(boom)
		_, err := f.Await(context.Background())
		assert.ErrorIs(t, err, boom)
	})
	t.Run("settling twice panics", func(t *testing.T) {
		f := grizzly.NewFuture[int]()
		f.Complete(1)
		assert.Panics(t, func() {
			f.Complete(2)
		})
		assert.Panics(t, func() {
			f.Fail(errors.New("late"))
		})
	})
	t.Run("failing with nil panics", func(t *testing.T) {
		f := grizzly.NewFuture[int]()
		assert.Panics(t, func() {
			f.Fail(nil)
		})
		assert.False(t, f.Settled())
	})
	t.Run("await honors context cancellation without settling", func(t *testing.T) {
		f := grizzly.NewFuture[int]()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := f.Await(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, f.Settled())
		f.Complete(7)
		v, err := f.Await(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, 7, v)
	})
	t.Run("listeners are delivered exactly once", func(t *testing.T) {
		f := grizzly.NewFuture[string]()
		var calls int64
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			f.OnComplete(func(v string, err error) {
				defer wg.Done()
				assert.NoError(t, err)
				assert.Equal(t, "done", v)
				atomic.AddInt64(&calls, 1)
			})
		}
		f.Complete("done")
		wg.Add(1)
		f.OnComplete(func(v string, err error) {
			defer wg.Done()
			assert.Equal(t, "done", v)
			atomic.AddInt64(&calls, 1)
		})
		wg.Wait()
		assert.EqualValues(t, 11, atomic.LoadInt64(&calls))
	})
	t.Run("late listener runs on the registering goroutine", func(t *testing.T) {
		f := grizzly.CompletedFuture("already here")
		var got string
		f.OnComplete(func(v string, err error) {
			got = v
		})
		assert.Equal(t, "already here", got)
	})
	t.Run("concurrent listener registration and settlement", func(t *testing.T) {
		f := grizzly.NewFuture[int]()
		var calls int64
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				f.OnComplete(func(int, error) {
					atomic.AddInt64(&calls, 1)
					wg.Done()
				})
			}()
		}
		go f.Complete(7)
		wg.Wait()
		assert.EqualValues(t, 50, atomic.LoadInt64(&calls))
	})
	t.Run("done channel closes on settlement", func(t *testing.T) {
		f := grizzly.NewFuture[int]()
		select {
		case <-f.Done():
			t.Fatal("done channel closed before settlement")
		default:
		}
		f.Complete(1)
		select {
		case <-f.Done():
		case <-time.After(time.Second):
			t.Fatal("done channel never closed")
		}
		assert.True(t, f.Settled())
	})
	t.Run("pre-settled constructors", func(t *testing.T) {
		v, err := grizzly.CompletedFuture(3).Await(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, 3, v)
		boom := errors.New("boom")
		_, err = grizzly.FailedFuture[int](boom).Await(context.Background())
		assert.ErrorIs(t, err, boom)
	})
	t.Run("transform maps the settled value", func(t *testing.T) {
		f := grizzly.NewFuture[int]()
		derived := grizzly.Transform(f, func(v int, err error) (string, error) {
			if err != nil {
				return "", err
			}
			if v > 10 {
				return "big", nil
			}
			return "small", nil
		})
		f.Complete(42)
		v, err := derived.Await(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "big", v)
	})
	t.Run("transform propagates errors", func(t *testing.T) {
		boom := errors.New("boom")
		derived := grizzly.Transform(grizzly.FailedFuture[int](boom), func(v int, err error) (int, error) {
			return v, err
		})
		_, err := derived.Await(context.Background())
		assert.ErrorIs(t, err, boom)
	})
	t.Run("transform can recover an error", func(t *testing.T) {
		derived := grizzly.Transform(grizzly.FailedFuture[int](errors.New("gone")), func(v int, err error) (int, error) {
			if err != nil {
				return -1, nil
			}
			return v, nil
		})
		v, err := derived.Await(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, -1, v)
	})
	t.Run("transform chains preserve order", func(t *testing.T) {
		f := grizzly.NewFuture[int]()
		doubled := grizzly.Transform(f, func(v int, err error) (int, error) {
			return v * 2, err
		})
		labeled := grizzly.Transform(doubled, func(v int, err error) (string, error) {
			if err != nil {
				return "", err
			}
			return "value=" + string(rune('0'+v)), nil
		})
		f.Complete(3)
		v, err := labeled.Await(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "value=6", v)
	})
}
