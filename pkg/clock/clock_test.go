package clock_test

import (
	"context"
	"testing"
	"time"

	"github.com/anggasct/crossway/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual(t *testing.T) {
	t.Run("callbacks run in due order", func(t *testing.T) {
		c := clock.NewManual()
		var order []string

		c.AfterFunc(3*time.Second, func() { order = append(order, "c") })
		c.AfterFunc(1*time.Second, func() { order = append(order, "a") })
		c.AfterFunc(2*time.Second, func() { order = append(order, "b") })

		fired := c.Advance(2 * time.Second)
		assert.Equal(t, 2, fired)
		assert.Equal(t, []string{"a", "b"}, order)
		assert.Equal(t, 2*time.Second, c.Now())
		assert.Equal(t, 1, c.Pending())

		c.Advance(time.Second)
		assert.Equal(t, []string{"a", "b", "c"}, order)
		assert.Equal(t, 0, c.Pending())
	})

	t.Run("equal due times run FIFO", func(t *testing.T) {
		c := clock.NewManual()
		var order []int
		for i := 0; i < 5; i++ {
			i := i
			c.AfterFunc(time.Second, func() { order = append(order, i) })
		}
		c.Advance(time.Second)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	})

	t.Run("callbacks observe their own due time", func(t *testing.T) {
		c := clock.NewManual()
		var seen []time.Duration
		c.AfterFunc(time.Second, func() { seen = append(seen, c.Now()) })
		c.AfterFunc(4*time.Second, func() { seen = append(seen, c.Now()) })

		c.Advance(10 * time.Second)
		assert.Equal(t, []time.Duration{time.Second, 4 * time.Second}, seen)
		assert.Equal(t, 10*time.Second, c.Now())
	})

	t.Run("callbacks scheduled during advance run if due", func(t *testing.T) {
		c := clock.NewManual()
		ticks := 0
		var tick func()
		tick = func() {
			ticks++
			c.AfterFunc(time.Second, tick)
		}
		c.AfterFunc(time.Second, tick)

		c.Advance(5 * time.Second)
		assert.Equal(t, 5, ticks)
		assert.Equal(t, 1, c.Pending())
	})

	t.Run("stop cancels a pending callback once", func(t *testing.T) {
		c := clock.NewManual()
		ran := false
		timer := c.AfterFunc(time.Second, func() { ran = true })

		assert.True(t, timer.Stop())
		assert.False(t, timer.Stop())
		c.Advance(2 * time.Second)
		assert.False(t, ran)
	})

	t.Run("stop after firing reports false", func(t *testing.T) {
		c := clock.NewManual()
		timer := c.AfterFunc(time.Second, func() {})
		c.Advance(time.Second)
		assert.False(t, timer.Stop())
	})

	t.Run("step and run until idle", func(t *testing.T) {
		c := clock.NewManual()
		assert.False(t, c.Step())

		count := 0
		for i := 1; i <= 3; i++ {
			c.AfterFunc(time.Duration(i)*time.Minute, func() { count++ })
		}
		require.True(t, c.Step())
		assert.Equal(t, time.Minute, c.Now())

		assert.Equal(t, 2, c.RunUntilIdle(0))
		assert.Equal(t, 3, count)
		assert.Equal(t, 3*time.Minute, c.Now())
	})

	t.Run("run until idle honours the limit", func(t *testing.T) {
		c := clock.NewManual()
		var tick func()
		tick = func() { c.AfterFunc(time.Second, tick) }
		c.AfterFunc(time.Second, tick)

		assert.Equal(t, 7, c.RunUntilIdle(7))
		assert.Equal(t, 7*time.Second, c.Now())
	})
}

func TestLoop(t *testing.T) {
	t.Run("timers run on the loop goroutine in order", func(t *testing.T) {
		l := clock.NewLoop()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		results := make(chan int, 2)
		l.AfterFunc(20*time.Millisecond, func() { results <- 2 })
		l.AfterFunc(time.Millisecond, func() { results <- 1 })

		errCh := make(chan error, 1)
		go func() { errCh <- l.Run(ctx) }()

		assert.Equal(t, 1, <-results)
		assert.Equal(t, 2, <-results)

		cancel()
		assert.ErrorIs(t, <-errCh, context.Canceled)
	})

	t.Run("stopped timer never runs", func(t *testing.T) {
		l := clock.NewLoop()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = l.Run(ctx) }()

		ran := make(chan struct{}, 1)
		timer := l.AfterFunc(50*time.Millisecond, func() { ran <- struct{}{} })
		assert.True(t, timer.Stop())
		assert.False(t, timer.Stop())

		select {
		case <-ran:
			t.Fatal("stopped timer fired")
		case <-time.After(120 * time.Millisecond):
		}
	})

	t.Run("post executes work and fails after shutdown", func(t *testing.T) {
		l := clock.NewLoop()
		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() { errCh <- l.Run(ctx) }()

		done := make(chan struct{})
		require.True(t, l.Post(func() { close(done) }))
		<-done

		cancel()
		<-errCh
		assert.False(t, l.Post(func() {}))
	})

	t.Run("close releases posts blocked on a loop that never ran", func(t *testing.T) {
		l := clock.NewLoop()
		for i := 0; i < 64; i++ {
			require.True(t, l.Post(func() {}))
		}

		blocked := make(chan bool, 1)
		go func() { blocked <- l.Post(func() {}) }()

		fired := make(chan struct{})
		l.AfterFunc(time.Millisecond, func() { close(fired) })

		select {
		case <-blocked:
			t.Fatal("post returned while the buffer was full")
		case <-time.After(20 * time.Millisecond):
		}

		l.Close()
		select {
		case ok := <-blocked:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("post still blocked after close")
		}

		assert.NoError(t, l.Run(context.Background()))
		select {
		case <-fired:
			t.Fatal("timer ran on a closed loop")
		default:
		}
		l.Close()
	})

	t.Run("now moves forward", func(t *testing.T) {
		l := clock.NewLoop()
		first := l.Now()
		time.Sleep(2 * time.Millisecond)
		assert.Greater(t, l.Now(), first)
	})
}
