package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	delays []time.Duration
}

func (r *recorder) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func TestDoFailsAfterExactlyTwoAttempts(t *testing.T) {
	rec := &recorder{}
	p := Default()
	p.Sleep = rec.sleep

	boom := errors.New("upstream down")
	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context, attempt int) error {
		calls++
		return boom
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, rec.delays, "one wait, between the two attempts")
	assert.ErrorIs(t, err, boom)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 2, exhausted.Attempts)
}

func TestDoSucceedsOnSecondAttempt(t *testing.T) {
	rec := &recorder{}
	p := Policy{MaxAttempts: 2, BaseDelay: time.Second, Sleep: rec.sleep}

	got, err := DoValue(context.Background(), p, func(ctx context.Context, attempt int) (string, error) {
		if attempt == 0 {
			return "", errors.New("flaky")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, []time.Duration{time.Second}, rec.delays)
}

func TestDelayDoubles(t *testing.T) {
	rec := &recorder{}
	var retried []int
	p := Policy{
		MaxAttempts: 4,
		BaseDelay:   100 * time.Millisecond,
		Sleep:       rec.sleep,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			retried = append(retried, attempt)
		},
	}

	_ = p.Do(context.Background(), func(ctx context.Context, attempt int) error {
		return errors.New("nope")
	})

	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}, rec.delays)
	assert.Equal(t, []int{0, 1, 2}, retried)
}

func TestDelayIsCapped(t *testing.T) {
	tests := []struct {
		name    string
		base    time.Duration
		attempt int
		want    time.Duration
	}{
		{name: "below cap", base: 500 * time.Millisecond, attempt: 3, want: 4 * time.Second},
		{name: "reaches cap", base: 500 * time.Millisecond, attempt: 7, want: MaxDelay},
		{name: "far past overflow", base: 500 * time.Millisecond, attempt: 200, want: MaxDelay},
		{name: "base above cap", base: time.Hour, attempt: 5, want: time.Hour},
		{name: "zero base", base: 0, attempt: 1000, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Policy{MaxAttempts: 2, BaseDelay: tt.base}
			assert.Equal(t, tt.want, p.Delay(tt.attempt))
		})
	}
}

func TestPermanentErrorStopsRetrying(t *testing.T) {
	rec := &recorder{}
	p := Policy{MaxAttempts: 5, BaseDelay: time.Millisecond, Sleep: rec.sleep}

	bad := errors.New("bad request")
	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context, attempt int) error {
		calls++
		return Permanent(bad)
	})

	assert.Equal(t, bad, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, rec.delays)
}

func TestDoHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{MaxAttempts: 3, BaseDelay: time.Hour}

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- p.Do(ctx, func(ctx context.Context, attempt int) error {
			calls++
			return errors.New("fail")
		})
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}

func TestZeroAttemptsStillRunsOnce(t *testing.T) {
	calls := 0
	_ = Policy{}.Do(context.Background(), func(ctx context.Context, attempt int) error {
		calls++
		return errors.New("x")
	})
	assert.Equal(t, 1, calls)
}
