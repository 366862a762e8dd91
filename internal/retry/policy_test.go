package retry

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.Mode != Exponential {
		t.Fatalf("expected exponential default mode got %s", p.Mode)
	}
	if p.MaxRetries != 2 {
		t.Fatalf("expected max retries 2 got %d", p.MaxRetries)
	}
}

func TestNewPolicy_ClampsInitial(t *testing.T) {
	p := NewPolicy(Fixed, 5*time.Second, 2*time.Second, 5)
	assert.Equal(t, 2*time.Second, p.Initial)
	assert.Equal(t, Fixed, p.Mode)
	assert.Equal(t, 5, p.MaxRetries)

	unknown := NewPolicy("random", 0, 0, -1)
	assert.Equal(t, DefaultPolicy(), unknown)
}

func TestDelay(t *testing.T) {
	ms := time.Millisecond
	cases := []struct {
		name string
		p    Policy
		n    int
		want time.Duration
	}{
		{"zero attempt", NewPolicy(Linear, 10*ms, 20*ms, 1), 0, 0},
		{"negative attempt", NewPolicy(Linear, 10*ms, 20*ms, 1), -1, 0},
		{"fixed", NewPolicy(Fixed, 100*ms, 500*ms, 3), 3, 100 * ms},
		{"linear", NewPolicy(Linear, 100*ms, 250*ms, 5), 2, 200 * ms},
		{"linear cap", NewPolicy(Linear, 100*ms, 250*ms, 5), 3, 250 * ms},
		{"exponential", NewPolicy(Exponential, 50*ms, 160*ms, 5), 2, 100 * ms},
		{"exponential cap", NewPolicy(Exponential, 50*ms, 160*ms, 5), 3, 160 * ms},
		{"exponential overflow", NewPolicy(Exponential, 50*ms, 160*ms, 5), 80, 160 * ms},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.p.Delay(tc.n))
		})
	}
}

func TestDo(t *testing.T) {
	p := NewPolicy(Fixed, time.Millisecond, time.Millisecond, 3)
	transient := errors.NetworkError("boom").Retryable().Build()

	t.Run("recovers", func(t *testing.T) {
		calls := 0
		err := Do(context.Background(), p, func(context.Context) error {
			calls++
			if calls < 3 {
				return transient
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up", func(t *testing.T) {
		calls := 0
		err := Do(context.Background(), p, func(context.Context) error {
			calls++
			return transient
		})
		require.ErrorIs(t, err, transient)
		assert.Equal(t, 4, calls)
	})

	t.Run("permanent", func(t *testing.T) {
		calls := 0
		err := Do(context.Background(), p, func(context.Context) error {
			calls++
			return stderrors.New("permanent")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := Do(ctx, NewPolicy(Fixed, time.Hour, time.Hour, 3), func(context.Context) error {
			calls++
			return transient
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
