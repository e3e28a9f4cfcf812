package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fast = Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Multiplier: 2}

func TestPolicyDo(t *testing.T) {
	t.Run("Succeeds After Transient Failures", func(t *testing.T) {
		calls := 0
		err := fast.Do(context.Background(), "upload", func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("503")
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("Gives Up After Max Attempts", func(t *testing.T) {
		calls := 0
		err := fast.Do(context.Background(), "upload", func(context.Context) error {
			calls++
			return errors.New("503")
		})

		assert.EqualError(t, err, "503")
		assert.Equal(t, 3, calls)
	})

	t.Run("Permanent Error Stops Immediately", func(t *testing.T) {
		calls := 0
		err := fast.Do(context.Background(), "upload", func(context.Context) error {
			calls++
			return Permanent(errors.New("bad request"))
		})

		assert.EqualError(t, err, "bad request")
		assert.Equal(t, 1, calls)
	})

	t.Run("Caller Cancellation Does Not Abort", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := fast.Do(ctx, "upload", func(opCtx context.Context) error {
			calls++
			cancel()
			assert.NoError(t, opCtx.Err())
			if calls < 2 {
				return errors.New("503")
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})
}

func TestDefaultPolicy(t *testing.T) {
	assert.Equal(t, 3, DefaultPolicy.MaxAttempts)
	assert.Equal(t, 2*time.Second, DefaultPolicy.BaseDelay)
	assert.Equal(t, float64(2), DefaultPolicy.Multiplier)
}
