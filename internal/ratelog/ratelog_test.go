package ratelog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrintfSkipsWhenDebugOff(t *testing.T) {
	l := New(1, 5)
	// Five calls with debug off must never touch the bucket: a subsequent
	// debug-on burst should still have its full five tokens available.
	for i := 0; i < 5; i++ {
		l.Printf(false, "tick %d", i)
	}
	for i := 0; i < 5; i++ {
		assert.True(t, l.limiter.Allow(), "bucket should be untouched by debug-off calls")
	}
}

func TestLimiterExhaustsBurstThenRecoversToken(t *testing.T) {
	l := New(1000, 2)
	assert.True(t, l.limiter.Allow())
	assert.True(t, l.limiter.Allow())
	assert.False(t, l.limiter.Allow(), "third immediate call should exceed burst of 2")
	assert.True(t, l.limiter.AllowN(time.Now().Add(10*time.Millisecond), 1), "a token refills within 10ms at 1000/s")
}
