package connection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 127.0.0.1:1 refuses connections on any sane host.
const unreachable = "127.0.0.1:1"

func withFastRetry(t *testing.T) {
	t.Helper()
	prevDelay, prevDial := retryDelay, dialTimeout
	retryDelay, dialTimeout = time.Millisecond, 500*time.Millisecond
	t.Cleanup(func() {
		retryDelay, dialTimeout = prevDelay, prevDial
	})
}

func TestConnectRedisWithRetry_GivesUp(t *testing.T) {
	withFastRetry(t)

	rdb, err := ConnectRedisWithRetry(unreachable, 2)

	assert.Nil(t, rdb)
	assert.ErrorContains(t, err, "after 2 retries")
}

func TestConnectKafkaWithRetry_GivesUp(t *testing.T) {
	withFastRetry(t)

	w, err := ConnectKafkaWithRetry(unreachable, 2)

	assert.Nil(t, w)
	assert.ErrorContains(t, err, "after 2 retries")
}

func TestConnectGORMWithRetry_GivesUp(t *testing.T) {
	withFastRetry(t)

	db, err := ConnectGORMWithRetry("127.0.0.1", "paygen", "secret", "paygen", "1", "disable", 1)

	assert.Nil(t, db)
	assert.ErrorContains(t, err, "after 1 retries")
}
