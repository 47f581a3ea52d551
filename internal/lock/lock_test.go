package lock

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockAcquiresOnFirstTry(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectSetNX("traits:lock:trip:42", `.+`, 5*time.Second).SetVal(true)

	l := NewLocker(db, 5*time.Second)
	h, err := l.Lock(context.Background(), "trip:42")
	require.NoError(t, err)
	assert.Equal(t, "traits:lock:trip:42", h.key)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnlockReturnsErrNotHeldWhenKeyGone(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectEval(unlockScript, []string{"traits:lock:trip:42"}, `.+`).SetVal(int64(0))

	l := NewLocker(db, 5*time.Second)
	err := l.Unlock(context.Background(), Handle{key: "traits:lock:trip:42", token: "tok"})
	assert.ErrorIs(t, err, ErrNotHeld)
	require.NoError(t, mock.ExpectationsWereMet())
}
