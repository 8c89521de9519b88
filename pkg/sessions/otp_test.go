package sessions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const phone = "+905551112233"

func TestOTPRoundTrip(t *testing.T) {
	rds := newMemRedis()
	s := NewOTPStore(rds, 5*time.Minute, "")

	reqId, code, err := s.Request(phone)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Equal(t, int64(300), rds.ttls[otpKey(reqId)])

	got, err := s.Verify(reqId, code)
	require.NoError(t, err)
	assert.Equal(t, phone, got)

	// Consumed.
	_, err = s.Verify(reqId, code)
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestOTPWrongCode(t *testing.T) {
	s := NewOTPStore(newMemRedis(), time.Minute, "123456")

	reqId, code, err := s.Request(phone)
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	_, err = s.Verify(reqId, "000000")
	assert.ErrorIs(t, err, ErrOTPInvalid)

	// A wrong guess does not burn the code.
	got, err := s.Verify(reqId, "123456")
	assert.NoError(t, err)
	assert.Equal(t, phone, got)
}

func TestOTPUnknownRequest(t *testing.T) {
	s := NewOTPStore(newMemRedis(), time.Minute, "")
	_, err := s.Verify("nope", "111111")
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestOTPRequestsAreIndependent(t *testing.T) {
	s := NewOTPStore(newMemRedis(), time.Minute, "123456")

	first, _, err := s.Request(phone)
	require.NoError(t, err)
	second, _, err := s.Request("+15550001111")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	got, err := s.Verify(second, "123456")
	require.NoError(t, err)
	assert.Equal(t, "+15550001111", got)
	got, err = s.Verify(first, "123456")
	require.NoError(t, err)
	assert.Equal(t, phone, got)
}

func TestOTPRedisFailure(t *testing.T) {
	rds := newMemRedis()
	rds.failOn = "SET"
	s := NewOTPStore(rds, time.Minute, "")

	_, _, err := s.Request(phone)
	assert.Error(t, err)
}
