package sessions

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/google/uuid"

	. "spotted/pkg/common"
)

const (
	otpNS      = "spottedOTP"
	otpSaltLen = 8
	otpHashLen = otpSaltLen + 32
	otpDigits  = "0123456789"
)

var (
	ErrOTPExpired = errors.New("sessions: code expired or never requested")
	ErrOTPInvalid = errors.New("sessions: code does not match")
)

// OTPStore keeps pending login codes keyed by request id. Redis holds the
// argon2 hash of the code followed by the phone number and expires it after ttl.
type OTPStore struct {
	pool    Pool
	ttl     time.Duration
	devCode string
}

// NewOTPStore creates the store. A non-empty devCode replaces random codes,
// for local runs without an SMS gateway.
func NewOTPStore(pool Pool, ttl time.Duration, devCode string) *OTPStore {
	return &OTPStore{
		pool:    pool,
		ttl:     ttl,
		devCode: devCode,
	}
}

func otpKey(requestId string) string {
	return otpNS + ":" + requestId
}

func (s *OTPStore) newCode() string {
	if s.devCode != "" {
		return s.devCode
	}
	b := make([]byte, 6)
	for i, r := range RandStringRunes(6) {
		b[i] = otpDigits[int(r)%len(otpDigits)]
	}
	return string(b)
}

// Request issues a code for the phone and returns the request id the client
// verifies against, plus the plain code for delivery.
func (s *OTPStore) Request(phone string) (requestId, code string, err error) {
	requestId = uuid.NewString()
	code = s.newCode()
	value := append(HashSecret(code, RandStringRunes(otpSaltLen)), phone...)

	conn := s.pool.Get()
	defer conn.Close()

	ttl := int64(s.ttl.Seconds())
	if ttl < 1 {
		ttl = 1
	}
	if _, err := conn.Do("SET", otpKey(requestId), value, "EX", ttl); err != nil {
		return "", "", fmt.Errorf("sessions/otp: failed storing code: %w", err)
	}
	return requestId, code, nil
}

// Verify checks the code and returns the phone it was issued for. A matching
// code is consumed; a wrong one is not.
func (s *OTPStore) Verify(requestId, code string) (string, error) {
	conn := s.pool.Get()
	defer conn.Close()

	stored, err := redis.Bytes(conn.Do("GET", otpKey(requestId)))
	if errors.Is(err, redis.ErrNil) {
		return "", ErrOTPExpired
	}
	if err != nil {
		return "", fmt.Errorf("sessions/otp: failed reading code: %w", err)
	}
	if len(stored) <= otpHashLen {
		return "", ErrOTPExpired
	}

	salt := string(stored[:otpSaltLen])
	if subtle.ConstantTimeCompare(HashSecret(code, salt), stored[:otpHashLen]) != 1 {
		return "", ErrOTPInvalid
	}

	if _, err := conn.Do("DEL", otpKey(requestId)); err != nil {
		return "", fmt.Errorf("sessions/otp: failed consuming code: %w", err)
	}
	return string(stored[otpHashLen:]), nil
}
