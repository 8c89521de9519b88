package sessions

import (
	"context"
	"strconv"
	"testing"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotted/pkg/user"
)

func TestCreateTokenAndResolve(t *testing.T) {
	rds := newMemRedis()
	sm := NewSessionManager("secret", rds)
	u := &user.User{Id: "u1"}

	token, err := sm.CreateToken(u)
	require.NoError(t, err)
	assert.Len(t, rds.hashes[sessionsKey("u1")], 1)

	uid, err := sm.UserIdFromToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)
}

func TestUserIdFromTokenRejects(t *testing.T) {
	rds := newMemRedis()
	sm := NewSessionManager("secret", rds)

	t.Run("empty header", func(t *testing.T) {
		_, err := sm.UserIdFromToken("")
		assert.Error(t, err)
	})

	t.Run("foreign signature", func(t *testing.T) {
		other := NewSessionManager("other", rds)
		token, err := other.CreateToken(&user.User{Id: "u1"})
		require.NoError(t, err)
		_, err = sm.UserIdFromToken("Bearer " + token)
		assert.Error(t, err)
	})

	t.Run("session removed from redis", func(t *testing.T) {
		token, err := sm.CreateToken(&user.User{Id: "u2"})
		require.NoError(t, err)
		delete(rds.hashes, sessionsKey("u2"))
		_, err = sm.UserIdFromToken("Bearer " + token)
		assert.Error(t, err)
	})
}

func TestCheckRedisProlongsSession(t *testing.T) {
	rds := newMemRedis()
	sm := NewSessionManager("secret", rds)
	now := time.Unix(1700000000, 0)
	sm.now = func() time.Time { return now }

	soon := now.Add(time.Hour).Unix()
	require.NoError(t, sm.AddToRedis("u1", "s1", soon))

	ok, err := sm.CheckRedis("u1", "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	exp, _ := strconv.ParseInt(string(rds.hashes[sessionsKey("u1")]["s1"]), 10, 64)
	assert.Equal(t, now.Add(sessionTTL).Unix(), exp)
}

func TestCheckRedisExpired(t *testing.T) {
	rds := newMemRedis()
	sm := NewSessionManager("secret", rds)
	require.NoError(t, sm.AddToRedis("u1", "s1", time.Now().Add(-time.Minute).Unix()))

	ok, err := sm.CheckRedis("u1", "s1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCleanupUserSessions(t *testing.T) {
	rds := newMemRedis()
	sm := NewSessionManager("secret", rds)
	require.NoError(t, sm.AddToRedis("u1", "old", time.Now().Add(-time.Hour).Unix()))
	require.NoError(t, sm.AddToRedis("u1", "live", time.Now().Add(time.Hour).Unix()))

	require.NoError(t, sm.CleanupUserSessions("u1"))
	assert.NotContains(t, rds.hashes[sessionsKey("u1")], "old")
	assert.Contains(t, rds.hashes[sessionsKey("u1")], "live")

	rds.failOn = "HGETALL"
	assert.Error(t, sm.CleanupUserSessions("u1"))
}

func TestTokenWithNoneAlgorithmRejected(t *testing.T) {
	sm := NewSessionManager("secret", newMemRedis())
	claims := jwtClaims{UserId: "u1", StandardClaims: jwt.StandardClaims{Id: "s"}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = sm.UserIdFromToken(token)
	assert.Error(t, err)
}

func TestGetAuthUser(t *testing.T) {
	_, err := GetAuthUser(context.Background())
	assert.ErrorIs(t, err, ErrNoAuth)

	ctx := WithAuthUser(context.Background(), &user.User{Id: "u1"})
	u, err := GetAuthUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.Id)
}
