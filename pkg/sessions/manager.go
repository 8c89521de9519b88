package sessions

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"

	. "spotted/pkg/common"
	"spotted/pkg/user"
)

const (
	redisNS = "spottedSessions"

	sessionTTL = 90 * 24 * time.Hour
	// Sessions expiring sooner than this are prolonged on use.
	prolongBelow = 24 * time.Hour
)

type (
	sessionKey string

	// Pool hands out Redis connections; *redis.Pool satisfies it.
	Pool interface {
		Get() redis.Conn
	}

	SessionManager struct {
		secret []byte
		pool   Pool
		now    func() time.Time
	}

	jwtClaims struct {
		UserId string `json:"uid"`
		jwt.StandardClaims
	}
)

const SessionKey sessionKey = "authenticatedUser"

var ErrNoAuth = errors.New("sessions: no session found")

func NewSessionManager(secret string, pool Pool) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		pool:   pool,
		now:    time.Now,
	}
}

func sessionsKey(userId string) string {
	return redisNS + ":" + userId
}

// UserIdFromToken returns the id of the logged in user if the JWT token is
// valid and its session is still alive in Redis.
func (sm *SessionManager) UserIdFromToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("sessions: auth header not found")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sessions: unexpected signing method %v", token.Header["alg"])
			}
			return sm.secret, nil
		})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok {
		return "", errors.New("sessions: can't cast token to claim")
	}
	if !token.Valid {
		return "", errors.New("sessions: token is not valid")
	}

	if _, err := sm.CheckRedis(claims.UserId, claims.Id); err != nil {
		return "", fmt.Errorf("sessions/manager: Redis session is not valid: %w", err)
	}

	return claims.UserId, nil
}

// Goes through all user sessions and removes expired ones.
func (sm *SessionManager) CleanupUserSessions(userId string) error {
	conn := sm.pool.Get()
	defer conn.Close()

	sessions, err := redis.StringMap(conn.Do("HGETALL", sessionsKey(userId)))
	if err != nil {
		return fmt.Errorf("sessions/manager: can't HGETALL user sessions: %w", err)
	}

	nowTs := sm.now().Unix()
	for sessId, exp := range sessions {
		expTs, _ := strconv.ParseInt(exp, 10, 64)
		if nowTs > expTs {
			if _, err := conn.Do("HDEL", sessionsKey(userId), sessId); err != nil {
				return fmt.Errorf("sessions/manager: can't HDEL session: %w", err)
			}
			zap.S().Debugf("sessions/manager: session %s removed (expired at %s)", sessId, exp)
		}
	}

	return nil
}

func (sm *SessionManager) CheckRedis(userId, sessionId string) (bool, error) {
	conn := sm.pool.Get()
	expirationData, err := redis.Bytes(conn.Do("HGET", sessionsKey(userId), sessionId))
	conn.Close()
	if err != nil {
		return false, fmt.Errorf("sessions/manager: can't HGET session: %w", err)
	}

	expiredTs, _ := strconv.ParseInt(string(expirationData), 10, 64)
	nowTs := sm.now().Unix()
	if nowTs > expiredTs {
		return false, errors.New("sessions/manager: session has been expired")
	}

	// Active users are not kicked off.
	if expiredTs-nowTs < int64(prolongBelow.Seconds()) {
		newExpDate := sm.now().Add(sessionTTL).Unix()
		if err := sm.AddToRedis(userId, sessionId, newExpDate); err != nil {
			return false, err
		}
	}

	return true, nil
}

func (sm *SessionManager) AddToRedis(userId, sessionId string, exp int64) error {
	conn := sm.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("HSET", sessionsKey(userId), sessionId, exp); err != nil {
		return fmt.Errorf("sessions/manager: failed HSET to Redis: %w", err)
	}
	return nil
}

func (sm *SessionManager) CreateToken(u *user.User) (string, error) {
	sessionID := RandStringRunes(10)
	now := sm.now()
	data := jwtClaims{
		UserId: u.Id,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(sessionTTL).Unix(),
			IssuedAt:  now.Unix(),
			Id:        sessionID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, data).SignedString(sm.secret)
	if err != nil {
		return "", err
	}

	if err := sm.AddToRedis(u.Id, sessionID, data.ExpiresAt); err != nil {
		return "", err
	}

	return token, nil
}

func WithAuthUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, SessionKey, u)
}

func GetAuthUser(ctx context.Context) (*user.User, error) {
	u, ok := ctx.Value(SessionKey).(*user.User)
	if !ok || u == nil {
		return nil, ErrNoAuth
	}
	return u, nil
}
