package middleware

import (
	"context"
	"net/http"
	"time"

	. "spotted/pkg/common"
	"spotted/pkg/logger"
	"spotted/pkg/sessions"
	"spotted/pkg/user"
)

type (
	IUserRepo interface {
		GetById(context.Context, string) (*user.User, error)
		UpsertByPhone(ctx context.Context, phone, deviceId string) (*user.User, error)
	}
	ISessionManager interface {
		UserIdFromToken(string) (string, error)
	}
	Auth struct {
		UserRepo       IUserRepo
		SessionManager ISessionManager
		// AllowAnon resolves requests without a valid token to the dev user.
		AllowAnon bool
	}
)

func NewAuthMiddleware(sm ISessionManager, ur IUserRepo, allowAnon bool) *Auth {
	return &Auth{
		UserRepo:       ur,
		SessionManager: sm,
		AllowAnon:      allowAnon,
	}
}

// Middleware puts the authenticated user into the request context. Requests
// without a valid token pass through unauthenticated; handlers that need a
// user answer 401 themselves.
func (auth Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		repoCtx, repoCtxCancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer repoCtxCancel()

		var uid string
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			id, err := auth.SessionManager.UserIdFromToken(authHeader)
			if err != nil {
				logger.Log(r.Context()).Infof("can't get user from token: %v", err)
			}
			uid = id
		}

		if uid == "" {
			if !auth.AllowAnon {
				next.ServeHTTP(w, r)
				return
			}
			dev, err := auth.UserRepo.UpsertByPhone(repoCtx, user.DevPhone, user.DevDeviceId)
			if err != nil {
				logger.Log(r.Context()).Errorf("auth: can't resolve the dev user: %v", err)
				WriteErr(w, CodeInternal, "dev user unavailable", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(sessions.WithAuthUser(r.Context(), dev)))
			return
		}

		u, err := auth.UserRepo.GetById(repoCtx, uid)
		if err != nil {
			logger.Log(r.Context()).Errorf("auth: can't get the user from repo: %v", err)
			WriteErr(w, CodeUnauthorized, "user not found", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(sessions.WithAuthUser(r.Context(), u)))
	})
}
