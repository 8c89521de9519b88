package api

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"spotted/pkg/common"
	"spotted/pkg/logger"
	"spotted/pkg/sessions"
	"spotted/pkg/user"
)

var phoneRe = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)

type (
	UserRepo interface {
		UpsertByPhone(ctx context.Context, phone, deviceId string) (*user.User, error)
		UpdateNickname(ctx context.Context, uid, nickname string) error
		RegisterDeviceToken(ctx context.Context, uid, token, platform string) error
	}

	SessionManager interface {
		CreateToken(*user.User) (string, error)
		CleanupUserSessions(userId string) error
	}

	OTPStore interface {
		Request(phone string) (requestId, code string, err error)
		Verify(requestId, code string) (string, error)
	}

	// CodeSender delivers a login code to the phone.
	CodeSender interface {
		Send(ctx context.Context, phone, code string) error
	}

	UserHandler struct {
		Repo           UserRepo
		SessionManager SessionManager
		OTP            OTPStore
		Sender         CodeSender
	}

	otpRequest struct {
		PhoneE164 string `json:"phoneE164"`
	}

	otpVerify struct {
		RequestId string `json:"requestId"`
		Code      string `json:"code"`
		DeviceId  string `json:"deviceId"`
	}

	profileUpdate struct {
		Nickname string `json:"nickname"`
	}

	pushRegister struct {
		Token    string `json:"token"`
		Platform string `json:"platform"`
	}
)

func NewUserHandler(r UserRepo, sm SessionManager, otp OTPStore, sender CodeSender) *UserHandler {
	return &UserHandler{
		Repo:           r,
		SessionManager: sm,
		OTP:            otp,
		Sender:         sender,
	}
}

// LogSender only writes the code to the log. There is no SMS gateway yet.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, phone, code string) error {
	logger.Log(ctx).Infof("login code for %s: %s", phone, code)
	return nil
}

func (uh UserHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	req := new(otpRequest)
	if err := common.ParseReqBody(r.Body, req); err != nil {
		logger.Log(r.Context()).Errorf("can't parse otp request: %v", err)
		common.WriteErr(w, common.CodeInvalidRequest, "bad request format", http.StatusBadRequest)
		return
	}
	if !phoneRe.MatchString(req.PhoneE164) {
		common.WriteErr(w, common.CodeInvalidRequest, "phone must be in E.164 format", http.StatusBadRequest)
		return
	}

	requestId, code, err := uh.OTP.Request(req.PhoneE164)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't issue otp: %v", err)
		common.WriteErr(w, common.CodeInternal, "failed issuing code", http.StatusInternalServerError)
		return
	}
	if err := uh.Sender.Send(r.Context(), req.PhoneE164, code); err != nil {
		logger.Log(r.Context()).Errorf("can't deliver otp: %v", err)
		common.WriteErr(w, common.CodeInternal, "failed delivering code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	common.WriteRespJSON(w, struct {
		RequestId string `json:"requestId"`
	}{requestId})
}

func (uh UserHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	req := new(otpVerify)
	if err := common.ParseReqBody(r.Body, req); err != nil || req.RequestId == "" || req.Code == "" {
		common.WriteErr(w, common.CodeInvalidRequest, "bad request format", http.StatusBadRequest)
		return
	}

	phone, err := uh.OTP.Verify(req.RequestId, req.Code)
	switch {
	case errors.Is(err, sessions.ErrOTPExpired):
		common.WriteErr(w, common.CodeOTPExpired, "OTP expired", http.StatusBadRequest)
		return
	case errors.Is(err, sessions.ErrOTPInvalid):
		common.WriteErr(w, common.CodeOTPInvalid, "Invalid OTP", http.StatusBadRequest)
		return
	case err != nil:
		logger.Log(r.Context()).Errorf("can't verify otp: %v", err)
		common.WriteErr(w, common.CodeInternal, "failed verifying code", http.StatusInternalServerError)
		return
	}

	u, err := uh.Repo.UpsertByPhone(r.Context(), phone, req.DeviceId)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't upsert user: %v", err)
		common.WriteErr(w, common.CodeInternal, "failed loading user", http.StatusInternalServerError)
		return
	}

	// Remove expired user sessions if there are any
	if err := uh.SessionManager.CleanupUserSessions(u.Id); err != nil {
		logger.Log(r.Context()).Errorf("user/handlers: can't cleanup sessions for user `%s`, %v", u.Id, err)
		common.WriteErr(w, common.CodeInternal, "failed managing user sessions", http.StatusInternalServerError)
		return
	}

	token, err := uh.SessionManager.CreateToken(u)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't create JWT token for user: %v", err)
		common.WriteErr(w, common.CodeInternal, "user authentication failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	common.WriteRespJSON(w, struct {
		AccessToken   string `json:"accessToken"`
		UserId        string `json:"userId"`
		NeedsNickname bool   `json:"needsNickname"`
	}{token, u.Id, u.NeedsNickname()})
}

func (uh UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	u, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		common.WriteErr(w, common.CodeUnauthorized, "not authorized", http.StatusUnauthorized)
		return
	}

	req := new(profileUpdate)
	if err := common.ParseReqBody(r.Body, req); err != nil {
		common.WriteErr(w, common.CodeInvalidRequest, "bad request format", http.StatusBadRequest)
		return
	}

	err = uh.Repo.UpdateNickname(r.Context(), u.Id, req.Nickname)
	switch {
	case errors.Is(err, user.ErrInvalidNickname):
		common.WriteErr(w, common.CodeInvalidRequest, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, user.ErrNotFound):
		common.WriteErr(w, common.CodeNotFound, "user not found", http.StatusNotFound)
		return
	case err != nil:
		logger.Log(r.Context()).Errorf("can't update nickname: %v", err)
		common.WriteErr(w, common.CodeInternal, "failed updating profile", http.StatusInternalServerError)
		return
	}
	common.WriteOK(w)
}

func (uh UserHandler) RegisterPush(w http.ResponseWriter, r *http.Request) {
	u, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		common.WriteErr(w, common.CodeUnauthorized, "not authorized", http.StatusUnauthorized)
		return
	}

	req := new(pushRegister)
	if err := common.ParseReqBody(r.Body, req); err != nil || req.Token == "" {
		common.WriteErr(w, common.CodeInvalidRequest, "bad request format", http.StatusBadRequest)
		return
	}

	err = uh.Repo.RegisterDeviceToken(r.Context(), u.Id, req.Token, req.Platform)
	if errors.Is(err, user.ErrInvalidPlatform) {
		common.WriteErr(w, common.CodeInvalidRequest, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't register device token: %v", err)
		common.WriteErr(w, common.CodeInternal, "failed registering token", http.StatusInternalServerError)
		return
	}
	common.WriteOK(w)
}
