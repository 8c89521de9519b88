package common

import (
	"crypto/rand"
	"encoding/json"
	"io"
	"math/big"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"
)

// Stable error codes returned to API callers.
const (
	CodeInvalidRequest  = "invalid_request"
	CodeInvalidVote     = "invalid_vote"
	CodeInvalidOption   = "invalid_option"
	CodeInvalidLocation = "invalid_location"
	CodeInvalidCursor   = "invalid_cursor"
	CodeNotFound        = "not_found"
	CodeUnauthorized    = "unauthorized"
	CodeOTPExpired      = "otp_expired"
	CodeOTPInvalid      = "otp_invalid"
	CodeRateLimited     = "rate_limited"
	CodeInternal        = "internal"
)

type Msg struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type OK struct {
	OK bool `json:"ok"`
}

func WriteMsg(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	WriteRespJSON(w, Msg{Message: msg})
}

// WriteErr replies with a machine readable error code next to the message.
func WriteErr(w http.ResponseWriter, errCode, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	WriteRespJSON(w, Msg{Code: errCode, Message: msg})
}

func WriteOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	WriteRespJSON(w, OK{OK: true})
}

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

func RandStringRunes(n int) string {
	b := make([]rune, n)
	max := big.NewInt(int64(len(letterRunes)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("common: crypto/rand failed: " + err.Error())
		}
		b[i] = letterRunes[idx.Int64()]
	}
	return string(b)
}

// HashSecret returns salt followed by the argon2id hash of the secret.
func HashSecret(plain, salt string) []byte {
	hashed := argon2.IDKey([]byte(plain), []byte(salt), 1, 64*1024, 4, 32)
	res := []byte(salt)
	return append(res, hashed...)
}

func ParseReqBody(body io.Reader, ptr interface{}) error {
	err := json.NewDecoder(body).Decode(ptr)
	if err != nil {
		return err
	}
	return nil
}

func WriteRespJSON(w http.ResponseWriter, data interface{}) {
	resp, err := json.Marshal(data)
	if err != nil {
		zap.S().Errorf("common: JSON marshaling failed: %v", err)
		WriteMsg(w, "response failed", http.StatusInternalServerError)
		return
	}

	_, err = w.Write(resp)
	if err != nil {
		zap.S().Errorf("common: failed writing response: %v", err)
	}
}
