package user

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	// Nickname of users who have not picked one yet.
	DefaultNickname = "anon"

	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

var (
	ErrNotFound        = errors.New("user: user not found")
	ErrInvalidNickname = errors.New("user: nickname must be 2..32 characters")
	ErrInvalidPlatform = errors.New("user: platform must be ios or android")
)

type User struct {
	Id        string `json:"id"`
	PhoneE164 string `json:"-"`
	Nickname  string `json:"nickname"`
	DeviceId  string `json:"-"`
}

func (u *User) NeedsNickname() bool {
	return u.Nickname == DefaultNickname
}

func NormalizeNickname(n string) (string, error) {
	n = strings.TrimSpace(n)
	if l := utf8.RuneCountInString(n); l < 2 || l > 32 {
		return "", ErrInvalidNickname
	}
	return n, nil
}

func NormalizePlatform(p string) (string, error) {
	switch p {
	case "":
		return PlatformIOS, nil
	case PlatformIOS, PlatformAndroid:
		return p, nil
	}
	return "", ErrInvalidPlatform
}

// Identity used for unauthenticated requests when anonymous mode is on.
const (
	DevPhone    = "+900000000000"
	DevDeviceId = "dev-device"
)
