package comment

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxTextLen = 1000

var ErrInvalidText = errors.New("comment: text must be 1..1000 characters")

type CommentId string

type Comment struct {
	Id       CommentId `json:"id"`
	PostId   string    `json:"postId"`
	UserId   string    `json:"-"`
	Nickname string    `json:"nickname,omitempty"`
	Created  time.Time `json:"createdAt"`
	Body     string    `json:"text"`
}

// NormalizeText trims the comment body and checks its length.
func NormalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > MaxTextLen {
		return "", ErrInvalidText
	}
	return text, nil
}
