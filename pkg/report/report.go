package report

import (
	"errors"
	"strings"
	"time"
)

const DefaultHideThreshold = 20

var (
	ErrPostNotFound  = errors.New("report: post not found")
	ErrInvalidReason = errors.New("report: reason is required")
)

type Report struct {
	Id      string    `json:"id"`
	PostId  string    `json:"postId"`
	UserId  string    `json:"-"`
	Reason  string    `json:"reason"`
	Created time.Time `json:"createdAt"`
}

// Outcome tells the caller what a report changed.
type Outcome struct {
	// Recorded is false when the user had already reported the post.
	Recorded bool `json:"recorded"`
	// Hidden is true only for the report that flipped the post to hidden.
	Hidden bool `json:"hidden"`
}

func normalizeReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", ErrInvalidReason
	}
	return reason, nil
}
