package post

import (
	"errors"
	"strings"
	"time"

	"spotted/pkg/geo"
	"spotted/pkg/poll"
	"spotted/pkg/voting"
)

type PostType string

const (
	TypeText  PostType = "text"
	TypePhoto PostType = "photo"
	TypeLink  PostType = "link"
	TypePoll  PostType = "poll"
)

const (
	DefaultPageSize = 20
	DefaultTTL      = 24 * time.Hour
	MaxTextLen      = 2000
)

var (
	ErrNotFound      = errors.New("post: post not found")
	ErrInvalidPost   = errors.New("post: payload does not match post type")
	ErrInvalidCursor = errors.New("post: cursor is not a timestamp")
)

type PostId string

type Post struct {
	Id       PostId   `json:"id"`
	AuthorId string   `json:"-"`
	Type     PostType `json:"type"`

	Text     string     `json:"text,omitempty"`
	PhotoURL string     `json:"photoURL,omitempty"`
	LinkURL  string     `json:"linkURL,omitempty"`
	PollId   string     `json:"-"`
	Poll     *poll.Poll `json:"poll,omitempty"`

	// Snapped on write, never the author's raw position.
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	Score        int        `json:"score"`
	CommentCount int        `json:"commentCount"`
	Created      time.Time  `json:"createdAt"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	IsHidden     bool       `json:"isHidden"`

	// Viewer dependent.
	UserVote   voting.VotingScore `json:"userVote"`
	DistanceKm float64            `json:"distanceKm"`
}

type CreateRequest struct {
	Type     PostType    `json:"type"`
	Text     string      `json:"text"`
	PhotoURL string      `json:"photoURL"`
	LinkURL  string      `json:"linkURL"`
	Poll     *poll.Draft `json:"poll"`
	Lat      float64     `json:"lat"`
	Lng      float64     `json:"lng"`
}

// Validate checks that the payload carries what its type needs.
func (cr *CreateRequest) Validate() error {
	if err := (geo.Point{Lat: cr.Lat, Lng: cr.Lng}).Validate(); err != nil {
		return err
	}
	cr.Text = strings.TrimSpace(cr.Text)
	cr.PhotoURL = strings.TrimSpace(cr.PhotoURL)
	cr.LinkURL = strings.TrimSpace(cr.LinkURL)
	if len([]rune(cr.Text)) > MaxTextLen {
		return ErrInvalidPost
	}

	switch cr.Type {
	case TypeText:
		if cr.Text == "" {
			return ErrInvalidPost
		}
	case TypePhoto:
		if cr.PhotoURL == "" {
			return ErrInvalidPost
		}
	case TypeLink:
		if cr.LinkURL == "" {
			return ErrInvalidPost
		}
	case TypePoll:
		if cr.Poll == nil {
			return poll.ErrInvalidPoll
		}
		d, err := cr.Poll.Normalize()
		if err != nil {
			return err
		}
		cr.Poll = &d
	default:
		return ErrInvalidPost
	}
	if cr.Type != TypePoll {
		cr.Poll = nil
	}
	return nil
}

// EncodeCursor turns the creation time of the last post of a page into the
// opaque cursor of the next one.
func EncodeCursor(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func DecodeCursor(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, ErrInvalidCursor
	}
	return t, nil
}
