package poll

import (
	"errors"
	"strings"
)

const (
	MinOptions = 2
	MaxOptions = 4
)

var (
	ErrNotFound      = errors.New("poll: poll not found")
	ErrInvalidOption = errors.New("poll: option does not belong to poll")
	ErrInvalidPoll   = errors.New("poll: question and 2-4 options are required")
)

type Option struct {
	Id          string `json:"id"`
	Text        string `json:"text"`
	Votes       int    `json:"votes"`
	VotePercent int    `json:"votePercent"`
}

type Poll struct {
	Id       string    `json:"id"`
	Question string    `json:"question"`
	Options  []*Option `json:"options"`
	// Option picked by the viewer, empty if none.
	UserOptionId string `json:"userOptionId,omitempty"`
}

// Draft is the poll part of a create-post request.
type Draft struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Normalize trims the draft and drops blank options.
func (d Draft) Normalize() (Draft, error) {
	out := Draft{Question: strings.TrimSpace(d.Question)}
	for _, o := range d.Options {
		if o = strings.TrimSpace(o); o != "" {
			out.Options = append(out.Options, o)
		}
	}
	if out.Question == "" || len(out.Options) < MinOptions || len(out.Options) > MaxOptions {
		return Draft{}, ErrInvalidPoll
	}
	return out, nil
}

func fillPercents(options []*Option) {
	total := 0
	for _, o := range options {
		total += o.Votes
	}
	for _, o := range options {
		if total == 0 {
			o.VotePercent = 0
			continue
		}
		o.VotePercent = (o.Votes*100 + total/2) / total
	}
}
