package feedstate

import (
	"github.com/google/uuid"

	"spotted/pkg/comment"
	"spotted/pkg/post"
	"spotted/pkg/voting"
)

type Kind int

const (
	KindVote Kind = iota + 1
	KindComment
	KindCreatePost
)

func (k Kind) String() string {
	switch k {
	case KindVote:
		return "vote"
	case KindComment:
		return "comment"
	case KindCreatePost:
		return "create_post"
	}
	return "unknown"
}

// PendingMutation is applied locally before the server has confirmed it and
// carries what is needed to undo it.
type PendingMutation struct {
	Token  string
	Kind   Kind
	PostId post.PostId

	// KindVote
	PrevVote   voting.VotingScore
	Target     voting.VotingScore
	ScoreDelta int

	// KindComment
	TempCommentId comment.CommentId
	CountDelta    int
}

func newToken() string {
	return uuid.NewString()
}

// TempPrefix marks ids minted on the device for rows the server has not
// acknowledged yet.
const TempPrefix = "tmp-"

func tempId() string {
	return TempPrefix + uuid.NewString()
}

// applyVote moves p to the state produced by pressing a vote button and
// returns the record that reverts it. It works from p's current, possibly
// speculative, state.
func applyVote(p *post.Post, pressed voting.VotingScore) PendingMutation {
	target := voting.Toggle(p.UserVote, pressed)
	m := PendingMutation{
		Token:      newToken(),
		Kind:       KindVote,
		PostId:     p.Id,
		PrevVote:   p.UserVote,
		Target:     target,
		ScoreDelta: voting.Delta(p.UserVote, target),
	}
	p.Score += m.ScoreDelta
	p.UserVote = target
	return m
}

func revertVote(p *post.Post, m PendingMutation) {
	p.Score -= m.ScoreDelta
	p.UserVote = m.PrevVote
}

// tracker holds the single live rollback token per entity. A newer mutation
// on the same entity replaces the older token, so only the newest one can
// still be rolled back.
type tracker map[string]PendingMutation

func (t tracker) track(key string, m PendingMutation) {
	t[key] = m
}

// take removes and reports whether m is still the live token for key.
func (t tracker) take(key string, m PendingMutation) bool {
	cur, ok := t[key]
	if !ok || cur.Token != m.Token {
		return false
	}
	delete(t, key)
	return true
}

func (t tracker) list() []PendingMutation {
	out := make([]PendingMutation, 0, len(t))
	for _, m := range t {
		out = append(out, m)
	}
	return out
}
