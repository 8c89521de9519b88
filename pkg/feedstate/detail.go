package feedstate

import (
	"context"
	"strings"
	"sync"
	"time"

	"spotted/pkg/client"
	"spotted/pkg/comment"
	"spotted/pkg/logger"
	"spotted/pkg/post"
	"spotted/pkg/voting"
)

// Detail is the view model of one post with its comments, newest first.
type Detail struct {
	api  API
	feed *Feed
	now  func() time.Time

	mu       sync.Mutex
	post     *post.Post
	comments []*comment.Comment
	cursor   *string
	loading  bool
	gone     bool
	pending  tracker
}

// NewDetail opens a post. cached is the copy the feed already shows; feed may
// be nil, otherwise votes and comment counts are mirrored into it.
func NewDetail(api API, cached *post.Post, feed *Feed) *Detail {
	cp := *cached
	return &Detail{
		api:     api,
		feed:    feed,
		now:     time.Now,
		post:    &cp,
		pending: tracker{},
	}
}

// Load fetches the post and the first page of comments. When the server no
// longer has the post (expired or hidden) the cached copy stays on screen
// and Gone reports true. A successful load drops pending rollbacks like
// Feed.Load does.
func (d *Detail) Load(ctx context.Context) error {
	d.mu.Lock()
	if d.loading {
		d.mu.Unlock()
		return ErrLoading
	}
	d.loading = true
	id := string(d.post.Id)
	d.mu.Unlock()

	resp, err := d.api.Post(ctx, id, "")

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false
	if client.IsNotFound(err) {
		d.gone = true
		return err
	}
	if err != nil {
		return err
	}
	cp := *resp.Post
	d.post = &cp
	d.pending = tracker{}
	d.comments = append(d.comments[:0], resp.Comments...)
	d.cursor = resp.NextCursor
	d.gone = false
	return nil
}

// LoadMore appends the next page of older comments.
func (d *Detail) LoadMore(ctx context.Context) (bool, error) {
	d.mu.Lock()
	if d.loading || d.cursor == nil {
		d.mu.Unlock()
		return false, nil
	}
	d.loading = true
	id, cursor := string(d.post.Id), *d.cursor
	d.mu.Unlock()

	resp, err := d.api.Post(ctx, id, cursor)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false
	if err != nil {
		if client.IsNotFound(err) {
			d.gone = true
		}
		return true, err
	}
	d.comments = append(d.comments, resp.Comments...)
	d.cursor = resp.NextCursor
	return true, nil
}

func (d *Detail) Post() *post.Post {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := *d.post
	return &cp
}

func (d *Detail) Comments() []comment.Comment {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]comment.Comment, len(d.comments))
	for i, c := range d.comments {
		out[i] = *c
	}
	return out
}

func (d *Detail) Gone() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gone
}

func (d *Detail) HasMore() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor != nil
}

func (d *Detail) Pending() []PendingMutation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending.list()
}

// Vote has the same press semantics and rollback as Feed.Vote. The feed row
// follows the detail copy and is rolled back with it.
func (d *Detail) Vote(ctx context.Context, pressed voting.VotingScore) error {
	if err := pressed.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	if strings.HasPrefix(string(d.post.Id), TempPrefix) {
		d.mu.Unlock()
		return ErrNotSaved
	}
	m := applyVote(d.post, pressed)
	d.pending.track(string(m.PostId), m)
	d.mu.Unlock()

	var (
		fm       PendingMutation
		mirrored bool
	)
	if d.feed != nil {
		fm, mirrored = d.feed.mirrorVote(m)
	}

	_, err := d.api.Vote(ctx, string(m.PostId), m.Target)

	if mirrored {
		if err != nil {
			d.feed.RollbackVote(fm)
		} else {
			d.feed.Settle(fm)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	live := d.pending.take(string(m.PostId), m)
	if err != nil {
		if live {
			revertVote(d.post, m)
		} else {
			logger.Log(ctx).Warnf("vote on %s failed after being superseded: %v", m.PostId, err)
		}
		return err
	}
	return nil
}

// AddComment shows the comment at the top with a temporary id and bumps the
// count. The server's comment replaces it on success; on failure both the
// comment and the count change are undone.
func (d *Detail) AddComment(ctx context.Context, text, nickname string) (*comment.Comment, error) {
	text, err := comment.NormalizeText(text)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	tmp := &comment.Comment{
		Id:       comment.CommentId(tempId()),
		PostId:   string(d.post.Id),
		Nickname: nickname,
		Created:  d.now().UTC(),
		Body:     text,
	}
	m := PendingMutation{
		Token:         newToken(),
		Kind:          KindComment,
		PostId:        d.post.Id,
		TempCommentId: tmp.Id,
		CountDelta:    1,
	}
	d.comments = append([]*comment.Comment{tmp}, d.comments...)
	d.post.CommentCount += m.CountDelta
	d.pending.track(string(tmp.Id), m)
	d.mu.Unlock()
	if d.feed != nil {
		d.feed.mirrorComment(m)
	}

	created, err := d.api.AddComment(ctx, string(m.PostId), text)

	if d.feed != nil {
		d.feed.settleComment(m, err != nil)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	live := d.pending.take(string(tmp.Id), m)
	idx := -1
	for i, c := range d.comments {
		if c.Id == tmp.Id {
			idx = i
			break
		}
	}

	if err != nil {
		if idx >= 0 {
			d.comments = append(d.comments[:idx], d.comments[idx+1:]...)
		}
		if live {
			d.post.CommentCount -= m.CountDelta
		} else {
			logger.Log(ctx).Warnf("comment on %s failed after a reload: %v", m.PostId, err)
		}
		return nil, err
	}

	cp := *created
	if cp.Nickname == "" {
		cp.Nickname = nickname
	}
	if idx >= 0 {
		d.comments[idx] = &cp
	}
	out := cp
	return &out, nil
}
