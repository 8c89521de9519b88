// Package feedstate is the client-side view model of the feed and of a post
// detail screen. It applies votes, comments and new posts optimistically and
// reverts them when the server rejects the change.
package feedstate

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"spotted/pkg/ad"
	"spotted/pkg/client"
	"spotted/pkg/comment"
	"spotted/pkg/logger"
	"spotted/pkg/post"
	"spotted/pkg/sponsor"
	"spotted/pkg/voting"
)

var (
	ErrLoading     = errors.New("feedstate: a page is already loading")
	ErrUnknownPost = errors.New("feedstate: post is not in the feed")
	ErrNotSaved    = errors.New("feedstate: post is not saved yet")
)

// API is the part of the HTTP client the view models call.
type API interface {
	Feed(ctx context.Context, p client.FeedParams) (*post.FeedResponse, error)
	Post(ctx context.Context, postId, cursor string) (*post.DetailResponse, error)
	CreatePost(ctx context.Context, req post.CreateRequest) (*post.Post, error)
	Vote(ctx context.Context, postId string, score voting.VotingScore) (voting.Result, error)
	AddComment(ctx context.Context, postId, text string) (*comment.Comment, error)
}

var _ API = (*client.Client)(nil)

// Item is one display row: a post or the sponsored ad.
type Item struct {
	Key  string
	Post *post.Post
	Ad   *ad.Ad
}

// Feed owns the posts of the current area. All access goes through its
// methods; returned posts are copies.
type Feed struct {
	api   API
	every int
	now   func() time.Time

	mu      sync.Mutex
	params  client.FeedParams
	posts   map[post.PostId]*post.Post
	order   []post.PostId
	ad      *ad.Ad
	cursor  *string
	loading bool
	pending tracker
}

// NewFeed starts an empty feed. sponsorEvery is used until the server sends
// its own interval with a page.
func NewFeed(api API, sponsorEvery int) *Feed {
	if sponsorEvery <= 0 {
		sponsorEvery = sponsor.DefaultEvery
	}
	return &Feed{
		api:     api,
		every:   sponsorEvery,
		now:     time.Now,
		posts:   map[post.PostId]*post.Post{},
		pending: tracker{},
	}
}

func (f *Feed) begin() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loading {
		return false
	}
	f.loading = true
	return true
}

func (f *Feed) end() {
	f.mu.Lock()
	f.loading = false
	f.mu.Unlock()
}

// Load replaces the feed with the first page for the given area. The result
// is authoritative and drops any drift left by earlier rollbacks. Mutations
// still in flight lose their rollback: a late failure only gets logged.
func (f *Feed) Load(ctx context.Context, params client.FeedParams) error {
	if !f.begin() {
		return ErrLoading
	}
	defer f.end()

	params.Cursor = ""
	resp, err := f.api.Feed(ctx, params)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = params
	f.posts = map[post.PostId]*post.Post{}
	f.order = f.order[:0]
	f.pending = tracker{}
	f.appendPage(resp)
	return nil
}

// LoadMore fetches the page after the last one. It returns false without a
// request when there is no next page or another load is running.
func (f *Feed) LoadMore(ctx context.Context) (bool, error) {
	f.mu.Lock()
	if f.loading || f.cursor == nil {
		f.mu.Unlock()
		return false, nil
	}
	f.loading = true
	params := f.params
	params.Cursor = *f.cursor
	f.mu.Unlock()
	defer f.end()

	resp, err := f.api.Feed(ctx, params)
	if err != nil {
		return true, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendPage(resp)
	return true, nil
}

// AppendPage merges a page the caller fetched itself.
func (f *Feed) AppendPage(resp *post.FeedResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendPage(resp)
}

func (f *Feed) appendPage(resp *post.FeedResponse) {
	for _, p := range resp.Posts {
		if _, seen := f.posts[p.Id]; !seen {
			f.order = append(f.order, p.Id)
		}
		cp := *p
		f.posts[p.Id] = &cp
	}
	f.cursor = resp.NextCursor
	if resp.SponsorEvery > 0 {
		f.every = resp.SponsorEvery
	}
	if resp.Ad != nil || len(f.order) == 0 {
		f.ad = resp.Ad
	}
}

// HasMore reports whether the server announced another page.
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor != nil
}

// Items returns the display rows: posts by score, highest first, with the ad
// interleaved. Ties keep the server's newest-first order.
func (f *Feed) Items() []Item {
	f.mu.Lock()
	defer f.mu.Unlock()

	sorted := make([]*post.Post, 0, len(f.order))
	for _, id := range f.order {
		cp := *f.posts[id]
		sorted = append(sorted, &cp)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	ids := make([]string, len(sorted))
	for i, p := range sorted {
		ids[i] = string(p.Id)
	}
	adId := ""
	if f.ad != nil {
		adId = f.ad.Id
	}

	slots := sponsor.Interleave(ids, adId, f.every)
	items := make([]Item, 0, len(slots))
	for _, s := range slots {
		if s.Sponsored {
			a := *f.ad
			items = append(items, Item{Key: s.Key, Ad: &a})
			continue
		}
		items = append(items, Item{Key: s.Key, Post: sorted[s.Index]})
	}
	return items
}

// Get returns a copy of a post held by the feed.
func (f *Feed) Get(id post.PostId) (*post.Post, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

// Pending lists the mutations whose rollback is still tracked.
func (f *Feed) Pending() []PendingMutation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending.list()
}

// ApplyVote applies a vote press to the local copy and tracks its rollback.
func (f *Feed) ApplyVote(id post.PostId, pressed voting.VotingScore) (PendingMutation, error) {
	if err := pressed.Validate(); err != nil {
		return PendingMutation{}, err
	}
	if strings.HasPrefix(string(id), TempPrefix) {
		return PendingMutation{}, ErrNotSaved
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return PendingMutation{}, ErrUnknownPost
	}
	m := applyVote(p, pressed)
	f.pending.track(string(id), m)
	return m, nil
}

// RollbackVote reverts m if it is still the tracked mutation of its post.
// A superseded mutation is left in place.
func (f *Feed) RollbackVote(m PendingMutation) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.pending.take(string(m.PostId), m) {
		return false
	}
	if p, ok := f.posts[m.PostId]; ok {
		revertVote(p, m)
	}
	return true
}

// Settle forgets m after the server accepted it; the speculative state stays.
func (f *Feed) Settle(m PendingMutation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending.take(string(m.PostId), m)
}

// Vote presses a vote button: pressing the active direction clears the vote.
// On failure the local state is restored and the error returned for display.
func (f *Feed) Vote(ctx context.Context, id post.PostId, pressed voting.VotingScore) error {
	m, err := f.ApplyVote(id, pressed)
	if err != nil {
		return err
	}
	if _, err := f.api.Vote(ctx, string(id), m.Target); err != nil {
		if !f.RollbackVote(m) {
			logger.Log(ctx).Warnf("vote on %s failed after being superseded: %v", id, err)
		}
		return err
	}
	f.Settle(m)
	return nil
}

// CreatePost shows the post at the top of the feed right away and swaps in
// the server's copy once it is stored. On failure the temporary post is
// removed.
func (f *Feed) CreatePost(ctx context.Context, req post.CreateRequest) (*post.Post, error) {
	tmp := &post.Post{
		Id:       post.PostId(tempId()),
		Type:     req.Type,
		Text:     req.Text,
		PhotoURL: req.PhotoURL,
		LinkURL:  req.LinkURL,
		Lat:      req.Lat,
		Lng:      req.Lng,
		Created:  f.now().UTC(),
	}
	m := PendingMutation{Token: newToken(), Kind: KindCreatePost, PostId: tmp.Id}

	f.mu.Lock()
	f.posts[tmp.Id] = tmp
	f.order = append([]post.PostId{tmp.Id}, f.order...)
	f.pending.track(string(tmp.Id), m)
	f.mu.Unlock()

	created, err := f.api.CreatePost(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending.take(string(tmp.Id), m)
	delete(f.posts, tmp.Id)
	idx := f.indexOf(tmp.Id)
	if err != nil {
		if idx >= 0 {
			f.order = append(f.order[:idx], f.order[idx+1:]...)
		}
		return nil, err
	}

	cp := *created
	f.posts[cp.Id] = &cp
	if idx >= 0 {
		f.order[idx] = cp.Id
	} else {
		f.order = append([]post.PostId{cp.Id}, f.order...)
	}
	out := cp
	return &out, nil
}

func (f *Feed) indexOf(id post.PostId) int {
	for i, o := range f.order {
		if o == id {
			return i
		}
	}
	return -1
}

// mirrorVote copies a vote made on a detail screen into the feed's row. The
// delta is taken from the row's own state, so the two copies may differ
// before the press and still agree after it.
func (f *Feed) mirrorVote(m PendingMutation) (PendingMutation, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[m.PostId]
	if !ok {
		return PendingMutation{}, false
	}
	fm := m
	fm.PrevVote = p.UserVote
	fm.ScoreDelta = voting.Delta(p.UserVote, m.Target)
	p.Score += fm.ScoreDelta
	p.UserVote = fm.Target
	f.pending.track(string(m.PostId), fm)
	return fm, true
}

// mirrorComment bumps the row's comment count for a comment posted on a
// detail screen.
func (f *Feed) mirrorComment(m PendingMutation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[m.PostId]
	if !ok {
		return
	}
	p.CommentCount += m.CountDelta
	f.pending.track(string(m.TempCommentId), m)
}

// settleComment undoes the bump when failed, unless a reload has already
// replaced the row.
func (f *Feed) settleComment(m PendingMutation, failed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.pending.take(string(m.TempCommentId), m) || !failed {
		return
	}
	if p, ok := f.posts[m.PostId]; ok {
		p.CommentCount -= m.CountDelta
	}
}
