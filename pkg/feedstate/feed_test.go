package feedstate

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotted/pkg/ad"
	"spotted/pkg/client"
	"spotted/pkg/post"
	"spotted/pkg/voting"
)

var (
	t0     = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	area   = client.FeedParams{Lat: 41, Lng: 29, RadiusKm: 2}
	netErr = fmt.Errorf("network is unreachable")
)

func newFeed(t *testing.T) (*Feed, *MockAPI) {
	ctrl := gomock.NewController(t)
	api := NewMockAPI(ctrl)
	return NewFeed(api, 8), api
}

func mkPost(id string, score int, vote voting.VotingScore, age time.Duration) *post.Post {
	return &post.Post{Id: post.PostId(id), Type: post.TypeText, Score: score, UserVote: vote, Created: t0.Add(-age)}
}

func loaded(t *testing.T, posts ...*post.Post) (*Feed, *MockAPI) {
	f, api := newFeed(t)
	api.EXPECT().Feed(gomock.Any(), area).Return(&post.FeedResponse{Posts: posts}, nil)
	require.NoError(t, f.Load(context.Background(), area))
	return f, api
}

func TestVoteRollbackRestoresPreMutationState(t *testing.T) {
	f, api := loaded(t, mkPost("p1", 10, voting.ScoreDiscard, 0))

	api.EXPECT().Vote(gomock.Any(), "p1", voting.ScoreUp).
		DoAndReturn(func(context.Context, string, voting.VotingScore) (voting.Result, error) {
			p, _ := f.Get("p1")
			assert.Equal(t, 11, p.Score)
			assert.Equal(t, voting.ScoreUp, p.UserVote)
			assert.Len(t, f.Pending(), 1)
			return voting.Result{}, netErr
		})

	err := f.Vote(context.Background(), "p1", voting.ScoreUp)
	assert.ErrorIs(t, err, netErr)

	p, ok := f.Get("p1")
	require.True(t, ok)
	assert.Equal(t, 10, p.Score)
	assert.Equal(t, voting.ScoreDiscard, p.UserVote)
	assert.Empty(t, f.Pending())
}

func TestVoteSuccessKeepsSpeculativeState(t *testing.T) {
	f, api := loaded(t, mkPost("p1", 10, voting.ScoreDiscard, 0))
	api.EXPECT().Vote(gomock.Any(), "p1", voting.ScoreDown).
		Return(voting.Result{Previous: voting.ScoreDiscard, Current: voting.ScoreDown, Delta: -1}, nil)

	require.NoError(t, f.Vote(context.Background(), "p1", voting.ScoreDown))

	p, _ := f.Get("p1")
	assert.Equal(t, 9, p.Score)
	assert.Equal(t, voting.ScoreDown, p.UserVote)
	assert.Empty(t, f.Pending())
}

func TestVotePressingActiveDirectionClears(t *testing.T) {
	f, api := loaded(t, mkPost("p1", 5, voting.ScoreUp, 0))
	api.EXPECT().Vote(gomock.Any(), "p1", voting.ScoreDiscard).Return(voting.Result{Delta: -1}, nil)

	require.NoError(t, f.Vote(context.Background(), "p1", voting.ScoreUp))
	p, _ := f.Get("p1")
	assert.Equal(t, 4, p.Score)
	assert.Equal(t, voting.ScoreDiscard, p.UserVote)
}

func TestVoteRejectedLocally(t *testing.T) {
	f, _ := loaded(t, mkPost("p1", 5, voting.ScoreDiscard, 0))

	assert.ErrorIs(t, f.Vote(context.Background(), "p1", voting.VotingScore(3)), voting.ErrInvalidValue)
	assert.ErrorIs(t, f.Vote(context.Background(), "nope", voting.ScoreUp), ErrUnknownPost)
	p, _ := f.Get("p1")
	assert.Equal(t, 5, p.Score)
}

// A second press applies to the still speculative state and takes over the
// rollback token, so the first failure no longer rolls anything back.
func TestChainedVotesSupersedeRollback(t *testing.T) {
	f, api := loaded(t, mkPost("p1", 10, voting.ScoreDiscard, 0))
	started, release := make(chan struct{}), make(chan struct{})

	api.EXPECT().Vote(gomock.Any(), "p1", voting.ScoreUp).
		DoAndReturn(func(context.Context, string, voting.VotingScore) (voting.Result, error) {
			close(started)
			<-release
			return voting.Result{}, netErr
		})
	api.EXPECT().Vote(gomock.Any(), "p1", voting.ScoreDown).Return(voting.Result{}, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.ErrorIs(t, f.Vote(context.Background(), "p1", voting.ScoreUp), netErr)
	}()
	<-started

	require.NoError(t, f.Vote(context.Background(), "p1", voting.ScoreDown))
	p, _ := f.Get("p1")
	assert.Equal(t, 9, p.Score)

	close(release)
	wg.Wait()

	p, _ = f.Get("p1")
	assert.Equal(t, 9, p.Score)
	assert.Equal(t, voting.ScoreDown, p.UserVote)
}

// A refresh while the vote is in flight installs server state; the late
// failure must not be subtracted from it.
func TestVoteFailureAfterReloadKeepsServerState(t *testing.T) {
	f, api := loaded(t, mkPost("p1", 10, voting.ScoreDiscard, 0))

	api.EXPECT().Vote(gomock.Any(), "p1", voting.ScoreUp).
		DoAndReturn(func(ctx context.Context, _ string, _ voting.VotingScore) (voting.Result, error) {
			api.EXPECT().Feed(gomock.Any(), area).
				Return(&post.FeedResponse{Posts: []*post.Post{mkPost("p1", 10, voting.ScoreDiscard, 0)}}, nil)
			require.NoError(t, f.Load(ctx, area))
			assert.Empty(t, f.Pending())
			return voting.Result{}, netErr
		})

	assert.ErrorIs(t, f.Vote(context.Background(), "p1", voting.ScoreUp), netErr)

	p, ok := f.Get("p1")
	require.True(t, ok)
	assert.Equal(t, 10, p.Score)
	assert.Equal(t, voting.ScoreDiscard, p.UserVote)
}

func TestApplyAndRollbackVote(t *testing.T) {
	f, _ := loaded(t, mkPost("p1", 0, voting.ScoreDiscard, 0))

	first, err := f.ApplyVote("p1", voting.ScoreUp)
	require.NoError(t, err)
	second, err := f.ApplyVote("p1", voting.ScoreDown)
	require.NoError(t, err)
	assert.Equal(t, KindVote, second.Kind)
	assert.Equal(t, voting.ScoreUp, second.PrevVote)
	assert.Equal(t, -2, second.ScoreDelta)

	assert.False(t, f.RollbackVote(first))
	assert.True(t, f.RollbackVote(second))
	assert.False(t, f.RollbackVote(second))

	p, _ := f.Get("p1")
	assert.Equal(t, 1, p.Score)
	assert.Equal(t, voting.ScoreUp, p.UserVote)
}

func TestLoadMoreIsGuardedWhileInFlight(t *testing.T) {
	f, api := newFeed(t)
	cursor := "c1"
	api.EXPECT().Feed(gomock.Any(), area).
		Return(&post.FeedResponse{Posts: []*post.Post{mkPost("p1", 0, 0, 0)}, NextCursor: &cursor}, nil)
	require.NoError(t, f.Load(context.Background(), area))
	require.True(t, f.HasMore())

	started, release := make(chan struct{}), make(chan struct{})
	next := area
	next.Cursor = "c1"
	api.EXPECT().Feed(gomock.Any(), next).
		DoAndReturn(func(context.Context, client.FeedParams) (*post.FeedResponse, error) {
			close(started)
			<-release
			return &post.FeedResponse{Posts: []*post.Post{mkPost("p2", 0, 0, time.Minute)}}, nil
		}).Times(1)

	done := make(chan bool)
	go func() {
		ok, err := f.LoadMore(context.Background())
		assert.NoError(t, err)
		done <- ok
	}()
	<-started

	ok, err := f.LoadMore(context.Background())
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, f.Load(context.Background(), area), ErrLoading)

	close(release)
	assert.True(t, <-done)
	assert.False(t, f.HasMore())
	assert.Len(t, f.Items(), 2)

	// Last page reached.
	ok, err = f.LoadMore(context.Background())
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestAppendPageSkipsDuplicates(t *testing.T) {
	f, _ := loaded(t, mkPost("p1", 1, 0, 0), mkPost("p2", 1, 0, time.Minute))
	f.AppendPage(&post.FeedResponse{Posts: []*post.Post{mkPost("p2", 3, 0, time.Minute), mkPost("p3", 0, 0, 2*time.Minute)}})

	items := f.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "p2", items[0].Key)
	assert.Equal(t, 3, items[0].Post.Score)
}

func TestItemsSortByScoreAndInterleaveAd(t *testing.T) {
	posts := make([]*post.Post, 16)
	for i := range posts {
		posts[i] = mkPost(fmt.Sprintf("p%02d", i), i%4, 0, time.Duration(i)*time.Minute)
	}
	f, api := newFeed(t)
	api.EXPECT().Feed(gomock.Any(), area).Return(&post.FeedResponse{Posts: posts, Ad: &ad.Ad{Id: "ad1"}}, nil)
	require.NoError(t, f.Load(context.Background(), area))

	items := f.Items()
	require.Len(t, items, 18)
	assert.Equal(t, "ad1-8", items[8].Key)
	assert.Equal(t, "ad1", items[8].Ad.Id)
	assert.Equal(t, "ad1-16", items[17].Key)

	var prev = 1 << 30
	for _, it := range items {
		if it.Post == nil {
			continue
		}
		assert.LessOrEqual(t, it.Post.Score, prev)
		prev = it.Post.Score
	}
	// Equal scores keep newest first.
	assert.Equal(t, "p03", items[0].Key)
	assert.Equal(t, "p07", items[1].Key)
}

func TestItemsEmptyFeedWithAd(t *testing.T) {
	f, api := newFeed(t)
	api.EXPECT().Feed(gomock.Any(), area).Return(&post.FeedResponse{Posts: []*post.Post{}, Ad: &ad.Ad{Id: "ad1"}}, nil)
	require.NoError(t, f.Load(context.Background(), area))

	items := f.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "ad1-empty", items[0].Key)
}

func TestCreatePostOptimistic(t *testing.T) {
	req := post.CreateRequest{Type: post.TypeText, Text: "hello", Lat: 41, Lng: 29}

	t.Run("server copy replaces the temporary one", func(t *testing.T) {
		f, api := loaded(t, mkPost("p1", 0, 0, time.Minute))
		api.EXPECT().CreatePost(gomock.Any(), req).
			DoAndReturn(func(context.Context, post.CreateRequest) (*post.Post, error) {
				items := f.Items()
				require.Len(t, items, 2)
				assert.Contains(t, items[0].Key, TempPrefix)
				assert.Equal(t, "hello", items[0].Post.Text)
				return &post.Post{Id: "p9", Type: post.TypeText, Text: "hello", Created: t0}, nil
			})

		p, err := f.CreatePost(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, post.PostId("p9"), p.Id)

		items := f.Items()
		require.Len(t, items, 2)
		assert.Equal(t, "p9", items[0].Key)
		assert.Empty(t, f.Pending())
	})

	t.Run("failure removes the temporary post", func(t *testing.T) {
		f, api := loaded(t, mkPost("p1", 0, 0, time.Minute))
		api.EXPECT().CreatePost(gomock.Any(), req).Return(nil, netErr)

		_, err := f.CreatePost(context.Background(), req)
		assert.ErrorIs(t, err, netErr)

		items := f.Items()
		require.Len(t, items, 1)
		assert.Equal(t, "p1", items[0].Key)
	})

	t.Run("temporary post cannot be voted", func(t *testing.T) {
		f, api := loaded(t)
		api.EXPECT().CreatePost(gomock.Any(), req).
			DoAndReturn(func(context.Context, post.CreateRequest) (*post.Post, error) {
				tmp := f.Items()[0].Post.Id
				assert.ErrorIs(t, f.Vote(context.Background(), tmp, voting.ScoreUp), ErrNotSaved)
				return &post.Post{Id: "p9"}, nil
			})

		_, err := f.CreatePost(context.Background(), req)
		require.NoError(t, err)
	})
}

func TestItemsUseServerSponsorInterval(t *testing.T) {
	f, api := newFeed(t)
	posts := make([]*post.Post, 4)
	for i := range posts {
		posts[i] = mkPost(fmt.Sprintf("p%d", i), 0, 0, time.Duration(i)*time.Minute)
	}
	api.EXPECT().Feed(gomock.Any(), area).
		Return(&post.FeedResponse{Posts: posts, Ad: &ad.Ad{Id: "ad1"}, SponsorEvery: 2}, nil)
	require.NoError(t, f.Load(context.Background(), area))

	items := f.Items()
	require.Len(t, items, 6)
	assert.Equal(t, "ad1-2", items[2].Key)
	assert.Equal(t, "ad1-4", items[5].Key)
}
