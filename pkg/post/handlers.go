package post

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"spotted/pkg/ad"
	"spotted/pkg/comment"
	. "spotted/pkg/common"
	"spotted/pkg/events"
	"spotted/pkg/geo"
	"spotted/pkg/logger"
	"spotted/pkg/poll"
	"spotted/pkg/sessions"
	"spotted/pkg/sponsor"
	"spotted/pkg/voting"
)

type (
	IPostRepo interface {
		Add(ctx context.Context, p *Post, pd *poll.Draft) error
		GetById(ctx context.Context, id PostId, viewerId string) (*Post, error)
		Nearby(ctx context.Context, q NearbyQuery) ([]*Post, error)
	}

	IVoteRepo interface {
		Vote(ctx context.Context, postId, userId string, score voting.VotingScore) (voting.Result, error)
		Unvote(ctx context.Context, postId, userId string) (voting.Result, error)
	}

	ICommentRepo interface {
		Add(ctx context.Context, postId, userId, text string) (*comment.Comment, error)
		ListByPost(ctx context.Context, postId string, limit int, before time.Time) ([]*comment.Comment, error)
	}

	IAdSource interface {
		NextActive(ctx context.Context, city string) (*ad.Ad, error)
	}

	IEventPublisher interface {
		PublishPostCreated(ctx context.Context, ev events.PostCreated) error
	}
)

type Options struct {
	GridMeters      float64
	PageSize        int
	CommentPageSize int
	TTL             time.Duration
	AdCity          string
	SponsorEvery    int
}

type PostHandler struct {
	PostRepo    IPostRepo
	VoteRepo    IVoteRepo
	CommentRepo ICommentRepo
	Ads         IAdSource
	Events      IEventPublisher
	Opts        Options

	now func() time.Time
}

func NewPostHandler(posts IPostRepo, votes IVoteRepo, comments ICommentRepo, ads IAdSource, ev IEventPublisher, opts Options) *PostHandler {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.CommentPageSize <= 0 {
		opts.CommentPageSize = 50
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.SponsorEvery <= 0 {
		opts.SponsorEvery = sponsor.DefaultEvery
	}
	return &PostHandler{
		PostRepo:    posts,
		VoteRepo:    votes,
		CommentRepo: comments,
		Ads:         ads,
		Events:      ev,
		Opts:        opts,
		now:         time.Now,
	}
}

// FeedResponse carries the ad separately; clients interleave it after every
// SponsorEvery posts.
type FeedResponse struct {
	Posts        []*Post `json:"posts"`
	Ad           *ad.Ad  `json:"ad"`
	NextCursor   *string `json:"nextCursor"`
	SponsorEvery int     `json:"sponsorEvery,omitempty"`
}

type DetailResponse struct {
	Post       *Post              `json:"post"`
	Comments   []*comment.Comment `json:"comments"`
	NextCursor *string            `json:"nextCursor"`
}

func viewerId(r *http.Request) string {
	if u, err := sessions.GetAuthUser(r.Context()); err == nil {
		return u.Id
	}
	return ""
}

func parseFloat(q map[string][]string, key string) (float64, bool) {
	vals, ok := q[key]
	if !ok || len(vals) == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(vals[0], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Feed serves GET /feed?lat=&lng=&radius_km=&cursor=
func (ph *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, okLat := parseFloat(q, "lat")
	lng, okLng := parseFloat(q, "lng")
	radius, okRadius := parseFloat(q, "radius_km")
	viewer := geo.Point{Lat: lat, Lng: lng}
	if !okLat || !okLng || viewer.Validate() != nil {
		WriteErr(w, CodeInvalidLocation, "lat and lng are required and must be in range", http.StatusBadRequest)
		return
	}
	if !okRadius || math.IsNaN(radius) || math.IsInf(radius, 0) || radius < 0 {
		WriteErr(w, CodeInvalidRequest, "radius_km must be a non-negative number", http.StatusBadRequest)
		return
	}

	var before time.Time
	if c := q.Get("cursor"); c != "" {
		t, err := DecodeCursor(c)
		if err != nil {
			WriteErr(w, CodeInvalidCursor, err.Error(), http.StatusBadRequest)
			return
		}
		before = t
	}

	posts, err := ph.PostRepo.Nearby(r.Context(), NearbyQuery{
		Center:   geo.Snap(viewer, ph.Opts.GridMeters),
		RadiusKm: radius,
		Before:   before,
		Limit:    ph.Opts.PageSize,
		ViewerId: viewerId(r),
	})
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load feed: %v", err)
		WriteErr(w, CodeInternal, "failed loading feed", http.StatusInternalServerError)
		return
	}

	resp := FeedResponse{Posts: posts, SponsorEvery: ph.Opts.SponsorEvery}
	if len(posts) == ph.Opts.PageSize {
		c := EncodeCursor(posts[len(posts)-1].Created)
		resp.NextCursor = &c
	}
	if ph.Ads != nil {
		// The feed is still useful without an ad.
		a, err := ph.Ads.NextActive(r.Context(), ph.Opts.AdCity)
		if err != nil {
			logger.Log(r.Context()).Warnf("can't load ad for feed: %v", err)
		}
		resp.Ad = a
	}

	w.Header().Set("Content-Type", "application/json")
	WriteRespJSON(w, resp)
}

// Get serves the post detail with a page of comments.
func (ph *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postId := mux.Vars(r)["post_id"]

	var before time.Time
	if c := r.URL.Query().Get("cursor"); c != "" {
		t, err := DecodeCursor(c)
		if err != nil {
			WriteErr(w, CodeInvalidCursor, err.Error(), http.StatusBadRequest)
			return
		}
		before = t
	}

	p, err := ph.PostRepo.GetById(r.Context(), PostId(postId), viewerId(r))
	if errors.Is(err, ErrNotFound) {
		WriteErr(w, CodeNotFound, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't find the post %s: %v", postId, err)
		WriteErr(w, CodeInternal, "failed loading post", http.StatusInternalServerError)
		return
	}

	comments, err := ph.CommentRepo.ListByPost(r.Context(), postId, ph.Opts.CommentPageSize, before)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load comments of %s: %v", postId, err)
		WriteErr(w, CodeInternal, "failed loading comments", http.StatusInternalServerError)
		return
	}

	resp := DetailResponse{Post: p, Comments: comments}
	if len(comments) == ph.Opts.CommentPageSize {
		c := EncodeCursor(comments[len(comments)-1].Created)
		resp.NextCursor = &c
	}
	w.Header().Set("Content-Type", "application/json")
	WriteRespJSON(w, resp)
}

func (ph *PostHandler) Add(w http.ResponseWriter, r *http.Request) {
	author, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		WriteErr(w, CodeUnauthorized, "not authorized", http.StatusUnauthorized)
		return
	}

	req := new(CreateRequest)
	if err := ParseReqBody(r.Body, req); err != nil {
		logger.Log(r.Context()).Infof("can't parse post from request body: %v", err)
		WriteErr(w, CodeInvalidRequest, "can't parse post", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		code := CodeInvalidRequest
		if errors.Is(err, geo.ErrInvalidCoordinate) {
			code = CodeInvalidLocation
		}
		WriteErr(w, code, err.Error(), http.StatusBadRequest)
		return
	}

	now := ph.now().UTC()
	expires := now.Add(ph.Opts.TTL)
	at := geo.Snap(geo.Point{Lat: req.Lat, Lng: req.Lng}, ph.Opts.GridMeters)
	p := &Post{
		Id:        PostId(uuid.NewString()),
		AuthorId:  author.Id,
		Type:      req.Type,
		Text:      req.Text,
		PhotoURL:  req.PhotoURL,
		LinkURL:   req.LinkURL,
		Lat:       at.Lat,
		Lng:       at.Lng,
		Created:   now,
		ExpiresAt: &expires,
	}

	if err := ph.PostRepo.Add(r.Context(), p, req.Poll); err != nil {
		if errors.Is(err, poll.ErrInvalidPoll) {
			WriteErr(w, CodeInvalidRequest, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Log(r.Context()).Errorf("can't add post to the repo: %v", err)
		WriteErr(w, CodeInternal, "failed adding post", http.StatusInternalServerError)
		return
	}

	if ph.Events != nil {
		ev := events.PostCreated{Id: string(p.Id), AuthorId: p.AuthorId, Type: string(p.Type), Lat: p.Lat, Lng: p.Lng, CreatedAt: p.Created}
		if err := ph.Events.PublishPostCreated(r.Context(), ev); err != nil {
			logger.Log(r.Context()).Warnf("can't publish post.created for %s: %v", p.Id, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	WriteRespJSON(w, p)
}

type voteRequest struct {
	Value *int `json:"value"`
}

type voteResponse struct {
	OK bool `json:"ok"`
	voting.Result
}

func (ph *PostHandler) Vote(w http.ResponseWriter, r *http.Request) {
	postId := mux.Vars(r)["post_id"]
	voter, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		WriteErr(w, CodeUnauthorized, "not authorized", http.StatusUnauthorized)
		return
	}

	req := new(voteRequest)
	if err := ParseReqBody(r.Body, req); err != nil || req.Value == nil {
		WriteErr(w, CodeInvalidVote, "value must be -1, 0 or 1", http.StatusBadRequest)
		return
	}
	score, err := voting.ParseScore(*req.Value)
	if err != nil {
		WriteErr(w, CodeInvalidVote, "value must be -1, 0 or 1", http.StatusBadRequest)
		return
	}

	res, err := ph.VoteRepo.Vote(r.Context(), postId, voter.Id, score)
	ph.writeVote(w, r, postId, res, err)
}

func (ph *PostHandler) Unvote(w http.ResponseWriter, r *http.Request) {
	postId := mux.Vars(r)["post_id"]
	voter, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		WriteErr(w, CodeUnauthorized, "not authorized", http.StatusUnauthorized)
		return
	}

	res, err := ph.VoteRepo.Unvote(r.Context(), postId, voter.Id)
	ph.writeVote(w, r, postId, res, err)
}

func (ph *PostHandler) writeVote(w http.ResponseWriter, r *http.Request, postId string, res voting.Result, err error) {
	switch {
	case errors.Is(err, voting.ErrPostNotFound):
		WriteErr(w, CodeNotFound, "post not found", http.StatusNotFound)
		return
	case errors.Is(err, voting.ErrInvalidValue):
		WriteErr(w, CodeInvalidVote, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		logger.Log(r.Context()).Errorf("can't vote on %s: %v", postId, err)
		WriteErr(w, CodeInternal, "failed voting", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	WriteRespJSON(w, voteResponse{OK: true, Result: res})
}

func (ph *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	postId := mux.Vars(r)["post_id"]
	commenter, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		WriteErr(w, CodeUnauthorized, "not authorized", http.StatusUnauthorized)
		return
	}

	req := struct {
		Text string `json:"text"`
	}{}
	if err := ParseReqBody(r.Body, &req); err != nil {
		WriteErr(w, CodeInvalidRequest, "can't parse comment", http.StatusBadRequest)
		return
	}

	c, err := ph.CommentRepo.Add(r.Context(), postId, commenter.Id, req.Text)
	switch {
	case errors.Is(err, comment.ErrInvalidText):
		WriteErr(w, CodeInvalidRequest, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, comment.ErrPostNotFound):
		WriteErr(w, CodeNotFound, "post not found", http.StatusNotFound)
		return
	case err != nil:
		logger.Log(r.Context()).Errorf("can't add comment to %s: %v", postId, err)
		WriteErr(w, CodeInternal, "failed adding comment", http.StatusInternalServerError)
		return
	}
	c.Nickname = commenter.Nickname

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	WriteRespJSON(w, c)
}
