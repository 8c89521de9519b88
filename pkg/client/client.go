// Package client talks to the Spotted HTTP API. It is the transport under
// feedstate.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"spotted/pkg/ad"
	"spotted/pkg/comment"
	"spotted/pkg/logger"
	"spotted/pkg/post"
	"spotted/pkg/report"
	"spotted/pkg/voting"
)

// APIError is a non-2xx reply decoded from the server's {code, message} body.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("client: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("client: %d %s: %s", e.Status, e.Code, e.Message)
}

// IsNotFound reports whether the server answered 404 for the resource.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type Client struct {
	baseURL string
	hc      *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      hc,
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: marshalling %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("client: building %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		logger.Log(ctx).Debugf("%s %s failed: %v", method, path, apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decoding %s %s: %w", method, path, err)
	}
	return nil
}

type Session struct {
	AccessToken   string `json:"accessToken"`
	UserId        string `json:"userId"`
	NeedsNickname bool   `json:"needsNickname"`
}

func (c *Client) RequestOTP(ctx context.Context, phone string) (string, error) {
	var resp struct {
		RequestId string `json:"requestId"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/otp/request", nil, map[string]string{"phoneE164": phone}, &resp)
	return resp.RequestId, err
}

// VerifyOTP exchanges the code for a session and keeps its token for the
// following calls.
func (c *Client) VerifyOTP(ctx context.Context, requestId, code, deviceId string) (*Session, error) {
	s := new(Session)
	in := map[string]string{"requestId": requestId, "code": code, "deviceId": deviceId}
	if err := c.do(ctx, http.MethodPost, "/auth/otp/verify", nil, in, s); err != nil {
		return nil, err
	}
	c.SetToken(s.AccessToken)
	return s, nil
}

func (c *Client) UpdateNickname(ctx context.Context, nickname string) error {
	return c.do(ctx, http.MethodPost, "/profile", nil, map[string]string{"nickname": nickname}, nil)
}

type FeedParams struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
	Cursor   string
}

func (c *Client) Feed(ctx context.Context, p FeedParams) (*post.FeedResponse, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(p.Lng, 'f', -1, 64))
	q.Set("radius_km", strconv.FormatFloat(p.RadiusKm, 'f', -1, 64))
	if p.Cursor != "" {
		q.Set("cursor", p.Cursor)
	}
	resp := new(post.FeedResponse)
	if err := c.do(ctx, http.MethodGet, "/feed", q, nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Post(ctx context.Context, postId, cursor string) (*post.DetailResponse, error) {
	var q url.Values
	if cursor != "" {
		q = url.Values{"cursor": {cursor}}
	}
	resp := new(post.DetailResponse)
	if err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(postId), q, nil, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) CreatePost(ctx context.Context, req post.CreateRequest) (*post.Post, error) {
	p := new(post.Post)
	if err := c.do(ctx, http.MethodPost, "/posts", nil, req, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Vote sets the caller's vote. Zero clears it.
func (c *Client) Vote(ctx context.Context, postId string, score voting.VotingScore) (voting.Result, error) {
	if score == voting.ScoreDiscard {
		return c.Unvote(ctx, postId)
	}
	var res voting.Result
	err := c.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(postId)+"/vote", nil, map[string]int{"value": int(score)}, &res)
	return res, err
}

func (c *Client) Unvote(ctx context.Context, postId string) (voting.Result, error) {
	var res voting.Result
	err := c.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(postId)+"/vote", nil, nil, &res)
	return res, err
}

func (c *Client) AddComment(ctx context.Context, postId, text string) (*comment.Comment, error) {
	cm := new(comment.Comment)
	err := c.do(ctx, http.MethodPost, "/posts/"+url.PathEscape(postId)+"/comments", nil, map[string]string{"text": text}, cm)
	if err != nil {
		return nil, err
	}
	return cm, nil
}

func (c *Client) Report(ctx context.Context, postId, reason string) (report.Outcome, error) {
	var out report.Outcome
	err := c.do(ctx, http.MethodPost, "/reports", nil, map[string]string{"postId": postId, "reason": reason}, &out)
	return out, err
}

func (c *Client) VotePoll(ctx context.Context, pollId, optionId string) error {
	return c.do(ctx, http.MethodPost, "/polls/"+url.PathEscape(pollId)+"/vote", nil, map[string]string{"optionId": optionId}, nil)
}

func (c *Client) NextAd(ctx context.Context, city string) (*ad.Ad, error) {
	var q url.Values
	if city != "" {
		q = url.Values{"city": {city}}
	}
	var a *ad.Ad
	if err := c.do(ctx, http.MethodGet, "/ads/next", q, nil, &a); err != nil {
		return nil, err
	}
	return a, nil
}
