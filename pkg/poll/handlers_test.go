package poll

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gomock "github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"spotted/pkg/sessions"
	"spotted/pkg/user"
)

func newHandler(t *testing.T) (*PollHandler, *MockIPollRepo) {
	ctrl := gomock.NewController(t)
	repo := NewMockIPollRepo(ctrl)
	return NewPollHandler(repo), repo
}

func pollReq(method, body string, authed bool) *http.Request {
	req := httptest.NewRequest(method, "/polls/poll1", strings.NewReader(body))
	if authed {
		req = req.WithContext(sessions.WithAuthUser(req.Context(), &user.User{Id: "u1"}))
	}
	return mux.SetURLVars(req, map[string]string{"poll_id": "poll1"})
}

func TestGetHandler(t *testing.T) {
	t.Run("results for the viewer", func(t *testing.T) {
		h, repo := newHandler(t)
		repo.EXPECT().Get(gomock.Any(), "poll1", "u1").Return(&Poll{
			Id:           "poll1",
			Question:     "Tea or coffee?",
			Options:      []*Option{{Id: "o1", Text: "Tea", Votes: 3, VotePercent: 75}, {Id: "o2", Text: "Coffee", Votes: 1, VotePercent: 25}},
			UserOptionId: "o1",
		}, nil)

		w := httptest.NewRecorder()
		h.Get(w, pollReq("GET", "", true))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"votePercent":75`)
		assert.Contains(t, w.Body.String(), `"userOptionId":"o1"`)
	})

	t.Run("missing", func(t *testing.T) {
		h, repo := newHandler(t)
		repo.EXPECT().Get(gomock.Any(), "poll1", "").Return(nil, ErrNotFound)

		w := httptest.NewRecorder()
		h.Get(w, pollReq("GET", "", false))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestVoteHandler(t *testing.T) {
	vote := func(h *PollHandler, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h.Vote(w, pollReq("POST", body, true))
		return w
	}

	t.Run("votes", func(t *testing.T) {
		h, repo := newHandler(t)
		repo.EXPECT().Vote(gomock.Any(), "poll1", "o2", "u1").Return(nil)

		w := vote(h, `{"optionId": "o2"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok": true}`, w.Body.String())
	})

	t.Run("foreign option", func(t *testing.T) {
		h, repo := newHandler(t)
		repo.EXPECT().Vote(gomock.Any(), "poll1", "x", "u1").Return(ErrInvalidOption)

		w := vote(h, `{"optionId": "x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"invalid_option"`)
	})

	t.Run("missing poll", func(t *testing.T) {
		h, repo := newHandler(t)
		repo.EXPECT().Vote(gomock.Any(), "poll1", "o1", "u1").Return(ErrNotFound)

		w := vote(h, `{"optionId": "o1"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("repo failure", func(t *testing.T) {
		h, repo := newHandler(t)
		repo.EXPECT().Vote(gomock.Any(), "poll1", "o1", "u1").Return(fmt.Errorf("db down"))

		w := vote(h, `{"optionId": "o1"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("no option", func(t *testing.T) {
		h, _ := newHandler(t)
		w := vote(h, `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("needs a user", func(t *testing.T) {
		h, _ := newHandler(t)
		w := httptest.NewRecorder()
		h.Vote(w, pollReq("POST", `{"optionId": "o1"}`, false))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
