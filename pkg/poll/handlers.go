package poll

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	. "spotted/pkg/common"
	"spotted/pkg/logger"
	"spotted/pkg/sessions"
)

type IPollRepo interface {
	Get(ctx context.Context, pollId, viewerId string) (*Poll, error)
	Vote(ctx context.Context, pollId, optionId, userId string) error
}

type PollHandler struct {
	PollRepo IPollRepo
}

func NewPollHandler(repo IPollRepo) *PollHandler {
	return &PollHandler{
		PollRepo: repo,
	}
}

func (ph *PollHandler) Get(w http.ResponseWriter, r *http.Request) {
	pollId := mux.Vars(r)["poll_id"]
	viewerId := ""
	if u, err := sessions.GetAuthUser(r.Context()); err == nil {
		viewerId = u.Id
	}

	p, err := ph.PollRepo.Get(r.Context(), pollId, viewerId)
	if errors.Is(err, ErrNotFound) {
		WriteErr(w, CodeNotFound, "poll not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load poll %s: %v", pollId, err)
		WriteErr(w, CodeInternal, "failed loading poll", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	WriteRespJSON(w, p)
}

func (ph *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollId := mux.Vars(r)["poll_id"]

	voter, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		WriteErr(w, CodeUnauthorized, "not authorized", http.StatusUnauthorized)
		return
	}

	body := struct {
		OptionId string `json:"optionId"`
	}{}
	if err := ParseReqBody(r.Body, &body); err != nil || strings.TrimSpace(body.OptionId) == "" {
		WriteErr(w, CodeInvalidRequest, "optionId is required", http.StatusBadRequest)
		return
	}

	err = ph.PollRepo.Vote(r.Context(), pollId, body.OptionId, voter.Id)
	switch {
	case errors.Is(err, ErrInvalidOption):
		WriteErr(w, CodeInvalidOption, "option does not belong to the poll", http.StatusBadRequest)
		return
	case errors.Is(err, ErrNotFound):
		WriteErr(w, CodeNotFound, "poll not found", http.StatusNotFound)
		return
	case err != nil:
		logger.Log(r.Context()).Errorf("can't vote in poll %s: %v", pollId, err)
		WriteErr(w, CodeInternal, "poll voting failed", http.StatusInternalServerError)
		return
	}

	WriteOK(w)
}
