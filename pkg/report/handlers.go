package report

import (
	"context"
	"errors"
	"net/http"

	. "spotted/pkg/common"
	"spotted/pkg/logger"
	"spotted/pkg/sessions"
)

type (
	IReportRepo interface {
		Add(ctx context.Context, postId, userId, reason string) (Outcome, error)
	}

	IHiddenPublisher interface {
		PublishPostHidden(ctx context.Context, postId string) error
	}
)

type ReportHandler struct {
	ReportRepo IReportRepo
	Events     IHiddenPublisher
}

func NewReportHandler(repo IReportRepo, ev IHiddenPublisher) *ReportHandler {
	return &ReportHandler{
		ReportRepo: repo,
		Events:     ev,
	}
}

type reportRequest struct {
	PostId string `json:"postId"`
	Reason string `json:"reason"`
}

type reportResponse struct {
	OK bool `json:"ok"`
	Outcome
}

// Add serves POST /reports. Reporting the same post twice is a silent no-op.
func (rh *ReportHandler) Add(w http.ResponseWriter, r *http.Request) {
	reporter, err := sessions.GetAuthUser(r.Context())
	if err != nil {
		WriteErr(w, CodeUnauthorized, "not authorized", http.StatusUnauthorized)
		return
	}

	req := new(reportRequest)
	if err := ParseReqBody(r.Body, req); err != nil || req.PostId == "" {
		WriteErr(w, CodeInvalidRequest, "postId and reason are required", http.StatusBadRequest)
		return
	}

	out, err := rh.ReportRepo.Add(r.Context(), req.PostId, reporter.Id, req.Reason)
	switch {
	case errors.Is(err, ErrInvalidReason):
		WriteErr(w, CodeInvalidRequest, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, ErrPostNotFound):
		WriteErr(w, CodeNotFound, "post not found", http.StatusNotFound)
		return
	case err != nil:
		logger.Log(r.Context()).Errorf("can't report post %s: %v", req.PostId, err)
		WriteErr(w, CodeInternal, "failed reporting post", http.StatusInternalServerError)
		return
	}

	if out.Hidden {
		logger.Log(r.Context()).Infof("post %s hidden by reports", req.PostId)
		if rh.Events != nil {
			if err := rh.Events.PublishPostHidden(r.Context(), req.PostId); err != nil {
				logger.Log(r.Context()).Warnf("can't publish post.hidden for %s: %v", req.PostId, err)
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	WriteRespJSON(w, reportResponse{OK: true, Outcome: out})
}
