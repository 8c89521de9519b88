package ad

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	. "spotted/pkg/common"
	"spotted/pkg/logger"
	"spotted/pkg/sessions"
)

type IAdRepo interface {
	NextActive(ctx context.Context, city string) (*Ad, error)
	List(ctx context.Context) ([]*Ad, error)
	Add(ctx context.Context, d Draft) (*Ad, error)
	Update(ctx context.Context, id string, p Patch) (*Ad, error)
}

type AdHandler struct {
	AdRepo      IAdRepo
	DefaultCity string
}

func NewAdHandler(repo IAdRepo, defaultCity string) *AdHandler {
	return &AdHandler{
		AdRepo:      repo,
		DefaultCity: defaultCity,
	}
}

// Next answers with the active ad of ?city= (or the default city), or null.
func (ah *AdHandler) Next(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		city = ah.DefaultCity
	}
	a, err := ah.AdRepo.NextActive(r.Context(), city)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't get next ad for %s: %v", city, err)
		WriteErr(w, CodeInternal, "failed loading ad", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	WriteRespJSON(w, a)
}

func (ah *AdHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, err := sessions.GetAuthUser(r.Context()); err != nil {
		WriteErr(w, CodeUnauthorized, "not authorized", http.StatusUnauthorized)
		return
	}
	ads, err := ah.AdRepo.List(r.Context())
	if err != nil {
		logger.Log(r.Context()).Errorf("can't list ads: %v", err)
		WriteErr(w, CodeInternal, "failed loading ads", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	WriteRespJSON(w, ads)
}

func (ah *AdHandler) Add(w http.ResponseWriter, r *http.Request) {
	if _, err := sessions.GetAuthUser(r.Context()); err != nil {
		WriteErr(w, CodeUnauthorized, "not authorized", http.StatusUnauthorized)
		return
	}
	d := Draft{}
	if err := ParseReqBody(r.Body, &d); err != nil {
		WriteErr(w, CodeInvalidRequest, "bad request format", http.StatusBadRequest)
		return
	}

	a, err := ah.AdRepo.Add(r.Context(), d)
	if errors.Is(err, ErrInvalid) {
		WriteErr(w, CodeInvalidRequest, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't add ad: %v", err)
		WriteErr(w, CodeInternal, "failed adding ad", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	WriteRespJSON(w, a)
}

func (ah *AdHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, err := sessions.GetAuthUser(r.Context()); err != nil {
		WriteErr(w, CodeUnauthorized, "not authorized", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["ad_id"]
	p := Patch{}
	if err := ParseReqBody(r.Body, &p); err != nil {
		WriteErr(w, CodeInvalidRequest, "bad request format", http.StatusBadRequest)
		return
	}

	a, err := ah.AdRepo.Update(r.Context(), id, p)
	if errors.Is(err, ErrNotFound) {
		WriteErr(w, CodeNotFound, "ad not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't update ad %s: %v", id, err)
		WriteErr(w, CodeInternal, "failed updating ad", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	WriteRespJSON(w, a)
}
