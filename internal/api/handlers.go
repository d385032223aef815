package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/thinkai/waitlist/internal/landing"
	"github.com/thinkai/waitlist/internal/models"
)

// StateResponse is the page state together with the labels the page shows.
type StateResponse struct {
	models.PageState
	FormDisabled bool   `json:"formDisabled"`
	SubmitLabel  string `json:"submitLabel"`
	LockLabel    string `json:"lockLabel"`
	VideoLabel   string `json:"videoLabel"`
}

func newStateResponse(s models.PageState) StateResponse {
	return StateResponse{
		PageState:    s,
		FormDisabled: s.FormDisabled(),
		SubmitLabel:  s.SubmitLabel(),
		LockLabel:    s.LockLabel(),
		VideoLabel:   s.VideoLabel(),
	}
}

// GetState returns the visitor's state. A pending alert is delivered once.
func (api *Api) GetState(w http.ResponseWriter, r *http.Request) {
	c := visitor(r).Controller
	alert := c.TakeAlert()
	state := c.Snapshot()
	state.Alert = alert
	writeJSON(w, http.StatusOK, newStateResponse(state))
}

func (api *Api) PutEmail(w http.ResponseWriter, r *http.Request) {
	var req models.Signup
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	c := visitor(r).Controller
	if err := c.SetEmail(req.Email); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(c.Snapshot()))
}

// Submit starts a signup and answers 202 with the task, which is usually
// still pending. Poll GetSubmission for the outcome.
func (api *Api) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.Signup
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	v := visitor(r)
	task, err := v.Controller.Submit(r.Context(), req.Email)
	switch {
	case errors.Is(err, landing.ErrInvalidEmail):
		writeError(w, http.StatusUnprocessableEntity, "invalid email address")
		return
	case errors.Is(err, landing.ErrSubmitInFlight), errors.Is(err, landing.ErrFormDisabled), errors.Is(err, landing.ErrClosed):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		api.log.Error("submit", zap.String("visitor", v.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusAccepted, task.Status())
}

// GetSubmission reports the visitor's most recent submission.
func (api *Api) GetSubmission(w http.ResponseWriter, r *http.Request) {
	task := visitor(r).Controller.Task()
	if task == nil {
		writeError(w, http.StatusNotFound, "no submission")
		return
	}
	writeJSON(w, http.StatusOK, task.Status())
}

func (api *Api) ToggleLock(w http.ResponseWriter, r *http.Request) {
	c := visitor(r).Controller
	c.ToggleLock()
	writeJSON(w, http.StatusOK, newStateResponse(c.Snapshot()))
}

func (api *Api) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	c := visitor(r).Controller
	c.ToggleVideo()
	writeJSON(w, http.StatusOK, newStateResponse(c.Snapshot()))
}
