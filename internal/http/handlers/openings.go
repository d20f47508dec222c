package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cseifert512/Drafted/internal/domain"
)

type submitOpeningRequest struct {
	Opening   domain.Opening           `json:"opening"`
	BaseImage string                   `json:"base_image"`
	Vector    domain.VectorDescription `json:"vector"`
}

type attemptView struct {
	Index       int                `json:"index"`
	FailedCheck string             `json:"failed_check"`
	Reason      string             `json:"reason"`
	Metrics     map[string]float64 `json:"metrics,omitempty"`
}

type statusResponse struct {
	JobID            string        `json:"job_id"`
	State            string        `json:"state"`
	FinalImage       string        `json:"final_image,omitempty"`
	Error            string        `json:"error,omitempty"`
	RejectedAttempts []attemptView `json:"rejected_attempts,omitempty"`
}

// SubmitOpening accepts an opening placement, validates geometry
// synchronously and returns a pollable job id. Actual generation happens in
// the background.
func (a *App) SubmitOpening(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "planID")

	var req submitOpeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	basePNG, err := base64.StdEncoding.DecodeString(req.BaseImage)
	if err != nil || len(basePNG) == 0 {
		a.error(w, http.StatusBadRequest, "base_image must be base64-encoded PNG data")
		return
	}
	if _, err := domain.ParseOpeningKind(string(req.Opening.Kind)); err != nil {
		a.error(w, http.StatusBadRequest, err.Error())
		return
	}

	jobID, err := a.Jobs.Submit(r.Context(), planID, req.Opening, basePNG, req.Vector)
	if err != nil {
		if errors.Is(err, domain.ErrGeometry) {
			a.error(w, http.StatusBadRequest, err.Error())
			return
		}
		a.Logger.Error().Err(err).Str("plan_id", planID).Msg("submit opening failed")
		a.error(w, http.StatusInternalServerError, "failed to submit opening edit")
		return
	}
	a.json(w, http.StatusAccepted, map[string]string{"job_id": jobID})
}

// OpeningStatus returns a consistent snapshot of one job. Rejected attempts
// are summarized without their images; those stay server-side diagnostics.
func (a *App) OpeningStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, err := a.Jobs.Status(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "unknown job id")
			return
		}
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("status read failed")
		a.error(w, http.StatusInternalServerError, "failed to read job status")
		return
	}

	resp := statusResponse{
		JobID: job.ID,
		State: string(job.State),
		Error: job.ErrorMessage,
	}
	if len(job.FinalPNG) > 0 {
		resp.FinalImage = base64.StdEncoding.EncodeToString(job.FinalPNG)
	}
	for _, att := range job.Attempts {
		if att.Verdict.Pass {
			continue
		}
		resp.RejectedAttempts = append(resp.RejectedAttempts, attemptView{
			Index:       att.Index,
			FailedCheck: att.Verdict.FailedCheck,
			Reason:      att.Verdict.Reason,
			Metrics:     att.Verdict.Metrics,
		})
	}
	a.json(w, http.StatusOK, resp)
}

// RemoveOpening deletes job bookkeeping for an opening. It performs no
// rollback or re-render of the plan image.
func (a *App) RemoveOpening(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "planID")
	openingID := chi.URLParam(r, "openingID")

	if err := a.Jobs.Remove(r.Context(), planID, openingID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "unknown opening")
			return
		}
		a.Logger.Error().Err(err).Str("plan_id", planID).Msg("remove opening failed")
		a.error(w, http.StatusInternalServerError, "failed to remove opening")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
