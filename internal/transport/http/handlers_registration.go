package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"waangu/internal/registration/models"
	"waangu/internal/registration/service"
	id "waangu/pkg/domain"
	dErrors "waangu/pkg/domain-errors"
	"waangu/pkg/platform/httputil"
)

func (h *Handler) handleCreateRegistration(w http.ResponseWriter, r *http.Request) {
	var dto service.CreateRegistrationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	reg, msg, err := h.service.Create(r.Context(), dto)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":      msg,
		"registration": reg,
	})
}

func (h *Handler) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	regs, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if regs == nil {
		regs = []*models.Registration{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"registrations": regs})
}

func (h *Handler) handleGetRegistration(w http.ResponseWriter, r *http.Request) {
	regID, err := id.ParseRegistrationID(chi.URLParam(r, "registrationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	reg, err := h.service.Get(r.Context(), regID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reg)
}

func (h *Handler) handleUpdateRegistration(w http.ResponseWriter, r *http.Request) {
	regID, err := id.ParseRegistrationID(chi.URLParam(r, "registrationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var dto service.UpdateRegistrationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	reg, err := h.service.Update(r.Context(), regID, dto)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reg)
}

func (h *Handler) handleDeleteRegistration(w http.ResponseWriter, r *http.Request) {
	regID, err := id.ParseRegistrationID(chi.URLParam(r, "registrationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), regID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleValidateScan(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Token == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "token is required"))
		return
	}

	result, err := h.service.ValidateScanToken(r.Context(), body.Token)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func parseListFilter(r *http.Request) (models.ListFilter, error) {
	var filter models.ListFilter
	q := r.URL.Query()

	if raw := q.Get("eventId"); raw != "" {
		eventID, err := id.ParseEventID(raw)
		if err != nil {
			return filter, err
		}
		filter.EventID = &eventID
	}
	if raw := q.Get("status"); raw != "" {
		status := models.Status(raw)
		if !status.Valid() {
			return filter, dErrors.New(dErrors.CodeValidation, "invalid status filter: "+raw)
		}
		filter.Status = &status
	}
	if raw := q.Get("paymentStatus"); raw != "" {
		paymentStatus := models.PaymentStatus(raw)
		if !paymentStatus.Valid() {
			return filter, dErrors.New(dErrors.CodeValidation, "invalid payment status filter: "+raw)
		}
		filter.PaymentStatus = &paymentStatus
	}
	return filter, nil
}
