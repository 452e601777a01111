package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/cashlane/advance-service/internal/risk"
	"github.com/cashlane/advance-service/internal/service"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type decisionRequest struct {
	UserID               string `json:"user_id"`
	AmountRequestedCents int64  `json:"amount_requested_cents"`
}

// CreateDecision handles an advance request
func (h *Handler) CreateDecision(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.AmountRequestedCents <= 0 {
		writeError(w, http.StatusBadRequest, "amount_requested_cents must be positive")
		return
	}

	decision, err := h.svc.RequestAdvance(req.UserID, req.AmountRequestedCents)
	if err != nil {
		var vErr *risk.ValidationError
		if errors.As(err, &vErr) {
			h.log.WithField("request_id", requestID).Warnf("Ledger validation failed: %v", vErr)
			writeError(w, http.StatusUnprocessableEntity, vErr.Error())
			return
		}
		h.log.WithField("request_id", requestID).Errorf("Decision failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("X-Request-ID", requestID)
	writeJSON(w, http.StatusOK, decision)
}

// DecisionHistory returns a user's past decisions
func (h *Handler) DecisionHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	decisions, err := h.svc.DecisionHistory(userID)
	if err != nil {
		h.log.Errorf("Decision history failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"decisions": decisions})
}

// GetPlan returns a plan with its installments
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	planID := mux.Vars(r)["id"]

	plan, err := h.svc.GetPlan(planID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, http.StatusNotFound, "plan not found")
			return
		}
		h.log.Errorf("Plan fetch failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// ImportStatement ingests an OFX statement body for a user
func (h *Handler) ImportStatement(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		writeError(w, http.StatusBadRequest, "statement body is required")
		return
	}

	count, err := h.svc.ImportStatement(userID, body)
	if err != nil {
		h.log.Warnf("Statement import failed: %v", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"imported": count})
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
