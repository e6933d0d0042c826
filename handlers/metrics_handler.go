package handlers

import (
	"net/http"

	"github.com/bidround/auction-system/metrics"
	"github.com/bidround/auction-system/middleware"
	"github.com/bidround/auction-system/models"
	"github.com/bidround/auction-system/services"
)

type MetricsHandler struct {
	tracker *metrics.Tracker
}

func NewMetricsHandler(tracker *metrics.Tracker) *MetricsHandler {
	return &MetricsHandler{tracker: tracker}
}

func (h *MetricsHandler) requireAdmin(r *http.Request) error {
	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil || role != models.UserRoleAdmin {
		return services.ErrAdminOnly
	}
	return nil
}

func (h *MetricsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if err := h.requireAdmin(r); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, h.tracker.Snapshot(), nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MetricsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.requireAdmin(r); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.tracker.Reset()
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "metrics reset"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
