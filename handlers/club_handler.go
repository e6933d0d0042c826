package handlers

import (
	"net/http"

	"github.com/bidround/auction-system/middleware"
	"github.com/bidround/auction-system/services"
)

type ClubHandler struct {
	clubService services.ClubService
}

func NewClubHandler(clubService services.ClubService) *ClubHandler {
	return &ClubHandler{clubService: clubService}
}

func (h *ClubHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	clubID, err := urlParam(r, "clubID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	membership, err := h.clubService.JoinClub(r.Context(), clubID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"membership": membership}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
