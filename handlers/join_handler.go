package handlers

import (
	"net/http"

	"github.com/bidround/auction-system/middleware"
	"github.com/bidround/auction-system/services"
)

type JoinHandler struct {
	permissionService services.PermissionService
}

func NewJoinHandler(permissionService services.PermissionService) *JoinHandler {
	return &JoinHandler{permissionService: permissionService}
}

// Permissions returns the caller's capability set for the auction.
func (h *JoinHandler) Permissions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	auctionID, err := urlParam(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	permissions, err := h.permissionService.Resolve(r.Context(), auctionID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"permissions": permissions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *JoinHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	auctionID, err := urlParam(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.JoinAuctionInput
	if r.ContentLength > 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	member, err := h.permissionService.Join(r.Context(), auctionID, userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"member": member}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
