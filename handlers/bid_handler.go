package handlers

import (
	"errors"
	"net/http"

	"github.com/bidround/auction-system/middleware"
	"github.com/bidround/auction-system/services"
)

type BidHandler struct {
	bidService services.BidService
}

func NewBidHandler(bidService services.BidService) *BidHandler {
	return &BidHandler{bidService: bidService}
}

// ListCurrent returns the bids of the auction's current open round.
func (h *BidHandler) ListCurrent(w http.ResponseWriter, r *http.Request) {
	auctionID, err := urlParam(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	roundBids, err := h.bidService.CurrentRoundBids(r.Context(), auctionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, roundBids, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BidHandler) Place(w http.ResponseWriter, r *http.Request) {
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

	var input services.PlaceBidInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bid, err := h.bidService.PlaceBid(r.Context(), auctionID, userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bid": bid}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BidHandler) OpenRound(w http.ResponseWriter, r *http.Request) {
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

	var input services.OpenRoundInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.PlayerID == "" {
		badRequestResponse(w, r, errors.New("player_id is required"))
		return
	}

	round, err := h.bidService.OpenRound(r.Context(), auctionID, userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"round": round}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BidHandler) CloseRound(w http.ResponseWriter, r *http.Request) {
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
	roundID, err := urlParam(r, "roundID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.bidService.CloseRound(r.Context(), auctionID, roundID, userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "round closed"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
