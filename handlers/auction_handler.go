package handlers

import (
	"net/http"
	"strconv"

	"github.com/bidround/auction-system/middleware"
	"github.com/bidround/auction-system/services"
)

type AuctionHandler struct {
	auctionService services.AuctionService
}

func NewAuctionHandler(auctionService services.AuctionService) *AuctionHandler {
	return &AuctionHandler{auctionService: auctionService}
}

func (h *AuctionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.CreateAuctionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	auction, err := h.auctionService.CreateAuction(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"auction": auction}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuctionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	auctionID, err := urlParam(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	auction, err := h.auctionService.GetAuctionByID(r.Context(), auctionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"auction": auction}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuctionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	auctions, err := h.auctionService.ListAuctions(r.Context(), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"auctions": auctions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuctionHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var input services.UpdateAuctionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	auction, err := h.auctionService.UpdateAuction(r.Context(), auctionID, input, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"auction": auction}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuctionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	auctionID, err := urlParam(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	doc, err := h.auctionService.GetState(r.Context(), auctionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, doc, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuctionHandler) ReplaceState(w http.ResponseWriter, r *http.Request) {
	auctionID, err := urlParam(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.ReplaceStateInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	doc, err := h.auctionService.ReplaceState(r.Context(), auctionID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, doc, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuctionHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	auctionID, err := urlParam(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SaleInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.auctionService.RecordSale(r.Context(), auctionID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, outcome, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuctionHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	auctionID, err := urlParam(r, "auctionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	results, err := h.auctionService.ListResults(r.Context(), auctionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"results": results}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
