package handlers

import (
	"log/slog"
	"net/http"

	"github.com/bidround/auction-system/live"
	"github.com/bidround/auction-system/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict Origin to the frontend's domains before exposing
		// this publicly.
		return true
	},
}

type WebSocketHandler struct {
	hub            *live.Hub
	auctionService services.AuctionService
	logger         *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, auctionService services.AuctionService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		auctionService: auctionService,
		logger:         logger,
	}
}

// ServeWs upgrades the connection and joins the client to the auction's room.
// Clients connect to /ws/auctions/{auctionID}.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	auctionID := chi.URLParam(r, "auctionID")
	if auctionID == "" {
		http.Error(w, "missing auctionID", http.StatusBadRequest)
		return
	}

	if _, err := h.auctionService.GetAuctionByID(r.Context(), auctionID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Warn("failed to upgrade websocket connection",
			slog.String("auction_id", auctionID), slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, auctionID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
