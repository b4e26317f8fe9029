package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bsumme/odds-price-alert/internal/stream"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Restrict in production
		return true
	},
}

// StreamHandler serves the WebSocket alert feed
type StreamHandler struct {
	hub *stream.Hub
	ctx context.Context
}

// NewStreamHandler creates a stream handler. The context bounds client pump
// lifetimes, so pass the server's run context rather than a request context.
func NewStreamHandler(hub *stream.Hub, ctx context.Context) *StreamHandler {
	return &StreamHandler{
		hub: hub,
		ctx: ctx,
	}
}

// HandleWebSocket upgrades HTTP connections to WebSocket
func (h *StreamHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		fmt.Printf("⚠️  WebSocket upgrade error: %v\n", err)
		return
	}

	clientID := uuid.New().String()
	c := stream.NewClient(clientID, conn, h.hub)

	h.hub.Register(c)

	// Pumps run on the handler context, not the request context, so the
	// connection survives the upgrade request ending.
	go c.WritePump(h.ctx)
	go c.ReadPump(h.ctx)

	fmt.Printf("✓ WebSocket connection established: %s\n", clientID)
}

// HandleStreamMetrics returns hub metrics
func (h *StreamHandler) HandleStreamMetrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.hub.GetMetrics())
}
