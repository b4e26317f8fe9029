package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bsumme/odds-price-alert/internal/handlers"
	"github.com/bsumme/odds-price-alert/internal/stream"
	"github.com/bsumme/odds-price-alert/pkg/models"
	"github.com/gorilla/websocket"
)

func newStreamServer(t *testing.T) (*stream.Hub, *httptest.Server) {
	t.Helper()

	hub := stream.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	handler := handlers.NewStreamHandler(hub, ctx)
	server := httptest.NewServer(http.HandlerFunc(handler.HandleWebSocket))
	t.Cleanup(server.Close)

	return hub, server
}

func dialStream(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	return conn
}

func waitForClients(t *testing.T, hub *stream.Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.GetClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", hub.GetClientCount(), want)
}

func TestWebSocketConnectionLifecycle(t *testing.T) {
	hub, server := newStreamServer(t)

	conn := dialStream(t, server)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestWebSocketHeartbeat(t *testing.T) {
	hub, server := newStreamServer(t)

	conn := dialStream(t, server)
	defer conn.Close()
	waitForClients(t, hub, 1)

	msg := stream.ClientMessage{Type: stream.MessageTypeHeartbeat}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("sending heartbeat: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var response stream.ServerMessage
	if err := conn.ReadJSON(&response); err != nil {
		t.Fatalf("reading heartbeat response: %v", err)
	}
	if response.Type != stream.MessageTypeHeartbeat {
		t.Errorf("response type = %q, want heartbeat", response.Type)
	}
	if response.Payload == nil {
		t.Error("heartbeat response has no stats payload")
	}
}

func TestWebSocketReceivesBroadcast(t *testing.T) {
	hub, server := newStreamServer(t)

	conn := dialStream(t, server)
	defer conn.Close()
	waitForClients(t, hub, 1)

	hub.Broadcast(models.ValuePlay{
		SportKey:    "basketball_nba",
		EventID:     "ev1",
		Matchup:     "Lakers @ Celtics",
		MarketKey:   "h2h",
		OutcomeName: "Boston Celtics",
		BookKey:     "draftkings",
		BookPrice:   -105,
		EVPercent:   2.5,
	})

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var response stream.ServerMessage
	if err := conn.ReadJSON(&response); err != nil {
		t.Fatalf("reading broadcast: %v", err)
	}
	if response.Type != stream.MessageTypePlayAlert {
		t.Errorf("response type = %q, want play_alert", response.Type)
	}

	payload, ok := response.Payload.(map[string]interface{})
	if !ok {
		t.Fatalf("payload type = %T", response.Payload)
	}
	if payload["event_id"] != "ev1" {
		t.Errorf("payload event_id = %v, want ev1", payload["event_id"])
	}
}

func TestWebSocketSubscribeFiltersBroadcasts(t *testing.T) {
	hub, server := newStreamServer(t)

	conn := dialStream(t, server)
	defer conn.Close()
	waitForClients(t, hub, 1)

	subscribe := stream.ClientMessage{
		Type: stream.MessageTypeSubscribe,
		Payload: map[string]interface{}{
			"sports": []string{"basketball_nba"},
		},
	}
	if err := conn.WriteJSON(subscribe); err != nil {
		t.Fatalf("sending subscribe: %v", err)
	}

	// The read pump handles messages in order, so a heartbeat response
	// proves the subscription is applied before anything is broadcast.
	if err := conn.WriteJSON(stream.ClientMessage{Type: stream.MessageTypeHeartbeat}); err != nil {
		t.Fatalf("sending heartbeat: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var heartbeat stream.ServerMessage
	if err := conn.ReadJSON(&heartbeat); err != nil {
		t.Fatalf("reading heartbeat response: %v", err)
	}

	hub.Broadcast(models.ValuePlay{SportKey: "icehockey_nhl", EventID: "filtered"})
	hub.Broadcast(models.ValuePlay{SportKey: "basketball_nba", EventID: "delivered"})

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var response stream.ServerMessage
	if err := conn.ReadJSON(&response); err != nil {
		t.Fatalf("reading broadcast: %v", err)
	}

	payload, ok := response.Payload.(map[string]interface{})
	if !ok {
		t.Fatalf("payload type = %T", response.Payload)
	}
	if payload["event_id"] != "delivered" {
		t.Errorf("payload event_id = %v, the hockey play should have been filtered", payload["event_id"])
	}
}

func TestHandleStreamMetrics(t *testing.T) {
	hub, server := newStreamServer(t)

	conn := dialStream(t, server)
	defer conn.Close()
	waitForClients(t, hub, 1)

	handler := handlers.NewStreamHandler(hub, context.Background())
	rec := getRequest(t, handler.HandleStreamMetrics)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	for _, field := range []string{"active_clients", "total_connections", "total_alerts"} {
		if !strings.Contains(rec.Body.String(), field) {
			t.Errorf("metrics response is missing %q", field)
		}
	}
}
